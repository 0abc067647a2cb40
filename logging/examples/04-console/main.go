// Package main demonstrates developer-friendly console output.
//
// This example covers:
//   - The colored console formatter
//   - Holding startup logs back until a banner is printed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/colorprofile"
	"github.com/common-nighthawk/go-figure"
	"golang.org/x/term"

	"rivaas.dev/pipelog/logging"
	"rivaas.dev/pipelog/logging/processor"
	"rivaas.dev/pipelog/logging/transport"
)

func main() {
	// The profile writer downsamples or strips ANSI sequences for the terminal in use.
	out := colorprofile.NewWriter(os.Stdout, os.Environ())
	colors := term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""

	buffer := transport.NewBuffer(transport.Writer(out))
	buffer.Start()

	logger := logging.MustNew(
		logging.WithDebugLevel(),
		logging.WithProcessors(
			processor.Timestamp(),
			processor.Console(processor.WithColors(colors)),
		),
		logging.WithTransports(buffer),
	)
	defer logger.Shutdown(context.Background())

	logger.Debug("loading configuration", "path", "config.yaml")
	logger.Info("database connected", "pool_size", 10, "latency", 3*time.Millisecond)

	fmt.Fprint(out, figure.NewFigure("inventory", "", false).String())
	fmt.Fprintln(out, "  inventory-service v1.4.0")
	fmt.Fprintln(out)

	// Startup logs appear after the banner
	if err := buffer.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	logger.Warn("cache disabled", "reason", "no redis configured")
	logger.Error("upstream unavailable", "service", "billing", "attempt", 3)
}
