// Package main demonstrates interoperability with other logging APIs.
//
// This example covers:
//   - Routing log/slog calls through the pipeline
//   - Delivering records to an existing slog handler
//   - Delivering records to zap
package main

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/zap"

	"rivaas.dev/pipelog/logging"
	"rivaas.dev/pipelog/logging/processor"
	"rivaas.dev/pipelog/logging/transport"
)

func main() {
	zl := zap.NewExample()
	defer func() { _ = zl.Sync() }()

	logger := logging.MustNew(
		logging.WithLevel(logging.LevelDebug),
		logging.WithProcessors(processor.Service("bridge-demo", "", "dev")),
		logging.WithTransports(
			transport.Slog(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})),
			transport.Zap(zl),
		),
		logging.WithGlobalLogger(),
	)
	defer logger.Shutdown(context.Background())

	// Native API
	logger.Info("native emission", "k", "v")

	// Existing slog call sites run through the same processors and transports
	slog.Debug("slog emission", slog.Group("req", slog.String("method", "GET"), slog.Int("status", 200)))
	slog.With("component", "worker").Warn("slog with attrs")
}
