// Package main demonstrates the smallest useful pipeline.
//
// This example covers:
//   - Timestamp and JSON processors
//   - A writer transport on stdout
//   - Log levels and the minimum level
//   - Structured metadata and enable/disable
package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"rivaas.dev/pipelog/logging"
	"rivaas.dev/pipelog/logging/processor"
	"rivaas.dev/pipelog/logging/transport"
)

func main() {
	// Initialize level from environment (common pattern)
	level := logging.LevelInfo
	if strings.EqualFold(os.Getenv("LOG_DEBUG"), "true") {
		level = logging.LevelDebug
	}

	logger := logging.MustNew(
		logging.WithLevel(level),
		logging.WithProcessors(
			processor.Errors(),
			processor.Timestamp(),
			processor.JSON(),
		),
		logging.WithTransports(transport.Writer(os.Stdout)),
	)
	defer logger.Shutdown(context.Background())

	logger.Info("service starting", "version", "v1.0.0", "port", 8080)
	logger.Debug("debug info (hidden at INFO level)")
	logger.Warn("using default configuration", "config_path", "/etc/app/config.yaml")

	// Metadata is merged after level and message, in call order
	logger.Info("user login",
		"user_id", 12345,
		"mfa_enabled", true,
		logging.Fields{"login_method": "oauth2"},
	)

	// Errors are flattened into {"message": ...} and moved to the front
	logger.Error("payment processing failed", errors.New("insufficient funds"), "amount_cents", 2599)

	// Maintenance window: silence everything, then resume
	logger.Disable()
	logger.Error("never written")
	logger.Enable()
	logger.Info("logging resumed")
}
