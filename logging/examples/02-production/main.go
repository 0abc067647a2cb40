// Package main demonstrates a production-ready pipeline.
//
// This example covers:
//   - Service metadata (name, version, environment)
//   - Request-scoped context fields
//   - Redaction of sensitive fields
//   - Sampling to reduce log volume
//   - JSON to stdout plus a gzip-compressed file for errors only
//   - Configuration validation
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	pkgerrors "github.com/pkg/errors"

	"rivaas.dev/pipelog/logging"
	"rivaas.dev/pipelog/logging/processor"
	"rivaas.dev/pipelog/logging/transport"
)

func main() {
	demonstrateValidation()

	sampler, err := processor.Sample(processor.SamplingConfig{
		Initial:    5,  // Pass the first 5 records
		Thereafter: 50, // Then every 50th
		Tick:       time.Minute,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	errorFile, err := transport.File(filepath.Join(os.TempDir(), "payment-api", "errors.log.gz"), transport.WithGzip())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.MustNew(
		logging.WithProcessors(
			processor.Context(),
			processor.Errors(processor.WithStack(true)),
			processor.Service("payment-api", "v2.1.0", "production"),
			processor.Redact(),
			sampler,
			processor.RecordID(),
			processor.Timestamp(),
			processor.JSON(),
		),
		logging.WithTransports(
			transport.Writer(os.Stdout),
			transport.ForLevels(errorFile, logging.LevelError),
		),
	)
	// Shutdown stops the sampler ticker and finishes the gzip stream
	defer func() {
		if err := logger.Shutdown(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, "shutdown:", err)
		}
		fmt.Println("errors written to", errorFile.Path())
	}()

	logger.Info("service started", "port", 8080, "tls_enabled", true, "workers", 4)

	// Request-scoped fields travel in the context
	ctx := logging.ContextWithFields(context.Background(), "request_id", "req-12345")
	reqLogger := logger.WithContext(ctx)
	reqLogger.Info("request processed",
		"method", "POST",
		"path", "/api/v2/payments",
		"status_code", 201,
		"authorization", "Bearer secret-token", // redacted
	)

	reqLogger.Error("database query failed",
		pkgerrors.Wrap(pkgerrors.New("connection timeout"), "query pending transactions"),
		"timeout_seconds", 30,
		"database", "postgres-primary",
	)

	// Only a sample of these reaches the transports
	for i := range 200 {
		logger.Debug("cache lookup", "i", i)
		logger.Info("heartbeat", "i", i)
	}
}

func demonstrateValidation() {
	_, err := logging.New(logging.WithLevelName("verbose"))
	if err != nil {
		fmt.Println("validation caught invalid config:", err)
	}
}
