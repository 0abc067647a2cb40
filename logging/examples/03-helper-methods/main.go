// Package main demonstrates the convenience methods.
//
// This example covers:
//   - LogRequest for HTTP access logs
//   - LogError for errors with context
//   - LogDuration for timing
//   - ErrorWithStack for critical failures
package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"rivaas.dev/pipelog/logging"
	"rivaas.dev/pipelog/logging/processor"
	"rivaas.dev/pipelog/logging/transport"
)

func main() {
	logger := logging.MustNew(
		logging.WithProcessors(processor.Errors(), processor.Timestamp(), processor.JSON()),
		logging.WithTransports(transport.Writer(os.Stdout)),
	)
	defer logger.Shutdown(context.Background())

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.WriteHeader(http.StatusOK)
		logger.LogRequest(r, "status", http.StatusOK, "duration_ms", time.Since(start).Milliseconds())
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users?page=2", nil))

	if err := loadUser(42); err != nil {
		logger.LogError(err, "failed to load user", "user_id", 42, "retry", false)
	}

	start := time.Now()
	time.Sleep(15 * time.Millisecond) // Simulate work
	logger.LogDuration("report generated", start, "rows", 1280)

	logger.ErrorWithStack("invariant violated", errors.New("negative balance"), true, "account", "acc-7")
}

func loadUser(id int) error {
	return errors.New("user not found")
}
