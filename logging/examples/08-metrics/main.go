// Package main demonstrates pipeline metrics exposed for Prometheus.
//
// This example covers:
//   - Counting processed and delivered records
//   - Counting faults through the error handler
//   - Serving the private registry over HTTP
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"strings"

	"rivaas.dev/pipelog/logging"
	"rivaas.dev/pipelog/logging/processor"
	"rivaas.dev/pipelog/logging/transport"
	"rivaas.dev/pipelog/metrics"
)

func main() {
	recorder := metrics.MustNew(
		metrics.WithPrometheus(),
		metrics.WithServiceName("orders"),
	)
	defer recorder.Shutdown(context.Background())

	// A sink that is always down, to show fault counting.
	unreachable := logging.TransportFunc(func(context.Context, logging.Level, any) error {
		return errors.New("collector unreachable")
	})

	logger := logging.MustNew(
		logging.WithProcessors(processor.Timestamp(), recorder.Processor(), processor.JSON()),
		logging.WithTransports(
			recorder.Transport(transport.Writer(os.Stdout)),
			recorder.Transport(unreachable),
		),
		logging.WithErrorHandler(recorder.ErrorHandler(func(err error) {
			fmt.Fprintln(os.Stderr, "log fault:", err)
		})),
	)
	defer logger.Shutdown(context.Background())

	logger.Info("order created", "order_id", "A-1001")
	logger.Warn("payment retried", "order_id", "A-1001", "attempt", 2)

	handler, err := recorder.Handler()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	// Scrape in-process instead of starting a server.
	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	for line := range strings.Lines(string(body)) {
		if strings.HasPrefix(line, "pipelog_") {
			fmt.Print(line)
		}
	}
}
