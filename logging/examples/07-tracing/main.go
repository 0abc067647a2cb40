// Package main demonstrates OpenTelemetry trace correlation.
//
// This example covers:
//   - trace_id/span_id on every record logged through a ContextLogger
//   - Records mirrored as span events
package main

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"rivaas.dev/pipelog/logging"
	"rivaas.dev/pipelog/logging/processor"
	"rivaas.dev/pipelog/logging/transport"
)

func main() {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		panic(err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	logger := logging.MustNew(
		logging.WithProcessors(processor.Context(), processor.Timestamp(), processor.JSON()),
		logging.WithTransports(transport.Writer(os.Stdout), transport.SpanEvents()),
	)
	defer logger.Shutdown(context.Background())

	ctx, span := tp.Tracer("example").Start(context.Background(), "checkout")
	ctx = logging.ContextWithFields(ctx, "cart_id", "c-991")

	log := logger.WithContext(ctx)
	log.Info("checkout started", "items", 3)
	log.Error("payment declined", "provider", "acme")

	span.End()
}
