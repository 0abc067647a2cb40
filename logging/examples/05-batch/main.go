// Package main demonstrates batched delivery for high-throughput logging.
//
// Entries are delivered to the wrapped transport in batches of 100, or every
// second, whichever comes first. Shutdown flushes what is left.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"rivaas.dev/pipelog/logging"
	"rivaas.dev/pipelog/logging/processor"
	"rivaas.dev/pipelog/logging/transport"
)

func main() {
	counter := &logging.CountingWriter{}
	batch := transport.NewBatch(transport.Writer(counter), 100, time.Second,
		transport.WithFlushErrorHandler(func(err error) {
			fmt.Fprintln(os.Stderr, "batch flush failed:", err)
		}),
	)

	logger := logging.MustNew(
		logging.WithProcessors(processor.Timestamp(), processor.JSON()),
		logging.WithTransports(batch),
	)

	for i := range 1050 {
		logger.Info("high frequency event", "id", i)
	}
	fmt.Println("pending in batch:", batch.Size())

	if err := logger.Shutdown(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	fmt.Println("pending after shutdown:", batch.Size())
	fmt.Println("bytes written:", counter.Count())
}
