// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package transport

import (
	"context"
	"errors"
	"sync"
	"time"

	"rivaas.dev/pipelog/logging"
)

// DefaultBatchSize is used when [NewBatch] is given a non-positive size.
const DefaultBatchSize = 100

// Batch accumulates deliveries and forwards them to another transport in
// batches.
//
// Trade-offs:
//   - Latency: Adds delay before logs appear (up to flush interval)
//   - Memory: Buffers entries until flush
//   - Durability: Crash before flush loses buffered entries
//
// Typical configuration:
//   - Batch size: 100-1000 entries
//   - Flush interval: 1-5 seconds
//
// Thread-safe: Safe to use concurrently by multiple goroutines.
type Batch struct {
	inner     logging.Transport
	entries   []bufferedDelivery
	mu        sync.Mutex
	batchSize int
	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
	onError   func(error)
}

// BatchOption configures [NewBatch].
type BatchOption func(*Batch)

// WithFlushErrorHandler receives errors from flushes triggered by the ticker,
// which have no caller to return them to.
func WithFlushErrorHandler(fn func(error)) BatchOption {
	return func(b *Batch) { b.onError = fn }
}

// NewBatch creates a transport that batches deliveries for inner.
//
// Parameters:
//   - inner: transport receiving the batched deliveries
//   - batchSize: Maximum entries before automatic flush (typical: 100-1000)
//   - flushInterval: Maximum time between flushes (typical: 1-5 seconds, 0 = size only)
//
// Example:
//
//	batch := transport.NewBatch(transport.Writer(os.Stdout), 100, time.Second)
//	logger := logging.MustNew(logging.WithTransports(batch))
//	defer logger.Shutdown(context.Background()) // flushes and closes the batch
func NewBatch(inner logging.Transport, batchSize int, flushInterval time.Duration, opts ...BatchOption) *Batch {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	b := &Batch{
		inner:     inner,
		entries:   make([]bufferedDelivery, 0, batchSize),
		batchSize: batchSize,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	if flushInterval > 0 {
		b.ticker = time.NewTicker(flushInterval)
		go b.flusher()
	}

	return b
}

// Deliver implements [logging.Transport]. A full batch is flushed
// synchronously and its error returned.
func (b *Batch) Deliver(ctx context.Context, level logging.Level, v any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		return ErrClosed
	default:
	}

	b.entries = append(b.entries, bufferedDelivery{ctx: ctx, level: level, value: v})
	if len(b.entries) >= b.batchSize {
		return b.flushLocked()
	}

	return nil
}

// flusher runs in a goroutine and periodically flushes the batch.
func (b *Batch) flusher() {
	for {
		select {
		case <-b.ticker.C:
			if err := b.Flush(); err != nil && b.onError != nil {
				b.onError(err)
			}
		case <-b.done:
			return
		}
	}
}

// Flush forwards all batched entries to the wrapped transport.
func (b *Batch) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.flushLocked()
}

// flushLocked flushes entries (must be called with lock held).
// Every entry is attempted; errors are joined.
func (b *Batch) flushLocked() error {
	if len(b.entries) == 0 {
		return nil
	}

	var errs []error
	for _, e := range b.entries {
		if err := b.inner.Deliver(e.ctx, e.level, e.value); err != nil {
			errs = append(errs, err)
		}
	}
	clear(b.entries)
	b.entries = b.entries[:0]

	return errors.Join(errs...)
}

// Close stops the ticker, flushes any remaining entries and closes the
// wrapped transport if it supports closing. Deliveries after Close fail
// with [ErrClosed].
func (b *Batch) Close() error {
	var err error
	b.closeOnce.Do(func() {
		b.mu.Lock()
		close(b.done)
		if b.ticker != nil {
			b.ticker.Stop()
		}
		err = b.flushLocked()
		b.mu.Unlock()

		if c, ok := b.inner.(logging.Closer); ok {
			err = errors.Join(err, c.Close())
		}
	})

	return err
}

// Size returns the current number of batched entries.
func (b *Batch) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.entries)
}
