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
	"sync"

	"rivaas.dev/pipelog/logging"
)

// bufferedDelivery holds a captured delivery for later replay.
type bufferedDelivery struct {
	ctx   context.Context
	level logging.Level
	value any
}

// Buffer wraps a transport to hold deliveries back during startup.
// While buffering, deliveries are stored instead of being forwarded; Flush
// replays them in order and switches to pass-through.
//
// This is useful for delaying startup logs until after a banner or other
// output is printed:
//
//	buf := transport.NewBuffer(transport.Writer(os.Stdout))
//	buf.Start()
//	// ... initialization that produces logs ...
//	printBanner()
//	buf.Flush()
type Buffer struct {
	inner logging.Transport

	// flushMu serializes replays; mu guards the fields below.
	flushMu   sync.Mutex
	mu        sync.Mutex
	buffering bool
	pending   []bufferedDelivery
}

// NewBuffer creates a Buffer around inner. It starts in pass-through mode.
func NewBuffer(inner logging.Transport) *Buffer {
	return &Buffer{
		inner:   inner,
		pending: make([]bufferedDelivery, 0, 32), // Pre-allocate for typical startup logs
	}
}

// Deliver implements [logging.Transport].
func (b *Buffer) Deliver(ctx context.Context, level logging.Level, v any) error {
	b.mu.Lock()
	if b.buffering {
		b.pending = append(b.pending, bufferedDelivery{ctx: ctx, level: level, value: v})
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	return b.inner.Deliver(ctx, level, v)
}

// Start enables buffering.
func (b *Buffer) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffering = true
}

// Flush replays all buffered deliveries to the wrapped transport, clears the
// buffer and disables buffering. Deliveries arriving during the replay are
// queued behind the older ones, so ordering is preserved. It stops at the
// first failing delivery and discards the rest.
func (b *Buffer) Flush() error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	for {
		b.mu.Lock()
		pending := b.pending
		if len(pending) == 0 {
			b.buffering = false
			b.mu.Unlock()
			return nil
		}
		b.pending = make([]bufferedDelivery, 0, 32)
		b.buffering = true
		b.mu.Unlock()

		for _, d := range pending {
			if err := b.inner.Deliver(d.ctx, d.level, d.value); err != nil {
				b.mu.Lock()
				b.pending = b.pending[:0]
				b.buffering = false
				b.mu.Unlock()
				return err
			}
		}
	}
}

// Close closes the wrapped transport if it supports closing.
func (b *Buffer) Close() error {
	if c, ok := b.inner.(logging.Closer); ok {
		return c.Close()
	}

	return nil
}

// IsBuffering returns whether deliveries are currently held back.
func (b *Buffer) IsBuffering() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buffering
}

// Len returns the number of held deliveries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.pending)
}
