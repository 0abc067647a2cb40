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

	"rivaas.dev/pipelog/logging"
)

// LevelFilter forwards deliveries at selected levels to another transport.
type LevelFilter struct {
	inner  logging.Transport
	levels map[logging.Level]struct{}
}

// ForLevels restricts inner to the given levels. Without levels every
// delivery is forwarded.
//
// Example:
//
//	errorsOnly := transport.ForLevels(fileTransport, logging.LevelError)
func ForLevels(inner logging.Transport, levels ...logging.Level) *LevelFilter {
	f := &LevelFilter{inner: inner}
	if len(levels) > 0 {
		f.levels = make(map[logging.Level]struct{}, len(levels))
		for _, l := range levels {
			f.levels[l] = struct{}{}
		}
	}

	return f
}

// Deliver implements [logging.Transport].
func (f *LevelFilter) Deliver(ctx context.Context, level logging.Level, v any) error {
	if f.levels != nil {
		if _, ok := f.levels[level]; !ok {
			return nil
		}
	}

	return f.inner.Deliver(ctx, level, v)
}

// Flush flushes the wrapped transport if it supports flushing.
func (f *LevelFilter) Flush() error {
	if fl, ok := f.inner.(logging.Flusher); ok {
		return fl.Flush()
	}

	return nil
}

// Close closes the wrapped transport if it supports closing.
func (f *LevelFilter) Close() error {
	if c, ok := f.inner.(logging.Closer); ok {
		return c.Close()
	}

	return nil
}
