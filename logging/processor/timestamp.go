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

package processor

import (
	"context"
	"time"

	"rivaas.dev/pipelog/logging"
)

// Timestamp defaults.
const (
	DefaultTimestampKey = "timestamp"

	// DefaultTimestampLayout renders UTC instants with millisecond precision,
	// e.g. 2024-03-01T12:00:00.000Z.
	DefaultTimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// TimestampOption configures [Timestamp].
type TimestampOption func(*timestamp)

// WithClock sets the time source. The default is [time.Now].
func WithClock(now func() time.Time) TimestampOption {
	return func(t *timestamp) {
		if now != nil {
			t.now = now
		}
	}
}

// WithKey sets the field name (default "timestamp").
func WithKey(key string) TimestampOption {
	return func(t *timestamp) { t.key = key }
}

// WithLayout sets the time layout. An empty layout stores the [time.Time] itself.
func WithLayout(layout string) TimestampOption {
	return func(t *timestamp) { t.layout = layout }
}

type timestamp struct {
	now    func() time.Time
	key    string
	layout string
}

// Timestamp adds the current time, in UTC, as the last field of the record.
// An existing field with the same key is moved to the end.
func Timestamp(opts ...TimestampOption) logging.Processor {
	t := &timestamp{
		now:    time.Now,
		key:    DefaultTimestampKey,
		layout: DefaultTimestampLayout,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *timestamp) Process(_ context.Context, _ logging.Level, v any) (logging.Result, error) {
	rec, ok := asRecord(v)
	if !ok {
		return logging.Continue(v), nil
	}

	now := t.now().UTC()
	rec.Delete(t.key)
	if t.layout == "" {
		rec.Set(t.key, now)
	} else {
		rec.Set(t.key, now.Format(t.layout))
	}

	return logging.Continue(rec), nil
}
