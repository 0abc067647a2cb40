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
	"fmt"
	"log/slog"
	"time"

	"rivaas.dev/pipelog/logging"
)

// SlogTransport hands records to a [slog.Handler].
type SlogTransport struct {
	handler slog.Handler
	now     func() time.Time
}

// Slog converts each record into a [slog.Record]: the message and level map
// directly, the remaining fields become attributes and nested records become
// groups. Non-record values are used as the message.
func Slog(h slog.Handler) *SlogTransport {
	return &SlogTransport{handler: h, now: time.Now}
}

// Deliver implements [logging.Transport].
func (s *SlogTransport) Deliver(ctx context.Context, level logging.Level, v any) error {
	if s.handler == nil {
		return logging.ErrNilWriter
	}
	sl := level.Slog()
	if !s.handler.Enabled(ctx, sl) {
		return nil
	}

	rec, ok := v.(*logging.Record)
	if !ok {
		return s.handler.Handle(ctx, slog.NewRecord(s.now(), sl, messageOf(v), 0))
	}

	r := slog.NewRecord(s.now(), sl, rec.Message(), 0)
	r.AddAttrs(slogAttrs(rec, true)...)

	return s.handler.Handle(ctx, r)
}

// slogAttrs converts fields to attributes. At the top level the level and
// message fields are skipped since slog carries them itself.
func slogAttrs(rec *logging.Record, top bool) []slog.Attr {
	attrs := make([]slog.Attr, 0, rec.Len())
	for k, v := range rec.All() {
		if top && (k == logging.KeyLevel || k == logging.KeyMessage) {
			continue
		}
		if nested, ok := v.(*logging.Record); ok {
			attrs = append(attrs, slog.Attr{Key: k, Value: slog.GroupValue(slogAttrs(nested, false)...)})
			continue
		}
		attrs = append(attrs, slog.Any(k, v))
	}

	return attrs
}

// messageOf renders a non-record value as a message.
func messageOf(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
