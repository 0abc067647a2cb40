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
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/pipelog/logging"
)

// SpanEventsTransport records log records as events on the active span.
type SpanEventsTransport struct{}

// SpanEvents adds each record as an event on the OpenTelemetry span carried
// by the emission context, named after the message. Records at ERROR also set
// the span status to error. Without a recording span nothing happens.
//
// Use it with [logging.Logger.Log] or a [logging.ContextLogger]; the named
// level methods of Logger carry no span.
func SpanEvents() *SpanEventsTransport {
	return &SpanEventsTransport{}
}

// Deliver implements [logging.Transport].
func (SpanEventsTransport) Deliver(ctx context.Context, level logging.Level, v any) error {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return nil
	}

	name := messageOf(v)
	attrs := []attribute.KeyValue{attribute.String("log.severity", level.String())}
	if rec, ok := v.(*logging.Record); ok {
		name = rec.Message()
		for k, val := range rec.All() {
			if k == logging.KeyLevel || k == logging.KeyMessage {
				continue
			}
			attrs = append(attrs, spanAttribute(k, val))
		}
	}

	span.AddEvent(name, trace.WithAttributes(attrs...))
	if level >= logging.LevelError {
		span.SetStatus(codes.Error, name)
	}

	return nil
}

func spanAttribute(key string, v any) attribute.KeyValue {
	switch x := v.(type) {
	case string:
		return attribute.String(key, x)
	case bool:
		return attribute.Bool(key, x)
	case int:
		return attribute.Int(key, x)
	case int64:
		return attribute.Int64(key, x)
	case float64:
		return attribute.Float64(key, x)
	case []string:
		return attribute.StringSlice(key, x)
	case time.Duration:
		return attribute.String(key, x.String())
	case error:
		return attribute.String(key, x.Error())
	case fmt.Stringer:
		return attribute.String(key, x.String())
	case *logging.Record:
		if b, err := x.MarshalJSON(); err == nil {
			return attribute.String(key, string(b))
		}
	default:
		if b, err := json.Marshal(x); err == nil {
			return attribute.String(key, string(b))
		}
	}

	return attribute.String(key, fmt.Sprint(v))
}
