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

package logging

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel/trace"
)

// Semantic convention field names for trace correlation.
const (
	FieldTraceID = "trace_id"
	FieldSpanID  = "span_id"
)

type fieldsKey struct{}

// ContextWithFields returns a context carrying args in addition to the fields
// already attached to ctx. The context processor merges them into records.
func ContextWithFields(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}

	return context.WithValue(ctx, fieldsKey{}, slices.Concat(FieldsFromContext(ctx), args))
}

// FieldsFromContext returns the fields attached with [ContextWithFields].
func FieldsFromContext(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	args, _ := ctx.Value(fieldsKey{}).([]any)

	return args
}

// TraceFields returns trace_id and span_id of the active OpenTelemetry span in
// ctx, or nil when there is none.
func TraceFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}

	return []any{FieldTraceID, sc.TraceID().String(), FieldSpanID, sc.SpanID().String()}
}

// ContextLogger binds a [Logger] to a context, so processors and transports
// receive it on every emission.
//
// When the context carries an active OpenTelemetry span its trace and span IDs
// are added to every record.
//
// Thread-safe: Safe to use concurrently. Each instance is typically
// created per-request and used by a single goroutine.
type ContextLogger struct {
	logger  *Logger
	ctx     context.Context
	traceID string
	spanID  string
}

// NewContextLogger creates a context-aware logger.
func NewContextLogger(ctx context.Context, logger *Logger) *ContextLogger {
	if ctx == nil {
		ctx = bgCtx
	}
	cl := &ContextLogger{logger: logger, ctx: ctx}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		cl.traceID = sc.TraceID().String()
		cl.spanID = sc.SpanID().String()
		cl.logger = logger.With(FieldTraceID, cl.traceID, FieldSpanID, cl.spanID)
	}

	return cl
}

// WithContext is shorthand for [NewContextLogger](ctx, l).
func (l *Logger) WithContext(ctx context.Context) *ContextLogger {
	return NewContextLogger(ctx, l)
}

// Logger returns the underlying [Logger], including the trace fields.
func (cl *ContextLogger) Logger() *Logger {
	return cl.logger
}

// Context returns the bound context.
func (cl *ContextLogger) Context() context.Context {
	return cl.ctx
}

// TraceID returns the trace ID if available.
func (cl *ContextLogger) TraceID() string {
	return cl.traceID
}

// SpanID returns the span ID if available.
func (cl *ContextLogger) SpanID() string {
	return cl.spanID
}

// With returns a ContextLogger with additional fields.
func (cl *ContextLogger) With(args ...any) *ContextLogger {
	return &ContextLogger{
		logger:  cl.logger.With(args...),
		ctx:     cl.ctx,
		traceID: cl.traceID,
		spanID:  cl.spanID,
	}
}

// Log emits at level with the bound context.
func (cl *ContextLogger) Log(level Level, msg string, args ...any) error {
	return cl.logger.Log(cl.ctx, level, msg, args...)
}

// Trace logs a trace message with context.
func (cl *ContextLogger) Trace(msg string, args ...any) {
	cl.logger.report(cl.Log(LevelTrace, msg, args...))
}

// Debug logs a debug message with context.
func (cl *ContextLogger) Debug(msg string, args ...any) {
	cl.logger.report(cl.Log(LevelDebug, msg, args...))
}

// Info logs an info message with context.
func (cl *ContextLogger) Info(msg string, args ...any) {
	cl.logger.report(cl.Log(LevelInfo, msg, args...))
}

// Warn logs a warning message with context.
func (cl *ContextLogger) Warn(msg string, args ...any) {
	cl.logger.report(cl.Log(LevelWarn, msg, args...))
}

// Error logs an error message with context.
func (cl *ContextLogger) Error(msg string, args ...any) {
	cl.logger.report(cl.Log(LevelError, msg, args...))
}
