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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"
	"sync/atomic"
)

// Package-level cached context used by the context-free emission methods.
var bgCtx = context.Background()

// ErrorHandler receives faults raised while emitting through the methods that
// do not return an error ([Logger.Info] and friends).
type ErrorHandler func(err error)

// defaultErrorHandler reports faults on stderr. The engine never logs through itself.
func defaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "logging: %v\n", err)
}

// Logger is the logging engine: it gates emissions by the enabled flag and the
// minimum level, runs the processor pipeline and fans surviving records out to
// every transport.
//
// Configuration is fixed by [New]; only the enabled flag changes afterwards.
// Thread-safety: emission and Enable/Disable are safe for concurrent use as
// long as the configured processors and transports are.
type Logger struct {
	level      Level
	levelName  string
	processors []Processor
	transports []Transport
	fields     []any

	errorHandler   ErrorHandler
	startEnabled   bool
	registerGlobal bool

	// Shared with loggers derived through With.
	state *state
}

// state is the mutable part of a Logger.
type state struct {
	enabled      atomic.Bool
	shuttingDown atomic.Bool
	shutdownOnce sync.Once
}

// Option is a functional option for configuring the logger.
type Option func(*Logger)

// defaultLogger returns a Logger with default configuration.
func defaultLogger() *Logger {
	return &Logger{
		level:        LevelInfo,
		errorHandler: defaultErrorHandler,
		startEnabled: true,
		state:        &state{},
	}
}

// New creates a new Logger with the given options.
//
// Defaults: minimum level [LevelInfo], no processors, no transports, enabled.
// An unknown level is a configuration error and no Logger is returned.
//
// By default, this function does NOT set the global slog default logger.
// Use [WithGlobalLogger] to route log/slog calls through the new Logger.
func New(opts ...Option) (*Logger, error) {
	l := defaultLogger()

	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	if l.levelName != "" {
		level, err := ParseLevel(l.levelName)
		if err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		l.level = level
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	l.state.enabled.Store(l.startEnabled)

	if l.registerGlobal {
		slog.SetDefault(slog.New(l.Handler()))
	}

	return l, nil
}

// MustNew creates a new Logger or panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}

	return l
}

// Validate checks if the configuration is valid.
func (l *Logger) Validate() error {
	if !l.level.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, int(l.level))
	}

	if l.errorHandler == nil {
		return errors.New("error handler cannot be nil")
	}

	return nil
}

// Log emits a record at level. It is the single entry point behind the named
// level methods.
//
// Sequence:
//  1. disabled or shut down: return, nothing is built
//  2. level below the minimum: return, nothing is built
//  3. build {level, message, preset fields..., args...}
//  4. run the processors in order; a drop ends the emission
//  5. deliver the result to every transport
//
// The returned error is a [*ProcessorError] when a processor failed (the
// record was not delivered), or the joined [*TransportError] values of every
// failed transport. Suppressed records return nil.
func (l *Logger) Log(ctx context.Context, level Level, msg string, args ...any) error {
	if !l.IsEnabled() {
		return nil
	}
	if !level.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, int(level))
	}
	if level < l.level {
		return nil
	}
	if ctx == nil {
		ctx = bgCtx
	}

	rec := l.newRecord(level, msg, args)

	v, ok, err := runPipeline(ctx, l.processors, level, rec)
	if err != nil || !ok {
		return err
	}

	return dispatch(ctx, l.transports, level, v)
}

// newRecord builds the initial record. Neither preset fields nor call
// arguments may replace the level.
func (l *Logger) newRecord(level Level, msg string, args []any) *Record {
	rec := NewRecord(2 + (len(l.fields)+len(args))/2)
	rec.Set(KeyLevel, level.String())
	rec.Set(KeyMessage, msg)
	rec.merge(l.fields, true)
	rec.merge(args, true)

	return rec
}

// report hands a fault to the error handler.
func (l *Logger) report(err error) {
	if err != nil {
		l.errorHandler(err)
	}
}

// Trace logs a trace message with structured attributes.
func (l *Logger) Trace(msg string, args ...any) {
	l.report(l.Log(bgCtx, LevelTrace, msg, args...))
}

// Debug logs a debug message with structured attributes.
func (l *Logger) Debug(msg string, args ...any) {
	l.report(l.Log(bgCtx, LevelDebug, msg, args...))
}

// Info logs an informational message with structured attributes.
func (l *Logger) Info(msg string, args ...any) {
	l.report(l.Log(bgCtx, LevelInfo, msg, args...))
}

// Warn logs a warning message with structured attributes.
func (l *Logger) Warn(msg string, args ...any) {
	l.report(l.Log(bgCtx, LevelWarn, msg, args...))
}

// Error logs an error message with structured attributes.
func (l *Logger) Error(msg string, args ...any) {
	l.report(l.Log(bgCtx, LevelError, msg, args...))
}

// Enable turns emission on. Calling it on an enabled logger is a no-op.
// It has no effect after [Logger.Shutdown].
func (l *Logger) Enable() {
	l.state.enabled.Store(true)
}

// Disable turns emission off. Records already dispatched are unaffected.
func (l *Logger) Disable() {
	l.state.enabled.Store(false)
}

// IsEnabled returns true if logging is enabled and not shut down.
func (l *Logger) IsEnabled() bool {
	return l.state.enabled.Load() && !l.state.shuttingDown.Load()
}

// Enabled reports whether an emission at level would reach the pipeline.
func (l *Logger) Enabled(level Level) bool {
	return l.IsEnabled() && level.Valid() && level >= l.level
}

// Level returns the minimum level.
func (l *Logger) Level() Level {
	return l.level
}

// With returns a logger that adds args to every record, after the message and
// before the call arguments.
//
// The derived logger shares the pipeline, the transports and the enabled flag
// with l: disabling either disables both.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	child := *l
	child.fields = slices.Concat(l.fields, args)

	return &child
}

// Shutdown permanently stops emission, then flushes and closes every processor
// and transport that supports it. Later calls, on l or on any logger derived
// from it, return [ErrLoggerShutdown].
func (l *Logger) Shutdown(_ context.Context) error {
	errs := []error{ErrLoggerShutdown}
	l.state.shutdownOnce.Do(func() {
		errs = errs[:0]
		l.state.shuttingDown.Store(true)

		for i, p := range l.processors {
			if err := release(p); err != nil {
				errs = append(errs, &ProcessorError{Index: i, Err: err})
			}
		}
		for i, t := range l.transports {
			if err := release(t); err != nil {
				errs = append(errs, &TransportError{Index: i, Err: err})
			}
		}
	})

	return errors.Join(errs...)
}

// release flushes then closes v if it supports either.
func release(v any) error {
	var errs []error
	if f, ok := v.(Flusher); ok {
		errs = append(errs, f.Flush())
	}
	if c, ok := v.(Closer); ok {
		errs = append(errs, c.Close())
	}

	return errors.Join(errs...)
}

// DebugInfo returns diagnostic information about the logger.
func (l *Logger) DebugInfo() map[string]any {
	return map[string]any{
		"level":        l.level.String(),
		"enabled":      l.state.enabled.Load(),
		"is_shutdown":  l.state.shuttingDown.Load(),
		"processors":   len(l.processors),
		"transports":   len(l.transports),
		"fields":       len(l.fields) / 2,
		"is_global":    l.registerGlobal,
		"record_order": []string{KeyLevel, KeyMessage},
	}
}
