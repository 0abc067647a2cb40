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

import "slices"

// WithLevel sets the minimum log level.
func WithLevel(level Level) Option {
	return func(l *Logger) {
		l.level = level
		l.levelName = ""
	}
}

// WithLevelName sets the minimum log level by name ("trace", "INFO", ...).
// An unknown name makes [New] fail with [ErrInvalidLevel].
func WithLevelName(name string) Option {
	return func(l *Logger) { l.levelName = name }
}

// WithDebugLevel enables debug logging.
func WithDebugLevel() Option {
	return WithLevel(LevelDebug)
}

// WithProcessors appends processors to the pipeline. They run in the order
// given, after any processors added by earlier options. Nil entries are ignored.
func WithProcessors(processors ...Processor) Option {
	return func(l *Logger) {
		for _, p := range processors {
			if p != nil {
				l.processors = append(l.processors, p)
			}
		}
	}
}

// WithTransports adds transports to the transport set. Nil entries are ignored.
func WithTransports(transports ...Transport) Option {
	return func(l *Logger) {
		for _, t := range transports {
			if t != nil {
				l.transports = append(l.transports, t)
			}
		}
	}
}

// WithEnabled sets the initial enabled state (default true).
func WithEnabled(enabled bool) Option {
	return func(l *Logger) { l.startEnabled = enabled }
}

// WithErrorHandler sets the side channel for faults raised by the named level
// methods, which have no error result. The default writes to stderr.
func WithErrorHandler(h ErrorHandler) Option {
	return func(l *Logger) { l.errorHandler = h }
}

// WithFields adds fields to every record, placed after the message.
// Arguments follow the same rules as [Record.Merge].
func WithFields(args ...any) Option {
	return func(l *Logger) { l.fields = slices.Concat(l.fields, args) }
}

// WithGlobalLogger registers this logger as the global slog default logger,
// so that slog.Info and friends run through the pipeline.
// By default, loggers are not registered globally to allow multiple logger
// instances to coexist in the same process.
//
// Example:
//
//	logger := logging.MustNew(
//	    logging.WithTransports(transport.Writer(os.Stdout)),
//	    logging.WithGlobalLogger(), // Register as global default
//	)
func WithGlobalLogger() Option {
	return func(l *Logger) {
		l.registerGlobal = true
	}
}
