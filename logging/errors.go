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
	"errors"
	"fmt"
)

// Sentinel errors, usable with [errors.Is].
//
// Usage pattern:
//
//	if err := logger.Log(ctx, level, "msg"); err != nil {
//	    var perr *logging.ProcessorError
//	    if errors.As(err, &perr) {
//	        // the record was dropped by a faulty processor
//	    }
//	}
var (
	// ErrInvalidLevel indicates a level outside the catalogue or an unknown level name.
	// Valid levels: LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError.
	ErrInvalidLevel = errors.New("invalid log level")

	// ErrLoggerShutdown indicates the logger has been shut down via [Logger.Shutdown].
	// Emissions after shutdown are silently dropped; this error is only returned
	// by a repeated Shutdown.
	ErrLoggerShutdown = errors.New("logger is shut down")

	// ErrProcessorPanic marks a processor that panicked while handling a record.
	ErrProcessorPanic = errors.New("processor panicked")

	// ErrTransportPanic marks a transport that panicked while delivering a record.
	ErrTransportPanic = errors.New("transport panicked")

	// ErrRecordSealed is the panic value raised when a sealed [Record] is modified.
	ErrRecordSealed = errors.New("record is sealed")

	// ErrNilWriter indicates a nil [io.Writer] was supplied.
	ErrNilWriter = errors.New("writer is nil")
)

// ProcessorError reports a processor fault. The record that triggered it was
// not delivered to any transport.
type ProcessorError struct {
	Index int   // Position of the processor in the pipeline
	Err   error // Underlying fault
}

func (e *ProcessorError) Error() string {
	return fmt.Sprintf("processor[%d]: %v", e.Index, e.Err)
}

func (e *ProcessorError) Unwrap() error {
	return e.Err
}

// TransportError reports a failed delivery to one transport. Other transports
// still received the record.
type TransportError struct {
	Index int   // Position of the transport in the transport set
	Err   error // Underlying fault
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport[%d]: %v", e.Index, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// recovered converts a recovered panic value into an error wrapping sentinel.
func recovered(sentinel error, r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", sentinel, err)
	}

	return fmt.Errorf("%w: %v", sentinel, r)
}
