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
	"errors"

	pkgerrors "github.com/pkg/errors"

	"rivaas.dev/pipelog/logging"
)

// ErrorsOption configures [Errors].
type ErrorsOption func(*errorsProcessor)

// WithStack includes the stack recorded by github.com/pkg/errors under "stack".
// Errors without a recorded stack get none.
func WithStack(enabled bool) ErrorsOption {
	return func(p *errorsProcessor) { p.stack = enabled }
}

type errorsProcessor struct {
	stack bool
}

// Errors replaces every error value in the record with a nested record
// {message[, stack][, cause]} and moves those fields to the front.
//
// Example output:
//
//	{"error":{"message":"Oooh, Demons!"},"level":"ERROR","message":"Tripitaka errors!"}
func Errors(opts ...ErrorsOption) logging.Processor {
	p := &errorsProcessor{}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *errorsProcessor) Process(_ context.Context, _ logging.Level, v any) (logging.Result, error) {
	rec, ok := asRecord(v)
	if !ok {
		return logging.Continue(v), nil
	}

	var errKeys []string
	for k, val := range rec.All() {
		if _, isErr := val.(error); isErr {
			errKeys = append(errKeys, k)
		}
	}
	if len(errKeys) == 0 {
		return logging.Continue(rec), nil
	}

	out := logging.NewRecord(rec.Len())
	for _, k := range errKeys {
		val, _ := rec.Get(k)
		out.Set(k, p.flatten(val.(error)))
	}
	for k, val := range rec.All() {
		if _, done := out.Get(k); !done {
			out.Set(k, val)
		}
	}

	return logging.Continue(out), nil
}

func (p *errorsProcessor) flatten(err error) *logging.Record {
	out := logging.NewRecord(3)
	out.Set("message", err.Error())
	if p.stack {
		if stack := logging.StackOf(err); stack != "" {
			out.Set("stack", stack)
		}
	}
	if cause := rootCause(err); cause != nil && cause != err && cause.Error() != err.Error() {
		out.Set("cause", cause.Error())
	}

	return out
}

// rootCause follows both Cause() and Unwrap() links to the innermost error.
func rootCause(err error) error {
	cause := pkgerrors.Cause(err)
	for {
		next := errors.Unwrap(cause)
		if next == nil {
			return cause
		}
		cause = pkgerrors.Cause(next)
	}
}
