// Copyright 2025 The Rivaas Authors
// Copyright 2025 Company.info B.V.
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

package config

import (
	"errors"
	"fmt"
)

// ErrNotLoaded is returned by operations that need a successful [Config.Load].
var ErrNotLoaded = errors.New("configuration not loaded")

// Error describes a configuration failure: where it happened, during which
// operation, and optionally for which settings field.
type Error struct {
	Source    string // e.g. "source[0]", "json-schema", "settings", "outputs[1]"
	Field     string // dotted settings path, optional
	Operation string // e.g. "load", "merge", "validate", "bind", "open"
	Err       error
}

// Error implements error.
func (e *Error) Error() string {
	where := e.Source
	if e.Field != "" {
		where += "." + e.Field
	}

	return fmt.Sprintf("config error in %s during %s: %v", where, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError returns an [Error] without field information.
func NewError(source, operation string, err error) *Error {
	return &Error{Source: source, Operation: operation, Err: err}
}

// NewFieldError returns an [Error] for a specific settings field.
func NewFieldError(source, field, operation string, err error) *Error {
	return &Error{Source: source, Field: field, Operation: operation, Err: err}
}
