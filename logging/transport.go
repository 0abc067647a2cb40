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
)

// Transport delivers a fully processed record to a destination.
//
// v is the output of the last processor. If it is a *Record it is sealed and
// must be treated as read-only. Transports must not depend on the order in
// which they are invoked relative to each other.
type Transport interface {
	Deliver(ctx context.Context, level Level, v any) error
}

// TransportFunc adapts a function to the [Transport] interface.
type TransportFunc func(ctx context.Context, level Level, v any) error

// Deliver calls f.
func (f TransportFunc) Deliver(ctx context.Context, level Level, v any) error {
	return f(ctx, level, v)
}

// Flusher is implemented by processors and transports that hold pending data.
type Flusher interface {
	Flush() error
}

// Closer is implemented by processors and transports that own resources.
type Closer interface {
	Close() error
}

// dispatch hands v to every transport. A failing transport does not stop
// delivery to the others; all faults are joined.
func dispatch(ctx context.Context, transports []Transport, level Level, v any) error {
	if r, ok := v.(*Record); ok {
		r.seal()
	}

	var errs []error
	for i, t := range transports {
		if err := deliver(ctx, t, level, v); err != nil {
			errs = append(errs, &TransportError{Index: i, Err: err})
		}
	}

	return errors.Join(errs...)
}

func deliver(ctx context.Context, t Transport, level Level, v any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(ErrTransportPanic, r)
		}
	}()

	return t.Deliver(ctx, level, v)
}
