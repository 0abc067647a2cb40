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
	"fmt"
	"strings"

	"rivaas.dev/pipelog/logging"
)

// Human defaults.
const (
	DefaultHumanTemplate = "%v [%s] %s"
)

// DefaultHumanPaths are the record paths substituted into the default template.
var DefaultHumanPaths = []string{"timestamp", "level", "message"}

// HumanOption configures [Human].
type HumanOption func(*human)

// WithTemplate sets the fmt template. It receives one argument per path.
func WithTemplate(template string) HumanOption {
	return func(h *human) { h.template = template }
}

// WithPaths sets the record paths to substitute into the template. A path is a
// dot-separated sequence of keys into nested records and maps, e.g. "error.message".
func WithPaths(paths ...string) HumanOption {
	return func(h *human) { h.paths = paths }
}

type human struct {
	template string
	paths    []string
}

// Human formats a record with a fmt template into a string such as
//
//	2024-03-01T12:00:00.000Z [INFO] server started
//
// Missing paths are rendered as empty strings.
func Human(opts ...HumanOption) logging.Processor {
	h := &human{
		template: DefaultHumanTemplate,
		paths:    DefaultHumanPaths,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *human) Process(_ context.Context, _ logging.Level, v any) (logging.Result, error) {
	rec, ok := asRecord(v)
	if !ok {
		return logging.Continue(v), nil
	}

	values := make([]any, len(h.paths))
	for i, path := range h.paths {
		val, found := Lookup(rec, path)
		if !found {
			val = ""
		}
		values[i] = val
	}

	return logging.Continue(fmt.Sprintf(h.template, values...)), nil
}

// Lookup resolves a dotted path against nested records and maps.
func Lookup(rec *logging.Record, path string) (any, bool) {
	var cur any = rec
	for key := range strings.SplitSeq(path, ".") {
		switch node := cur.(type) {
		case *logging.Record:
			val, ok := node.Get(key)
			if !ok {
				return nil, false
			}
			cur = val
		case map[string]any:
			val, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = val
		case logging.Fields:
			val, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = val
		default:
			return nil, false
		}
	}

	return cur, true
}
