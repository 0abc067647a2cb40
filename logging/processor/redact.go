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
	"strings"

	"rivaas.dev/pipelog/logging"
)

// Redacted replaces the value of sensitive fields.
const Redacted = "***REDACTED***"

// DefaultSensitiveKeys are redacted when [Redact] is called without keys.
var DefaultSensitiveKeys = []string{"password", "token", "secret", "api_key", "authorization"}

// Redact replaces the values of sensitive fields with [Redacted]. Keys are
// matched case-insensitively at any depth of nested records and maps.
// Nested values are copied before redaction, never modified in place.
func Redact(keys ...string) logging.Processor {
	if len(keys) == 0 {
		keys = DefaultSensitiveKeys
	}
	sensitive := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		sensitive[strings.ToLower(k)] = struct{}{}
	}
	r := &redactor{sensitive: sensitive}

	return logging.ProcessorFunc(func(_ context.Context, _ logging.Level, v any) (logging.Result, error) {
		rec, ok := asRecord(v)
		if !ok {
			return logging.Continue(v), nil
		}
		r.record(rec)

		return logging.Continue(rec), nil
	})
}

type redactor struct {
	sensitive map[string]struct{}
}

func (r *redactor) match(key string) bool {
	_, ok := r.sensitive[strings.ToLower(key)]
	return ok
}

// record redacts rec in place. Level and message are never touched.
func (r *redactor) record(rec *logging.Record) {
	for _, k := range rec.Keys() {
		if k == logging.KeyLevel || k == logging.KeyMessage {
			continue
		}
		val, _ := rec.Get(k)
		if r.match(k) {
			rec.Set(k, Redacted)
			continue
		}
		if redacted, changed := r.value(val); changed {
			rec.Set(k, redacted)
		}
	}
}

// value returns a redacted copy of container values.
func (r *redactor) value(val any) (any, bool) {
	switch x := val.(type) {
	case *logging.Record:
		if x == nil {
			return val, false
		}
		clone := x.Clone()
		r.record(clone)
		return clone, true
	case map[string]any:
		return r.mapValue(x), true
	case logging.Fields:
		return logging.Fields(r.mapValue(x)), true
	default:
		return val, false
	}
}

func (r *redactor) mapValue(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if r.match(k) {
			out[k] = Redacted
			continue
		}
		if redacted, changed := r.value(v); changed {
			v = redacted
		}
		out[k] = v
	}

	return out
}
