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
	"bytes"
	"encoding/json"
	"iter"
	"log/slog"
	"slices"
)

// Standard record keys.
const (
	KeyLevel   = "level"
	KeyMessage = "message"
	KeyError   = "error"

	// badKey is used for values that are not preceded by a key, as in log/slog.
	badKey = "!BADKEY"
)

// Fields is a convenience type for passing a set of fields as one argument.
// Fields are merged in sorted key order.
type Fields map[string]any

// Record is an ordered mapping from string keys to values: one log event in
// flight through the pipeline.
//
// Keys keep their insertion position; setting an existing key replaces the
// value in place. Once handed to a transport the record is sealed and any
// modification panics with [ErrRecordSealed].
//
// A Record is not safe for concurrent modification.
type Record struct {
	keys   []string
	values map[string]any
	sealed bool
}

// NewRecord returns an empty record with room for capacity fields.
func NewRecord(capacity int) *Record {
	return &Record{
		keys:   make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

// Set stores value under key. New keys are appended; existing keys keep their position.
func (r *Record) Set(key string, value any) {
	r.mustBeOpen()
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Delete removes key. Deleting a missing key is a no-op.
func (r *Record) Delete(key string) {
	r.mustBeOpen()
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == key })
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	return slices.Clone(r.keys)
}

// All iterates over the fields in insertion order.
func (r *Record) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range r.keys {
			if !yield(k, r.values[k]) {
				return
			}
		}
	}
}

// Level returns the level name stored in the record, or "" if absent.
func (r *Record) Level() string {
	s, _ := r.values[KeyLevel].(string)
	return s
}

// Message returns the message stored in the record, or "" if absent.
func (r *Record) Message() string {
	s, _ := r.values[KeyMessage].(string)
	return s
}

// Sealed reports whether the record has been handed to transports.
func (r *Record) Sealed() bool {
	return r.sealed
}

// Clone returns an unsealed copy. Nested records are cloned as well;
// other values are shared.
func (r *Record) Clone() *Record {
	out := NewRecord(len(r.keys))
	for _, k := range r.keys {
		v := r.values[k]
		if nested, ok := v.(*Record); ok {
			v = nested.Clone()
		}
		out.keys = append(out.keys, k)
		out.values[k] = v
	}

	return out
}

// Map converts the record to a plain map. Nested records are converted too.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		v := r.values[k]
		if nested, ok := v.(*Record); ok {
			v = nested.Map()
		}
		out[k] = v
	}

	return out
}

// Merge adds fields from args. Arguments are interpreted like [slog.Logger.Log]
// arguments, with a few additions:
//   - a string followed by a value is a key/value pair
//   - [Fields], map[string]any and *Record are merged
//   - an error is stored under "error"
//   - an [slog.Attr] is stored under its key; groups become nested records
//   - anything else is stored under "!BADKEY"
//
// Nested *Record values are copied, so later sealing never reaches the
// caller's records.
func (r *Record) Merge(args ...any) {
	r.merge(args, false)
}

// MarshalJSON encodes the record as a JSON object with keys in insertion order.
// Error values without their own JSON encoding are written as their message.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeJSON(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeJSON(&buf, jsonValue(r.values[k])); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (r *Record) seal() {
	r.sealed = true
	for _, v := range r.values {
		if nested, ok := v.(*Record); ok {
			nested.seal()
		}
	}
}

func (r *Record) mustBeOpen() {
	if r.sealed {
		panic(ErrRecordSealed)
	}
}

// merge implements Merge. With protectLevel set, a "level" key from the
// arguments is ignored so metadata cannot override the emission level.
func (r *Record) merge(args []any, protectLevel bool) {
	set := func(k string, v any) {
		if protectLevel && k == KeyLevel {
			return
		}
		// Nested records belong to the caller; the engine seals its own copy.
		if nested, ok := v.(*Record); ok && nested != nil {
			v = nested.Clone()
		}
		r.Set(k, v)
	}

	for len(args) > 0 {
		switch x := args[0].(type) {
		case string:
			if len(args) == 1 {
				set(badKey, x)
				return
			}
			set(x, args[1])
			args = args[2:]
			continue
		case Fields:
			mergeMap(map[string]any(x), set)
		case map[string]any:
			mergeMap(x, set)
		case *Record:
			if x != nil {
				for k, v := range x.All() {
					set(k, v)
				}
			}
		case slog.Attr:
			mergeAttr(x, set)
		case error:
			set(KeyError, x)
		case nil:
			// ignored
		default:
			set(badKey, x)
		}
		args = args[1:]
	}
}

func mergeMap(m map[string]any, set func(string, any)) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		set(k, m[k])
	}
}

func mergeAttr(a slog.Attr, set func(string, any)) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		attrs := v.Group()
		if len(attrs) == 0 {
			return
		}
		if a.Key == "" {
			for _, ga := range attrs {
				mergeAttr(ga, set)
			}
			return
		}
		set(a.Key, groupRecord(attrs))
		return
	}
	if a.Key == "" {
		return
	}
	set(a.Key, v.Any())
}

func groupRecord(attrs []slog.Attr) *Record {
	nested := NewRecord(len(attrs))
	for _, ga := range attrs {
		mergeAttr(ga, nested.Set)
	}

	return nested
}

// jsonValue replaces values that encoding/json would render uselessly.
func jsonValue(v any) any {
	if err, ok := v.(error); ok {
		if _, marshals := v.(json.Marshaler); !marshals {
			return err.Error()
		}
	}

	return v
}

// encodeJSON writes v without HTML escaping and without a trailing newline.
func encodeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)

	return nil
}
