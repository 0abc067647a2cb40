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

//go:build !integration

package logging

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonError struct{}

func (jsonError) Error() string                { return "custom" }
func (jsonError) MarshalJSON() ([]byte, error) { return []byte(`{"code":42}`), nil }

func TestRecord_Order(t *testing.T) {
	t.Parallel()

	r := NewRecord(0)
	r.Set("b", 1)
	r.Set("a", 2)
	r.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, r.Keys())
	v, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	r.Delete("b")
	r.Delete("missing")
	assert.Equal(t, []string{"a"}, r.Keys())
	assert.Equal(t, 1, r.Len())
}

func TestRecord_Merge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []any
		want string
	}{
		{
			name: "key value pairs",
			args: []any{"x", "y", "n", 1},
			want: `{"x":"y","n":1}`,
		},
		{
			name: "fields sorted",
			args: []any{Fields{"z": 1, "a": 2}},
			want: `{"a":2,"z":1}`,
		},
		{
			name: "plain map",
			args: []any{map[string]any{"k": "v"}},
			want: `{"k":"v"}`,
		},
		{
			name: "error",
			args: []any{errors.New("boom")},
			want: `{"error":"boom"}`,
		},
		{
			name: "error with json encoding",
			args: []any{jsonError{}},
			want: `{"error":{"code":42}}`,
		},
		{
			name: "dangling key",
			args: []any{"x", "y", "orphan"},
			want: `{"x":"y","!BADKEY":"orphan"}`,
		},
		{
			name: "non string key",
			args: []any{42},
			want: `{"!BADKEY":42}`,
		},
		{
			name: "nil ignored",
			args: []any{nil, "a", 1},
			want: `{"a":1}`,
		},
		{
			name: "slog attrs and groups",
			args: []any{slog.Int("n", 1), slog.Group("req", slog.String("method", "GET"), slog.Int("status", 200))},
			want: `{"n":1,"req":{"method":"GET","status":200}}`,
		},
		{
			name: "empty group dropped",
			args: []any{slog.Group("empty")},
			want: `{}`,
		},
		{
			name: "inline group",
			args: []any{slog.Attr{Key: "", Value: slog.GroupValue(slog.Bool("ok", true))}},
			want: `{"ok":true}`,
		},
		{
			name: "html not escaped",
			args: []any{"html", "<a href=\"x\">&</a>"},
			want: `{"html":"<a href=\"x\">&</a>"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewRecord(0)
			r.Merge(tt.args...)
			data, err := r.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestRecord_MergeRecord(t *testing.T) {
	t.Parallel()

	src := NewRecord(0)
	src.Set("a", 1)
	src.Set("b", 2)

	dst := NewRecord(0)
	dst.Set("b", 0)
	dst.Merge(src, "c", 3)

	assert.Equal(t, []string{"b", "a", "c"}, dst.Keys())
	b, _ := dst.Get("b")
	assert.Equal(t, 2, b)
}

func TestRecord_ProtectedLevel(t *testing.T) {
	t.Parallel()

	r := NewRecord(0)
	r.Set(KeyLevel, "INFO")
	r.Set(KeyMessage, "original")
	r.merge([]any{"level", "ERROR", "message", "shadowed"}, true)

	assert.Equal(t, "INFO", r.Level())
	assert.Equal(t, "shadowed", r.Message())
}

func TestRecord_Seal(t *testing.T) {
	t.Parallel()

	nested := NewRecord(0)
	nested.Set("k", "v")
	r := NewRecord(0)
	r.Set("nested", nested)
	r.seal()

	assert.True(t, r.Sealed())
	assert.True(t, nested.Sealed())
	assert.PanicsWithValue(t, ErrRecordSealed, func() { r.Set("x", 1) })
	assert.PanicsWithValue(t, ErrRecordSealed, func() { r.Delete("nested") })
	assert.PanicsWithValue(t, ErrRecordSealed, func() { nested.Set("x", 1) })

	clone := r.Clone()
	assert.False(t, clone.Sealed())
	clone.Set("x", 1)
	inner, _ := clone.Get("nested")
	assert.False(t, inner.(*Record).Sealed())
	assert.NotSame(t, nested, inner)
}

func TestRecord_MergeCopiesNestedRecords(t *testing.T) {
	t.Parallel()

	inner := NewRecord(1)
	inner.Set("k", "v")
	outer := NewRecord(1)
	outer.Set("inner", inner)

	r := NewRecord(0)
	r.Merge("direct", inner, outer)
	r.seal()

	direct, _ := r.Get("direct")
	viaOuter, _ := r.Get("inner")
	assert.NotSame(t, inner, direct)
	assert.NotSame(t, inner, viaOuter)
	assert.False(t, inner.Sealed())
	assert.False(t, outer.Sealed())
	assert.Equal(t, map[string]any{"k": "v"}, direct.(*Record).Map())
}

func TestRecord_MapAndAll(t *testing.T) {
	t.Parallel()

	nested := NewRecord(0)
	nested.Set("k", "v")
	r := NewRecord(0)
	r.Set("a", 1)
	r.Set("nested", nested)
	r.Set("b", 2)

	assert.Equal(t, map[string]any{"a": 1, "b": 2, "nested": map[string]any{"k": "v"}}, r.Map())

	var keys []string
	for k := range r.All() {
		keys = append(keys, k)
		if k == "nested" {
			break
		}
	}
	assert.Equal(t, []string{"a", "nested"}, keys)
}

func TestRecord_MarshalError(t *testing.T) {
	t.Parallel()

	r := NewRecord(0)
	r.Set("fn", func() {})
	_, err := r.MarshalJSON()
	require.Error(t, err)
}
