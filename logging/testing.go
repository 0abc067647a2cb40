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
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cast"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

// Delivery is one value observed by a [Recorder] or a [ProcessorSpy].
type Delivery struct {
	Level Level
	Value any
}

// Recorder is an in-memory [Transport] that keeps every delivered value.
// It is safe for concurrent use.
type Recorder struct {
	mu         sync.Mutex
	deliveries []Delivery
	err        error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Deliver implements [Transport].
func (r *Recorder) Deliver(_ context.Context, level Level, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.deliveries = append(r.deliveries, Delivery{Level: level, Value: v})

	return nil
}

// FailWith makes every following delivery fail with err. Nil restores normal operation.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Deliveries returns a copy of everything delivered so far.
func (r *Recorder) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Delivery(nil), r.deliveries...)
}

// Len returns the number of deliveries.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.deliveries)
}

// Records returns the delivered values as records. Strings and byte slices are
// parsed as JSON objects; values that are neither records nor JSON objects are
// skipped.
func (r *Recorder) Records() []*Record {
	var out []*Record
	for _, d := range r.Deliveries() {
		switch v := d.Value.(type) {
		case *Record:
			out = append(out, v)
		case string:
			recs, err := ParseJSONLines([]byte(v))
			if err == nil {
				out = append(out, recs...)
			}
		case []byte:
			recs, err := ParseJSONLines(v)
			if err == nil {
				out = append(out, recs...)
			}
		}
	}

	return out
}

// Reset discards all deliveries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = nil
}

// ProcessorSpy is a [Processor] that records its inputs. Records are cloned
// so later pipeline stages do not change what was observed.
//
// Fn, when set, decides the result; otherwise the input continues unchanged.
type ProcessorSpy struct {
	Fn ProcessorFunc

	mu    sync.Mutex
	calls []Delivery
}

// Process implements [Processor].
func (s *ProcessorSpy) Process(ctx context.Context, level Level, v any) (Result, error) {
	observed := v
	if rec, ok := v.(*Record); ok {
		observed = rec.Clone()
	}
	s.mu.Lock()
	s.calls = append(s.calls, Delivery{Level: level, Value: observed})
	s.mu.Unlock()

	if s.Fn != nil {
		return s.Fn(ctx, level, v)
	}

	return Continue(v), nil
}

// Calls returns the observed inputs.
func (s *ProcessorSpy) Calls() []Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Delivery(nil), s.calls...)
}

// CallCount returns the number of invocations.
func (s *ProcessorSpy) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.calls)
}

// ParseJSONLines parses newline-delimited JSON objects into records, keeping
// the key order of the input. Blank lines are skipped.
//
// Objects become *Record, arrays []any, numbers float64.
func ParseJSONLines(data []byte) ([]*Record, error) {
	var (
		p   fastjson.Parser
		out []*Record
	)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		v, err := p.ParseBytes(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if v.Type() != fastjson.TypeObject {
			return nil, fmt.Errorf("line %d: expected a JSON object, got %s", line, v.Type())
		}
		out = append(out, fromJSON(v).(*Record))
	}

	return out, scanner.Err()
}

func fromJSON(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		rec := NewRecord(o.Len())
		o.Visit(func(key []byte, val *fastjson.Value) {
			rec.Set(string(key), fromJSON(val))
		})
		return rec
	case fastjson.TypeArray:
		items, _ := v.Array()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = fromJSON(item)
		}
		return out
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return v.GetFloat64()
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}

// TestHelper provides utilities for testing with the logging package.
//
// The logger emits at every level into Recorder, and writes one line per
// delivery into Buffer (strings as-is, everything else as JSON).
type TestHelper struct {
	Logger   *Logger
	Recorder *Recorder
	Buffer   *bytes.Buffer

	mu     sync.Mutex
	errors []error
}

// NewTestHelper creates a [TestHelper] with in-memory logging.
// Additional [Option] values can be passed to customize the logger; faults
// reported through the error handler are collected in [TestHelper.Errors].
func NewTestHelper(t *testing.T, opts ...Option) *TestHelper {
	t.Helper()

	th := &TestHelper{
		Recorder: NewRecorder(),
		Buffer:   &bytes.Buffer{},
	}
	defaultOpts := []Option{
		WithLevel(LevelTrace),
		WithTransports(th.Recorder, TransportFunc(th.writeLine)),
		WithErrorHandler(th.collect),
	}
	defaultOpts = append(defaultOpts, opts...)

	th.Logger = MustNew(defaultOpts...)

	return th
}

func (th *TestHelper) writeLine(_ context.Context, _ Level, v any) error {
	var line []byte
	switch x := v.(type) {
	case string:
		line = []byte(x)
	case []byte:
		line = x
	case *Record:
		b, err := x.MarshalJSON()
		if err != nil {
			return err
		}
		line = b
	default:
		line = fmt.Append(nil, x)
	}

	th.mu.Lock()
	defer th.mu.Unlock()
	th.Buffer.Write(line)
	if len(line) == 0 || line[len(line)-1] != '\n' {
		th.Buffer.WriteByte('\n')
	}

	return nil
}

func (th *TestHelper) collect(err error) {
	th.mu.Lock()
	defer th.mu.Unlock()
	th.errors = append(th.errors, err)
}

// Errors returns the faults reported to the error handler.
func (th *TestHelper) Errors() []error {
	th.mu.Lock()
	defer th.mu.Unlock()

	return append([]error(nil), th.errors...)
}

// Records returns all delivered records.
func (th *TestHelper) Records() []*Record {
	return th.Recorder.Records()
}

// Lines parses the JSON lines written to Buffer.
func (th *TestHelper) Lines() ([]*Record, error) {
	th.mu.Lock()
	data := bytes.Clone(th.Buffer.Bytes())
	th.mu.Unlock()

	return ParseJSONLines(data)
}

// LastRecord returns the most recent record.
func (th *TestHelper) LastRecord() (*Record, error) {
	records := th.Records()
	if len(records) == 0 {
		return nil, errors.New("no log records found")
	}

	return records[len(records)-1], nil
}

// ContainsLog checks if any record has the given message.
func (th *TestHelper) ContainsLog(msg string) bool {
	for _, rec := range th.Records() {
		if rec.Message() == msg {
			return true
		}
	}

	return false
}

// ContainsAttr checks if any record contains the given field.
func (th *TestHelper) ContainsAttr(key string, value any) bool {
	for _, rec := range th.Records() {
		if v, ok := rec.Get(key); ok && valuesMatch(v, value) {
			return true
		}
	}

	return false
}

// CountLevel returns the number of records at the given level.
func (th *TestHelper) CountLevel(level Level) int {
	count := 0
	for _, rec := range th.Records() {
		if rec.Level() == level.String() {
			count++
		}
	}

	return count
}

// Reset clears everything captured so far.
func (th *TestHelper) Reset() {
	th.Recorder.Reset()
	th.mu.Lock()
	defer th.mu.Unlock()
	th.Buffer.Reset()
	th.errors = nil
}

// AssertLog checks that a record exists with the given level, message and fields.
func (th *TestHelper) AssertLog(t *testing.T, level Level, msg string, attrs map[string]any) {
	t.Helper()

	for _, rec := range th.Records() {
		if rec.Level() != level.String() || rec.Message() != msg {
			continue
		}

		match := true
		for k, expected := range attrs {
			actual, ok := rec.Get(k)
			if !ok || !valuesMatch(actual, expected) {
				match = false
				break
			}
		}
		if match {
			return
		}
	}

	require.Fail(t, "log record not found", "level=%s msg=%s attrs=%v", level, msg, attrs)
}

// valuesMatch compares numbers numerically, since JSON round trips turn them
// into float64, and everything else by its printed form.
func valuesMatch(actual, expected any) bool {
	switch expected.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		a, errA := cast.ToFloat64E(actual)
		e, errE := cast.ToFloat64E(expected)
		return errA == nil && errE == nil && a == e
	}

	return fmt.Sprint(actual) == fmt.Sprint(expected)
}

// MockWriter is a mock io.Writer that records all writes for test assertions.
//
// Use cases:
//   - Verify number of write calls (batching behavior)
//   - Inspect write contents (log format validation)
//   - Simulate write errors (error handling tests)
type MockWriter struct {
	mu         sync.Mutex
	writes     [][]byte
	writeError error
	bytesTotal int
}

// NewFailingWriter returns a MockWriter whose writes fail with err.
func NewFailingWriter(err error) *MockWriter {
	return &MockWriter{writeError: err}
}

// Write implements io.Writer.
func (mw *MockWriter) Write(p []byte) (n int, err error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	if mw.writeError != nil {
		return 0, mw.writeError
	}

	mw.writes = append(mw.writes, append([]byte(nil), p...))
	mw.bytesTotal += len(p)

	return len(p), nil
}

// WriteCount returns the number of write calls.
func (mw *MockWriter) WriteCount() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	return len(mw.writes)
}

// BytesWritten returns total bytes written.
func (mw *MockWriter) BytesWritten() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	return mw.bytesTotal
}

// Writes returns a copy of every write.
func (mw *MockWriter) Writes() [][]byte {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	return append([][]byte(nil), mw.writes...)
}

// LastWrite returns the most recent write.
func (mw *MockWriter) LastWrite() []byte {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	if len(mw.writes) == 0 {
		return nil
	}

	return mw.writes[len(mw.writes)-1]
}

// Reset clears all recorded writes.
func (mw *MockWriter) Reset() {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.writes = nil
	mw.bytesTotal = 0
}

// CountingWriter counts bytes written without storing them.
type CountingWriter struct {
	count atomic.Int64
}

// Write implements io.Writer.
func (cw *CountingWriter) Write(p []byte) (n int, err error) {
	cw.count.Add(int64(len(p)))

	return len(p), nil
}

// Count returns the total bytes written.
func (cw *CountingWriter) Count() int64 {
	return cw.count.Load()
}

// SlowWriter simulates slow I/O for testing timeouts and backpressure.
//
// Example:
//
//	// Simulate 100ms network latency
//	sw := NewSlowWriter(100*time.Millisecond, &bytes.Buffer{})
type SlowWriter struct {
	delay time.Duration
	inner io.Writer
}

// NewSlowWriter creates a writer that delays each write.
func NewSlowWriter(delay time.Duration, inner io.Writer) *SlowWriter {
	return &SlowWriter{delay: delay, inner: inner}
}

// Write implements io.Writer with delay.
func (sw *SlowWriter) Write(p []byte) (n int, err error) {
	time.Sleep(sw.delay)
	if sw.inner != nil {
		return sw.inner.Write(p)
	}

	return len(p), nil
}
