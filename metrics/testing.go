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


package metrics

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// TestingRecorder creates a [Recorder] backed by an in-memory manual reader,
// for unit tests. Read the collected data with [Collect], [CounterValue] or
// [HistogramCount]. The provider is shut down through t.Cleanup.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    t.Parallel()
//	    recorder, reader := metrics.TestingRecorder(t)
//	    // Use recorder...
//	    assert.Equal(t, int64(1), metrics.CounterValue(t, reader, metrics.RecordsMetric))
//	}
func TestingRecorder(t testing.TB, opts ...Option) (*Recorder, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	recorder, err := New(append([]Option{WithMeterProvider(mp)}, opts...)...)
	if err != nil {
		t.Fatalf("TestingRecorder: failed to create recorder: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mp.Shutdown(ctx); err != nil {
			t.Logf("TestingRecorder: shutdown warning: %v", err)
		}
	})

	return recorder, reader
}

// Collect reads the current metrics from reader.
func Collect(t testing.TB, reader sdkmetric.Reader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	return rm
}

// CounterValue returns the sum of the int64 counter name over every data point
// carrying all of attrs.
func CounterValue(t testing.TB, reader sdkmetric.Reader, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()

	var total int64
	for _, m := range find(Collect(t, reader), name) {
		sum, ok := m.Data.(metricdata.Sum[int64])
		if !ok {
			t.Fatalf("CounterValue: %s is %T, not an int64 sum", name, m.Data)
		}
		for _, dp := range sum.DataPoints {
			if hasAll(dp.Attributes, attrs) {
				total += dp.Value
			}
		}
	}

	return total
}

// HistogramCount returns the number of float64 observations of histogram name.
func HistogramCount(t testing.TB, reader sdkmetric.Reader, name string) uint64 {
	t.Helper()

	var total uint64
	for _, m := range find(Collect(t, reader), name) {
		hist, ok := m.Data.(metricdata.Histogram[float64])
		if !ok {
			t.Fatalf("HistogramCount: %s is %T, not a float64 histogram", name, m.Data)
		}
		for _, dp := range hist.DataPoints {
			total += dp.Count
		}
	}

	return total
}

func find(rm metricdata.ResourceMetrics, name string) []metricdata.Metrics {
	var out []metricdata.Metrics
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				out = append(out, m)
			}
		}
	}

	return out
}

func hasAll(set attribute.Set, attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		v, ok := set.Value(kv.Key)
		if !ok || v != kv.Value {
			return false
		}
	}

	return true
}
