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
	"io"
	"net/http/httptest"
	"testing"
	"time"
)

// discard is a transport that encodes records and throws the bytes away.
var discard = TransportFunc(func(_ context.Context, _ Level, v any) error {
	if rec, ok := v.(*Record); ok {
		b, err := rec.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = io.Discard.Write(b)
		return err
	}
	return nil
})

func BenchmarkLogger_Info(b *testing.B) {
	logger := MustNew(WithTransports(discard))
	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			logger.Info("benchmark message", "key", "value", "count", 42)
		}
	})
}

func BenchmarkLogger_BelowThreshold(b *testing.B) {
	logger := MustNew(WithTransports(discard))
	b.ReportAllocs()
	for b.Loop() {
		logger.Debug("filtered", "key", "value")
	}
}

func BenchmarkLogger_Disabled(b *testing.B) {
	logger := MustNew(WithTransports(discard))
	logger.Disable()
	b.ReportAllocs()
	for b.Loop() {
		logger.Info("disabled", "key", "value")
	}
}

// Benchmark with different numbers of attributes
func BenchmarkLogging_FewAttrs(b *testing.B) {
	logger := MustNew(WithTransports(discard))
	b.ReportAllocs()
	for b.Loop() {
		logger.Info("message", "key", "value")
	}
}

func BenchmarkLogging_ManyAttrs(b *testing.B) {
	logger := MustNew(WithTransports(discard))
	b.ReportAllocs()
	for b.Loop() {
		logger.Info("message",
			"key1", "value1", "key2", "value2", "key3", "value3",
			"key4", 4, "key5", 5.5, "key6", true,
			"key7", time.Second, "key8", errors.New("e"),
		)
	}
}

func BenchmarkLogging_Pipeline(b *testing.B) {
	noop := ProcessorFunc(func(_ context.Context, _ Level, v any) (Result, error) {
		return Continue(v), nil
	})
	logger := MustNew(WithProcessors(noop, noop, noop, noop), WithTransports(discard, discard))
	b.ReportAllocs()
	for b.Loop() {
		logger.Info("message", "key", "value")
	}
}

func BenchmarkLogRequest(b *testing.B) {
	logger := MustNew(WithTransports(discard))
	req := httptest.NewRequest("GET", "/api/users?page=1", nil)
	b.ReportAllocs()
	for b.Loop() {
		logger.LogRequest(req, "status", 200)
	}
}
