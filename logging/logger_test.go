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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// appendField returns a processor that adds key=value to records.
func appendField(key string, value any) ProcessorFunc {
	return func(_ context.Context, _ Level, v any) (Result, error) {
		if rec, ok := v.(*Record); ok {
			rec.Set(key, value)
		}
		return Continue(v), nil
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
		errIs   error
	}{
		{name: "default config"},
		{name: "with debug level", opts: []Option{WithDebugLevel()}},
		{name: "with level name", opts: []Option{WithLevelName("warn")}},
		{name: "with nil option", opts: []Option{nil}},
		{name: "unknown level name", opts: []Option{WithLevelName("loud")}, wantErr: true, errIs: ErrInvalidLevel},
		{name: "level outside catalogue", opts: []Option{WithLevel(Level(2))}, wantErr: true, errIs: ErrInvalidLevel},
		{name: "nil error handler", opts: []Option{WithErrorHandler(nil)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := New(tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid configuration")
				assert.Nil(t, logger)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	logger := MustNew()

	assert.Equal(t, LevelInfo, logger.Level())
	assert.True(t, logger.IsEnabled())
	assert.NoError(t, logger.Log(context.Background(), LevelError, "nowhere to go"))
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t,
		`logging initialization failed: invalid configuration: invalid log level: "nope"`,
		func() { MustNew(WithLevelName("nope")) },
	)
}

func TestLogger_Threshold(t *testing.T) {
	t.Parallel()

	spy := &ProcessorSpy{}
	rec := NewRecorder()
	logger := MustNew(WithLevel(LevelWarn), WithProcessors(spy), WithTransports(rec))

	logger.Trace("t")
	logger.Debug("d")
	logger.Info("i")
	assert.Zero(t, spy.CallCount(), "below-threshold emissions must not reach processors")
	assert.Zero(t, rec.Len())

	logger.Warn("w")
	logger.Error("e")
	assert.Equal(t, 2, spy.CallCount())
	assert.Equal(t, 2, rec.Len())

	assert.False(t, logger.Enabled(LevelInfo))
	assert.True(t, logger.Enabled(LevelWarn))
	assert.False(t, logger.Enabled(Level(99)))
}

func TestLogger_RecordShape(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)

	th.Logger.Info("plain")
	th.Logger.Warn("with metadata", "x", "y", Fields{"n": 1})

	records := th.Records()
	require.Len(t, records, 2)
	assert.Equal(t, []string{"level", "message"}, records[0].Keys())
	assert.Equal(t, "INFO", records[0].Level())
	assert.Equal(t, "plain", records[0].Message())
	assert.Equal(t, []string{"level", "message", "x", "n"}, records[1].Keys())
}

func TestLogger_MetadataCannotOverrideLevel(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithFields("level", "FAKE"))
	th.Logger.Info("msg", "level", "ERROR", "message", "shadowed")

	rec, err := th.LastRecord()
	require.NoError(t, err)
	assert.Equal(t, "INFO", rec.Level())
	assert.Equal(t, "shadowed", rec.Message())
}

func TestLogger_InvalidLevel(t *testing.T) {
	t.Parallel()

	spy := &ProcessorSpy{}
	logger := MustNew(WithProcessors(spy))

	err := logger.Log(context.Background(), Level(5), "odd")
	require.ErrorIs(t, err, ErrInvalidLevel)
	assert.Zero(t, spy.CallCount())
}

func TestLogger_PipelineOrder(t *testing.T) {
	t.Parallel()

	second := &ProcessorSpy{}
	th := NewTestHelper(t, WithProcessors(appendField("first", true), second, appendField("third", true)))

	th.Logger.Info("hello")

	calls := second.Calls()
	require.Len(t, calls, 1)
	observed := calls[0].Value.(*Record)
	assert.Equal(t, []string{"level", "message", "first"}, observed.Keys(), "second processor sees the first one's output")

	rec, err := th.LastRecord()
	require.NoError(t, err)
	assert.Equal(t, []string{"level", "message", "first", "third"}, rec.Keys())
}

func TestLogger_Drop(t *testing.T) {
	t.Parallel()

	after := &ProcessorSpy{}
	veto := ProcessorFunc(func(_ context.Context, _ Level, _ any) (Result, error) {
		return Drop(), nil
	})
	th := NewTestHelper(t, WithProcessors(veto, after))

	th.Logger.Info("vetoed")
	require.NoError(t, th.Logger.Log(context.Background(), LevelError, "vetoed too"))

	assert.Zero(t, after.CallCount())
	assert.Zero(t, th.Recorder.Len())
	assert.Empty(t, th.Errors())
}

func TestLogger_ContinueNilDrops(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithProcessors(ProcessorFunc(func(context.Context, Level, any) (Result, error) {
		return Continue(nil), nil
	})))

	th.Logger.Info("gone")
	assert.Zero(t, th.Recorder.Len())
}

func TestLogger_NonRecordValues(t *testing.T) {
	t.Parallel()

	format := ProcessorFunc(func(_ context.Context, _ Level, v any) (Result, error) {
		return Continue(fmt.Sprintf("[%s] %s", v.(*Record).Level(), v.(*Record).Message())), nil
	})
	th := NewTestHelper(t, WithProcessors(format))

	th.Logger.Warn("formatted")

	deliveries := th.Recorder.Deliveries()
	require.Len(t, deliveries, 1)
	assert.Equal(t, "[WARN] formatted", deliveries[0].Value)
	assert.Equal(t, LevelWarn, deliveries[0].Level)
	assert.Equal(t, "[WARN] formatted\n", th.Buffer.String())
}

func TestLogger_NilPartsIgnored(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	logger := MustNew(WithProcessors(nil, appendField("a", 1), nil), WithTransports(nil, rec))

	logger.Info("ok")
	assert.Equal(t, 1, rec.Len())
	assert.Equal(t, 1, logger.DebugInfo()["processors"])
	assert.Equal(t, 1, logger.DebugInfo()["transports"])
}

func TestLogger_ProcessorFault(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	failing := ProcessorFunc(func(context.Context, Level, any) (Result, error) {
		return Result{}, boom
	})

	t.Run("Log returns the fault", func(t *testing.T) {
		t.Parallel()

		after := &ProcessorSpy{}
		rec := NewRecorder()
		logger := MustNew(WithProcessors(appendField("a", 1), failing, after), WithTransports(rec))

		err := logger.Log(context.Background(), LevelInfo, "msg")
		require.ErrorIs(t, err, boom)

		var perr *ProcessorError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 1, perr.Index)
		assert.Zero(t, after.CallCount())
		assert.Zero(t, rec.Len())
	})

	t.Run("named methods report to the handler", func(t *testing.T) {
		t.Parallel()

		th := NewTestHelper(t, WithProcessors(failing))
		assert.NotPanics(t, func() { th.Logger.Error("msg") })

		errs := th.Errors()
		require.Len(t, errs, 1)
		require.ErrorIs(t, errs[0], boom)
	})

	t.Run("panics are recovered", func(t *testing.T) {
		t.Parallel()

		panicky := ProcessorFunc(func(context.Context, Level, any) (Result, error) {
			panic("kaboom")
		})
		logger := MustNew(WithProcessors(panicky))

		err := logger.Log(context.Background(), LevelInfo, "msg")
		require.ErrorIs(t, err, ErrProcessorPanic)
		assert.Contains(t, err.Error(), "kaboom")
	})
}

func TestLogger_TransportFaults(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	bad := NewRecorder()
	bad.FailWith(boom)
	good := NewRecorder()
	panicky := TransportFunc(func(context.Context, Level, any) error {
		panic(errors.New("kaboom"))
	})
	logger := MustNew(WithTransports(bad, panicky, good))

	err := logger.Log(context.Background(), LevelInfo, "msg")
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, ErrTransportPanic)
	assert.Equal(t, 1, good.Len(), "a failing transport must not prevent delivery to others")

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 0, terr.Index)
}

func TestLogger_SealedDelivery(t *testing.T) {
	t.Parallel()

	var sealed atomic.Bool
	mutate := TransportFunc(func(_ context.Context, _ Level, v any) error {
		rec := v.(*Record)
		sealed.Store(rec.Sealed())
		rec.Set("mutated", true)
		return nil
	})
	logger := MustNew(WithTransports(mutate))

	err := logger.Log(context.Background(), LevelInfo, "msg")
	require.ErrorIs(t, err, ErrTransportPanic)
	require.ErrorIs(t, err, ErrRecordSealed)
	assert.True(t, sealed.Load())
}

func TestLogger_EnableDisable(t *testing.T) {
	t.Parallel()

	t.Run("disable suppresses everything", func(t *testing.T) {
		t.Parallel()

		spy := &ProcessorSpy{}
		th := NewTestHelper(t, WithProcessors(spy))

		th.Logger.Disable()
		th.Logger.Disable()
		for _, level := range Levels() {
			require.NoError(t, th.Logger.Log(context.Background(), level, "ignored"))
		}
		th.Logger.Error("ignored")

		assert.False(t, th.Logger.IsEnabled())
		assert.Zero(t, spy.CallCount())
		assert.Zero(t, th.Recorder.Len())
	})

	t.Run("re-enable restores emission", func(t *testing.T) {
		t.Parallel()

		th := NewTestHelper(t)
		th.Logger.Disable()
		th.Logger.Enable()
		th.Logger.Enable()
		th.Logger.Info("back")

		assert.True(t, th.ContainsLog("back"))
	})

	t.Run("start disabled", func(t *testing.T) {
		t.Parallel()

		th := NewTestHelper(t, WithEnabled(false))
		th.Logger.Info("nothing")
		assert.Zero(t, th.Recorder.Len())

		th.Logger.Enable()
		th.Logger.Info("something")
		assert.Equal(t, 1, th.Recorder.Len())
	})
}

func TestLogger_With(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithFields("service", "api"))
	child := th.Logger.With("request_id", "r-1")

	child.Info("from child", "extra", 1)
	th.Logger.Info("from parent")

	records := th.Records()
	require.Len(t, records, 2)
	assert.Equal(t, []string{"level", "message", "service", "request_id", "extra"}, records[0].Keys())
	assert.Equal(t, []string{"level", "message", "service"}, records[1].Keys())

	assert.Same(t, th.Logger, th.Logger.With())

	child.Disable()
	assert.False(t, th.Logger.IsEnabled(), "derived loggers share the enabled flag")
}

type flushCloser struct {
	*Recorder
	flushed, closed int
	err             error
}

func (f *flushCloser) Flush() error { f.flushed++; return nil }
func (f *flushCloser) Close() error { f.closed++; return f.err }

func TestLogger_Shutdown(t *testing.T) {
	t.Parallel()

	fc := &flushCloser{Recorder: NewRecorder(), err: errors.New("close failed")}
	logger := MustNew(WithTransports(fc))

	err := logger.Shutdown(context.Background())
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 1, fc.flushed)
	assert.Equal(t, 1, fc.closed)

	logger.Enable()
	logger.Info("after shutdown")
	assert.Zero(t, fc.Len())
	assert.False(t, logger.IsEnabled())

	require.ErrorIs(t, logger.Shutdown(context.Background()), ErrLoggerShutdown)
	assert.Equal(t, 1, fc.closed)
	assert.Equal(t, true, logger.DebugInfo()["is_shutdown"])
}

func TestLogger_DebugInfo(t *testing.T) {
	t.Parallel()

	logger := MustNew(WithLevel(LevelDebug), WithFields("a", 1, "b", 2), WithProcessors(appendField("x", 1)))
	info := logger.DebugInfo()

	assert.Equal(t, "DEBUG", info["level"])
	assert.Equal(t, true, info["enabled"])
	assert.Equal(t, 1, info["processors"])
	assert.Equal(t, 0, info["transports"])
	assert.Equal(t, 2, info["fields"])
	assert.Equal(t, false, info["is_global"])
}

func TestLogger_DefaultErrorHandler(t *testing.T) {
	t.Parallel()

	logger := MustNew()
	assert.NotNil(t, logger.errorHandler)
	assert.NotPanics(t, func() { logger.report(errors.New("to stderr")) })
}

func TestLogger_Concurrent(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Go(func() {
			for j := range 100 {
				th.Logger.Info("concurrent", "goroutine", i, "n", j)
				if j%10 == 0 {
					th.Logger.Disable()
					th.Logger.Enable()
				}
			}
		})
	}
	wg.Wait()

	assert.LessOrEqual(t, th.Recorder.Len(), 1000)
	assert.Positive(t, th.Recorder.Len())
}

func TestLogger_NestedRecordsStayWithCaller(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	req := NewRecord(2)
	req.Set("method", "GET")
	req.Set("path", "/a")

	th.Logger.Info("first", "req", req)
	assert.False(t, req.Sealed())
	assert.NotPanics(t, func() { req.Set("path", "/b") })
	th.Logger.Info("second", "req", req)

	records := th.Records()
	require.Len(t, records, 2)
	first, _ := records[0].Get("req")
	second, _ := records[1].Get("req")
	assert.True(t, first.(*Record).Sealed())
	assert.Equal(t, "/a", first.(*Record).Map()["path"])
	assert.Equal(t, "/b", second.(*Record).Map()["path"])
}

func TestLogger_SharedNestedFieldConcurrent(t *testing.T) {
	t.Parallel()

	svc := NewRecord(2)
	svc.Set("name", "billing")
	svc.Set("version", "1.2.0")

	th := NewTestHelper(t)
	logger := th.Logger.With("svc", svc)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 100 {
				logger.Info("tick")
				_ = logger.Log(t.Context(), LevelInfo, "tock", "owner", svc)
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 1600, th.Recorder.Len())
	assert.False(t, svc.Sealed())
	svc.Set("name", "payments")
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	t.Run("LogRequest", func(t *testing.T) {
		t.Parallel()

		th := NewTestHelper(t)
		req := httptest.NewRequest("GET", "/api/users?page=2", nil)
		req.Header.Set("User-Agent", "test-agent")
		th.Logger.LogRequest(req, "status", 200)

		th.AssertLog(t, LevelInfo, "http request", map[string]any{
			"method":     "GET",
			"path":       "/api/users",
			"query":      "page=2",
			"user_agent": "test-agent",
			"status":     200,
		})
	})

	t.Run("LogError", func(t *testing.T) {
		t.Parallel()

		th := NewTestHelper(t)
		th.Logger.LogError(errors.New("db down"), "query failed", "table", "users")

		th.AssertLog(t, LevelError, "query failed", map[string]any{"error": "db down", "table": "users"})
	})

	t.Run("LogDuration", func(t *testing.T) {
		t.Parallel()

		th := NewTestHelper(t)
		th.Logger.LogDuration("done", time.Now().Add(-50*time.Millisecond), "items", 3)

		rec, err := th.LastRecord()
		require.NoError(t, err)
		ms, _ := rec.Get("duration_ms")
		assert.GreaterOrEqual(t, ms.(int64), int64(50))
		_, ok := rec.Get("duration")
		assert.True(t, ok)
	})

	t.Run("ErrorWithStack captures caller", func(t *testing.T) {
		t.Parallel()

		th := NewTestHelper(t)
		th.Logger.ErrorWithStack("crash", errors.New("bad"), true)

		rec, err := th.LastRecord()
		require.NoError(t, err)
		stack, ok := rec.Get("stack")
		require.True(t, ok)
		assert.Contains(t, stack, "TestHelpers")
		assert.NotContains(t, stack, "captureStack")
	})

	t.Run("ErrorWithStack prefers recorded stack", func(t *testing.T) {
		t.Parallel()

		th := NewTestHelper(t)
		th.Logger.ErrorWithStack("crash", pkgerrors.New("bad"), true)

		rec, err := th.LastRecord()
		require.NoError(t, err)
		stack, _ := rec.Get("stack")
		assert.True(t, strings.Contains(stack.(string), "TestHelpers"))
	})

	t.Run("skipped when disabled", func(t *testing.T) {
		t.Parallel()

		th := NewTestHelper(t, WithLevel(LevelError))
		th.Logger.LogDuration("done", time.Now())
		th.Logger.LogRequest(httptest.NewRequest("GET", "/", nil))
		th.Logger.Disable()
		th.Logger.LogError(errors.New("x"), "y")
		th.Logger.ErrorWithStack("z", errors.New("x"), false)

		assert.Zero(t, th.Recorder.Len())
	})
}

func TestContextFields(t *testing.T) {
	t.Parallel()

	ctx := ContextWithFields(context.Background(), "a", 1)
	ctx = ContextWithFields(ctx, "b", 2)
	assert.Equal(t, []any{"a", 1, "b", 2}, FieldsFromContext(ctx))
	assert.Nil(t, FieldsFromContext(context.Background()))
	assert.Equal(t, ctx, ContextWithFields(ctx))
	assert.Nil(t, TraceFields(context.Background()))
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	var seen context.Context
	capture := ProcessorFunc(func(ctx context.Context, _ Level, v any) (Result, error) {
		seen = ctx
		return Continue(v), nil
	})
	th := NewTestHelper(t, WithProcessors(capture))

	cl := th.Logger.WithContext(ctx)
	assert.Equal(t, span.SpanContext().TraceID().String(), cl.TraceID())
	assert.Equal(t, span.SpanContext().SpanID().String(), cl.SpanID())

	cl.With("user", "u1").Info("traced")

	assert.Equal(t, ctx, seen)
	th.AssertLog(t, LevelInfo, "traced", map[string]any{
		FieldTraceID: cl.TraceID(),
		FieldSpanID:  cl.SpanID(),
		"user":       "u1",
	})

	plain := NewContextLogger(context.Background(), th.Logger)
	assert.Empty(t, plain.TraceID())
	assert.Same(t, th.Logger, plain.Logger())
}

func TestSlogHandler(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithLevel(LevelDebug))
	sl := slog.New(th.Logger.Handler())

	sl.Debug("debug via slog", "n", 1)
	sl.Log(context.Background(), slog.LevelDebug-4, "trace via slog")
	sl.With("svc", "api").WithGroup("req").Info("grouped", "method", "GET")
	sl.WithGroup("empty").Warn("no attrs")

	records := th.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "DEBUG", records[0].Level())

	grouped := records[1]
	assert.Equal(t, []string{"level", "message", "svc", "req"}, grouped.Keys())
	req, _ := grouped.Get("req")
	method, _ := req.(*Record).Get("method")
	assert.Equal(t, "GET", method)

	assert.Equal(t, []string{"level", "message"}, records[2].Keys())
	assert.False(t, sl.Enabled(context.Background(), slog.LevelDebug-4))
}

func TestSlogHandler_ReturnsFaults(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	rec.FailWith(errors.New("boom"))
	h := MustNew(WithTransports(rec)).Handler()

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0))
	require.Error(t, err)
}

func TestParseJSONLines(t *testing.T) {
	t.Parallel()

	data := []byte(`{"z":1,"a":{"nested":[true,null,"s"]}}` + "\n\n" + `{"b":false}` + "\n")
	records, err := ParseJSONLines(data)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"z", "a"}, records[0].Keys())
	z, _ := records[0].Get("z")
	assert.InDelta(t, 1.0, z, 0)
	a, _ := records[0].Get("a")
	nested, _ := a.(*Record).Get("nested")
	assert.Equal(t, []any{true, nil, "s"}, nested)

	_, err = ParseJSONLines([]byte("[1,2]"))
	require.Error(t, err)
	_, err = ParseJSONLines([]byte("{broken"))
	require.Error(t, err)
}
