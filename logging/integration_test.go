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

package logging_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/pipelog/logging"
	"rivaas.dev/pipelog/logging/processor"
	"rivaas.dev/pipelog/logging/transport"
)

// Integration tests for the logging package.
// These tests run complete pipelines made of the bundled processors and transports.

var tripitakaTime = time.Date(2016, 4, 18, 9, 30, 0, 0, time.UTC)

const tripitakaStamp = "2016-04-18T09:30:00.000Z"

// lineSink collects written lines per level.
type lineSink struct {
	mu    sync.Mutex
	lines map[logging.Level][]string
}

func newLineSink() *lineSink {
	return &lineSink{lines: make(map[logging.Level][]string)}
}

func (s *lineSink) writers() map[logging.Level]io.Writer {
	out := make(map[logging.Level]io.Writer)
	for _, level := range logging.Levels() {
		out[level] = writerFunc(func(p []byte) (int, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.lines[level] = append(s.lines[level], strings.TrimSuffix(string(p), "\n"))
			return len(p), nil
		})
	}

	return out
}

func (s *lineSink) get(level logging.Level) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lines[level]
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func TestIntegration_TripitakaLevels(t *testing.T) {
	t.Parallel()

	sink := newLineSink()
	logger := logging.MustNew(
		logging.WithLevel(logging.LevelTrace),
		logging.WithProcessors(
			processor.Errors(processor.WithStack(false)),
			processor.Timestamp(processor.WithClock(func() time.Time { return tripitakaTime })),
			processor.JSON(),
		),
		logging.WithTransports(transport.Stream(sink.writers())),
	)

	logger.Trace("Tripitaka traces!", "x", "y")
	logger.Debug("Tripitaka debugs!", "x", "y")
	logger.Info("Tripitaka rocks once!", "x", "y")
	logger.Info("Tripitaka rocks twice!")
	logger.Warn("Tripitaka warns!", "x", "y")
	logger.Error("Tripitaka errors!", errors.New("Oooh, Demons!"))

	assert.Equal(t, []string{`{"level":"TRACE","message":"Tripitaka traces!","x":"y","timestamp":"` + tripitakaStamp + `"}`}, sink.get(logging.LevelTrace))
	assert.Equal(t, []string{`{"level":"DEBUG","message":"Tripitaka debugs!","x":"y","timestamp":"` + tripitakaStamp + `"}`}, sink.get(logging.LevelDebug))
	assert.Equal(t, []string{
		`{"level":"INFO","message":"Tripitaka rocks once!","x":"y","timestamp":"` + tripitakaStamp + `"}`,
		`{"level":"INFO","message":"Tripitaka rocks twice!","timestamp":"` + tripitakaStamp + `"}`,
	}, sink.get(logging.LevelInfo))
	assert.Equal(t, []string{`{"level":"WARN","message":"Tripitaka warns!","x":"y","timestamp":"` + tripitakaStamp + `"}`}, sink.get(logging.LevelWarn))
	assert.Equal(t, []string{`{"error":{"message":"Oooh, Demons!"},"level":"ERROR","message":"Tripitaka errors!","timestamp":"` + tripitakaStamp + `"}`}, sink.get(logging.LevelError))
}

func TestIntegration_DefaultLevel(t *testing.T) {
	t.Parallel()

	sink := newLineSink()
	logger := logging.MustNew(
		logging.WithProcessors(
			processor.Timestamp(processor.WithClock(func() time.Time { return tripitakaTime })),
			processor.JSON(),
		),
		logging.WithTransports(transport.Stream(sink.writers())),
	)

	logger.Debug("Tripitaka debugs!")
	logger.Info("Tripitaka rocks twice!")

	assert.Empty(t, sink.get(logging.LevelDebug))
	assert.Equal(t, []string{`{"level":"INFO","message":"Tripitaka rocks twice!","timestamp":"` + tripitakaStamp + `"}`}, sink.get(logging.LevelInfo))
}

func TestIntegration_DisabledBeforeEmission(t *testing.T) {
	t.Parallel()

	sink := newLineSink()
	logger := logging.MustNew(logging.WithTransports(transport.Stream(sink.writers())))
	logger.Disable()

	for _, level := range logging.Levels() {
		require.NoError(t, logger.Log(context.Background(), level, "Tripitaka is silent"))
	}

	for _, level := range logging.Levels() {
		assert.Empty(t, sink.get(level))
	}
}

func TestIntegration_HumanToMultipleTransports(t *testing.T) {
	t.Parallel()

	var out, audit bytes.Buffer
	logger := logging.MustNew(
		logging.WithProcessors(
			processor.Redact(),
			processor.Timestamp(processor.WithClock(func() time.Time { return tripitakaTime })),
			processor.Human(processor.WithTemplate("%v [%s] %s password=%s"), processor.WithPaths("timestamp", "level", "message", "password")),
		),
		logging.WithTransports(transport.Writer(&out), transport.Writer(&audit)),
	)

	logger.Warn("login", "password", "hunter2")

	want := tripitakaStamp + " [WARN] login password=***REDACTED***\n"
	assert.Equal(t, want, out.String())
	assert.Equal(t, want, audit.String())
}

func TestIntegration_BufferedStartup(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	buf := transport.NewBuffer(transport.Writer(&out))
	buf.Start()
	logger := logging.MustNew(logging.WithProcessors(processor.JSON()), logging.WithTransports(buf))

	logger.Info("starting")
	out.WriteString("=== banner ===\n")
	require.NoError(t, logger.Shutdown(context.Background()))

	assert.Equal(t, "=== banner ===\n{\"level\":\"INFO\",\"message\":\"starting\"}\n", out.String())
}

func TestIntegration_SampledBatch(t *testing.T) {
	t.Parallel()

	sampler, err := processor.Sample(processor.SamplingConfig{Initial: 1, Thereafter: 2})
	require.NoError(t, err)
	rec := logging.NewRecorder()
	batch := transport.NewBatch(rec, 10, time.Hour)
	logger := logging.MustNew(logging.WithProcessors(sampler), logging.WithTransports(batch))

	for range 5 {
		logger.Info("noisy")
	}
	logger.Error("important")
	assert.Zero(t, rec.Len(), "batch holds deliveries until flushed")

	require.NoError(t, logger.Shutdown(context.Background()))
	// 1 initial, then every second of the remaining 4 infos, plus the error
	assert.Equal(t, 4, rec.Len())
}

//nolint:paralleltest // Modifies the global slog default
func TestIntegration_GlobalLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	rec := logging.NewRecorder()
	logging.MustNew(logging.WithTransports(rec), logging.WithGlobalLogger())

	slog.Info("through slog", "k", "v")

	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "through slog", records[0].Message())
}
