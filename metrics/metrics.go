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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"

	promclient "github.com/prometheus/client_golang/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultDurationBuckets are histogram boundaries for delivery duration in
// seconds. Covers 10µs to 1 second.
var DefaultDurationBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// ErrNoHandler is returned by [Recorder.Handler] when the recorder does not
// export to Prometheus.
var ErrNoHandler = errors.New("handler only available with Prometheus provider")

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g., failed to flush metrics).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event.
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event represents an internal operational event from the metrics package.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events from the metrics package.
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs events to the provided slog.Logger.
//
// If logger is nil, returns a no-op handler that discards all events.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}

	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

// Provider represents the available metrics providers.
type Provider string

const (
	// PrometheusProvider exposes metrics through [Recorder.Handler] (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes metrics to an OTLP HTTP collector.
	OTLPProvider Provider = "otlp"
	// StdoutProvider prints metrics to stdout (development/testing).
	StdoutProvider Provider = "stdout"
	// CustomProvider marks a caller-supplied meter provider.
	CustomProvider Provider = "custom"
)

// Recorder holds the meter provider and the pipeline instruments.
// All methods are safe for concurrent use.
type Recorder struct {
	meter              metric.Meter
	meterProvider      metric.MeterProvider
	prometheusHandler  http.Handler
	prometheusRegistry *promclient.Registry
	eventHandler       EventHandler

	records          metric.Int64Counter
	faults           metric.Int64Counter
	deliveryDuration metric.Float64Histogram

	durationBuckets []float64
	exportInterval  time.Duration

	serviceName    string
	serviceVersion string
	otlpEndpoint   string

	provider            Provider
	providerSetCount    int
	isShuttingDown      atomic.Bool
	customMeterProvider bool
	registerGlobal      bool
}

// New creates a new [Recorder] with the given options.
// Returns an error if the metrics provider fails to initialize.
// For a version that panics on error, use [MustNew].
//
// By default, this function does NOT set the global OpenTelemetry meter provider.
// Use [WithGlobalMeterProvider] if you want to register the meter provider as the global default.
func New(opts ...Option) (*Recorder, error) {
	recorder := newDefaultRecorder()

	for _, opt := range opts {
		if opt != nil {
			opt(recorder)
		}
	}

	if err := recorder.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := recorder.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return recorder, nil
}

// newDefaultRecorder creates a new Recorder with default values.
func newDefaultRecorder() *Recorder {
	return &Recorder{
		serviceName:     "pipelog",
		provider:        PrometheusProvider,
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultDurationBuckets,
	}
}

// validate checks that the configuration is valid.
func (r *Recorder) validate() error {
	if r.providerSetCount > 1 {
		return errors.New("conflicting provider options: only one of WithPrometheus, WithOTLP, WithStdout or WithMeterProvider can be used")
	}

	if r.customMeterProvider && r.meterProvider == nil {
		return errors.New("custom meter provider is nil")
	}

	if r.serviceName == "" {
		return errors.New("service name cannot be empty")
	}

	if r.exportInterval <= 0 {
		return fmt.Errorf("export interval must be positive, got %v", r.exportInterval)
	}
	if r.exportInterval < time.Second {
		r.emitWarning("Export interval is very low, may cause high CPU usage", "interval", r.exportInterval)
	}

	if r.provider == OTLPProvider && r.otlpEndpoint == "" {
		r.emitWarning("OTLP endpoint not specified, will use default", "default", "http://localhost:4318")
		r.otlpEndpoint = "http://localhost:4318"
	}

	return nil
}

// MustNew creates a new [Recorder] with the given options.
// It panics if the metrics provider fails to initialize.
func MustNew(opts ...Option) *Recorder {
	recorder, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize metrics: %v", err))
	}

	return recorder
}

// Handler returns the Prometheus metrics [http.Handler].
// Returns [ErrNoHandler] if the recorder does not use [PrometheusProvider].
//
// Example:
//
//	handler, err := recorder.Handler()
//	if err == nil {
//	    http.Handle("/metrics", handler)
//	}
func (r *Recorder) Handler() (http.Handler, error) {
	if r.prometheusHandler == nil {
		return nil, fmt.Errorf("%w, current provider: %s", ErrNoHandler, r.provider)
	}

	return r.prometheusHandler, nil
}

// Provider returns the current metrics provider.
func (r *Recorder) Provider() Provider {
	return r.provider
}

// ServiceName returns the service name.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// MeterProvider returns the meter provider backing the recorder.
func (r *Recorder) MeterProvider() metric.MeterProvider {
	return r.meterProvider
}

// Shutdown flushes pending metrics and shuts down the meter provider.
// A caller-supplied provider is left to its owner.
// This method is idempotent; only the first call does any work.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}

	if r.customMeterProvider {
		r.emitDebug("Skipping flush and shutdown of custom meter provider (managed by user)")
		return nil
	}

	return r.shutdownSDKMeterProvider(ctx)
}

// shutdownSDKMeterProvider flushes and shuts down the SDK meter provider.
// Returns an error only if shutdown fails; flush failures are logged as warnings.
func (r *Recorder) shutdownSDKMeterProvider(ctx context.Context) error {
	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}

	if err := mp.ForceFlush(ctx); err != nil {
		r.emitWarning("metrics flush warning", "error", err)
	}

	if err := mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}
	r.emitDebug("Meter provider shut down successfully")

	return nil
}

// ForceFlush immediately exports any pending metric data. It is a no-op for
// Prometheus, which is scraped, and after [Recorder.Shutdown].
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if r.isShuttingDown.Load() {
		return nil
	}

	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok {
		if err := mp.ForceFlush(ctx); err != nil {
			return fmt.Errorf("metrics force flush: %w", err)
		}
	}

	return nil
}

func (r *Recorder) emitWarning(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventWarning, Message: msg, Args: args})
	}
}

func (r *Recorder) emitDebug(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventDebug, Message: msg, Args: args})
	}
}
