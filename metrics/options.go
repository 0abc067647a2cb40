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
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Option defines functional options for Recorder configuration.
type Option func(*Recorder)

// WithPrometheus exports metrics through a private Prometheus registry,
// served by [Recorder.Handler].
func WithPrometheus() Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
		r.providerSetCount++
	}
}

// WithOTLP pushes metrics to an OTLP HTTP collector at endpoint
// ("http://collector:4318", "https://otel.example.com"). An empty endpoint
// uses http://localhost:4318.
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.otlpEndpoint = endpoint
		r.providerSetCount++
	}
}

// WithStdout prints metrics to stdout at every export interval.
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.providerSetCount++
	}
}

// WithMeterProvider uses a caller-managed [metric.MeterProvider]. The recorder
// never flushes or shuts it down, and never registers it globally unless
// [WithGlobalMeterProvider] is also given.
//
// Example:
//
//	reader := sdkmetric.NewManualReader()
//	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
//	recorder := metrics.MustNew(metrics.WithMeterProvider(mp))
//	defer mp.Shutdown(context.Background())
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.provider = CustomProvider
		r.meterProvider = provider
		r.customMeterProvider = true
		r.providerSetCount++
	}
}

// WithGlobalMeterProvider registers the meter provider as the global
// OpenTelemetry meter provider via otel.SetMeterProvider().
func WithGlobalMeterProvider() Option {
	return func(r *Recorder) {
		r.registerGlobal = true
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) {
		r.serviceVersion = version
	}
}

// WithExportInterval sets the export interval for OTLP and stdout metrics.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) {
		r.exportInterval = interval
	}
}

// WithDurationBuckets sets the delivery duration histogram boundaries, in
// seconds. If not set, [DefaultDurationBuckets] is used.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.durationBuckets = buckets
	}
}

// WithEventHandler sets a custom handler for internal operational events.
func WithEventHandler(handler EventHandler) Option {
	return func(r *Recorder) {
		r.eventHandler = handler
	}
}

// WithLogger routes internal operational events to logger.
// It is shorthand for WithEventHandler(DefaultEventHandler(logger)).
func WithLogger(logger *slog.Logger) Option {
	return WithEventHandler(DefaultEventHandler(logger))
}
