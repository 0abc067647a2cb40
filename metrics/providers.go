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
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/resource"

	promclient "github.com/prometheus/client_golang/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// meterName is the instrumentation scope of every instrument.
const meterName = "rivaas.dev/pipelog"

// initializeProvider builds the meter provider and the instruments.
func (r *Recorder) initializeProvider() error {
	var err error
	switch r.provider {
	case CustomProvider:
		r.emitDebug("Using custom user-provided meter provider")
	case PrometheusProvider:
		err = r.initPrometheusProvider()
	case OTLPProvider:
		err = r.initOTLPProvider()
	case StdoutProvider:
		err = r.initStdoutProvider()
	default:
		err = fmt.Errorf("unsupported metrics provider: %s", r.provider)
	}
	if err != nil {
		return err
	}

	if r.registerGlobal {
		r.emitDebug("Setting global OpenTelemetry meter provider", "provider", r.provider)
		otel.SetMeterProvider(r.meterProvider)
	}

	r.meter = r.meterProvider.Meter(meterName)

	return r.initializeMetrics()
}

// resource describes the service the metrics belong to.
func (r *Recorder) resource() *resource.Resource {
	attrs := []attribute.KeyValue{attribute.String("service.name", r.serviceName)}
	if r.serviceVersion != "" {
		attrs = append(attrs, attribute.String("service.version", r.serviceVersion))
	}

	return resource.NewSchemaless(attrs...)
}

// initPrometheusProvider initializes the Prometheus metrics provider.
func (r *Recorder) initPrometheusProvider() error {
	// A private registry lets several recorders coexist.
	r.prometheusRegistry = promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(r.prometheusRegistry),
	)
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(r.resource()),
	)

	r.prometheusHandler = promhttp.HandlerFor(
		r.prometheusRegistry,
		promhttp.HandlerOpts{},
	)

	return nil
}

// initOTLPProvider initializes the OTLP metrics provider.
func (r *Recorder) initOTLPProvider() error {
	opts := []otlpmetrichttp.Option{}

	endpoint, insecure := splitEndpoint(r.otlpEndpoint)
	if endpoint != "" {
		opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
	}
	if insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	// The exporter connects lazily; New does not block.
	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))),
		sdkmetric.WithResource(r.resource()),
	)

	return nil
}

// initStdoutProvider initializes the stdout metrics provider.
func (r *Recorder) initStdoutProvider() error {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))),
		sdkmetric.WithResource(r.resource()),
	)

	return nil
}

// splitEndpoint strips the scheme and any path from an OTLP endpoint URL and
// reports whether the plain-HTTP scheme was used.
func splitEndpoint(raw string) (hostport string, insecure bool) {
	hostport = raw
	if rest, ok := strings.CutPrefix(hostport, "http://"); ok {
		hostport, insecure = rest, true
	} else {
		hostport = strings.TrimPrefix(hostport, "https://")
	}
	if i := strings.IndexByte(hostport, '/'); i != -1 {
		hostport = hostport[:i]
	}

	return hostport, insecure
}
