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


// Package metrics instruments a [logging.Logger] with OpenTelemetry metrics.
//
// A [Recorder] owns a meter provider backed by one of three exporters
// (Prometheus, OTLP, stdout) or by a caller-supplied provider, and hands out
// pipeline components that count what flows through the engine.
//
// # Basic Usage
//
//	recorder := metrics.MustNew(
//	    metrics.WithPrometheus(),
//	    metrics.WithServiceName("checkout"),
//	)
//	defer recorder.Shutdown(context.Background())
//
//	logger := logging.MustNew(
//	    logging.WithProcessors(processor.JSON(), recorder.Processor()),
//	    logging.WithTransports(recorder.Transport(transport.Writer(os.Stdout))),
//	    logging.WithErrorHandler(recorder.ErrorHandler(nil)),
//	)
//
//	handler, _ := recorder.Handler()
//	http.Handle("/metrics", handler)
//
// # Instruments
//
//   - pipelog.records: records seen, by level and stage ("processed" for
//     [Recorder.Processor], "delivered" for [Recorder.Transport])
//   - pipelog.faults: faults by kind ("processor", "transport", "other")
//   - pipelog.delivery.duration: time spent in a transport, in seconds
//
// # Global State
//
// By default, this package does NOT set the global OpenTelemetry meter provider.
// Use [WithGlobalMeterProvider] if you want global registration.
// This allows multiple [Recorder] instances to coexist in the same process.
package metrics
