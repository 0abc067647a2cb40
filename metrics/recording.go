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
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"rivaas.dev/pipelog/logging"
)

// Instrument names.
const (
	RecordsMetric  = "pipelog.records"
	FaultsMetric   = "pipelog.faults"
	DurationMetric = "pipelog.delivery.duration"
)

// Values of the stage attribute on [RecordsMetric].
const (
	StageProcessed = "processed"
	StageDelivered = "delivered"
)

// Values of the kind attribute on [FaultsMetric].
const (
	FaultProcessor = "processor"
	FaultTransport = "transport"
	FaultOther     = "other"
)

// initializeMetrics creates all the metric instruments.
func (r *Recorder) initializeMetrics() error {
	var err error

	r.records, err = r.meter.Int64Counter(
		RecordsMetric,
		metric.WithDescription("Number of log records by level and pipeline stage"),
	)
	if err != nil {
		return fmt.Errorf("failed to create records counter: %w", err)
	}

	r.faults, err = r.meter.Int64Counter(
		FaultsMetric,
		metric.WithDescription("Number of processor, transport and other logging faults"),
	)
	if err != nil {
		return fmt.Errorf("failed to create faults counter: %w", err)
	}

	r.deliveryDuration, err = r.meter.Float64Histogram(
		DurationMetric,
		metric.WithDescription("Time spent delivering a record to a transport in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create delivery duration histogram: %w", err)
	}

	return nil
}

// CountRecord counts one record at level reaching stage.
func (r *Recorder) CountRecord(ctx context.Context, level logging.Level, stage string) {
	r.records.Add(ctx, 1, metric.WithAttributes(
		attribute.String("level", level.String()),
		attribute.String("stage", stage),
	))
}

// RecordFault counts the faults in err. Joined errors count once per member.
// Faults already counted by a [Recorder.Transport] wrapper are skipped.
func (r *Recorder) RecordFault(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			r.RecordFault(ctx, e)
		}
		return
	}

	var counted *countedError
	if errors.As(err, &counted) {
		return
	}
	r.faults.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", faultKind(err))))
}

func faultKind(err error) string {
	var perr *logging.ProcessorError
	if errors.As(err, &perr) {
		return FaultProcessor
	}
	var terr *logging.TransportError
	if errors.As(err, &terr) {
		return FaultTransport
	}

	return FaultOther
}

// Processor returns a pass-through processor counting every record that
// reaches it with stage [StageProcessed]. Place it last to count records that
// survived the pipeline.
func (r *Recorder) Processor() logging.Processor {
	return logging.ProcessorFunc(func(ctx context.Context, level logging.Level, v any) (logging.Result, error) {
		r.CountRecord(ctx, level, StageProcessed)
		return logging.Continue(v), nil
	})
}

// Transport wraps next so that every delivery is timed, successful ones are
// counted with stage [StageDelivered], and failures are counted as
// transport faults. Flush and Close reach next.
func (r *Recorder) Transport(next logging.Transport) logging.Transport {
	return &transport{recorder: r, next: next}
}

type transport struct {
	recorder *Recorder
	next     logging.Transport
}

func (t *transport) Deliver(ctx context.Context, level logging.Level, v any) error {
	start := time.Now()
	err := t.next.Deliver(ctx, level, v)
	t.recorder.deliveryDuration.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		t.recorder.faults.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", FaultTransport)))
		return &countedError{err}
	}
	t.recorder.CountRecord(ctx, level, StageDelivered)

	return nil
}

func (t *transport) Flush() error {
	if f, ok := t.next.(logging.Flusher); ok {
		return f.Flush()
	}

	return nil
}

func (t *transport) Close() error {
	if c, ok := t.next.(logging.Closer); ok {
		return c.Close()
	}

	return nil
}

// countedError marks a delivery fault already recorded by a wrapped transport.
type countedError struct {
	err error
}

func (e *countedError) Error() string { return e.err.Error() }

func (e *countedError) Unwrap() error { return e.err }

// ErrorHandler returns a [logging.ErrorHandler] that counts faults and then
// passes them to next. A nil next writes them to stderr.
func (r *Recorder) ErrorHandler(next logging.ErrorHandler) logging.ErrorHandler {
	if next == nil {
		next = func(err error) { fmt.Fprintf(os.Stderr, "logging: %v\n", err) }
	}

	return func(err error) {
		r.RecordFault(context.Background(), err)
		next(err)
	}
}
