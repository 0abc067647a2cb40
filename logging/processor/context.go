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

package processor

import (
	"context"

	"rivaas.dev/pipelog/logging"
)

// Context merges the fields attached with [logging.ContextWithFields] and the
// trace_id/span_id of the active OpenTelemetry span into the record.
// The level field is never replaced.
func Context() logging.Processor {
	return logging.ProcessorFunc(func(ctx context.Context, _ logging.Level, v any) (logging.Result, error) {
		rec, ok := asRecord(v)
		if !ok {
			return logging.Continue(v), nil
		}

		fields := logging.FieldsFromContext(ctx)
		traceFields := logging.TraceFields(ctx)
		if len(fields) == 0 && len(traceFields) == 0 {
			return logging.Continue(rec), nil
		}

		level, hasLevel := rec.Get(logging.KeyLevel)
		rec.Merge(fields...)
		rec.Merge(traceFields...)
		if hasLevel {
			rec.Set(logging.KeyLevel, level)
		}

		return logging.Continue(rec), nil
	})
}
