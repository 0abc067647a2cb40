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

import "context"

// Result is the outcome of one processor: either a value that continues down
// the pipeline, or a drop that suppresses the emission.
type Result struct {
	value any
	keep  bool
}

// Continue passes v to the next processor, or to the transports if this was
// the last one. v may be a *Record or any other serializable value such as a
// formatted string. Continue(nil) is equivalent to Drop().
func Continue(v any) Result {
	return Result{value: v, keep: v != nil}
}

// Drop stops the pipeline. No later processor and no transport sees the record.
func Drop() Result {
	return Result{}
}

// Dropped reports whether the result vetoes the record.
func (r Result) Dropped() bool {
	return !r.keep
}

// Value returns the value carried by a Continue result.
func (r Result) Value() any {
	return r.value
}

// Processor transforms, enriches or drops a record.
//
// v is the output of the previous processor: a *Record for the first one,
// possibly any other value afterwards. Processors must not retain v after
// returning. Returning an error aborts the record and reports a
// [ProcessorError]; returning [Drop] is normal control flow.
type Processor interface {
	Process(ctx context.Context, level Level, v any) (Result, error)
}

// ProcessorFunc adapts a function to the [Processor] interface.
type ProcessorFunc func(ctx context.Context, level Level, v any) (Result, error)

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, level Level, v any) (Result, error) {
	return f(ctx, level, v)
}

// runPipeline applies the processors in order. It returns the final value and
// whether the record survived.
func runPipeline(ctx context.Context, processors []Processor, level Level, v any) (any, bool, error) {
	for i, p := range processors {
		res, err := runProcessor(ctx, p, level, v)
		if err != nil {
			return nil, false, &ProcessorError{Index: i, Err: err}
		}
		if res.Dropped() {
			return nil, false, nil
		}
		v = res.Value()
	}

	return v, true, nil
}

func runProcessor(ctx context.Context, p Processor, level Level, v any) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(ErrProcessorPanic, r)
		}
	}()

	return p.Process(ctx, level, v)
}
