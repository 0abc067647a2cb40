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

// Package processor provides ready-made [logging.Processor] implementations:
// enrichment (timestamps, context fields, service identity, record IDs),
// transformation (error flattening, redaction), veto (sampling, filtering) and
// formatting (JSON, human-readable templates, colored console lines).
//
// Formatting processors turn a record into a string and belong at the end of
// the pipeline. Processors that work on records pass any other value through
// unchanged.
//
// A typical production pipeline:
//
//	logging.WithProcessors(
//	    processor.Context(),
//	    processor.Errors(processor.WithStack(true)),
//	    processor.Redact(),
//	    processor.Timestamp(),
//	    processor.JSON(),
//	)
package processor

import "rivaas.dev/pipelog/logging"

// asRecord returns v as an open record.
func asRecord(v any) (*logging.Record, bool) {
	rec, ok := v.(*logging.Record)
	return rec, ok && rec != nil
}
