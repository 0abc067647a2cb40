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

// Package logging provides a structured logging engine built from two kinds
// of pluggable parts: an ordered pipeline of processors and a set of transports.
//
// Every emission builds a [Record] holding the level, the message and the
// metadata, hands it through the processors in order (each one may enrich,
// transform or drop it) and finally delivers the result to every transport.
// The engine itself neither formats nor writes anything: formatting is a
// processor (see the processor package), writing is a transport (see the
// transport package).
//
// # Basic Usage
//
//	logger := logging.MustNew(
//	    logging.WithProcessors(processor.Timestamp(), processor.JSON()),
//	    logging.WithTransports(transport.Writer(os.Stdout)),
//	)
//	defer logger.Shutdown(context.Background())
//	logger.Info("service started", "port", 8080)
//	// {"level":"INFO","message":"service started","port":8080,"timestamp":"..."}
//
// # Levels
//
// Levels are ordered TRACE < DEBUG < INFO < WARN < ERROR. Emissions below the
// minimum level (INFO by default) return before any record is built:
//
//	logger := logging.MustNew(logging.WithLevel(logging.LevelDebug), ...)
//
// # Processors
//
// A processor receives the output of its predecessor and returns a [Result]:
//
//	drop := logging.ProcessorFunc(func(_ context.Context, _ logging.Level, v any) (logging.Result, error) {
//	    if rec, ok := v.(*logging.Record); ok && rec.Message() == "noise" {
//	        return logging.Drop(), nil
//	    }
//	    return logging.Continue(v), nil
//	})
//
// A processor error aborts the record. [Logger.Log] returns it as a
// [*ProcessorError]; the named level methods hand it to the [ErrorHandler].
//
// # Transports
//
// Transports receive the final value. Records are sealed before delivery, so
// transports see exactly what the pipeline produced. A failing transport does
// not prevent delivery to the others.
//
// # Enable and Disable
//
//	logger.Disable() // every emission becomes a no-op
//	logger.Enable()
//
// Configuration is otherwise immutable after [New].
//
// # Convenience Methods
//
//	logger.LogRequest(r, "status", 200, "duration_ms", 45)
//	logger.LogError(err, "operation failed", "user_id", userID)
//	logger.LogDuration("processing completed", start, "items", count)
//
// # Context and slog
//
// [Logger.WithContext] passes the request context to processors and adds
// OpenTelemetry trace correlation. [Logger.Handler] lets code written against
// log/slog emit through the same pipeline.
//
// # Testing
//
//	th := logging.NewTestHelper(t)
//	th.Logger.Info("test message", "user_id", "123")
//	th.AssertLog(t, logging.LevelInfo, "test message", map[string]any{"user_id": "123"})
package logging
