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

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// argsPool provides pooled argument slices for the convenience methods.
var argsPool = sync.Pool{
	New: func() any {
		s := make([]any, 0, 16)
		return &s
	},
}

// withArgs runs fn with a pooled slice. The slice must not escape fn:
// Log copies everything it keeps into the record.
func withArgs(fn func(args []any) []any) {
	argsPtr := argsPool.Get().(*[]any)
	defer func() {
		clear(*argsPtr)
		*argsPtr = (*argsPtr)[:0]
		argsPool.Put(argsPtr)
	}()

	*argsPtr = fn((*argsPtr)[:0])
}

// LogRequest logs an HTTP request at INFO with standard fields.
//
// Standard fields included:
//   - method: HTTP method (GET, POST, etc.)
//   - path: Request path (without query string)
//   - remote: Client remote address
//   - user_agent: Client User-Agent header
//   - query: Query string (only if non-empty)
//
// Additional fields can be passed via 'extra' (e.g., "status", 200, "duration_ms", 45).
//
// Example:
//
//	logger.LogRequest(r, "status", 200, "duration_ms", 45, "bytes", 1024)
func (l *Logger) LogRequest(r *http.Request, extra ...any) {
	if !l.Enabled(LevelInfo) {
		return
	}

	withArgs(func(args []any) []any {
		args = append(args,
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
		if r.URL.RawQuery != "" {
			args = append(args, "query", r.URL.RawQuery)
		}
		args = append(args, extra...)
		l.Info("http request", args...)

		return args
	})
}

// LogError logs err at ERROR under the "error" key, followed by extra fields.
//
// Example:
//
//	if err := db.Insert(user); err != nil {
//	    logger.LogError(err, "database operation failed",
//	        "operation", "INSERT",
//	        "table", "users",
//	    )
//	    return err
//	}
func (l *Logger) LogError(err error, msg string, extra ...any) {
	if !l.Enabled(LevelError) {
		return
	}

	withArgs(func(args []any) []any {
		args = append(args, KeyError, err)
		args = append(args, extra...)
		l.Error(msg, args...)

		return args
	})
}

// LogDuration logs an operation duration at INFO.
//
// Automatically includes:
//   - duration_ms: Duration in milliseconds (for easy filtering/alerting)
//   - duration: Human-readable duration string (e.g., "1.5s", "250ms")
func (l *Logger) LogDuration(msg string, start time.Time, extra ...any) {
	if !l.Enabled(LevelInfo) {
		return
	}

	duration := time.Since(start)
	withArgs(func(args []any) []any {
		args = append(args,
			"duration_ms", duration.Milliseconds(),
			"duration", duration.String(),
		)
		args = append(args, extra...)
		l.Info(msg, args...)

		return args
	})
}

// ErrorWithStack logs an error with an optional "stack" field.
//
// When err (or anything it wraps) was created by github.com/pkg/errors, its
// recorded stack is used; otherwise the caller's stack is captured.
//
// When to use stack traces:
//
//	✓ Critical errors that require debugging
//	✓ Unexpected error conditions (panics, invariant violations)
//	✗ Expected errors (validation failures, not found)
func (l *Logger) ErrorWithStack(msg string, err error, includeStack bool, extra ...any) {
	if !l.Enabled(LevelError) {
		return
	}

	withArgs(func(args []any) []any {
		args = append(args, KeyError, err)
		if includeStack {
			stack := StackOf(err)
			if stack == "" {
				stack = captureStack(4)
			}
			args = append(args, "stack", stack)
		}
		args = append(args, extra...)
		l.Error(msg, args...)

		return args
	})
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// StackOf returns the stack recorded by github.com/pkg/errors in err's chain,
// formatted one frame per line, or "" when there is none.
func StackOf(err error) string {
	var st stackTracer
	if !errors.As(err, &st) {
		return ""
	}

	return strings.TrimPrefix(fmt.Sprintf("%+v", st.StackTrace()), "\n")
}

// captureStack captures a stack trace.
//
// Skip parameter: Number of stack frames to skip.
//   - 0: starts at captureStack
//   - 4: skips captureStack, the closure, withArgs and ErrorWithStack
func captureStack(skip int) string {
	var buf strings.Builder
	pcs := make([]uintptr, 10)
	n := runtime.Callers(skip+1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}

	return buf.String()
}
