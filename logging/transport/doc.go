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

// Package transport provides ready-made [logging.Transport] implementations:
// line writers (per-level streams, a single writer, files), bridges to other
// logging libraries (log/slog, zap), OpenTelemetry span events, and wrappers
// that buffer or batch deliveries for another transport.
//
// Writer-based transports write one line per delivery: strings and byte
// slices as they are, records and other values as JSON. A trailing newline
// is added when missing.
package transport

import (
	"encoding/json"
	"errors"
	"fmt"

	"rivaas.dev/pipelog/logging"
)

// ErrClosed is returned when delivering to a closed transport.
var ErrClosed = errors.New("transport: closed")

// encodeLine renders v as one newline-terminated line.
func encodeLine(v any) ([]byte, error) {
	var line []byte
	switch x := v.(type) {
	case string:
		line = []byte(x)
	case []byte:
		line = x
	case *logging.Record:
		b, err := x.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encode record: %w", err)
		}
		line = b
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, fmt.Errorf("encode %T: %w", x, err)
		}
		line = b
	}

	if len(line) == 0 || line[len(line)-1] != '\n' {
		line = append(line[:len(line):len(line)], '\n')
	}

	return line, nil
}
