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

package transport

import (
	"context"
	"io"
	"maps"
	"sync"

	"rivaas.dev/pipelog/logging"
)

// StreamTransport writes lines to io.Writers. Writes are serialized.
type StreamTransport struct {
	mu      sync.Mutex
	writers map[logging.Level]io.Writer
	all     io.Writer
	single  bool
}

// Stream writes each record to the writer registered for its level. Levels
// without a writer are skipped.
//
// Example:
//
//	transport.Stream(map[logging.Level]io.Writer{
//	    logging.LevelInfo:  os.Stdout,
//	    logging.LevelWarn:  os.Stderr,
//	    logging.LevelError: os.Stderr,
//	})
func Stream(writers map[logging.Level]io.Writer) *StreamTransport {
	return &StreamTransport{writers: maps.Clone(writers)}
}

// Writer writes every record to w. Delivering to a nil writer fails with
// [logging.ErrNilWriter].
func Writer(w io.Writer) *StreamTransport {
	return &StreamTransport{all: w, single: true}
}

// Deliver implements [logging.Transport].
func (s *StreamTransport) Deliver(_ context.Context, level logging.Level, v any) error {
	w := s.all
	if !s.single {
		w = s.writers[level]
		if w == nil {
			return nil
		}
	}
	if w == nil {
		return logging.ErrNilWriter
	}

	line, err := encodeLine(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = w.Write(line)

	return err
}
