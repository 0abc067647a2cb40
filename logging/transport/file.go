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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/gzip"

	"rivaas.dev/pipelog/logging"
)

// FileOption configures [File].
type FileOption func(*fileConfig)

type fileConfig struct {
	gzip bool
	perm os.FileMode
}

// WithGzip compresses the file with gzip. Call [FileTransport.Close] to write
// the gzip trailer.
func WithGzip() FileOption {
	return func(c *fileConfig) { c.gzip = true }
}

// WithPermissions sets the mode used when creating the file (default 0644).
func WithPermissions(perm os.FileMode) FileOption {
	return func(c *fileConfig) { c.perm = perm }
}

// FileTransport appends lines to a file. It does not rotate.
type FileTransport struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	gz     *gzip.Writer
	out    io.Writer
	closed bool
}

// File opens path for appending, creating it and its directory if needed.
func File(path string, opts ...FileOption) (*FileTransport, error) {
	cfg := fileConfig{perm: 0o644}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, cfg.perm)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	t := &FileTransport{path: path, file: f, out: f}
	if cfg.gzip {
		t.gz = gzip.NewWriter(f)
		t.out = t.gz
	}

	return t, nil
}

// Path returns the file path.
func (t *FileTransport) Path() string {
	return t.path
}

// Deliver implements [logging.Transport].
func (t *FileTransport) Deliver(_ context.Context, _ logging.Level, v any) error {
	line, err := encodeLine(v)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	_, err = t.out.Write(line)

	return err
}

// Flush pushes compressed data to the file. It is a no-op without gzip.
func (t *FileTransport) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.gz == nil {
		return nil
	}

	return t.gz.Flush()
}

// Close finishes the gzip stream, if any, and closes the file.
func (t *FileTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	if t.gz != nil {
		if err := t.gz.Close(); err != nil {
			_ = t.file.Close()
			return fmt.Errorf("close gzip stream: %w", err)
		}
	}

	return t.file.Close()
}
