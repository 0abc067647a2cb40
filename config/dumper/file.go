// Copyright 2025 The Rivaas Authors
// Copyright 2025 Company.info B.V.
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

package dumper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"rivaas.dev/pipelog/config/codec"
)

// DefaultFilePermissions is the mode of dumped files.
const DefaultFilePermissions = 0o644

// File writes the effective configuration to a file.
// The file is replaced atomically: content goes to a temporary file in the
// same directory which is then renamed over the target.
type File struct {
	path        string
	encoder     codec.Encoder
	permissions os.FileMode
}

// NewFile returns a File dumper using [DefaultFilePermissions].
func NewFile(path string, encoder codec.Encoder) *File {
	return NewFileWithPermissions(path, encoder, DefaultFilePermissions)
}

// NewFileWithPermissions returns a File dumper creating files with perm,
// e.g. 0o600 when the configuration holds credentials.
func NewFileWithPermissions(path string, encoder codec.Encoder, perm os.FileMode) *File {
	return &File{path: path, encoder: encoder, permissions: perm}
}

// Path returns the target path.
func (f *File) Path() string {
	return f.path
}

// Dump encodes values and writes them to the target path.
func (f *File) Dump(_ context.Context, values *map[string]any) error {
	if values == nil {
		return errors.New("values cannot be nil")
	}
	data, err := f.encoder.Encode(*values)
	if err != nil {
		return fmt.Errorf("failed to encode values: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err = tmp.Chmod(f.permissions); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err = os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
