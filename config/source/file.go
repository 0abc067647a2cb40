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

package source

import (
	"context"
	"errors"
	"fmt"
	"os"

	"rivaas.dev/pipelog/config/codec"
)

// File loads configuration from a file path or from in-memory content.
type File struct {
	path    string
	data    []byte
	decoder codec.Decoder
}

// NewFile returns a source that reads path on every Load.
func NewFile(path string, decoder codec.Decoder) *File {
	return &File{path: path, decoder: decoder}
}

// NewContent returns a source that decodes data on every Load.
func NewContent(data []byte, decoder codec.Decoder) *File {
	return &File{data: data, decoder: decoder}
}

// Path returns the file path, or "" for content sources.
func (f *File) Path() string {
	return f.path
}

// Load implements config.Source.
//
// Errors:
//   - the file cannot be read
//   - decoding fails
func (f *File) Load(context.Context) (map[string]any, error) {
	if f.decoder == nil {
		return nil, errors.New("no decoder configured")
	}

	data := f.data
	if f.path != "" {
		var err error
		if data, err = os.ReadFile(f.path); err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	var conf map[string]any
	if err := f.decoder.Decode(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to decode file: %w", err)
	}

	return conf, nil
}
