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

//go:build !integration

package dumper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/pipelog/config/codec"
)

type failingEncoder struct{}

func (failingEncoder) Encode(any) ([]byte, error) { return nil, errors.New("boom") }

func TestFile_Dump(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "effective.json")
	values := map[string]any{"level": "info", "outputs": []any{map[string]any{"type": "stdout"}}}

	d := NewFile(path, codec.JSONCodec{})
	require.NoError(t, d.Dump(context.Background(), &values))
	assert.Equal(t, path, d.Path())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"info","outputs":[{"type":"stdout"}]}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(DefaultFilePermissions), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestFile_DumpReplacesExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "effective.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stale: true\n"), 0o644))

	values := map[string]any{"level": "warn"}
	require.NoError(t, NewFileWithPermissions(path, codec.YAMLCodec{}, 0o600).Dump(context.Background(), &values))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "level: warn\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFile_DumpErrors(t *testing.T) {
	t.Parallel()

	values := map[string]any{"level": "info"}

	err := NewFile(filepath.Join(t.TempDir(), "x.json"), failingEncoder{}).Dump(context.Background(), &values)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode values")

	err = NewFile(filepath.Join(t.TempDir(), "missing", "x.json"), codec.JSONCodec{}).Dump(context.Background(), &values)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write file")

	require.Error(t, NewFile("x.json", codec.JSONCodec{}).Dump(context.Background(), nil))
}
