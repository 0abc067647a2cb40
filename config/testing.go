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

package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type staticSource struct {
	conf map[string]any
	err  error
}

func (s *staticSource) Load(context.Context) (map[string]any, error) {
	return s.conf, s.err
}

// TestSource returns a source that always loads conf.
func TestSource(conf map[string]any) Source {
	return &staticSource{conf: conf}
}

// TestSourceWithError returns a source whose Load fails with err.
func TestSourceWithError(err error) Source {
	return &staticSource{err: err}
}

// MockDumper records what it was asked to dump.
type MockDumper struct {
	mu     sync.Mutex
	calls  int
	values map[string]any
	err    error
}

// TestDumper returns a MockDumper that succeeds.
func TestDumper() *MockDumper {
	return &MockDumper{}
}

// TestDumperWithError returns a MockDumper that fails with err.
func TestDumperWithError(err error) *MockDumper {
	return &MockDumper{err: err}
}

// Dump implements [Dumper].
func (m *MockDumper) Dump(_ context.Context, values *map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.values = *values

	return m.err
}

// Calls returns how many times Dump was called.
func (m *MockDumper) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls
}

// Values returns the values of the last Dump.
func (m *MockDumper) Values() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.values
}

// TestConfigLoaded returns a Config loaded from conf, failing t on error.
func TestConfigLoaded(t *testing.T, conf map[string]any, opts ...Option) *Config {
	t.Helper()
	cfg, err := New(append([]Option{WithSource(TestSource(conf))}, opts...)...)
	require.NoError(t, err, "failed to create test config")
	require.NoError(t, cfg.Load(t.Context()), "failed to load test config")

	return cfg
}

// TestFile writes content to name inside a temporary directory and returns
// the path. The format follows name's extension.
func TestFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600), "failed to create test file")

	return path
}
