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

package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"rivaas.dev/pipelog/config/codec"
)

type FileSourceTestSuite struct {
	suite.Suite
	path string
}

func TestFileSourceTestSuite(t *testing.T) {
	suite.Run(t, new(FileSourceTestSuite))
}

func (s *FileSourceTestSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "logging.yaml")
	s.Require().NoError(os.WriteFile(s.path, []byte("level: warn\nformat: console\n"), 0o600))
}

func (s *FileSourceTestSuite) TestLoad_File() {
	src := NewFile(s.path, codec.YAMLCodec{})
	conf, err := src.Load(context.Background())
	s.Require().NoError(err)
	s.Equal(map[string]any{"level": "warn", "format": "console"}, conf)
	s.Equal(s.path, src.Path())
}

func (s *FileSourceTestSuite) TestLoad_RereadsOnEveryLoad() {
	src := NewFile(s.path, codec.YAMLCodec{})
	_, err := src.Load(context.Background())
	s.Require().NoError(err)

	s.Require().NoError(os.WriteFile(s.path, []byte("level: error\n"), 0o600))
	conf, err := src.Load(context.Background())
	s.Require().NoError(err)
	s.Equal("error", conf["level"])
}

func (s *FileSourceTestSuite) TestLoad_MissingFile() {
	_, err := NewFile(filepath.Join(s.T().TempDir(), "missing.yaml"), codec.YAMLCodec{}).Load(context.Background())
	s.Require().Error(err)
	s.Contains(err.Error(), "failed to read file")
	s.ErrorIs(err, os.ErrNotExist)
}

func (s *FileSourceTestSuite) TestLoad_DecodeError() {
	_, err := NewContent([]byte("{"), codec.JSONCodec{}).Load(context.Background())
	s.Require().Error(err)
	s.Contains(err.Error(), "failed to decode file")
}

func (s *FileSourceTestSuite) TestLoad_Content() {
	src := NewContent([]byte(`{"level":"trace"}`), codec.JSONCodec{})
	conf, err := src.Load(context.Background())
	s.Require().NoError(err)
	s.Equal("trace", conf["level"])
	s.Empty(src.Path())
}

func (s *FileSourceTestSuite) TestLoad_NoDecoder() {
	_, err := NewContent([]byte(`{}`), nil).Load(context.Background())
	s.Error(err)
}

func TestEnv_Load(t *testing.T) {
	t.Parallel()

	src := NewEnv("PIPELOG_")
	src.environ = func() []string {
		return []string{
			"PIPELOG_LEVEL=debug",
			"PIPELOG_SERVICE__NAME=checkout",
			"PIPELOG_RECORD_ID=true",
			"OTHER_LEVEL=error",
			"PATH=/usr/bin",
		}
	}

	conf, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"level":     "debug",
		"service":   map[string]any{"name": "checkout"},
		"record_id": true,
	}, conf)
	assert.Equal(t, "PIPELOG_", src.Prefix())
}

func TestEnv_LoadProcessEnvironment(t *testing.T) {
	t.Setenv("PIPELOG_TEST_ENV__FORMAT", "human")

	conf, err := NewEnv("PIPELOG_TEST_ENV__").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "human", conf["format"])
}

type mockConsulKV struct {
	pair *api.KVPair
	meta *api.QueryMeta
	err  error
	keys []string
}

func (m *mockConsulKV) Get(key string, _ *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error) {
	m.keys = append(m.keys, key)
	return m.pair, m.meta, m.err
}

func TestConsul_Load(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kv      *mockConsulKV
		decoder codec.Decoder
		want    map[string]any
		wantErr string
	}{
		{
			name: "json document",
			kv: &mockConsulKV{
				pair: &api.KVPair{Key: "svc/logging.json", Value: []byte(`{"level":"warn"}`)},
				meta: &api.QueryMeta{LastIndex: 42},
			},
			decoder: codec.JSONCodec{},
			want:    map[string]any{"level": "warn"},
		},
		{
			name:    "missing key",
			kv:      &mockConsulKV{},
			decoder: codec.JSONCodec{},
			want:    map[string]any{},
		},
		{
			name:    "query failure",
			kv:      &mockConsulKV{err: errors.New("connection refused")},
			decoder: codec.JSONCodec{},
			wantErr: "connection refused",
		},
		{
			name: "invalid document",
			kv: &mockConsulKV{
				pair: &api.KVPair{Key: "svc/logging.yaml", Value: []byte("level: [")},
			},
			decoder: codec.YAMLCodec{},
			wantErr: "failed to decode consul value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := NewConsul("svc/logging", tt.decoder, tt.kv)
			require.NoError(t, err)

			conf, err := src.Load(context.Background())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, conf)
			assert.Equal(t, []string{"svc/logging"}, tt.kv.keys)
			if tt.kv.meta != nil {
				assert.Equal(t, tt.kv.meta.LastIndex, src.LastIndex())
			}
		})
	}
}
