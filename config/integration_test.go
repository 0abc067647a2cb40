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

//go:build integration

package config

import (
	"context"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/log"
	"github.com/testcontainers/testcontainers-go/modules/consul"

	"rivaas.dev/pipelog/logging"
)

func TestConsulLayeredOverFile(t *testing.T) {
	ctx := context.Background()

	container, err := consul.Run(ctx, "hashicorp/consul:1.15", testcontainers.WithLogger(log.TestLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	endpoint, err := container.ApiEndpoint(ctx)
	require.NoError(t, err)
	t.Setenv("CONSUL_HTTP_ADDR", endpoint)

	clientCfg := api.DefaultConfig()
	clientCfg.Address = endpoint
	client, err := api.NewClient(clientCfg)
	require.NoError(t, err)
	_, err = client.KV().Put(&api.KVPair{
		Key:   "checkout/logging.json",
		Value: []byte(`{"level":"error","service":{"environment":"staging"}}`),
	}, nil)
	require.NoError(t, err)

	file := TestFile(t, "logging.yaml", []byte("level: debug\nformat: none\nservice:\n  name: checkout\n"))
	cfg, err := New(WithFile(file), WithConsul("checkout/logging.json"))
	require.NoError(t, err)
	require.NoError(t, cfg.Load(ctx))

	s := cfg.Settings()
	assert.Equal(t, "error", s.Level)
	assert.Equal(t, ServiceSettings{Name: "checkout", Environment: "staging"}, s.Service)

	rec := logging.NewRecorder()
	logger, err := cfg.Logger(logging.WithTransports(rec))
	require.NoError(t, err)
	logger.Warn("filtered")
	logger.Error("emitted")
	require.NoError(t, logger.Shutdown(ctx))

	records := rec.Records()
	require.Len(t, records, 1)
	env, _ := records[0].Get("env")
	assert.Equal(t, "staging", env)
}
