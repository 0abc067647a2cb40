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
	"fmt"
	"sync/atomic"

	"github.com/hashicorp/consul/api"

	"rivaas.dev/pipelog/config/codec"
)

// ConsulKV is the subset of the Consul KV API used by [Consul].
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// Consul loads a configuration document stored under one key of Consul's
// key-value store.
//
// The client is configured from the environment:
//   - CONSUL_HTTP_ADDR: the address of the Consul server
//   - CONSUL_HTTP_TOKEN: the access token (optional)
type Consul struct {
	kv        ConsulKV
	key       string
	decoder   codec.Decoder
	lastIndex atomic.Uint64
}

// NewConsul returns a Consul source for key. If kv is nil the default client's
// KV endpoint is used.
func NewConsul(key string, decoder codec.Decoder, kv ConsulKV) (*Consul, error) {
	if kv == nil {
		client, err := api.NewClient(api.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create consul client: %w", err)
		}
		kv = client.KV()
	}

	return &Consul{kv: kv, key: key, decoder: decoder}, nil
}

// Key returns the Consul key.
func (c *Consul) Key() string {
	return c.key
}

// LastIndex returns the Consul index observed by the last successful Load.
func (c *Consul) LastIndex() uint64 {
	return c.lastIndex.Load()
}

// Load implements config.Source. A missing key yields an empty map.
func (c *Consul) Load(ctx context.Context) (map[string]any, error) {
	pair, meta, err := c.kv.Get(c.key, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get consul key %q: %w", c.key, err)
	}
	if meta != nil {
		c.lastIndex.Store(meta.LastIndex)
	}
	if pair == nil {
		return map[string]any{}, nil
	}

	var conf map[string]any
	if err = c.decoder.Decode(pair.Value, &conf); err != nil {
		return nil, fmt.Errorf("failed to decode consul value: %w", err)
	}

	return conf, nil
}
