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

import "context"

// Source provides one layer of configuration. Sources are merged in the
// order they were added; later sources override earlier ones.
//
// Load must be safe to call concurrently.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// Dumper receives the merged configuration on [Config.Dump].
type Dumper interface {
	Dump(ctx context.Context, values *map[string]any) error
}
