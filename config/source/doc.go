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

// Package source provides the configuration sources used by the config package.
//
//   - [File]: a file on disk, or in-memory content, decoded by a codec
//   - [Env]: prefixed environment variables
//   - [Consul]: one key of Consul's key-value store
//
// Example:
//
//	decoder, _ := codec.GetDecoder(codec.TypeYAML)
//	conf, err := source.NewFile("logging.yaml", decoder).Load(ctx)
package source
