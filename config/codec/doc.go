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

// Package codec decodes and encodes logging configuration documents.
//
// Built-in formats are registered at init:
//
//   - [TypeJSON]: encoding/json, indented on encode
//   - [TypeYAML]: github.com/goccy/go-yaml
//   - [TypeTOML]: github.com/BurntSushi/toml
//   - [TypeEnvVar]: KEY=value lines, decode only
//
// Additional formats can be registered with [Register]:
//
//	codec.Register(codec.Type("hcl"), myCodec{})
//
// Environment variable names nest on a double underscore, so
// SERVICE__NAME=api decodes to {"service": {"name": "api"}} while
// RECORD_ID=true decodes to {"record_id": true}.
package codec
