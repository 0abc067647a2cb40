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

package codec

import (
	"bytes"

	"github.com/goccy/go-yaml"
)

// TypeYAML identifies YAML documents.
const TypeYAML Type = "yaml"

func init() {
	Register(TypeYAML, YAMLCodec{})
}

// YAMLCodec encodes and decodes YAML.
type YAMLCodec struct{}

// Encode implements [Encoder].
func (YAMLCodec) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Decode implements [Decoder]. An empty document decodes to an empty map.
func (YAMLCodec) Decode(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return setEmpty(v)
	}

	return yaml.Unmarshal(data, v)
}
