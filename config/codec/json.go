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
	"encoding/json"
)

// TypeJSON identifies JSON documents.
const TypeJSON Type = "json"

func init() {
	Register(TypeJSON, JSONCodec{})
}

// JSONCodec encodes and decodes JSON. Dumps are indented for readability.
type JSONCodec struct{}

// Encode implements [Encoder].
func (JSONCodec) Encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

// Decode implements [Decoder]. An empty document decodes to an empty map.
func (JSONCodec) Decode(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return setEmpty(v)
	}

	return json.Unmarshal(data, v)
}
