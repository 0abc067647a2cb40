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

// Type identifies a configuration format.
type Type string

// Encoder converts Go values into encoded byte representations.
// Implementations must be safe for concurrent use.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder converts encoded bytes into Go values.
// Implementations must be safe for concurrent use.
type Decoder interface {
	// Decode decodes data into the value pointed to by v, usually a *map[string]any.
	Decode(data []byte, v any) error
}

// Codec is implemented by formats that can both decode and encode.
type Codec interface {
	Encoder
	Decoder
}
