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
	"fmt"
	"slices"
	"sync"
)

// Registry holds the registered encoders and decoders.
type Registry struct {
	mu       sync.RWMutex
	encoders map[Type]Encoder
	decoders map[Type]Decoder
}

var registry = &Registry{
	encoders: make(map[Type]Encoder),
	decoders: make(map[Type]Decoder),
}

// Register registers c as both encoder and decoder for name.
func Register(name Type, c Codec) {
	RegisterEncoder(name, c)
	RegisterDecoder(name, c)
}

// RegisterEncoder registers an encoder for the given type, replacing any
// previous registration.
func RegisterEncoder(name Type, encoder Encoder) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.encoders[name] = encoder
}

// RegisterDecoder registers a decoder for the given type, replacing any
// previous registration.
func RegisterDecoder(name Type, decoder Decoder) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.decoders[name] = decoder
}

// GetEncoder returns the encoder registered for name.
func GetEncoder(name Type) (Encoder, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	encoder, exists := registry.encoders[name]
	if !exists {
		return nil, fmt.Errorf("encoder not found for type: %s", name)
	}

	return encoder, nil
}

// GetDecoder returns the decoder registered for name.
func GetDecoder(name Type) (Decoder, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	decoder, exists := registry.decoders[name]
	if !exists {
		return nil, fmt.Errorf("decoder not found for type: %s", name)
	}

	return decoder, nil
}

// Types returns the sorted names of all registered decoders.
func Types() []Type {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	types := make([]Type, 0, len(registry.decoders))
	for t := range registry.decoders {
		types = append(types, t)
	}
	slices.Sort(types)

	return types
}
