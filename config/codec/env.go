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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// TypeEnvVar identifies KEY=value lines as produced by os.Environ.
const TypeEnvVar Type = "env_var"

// EnvSeparator separates nesting levels in variable names.
// A single underscore is part of the key: RECORD_ID is "record_id",
// SERVICE__NAME is "service.name".
const EnvSeparator = "__"

func init() {
	RegisterDecoder(TypeEnvVar, EnvVarCodec{})
}

// EnvVarCodec decodes environment variables into a nested map.
// Keys are lowercased. Values are trimmed and converted to bool or int64
// when they read as one, so they validate like file values.
type EnvVarCodec struct{}

// Encode is not supported.
func (EnvVarCodec) Encode(_ any) ([]byte, error) {
	return nil, errors.New("encoding to environment variables is not supported")
}

// Decode implements [Decoder]. v must be a *map[string]any.
func (EnvVarCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("EnvVarCodec.Decode: expected *map[string]any, got %T", v)
	}
	conf := make(map[string]any)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		parts := envPath(key)
		if len(parts) == 0 {
			continue
		}

		current := conf
		for _, part := range parts[:len(parts)-1] {
			next, isMap := current[part].(map[string]any)
			if !isMap {
				next = make(map[string]any)
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = inferScalar(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	*ptr = conf

	return nil
}

// envPath splits a variable name into lowercase path segments, dropping empty ones.
func envPath(key string) []string {
	raw := strings.Split(strings.ToLower(strings.TrimSpace(key)), EnvSeparator)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.Trim(p, "_"); p != "" {
			parts = append(parts, p)
		}
	}

	return parts
}

func inferScalar(s string) any {
	switch strings.ToLower(s) {
	case "true", "false":
		return cast.ToBool(s)
	}
	if s != "" && !strings.ContainsAny(s, ".eExX") {
		if n, err := cast.ToInt64E(s); err == nil && cast.ToString(n) == strings.TrimLeft(s, "+") {
			return n
		}
	}

	return s
}

// setEmpty stores an empty map into v when v is a *map[string]any.
func setEmpty(v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("cannot decode empty document into %T", v)
	}
	*ptr = map[string]any{}

	return nil
}
