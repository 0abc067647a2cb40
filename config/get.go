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

import (
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Get returns the value at the dotted, case-insensitive key converted to T,
// or the zero value when the key is absent or not convertible.
//
// Example:
//
//	level := config.Get[string](cfg, "level")
//	tick := config.Get[time.Duration](cfg, "sampling.tick")
func Get[T any](c *Config, key string) T {
	v, _ := lookup[T](c, key)
	return v
}

// GetOr is like [Get] but returns defaultVal when the key is absent or not
// convertible.
func GetOr[T any](c *Config, key string, defaultVal T) T {
	if v, ok := lookup[T](c, key); ok {
		return v
	}

	return defaultVal
}

func lookup[T any](c *Config, key string) (T, bool) {
	var zero T
	if c == nil || key == "" {
		return zero, false
	}

	c.mu.RLock()
	var val any = c.values
	for _, segment := range strings.Split(strings.ToLower(key), ".") {
		m, ok := val.(map[string]any)
		if !ok {
			val = nil
			break
		}
		val = m[segment]
	}
	c.mu.RUnlock()

	if val == nil {
		return zero, false
	}
	if v, ok := val.(T); ok {
		return v, true
	}

	return convert[T](val)
}

func convert[T any](val any) (T, bool) {
	var (
		zero T
		out  any
		err  error
	)
	switch any(zero).(type) {
	case string:
		out, err = cast.ToStringE(val)
	case bool:
		out, err = cast.ToBoolE(val)
	case int:
		out, err = cast.ToIntE(val)
	case int64:
		out, err = cast.ToInt64E(val)
	case float64:
		out, err = cast.ToFloat64E(val)
	case time.Duration:
		out, err = cast.ToDurationE(val)
	case []string:
		out, err = cast.ToStringSliceE(val)
	case map[string]any:
		out, err = cast.ToStringMapE(val)
	default:
		return zero, false
	}
	if err != nil {
		return zero, false
	}

	return out.(T), true
}
