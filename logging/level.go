// Copyright 2025 The Rivaas Authors
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

package logging

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level is a severity tier. Levels are totally ordered by their integer rank.
//
// The ranks match the numeric values of [slog.Level], so a Level converts to
// and from slog without loss for the five tiers below.
type Level int

const (
	// LevelTrace is the most verbose level.
	LevelTrace Level = -8
	// LevelDebug is the debug log level.
	LevelDebug Level = -4
	// LevelInfo is the default minimum level.
	LevelInfo Level = 0
	// LevelWarn is the warning log level.
	LevelWarn Level = 4
	// LevelError is the most severe level.
	LevelError Level = 8
)

// catalogue lists every level in ascending rank.
var catalogue = [...]Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// Levels returns the level catalogue in ascending rank order.
// The returned slice is a copy and may be modified by the caller.
func Levels() []Level {
	out := make([]Level, len(catalogue))
	copy(out, catalogue[:])

	return out
}

// String returns the level name ("TRACE", "DEBUG", "INFO", "WARN", "ERROR").
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// Valid reports whether l belongs to the catalogue.
func (l Level) Valid() bool {
	for _, c := range catalogue {
		if c == l {
			return true
		}
	}

	return false
}

// Compare returns -1, 0 or +1 depending on whether l ranks below, equal to or
// above other.
func (l Level) Compare(other Level) int {
	switch {
	case l < other:
		return -1
	case l > other:
		return 1
	default:
		return 0
	}
}

// ParseLevel resolves a level name. Matching is case-insensitive.
// An unknown name returns an error wrapping [ErrInvalidLevel].
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
}

// MarshalText implements [encoding.TextMarshaler].
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, int(l))
	}

	return []byte(l.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed

	return nil
}

// Slog returns the equivalent [slog.Level].
func (l Level) Slog() slog.Level {
	return slog.Level(l)
}

// LevelFromSlog maps a [slog.Level] to the highest catalogue level that does
// not exceed it. Values below [LevelTrace] clamp to LevelTrace.
func LevelFromSlog(sl slog.Level) Level {
	out := LevelTrace
	for _, c := range catalogue {
		if slog.Level(c) <= sl {
			out = c
		}
	}

	return out
}
