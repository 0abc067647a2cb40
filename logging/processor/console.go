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

package processor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"rivaas.dev/pipelog/logging"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[37m"
	colorWhite  = "\033[97m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// consoleBuilderPool provides reusable [strings.Builder] instances
// for formatting console lines.
var consoleBuilderPool = sync.Pool{
	New: func() any {
		return &strings.Builder{}
	},
}

// ConsoleOption configures [Console].
type ConsoleOption func(*console)

// WithColors toggles ANSI colors (default on).
func WithColors(enabled bool) ConsoleOption {
	return func(c *console) { c.colors = enabled }
}

// console formats records for humans reading a terminal.
//
// Not recommended for production log aggregation (use [JSON]).
type console struct {
	colors bool
}

// Console formats a record as a compact developer line:
//
//	15:04:05.000 INFO  server started port=8080
//
// The time column comes from the "timestamp" field, so place [Timestamp]
// before Console; it is omitted when the record has none.
func Console(opts ...ConsoleOption) logging.Processor {
	c := &console{colors: true}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *console) Process(_ context.Context, level logging.Level, v any) (logging.Result, error) {
	rec, ok := asRecord(v)
	if !ok {
		return logging.Continue(v), nil
	}

	b := consoleBuilderPool.Get().(*strings.Builder)
	b.Reset()
	defer consoleBuilderPool.Put(b)

	if ts, found := rec.Get(DefaultTimestampKey); found {
		c.paint(b, colorDim, consoleTime(ts))
		b.WriteString(" ")
	}

	c.paint(b, levelColor(level)+colorBold, fmt.Sprintf("%-5s", rec.Level()))
	b.WriteString(" ")
	c.paint(b, colorWhite, rec.Message())

	for k, val := range rec.All() {
		switch k {
		case logging.KeyLevel, logging.KeyMessage, DefaultTimestampKey:
			continue
		}
		b.WriteString(" ")
		c.paint(b, colorGray, k+"=")
		appendValue(b, val)
	}

	return logging.Continue(b.String()), nil
}

func (c *console) paint(b *strings.Builder, color, s string) {
	if !c.colors {
		b.WriteString(s)
		return
	}
	b.WriteString(color)
	b.WriteString(s)
	b.WriteString(colorReset)
}

// consoleTime renders the timestamp field as a wall clock.
func consoleTime(v any) string {
	switch ts := v.(type) {
	case time.Time:
		return ts.Format("15:04:05.000")
	case string:
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			return t.Format("15:04:05.000")
		}
		return ts
	default:
		return fmt.Sprint(ts)
	}
}

// levelColor returns the ANSI color code for a log level.
func levelColor(level logging.Level) string {
	switch {
	case level >= logging.LevelError:
		return colorRed
	case level >= logging.LevelWarn:
		return colorYellow
	case level >= logging.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

// appendValue formats a field value.
//
// fmt.Sprint is used as a catch-all for types without specialized formatting.
func appendValue(b *strings.Builder, val any) {
	switch v := val.(type) {
	case string:
		b.WriteString(v)
	case int:
		b.WriteString(strconv.Itoa(v))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case int32:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case uint:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case time.Duration:
		b.WriteString(v.String())
	case time.Time:
		b.WriteString(v.Format(time.RFC3339))
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'f', 2, 64))
	case float32:
		b.WriteString(strconv.FormatFloat(float64(v), 'f', 2, 32))
	case error:
		b.WriteString(v.Error())
	case *logging.Record:
		if data, err := v.MarshalJSON(); err == nil {
			b.Write(data)
			return
		}
		b.WriteString(fmt.Sprint(v.Map()))
	default:
		b.WriteString(fmt.Sprint(v))
	}
}
