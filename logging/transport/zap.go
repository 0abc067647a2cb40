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

package transport

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rivaas.dev/pipelog/logging"
)

// ZapTransport hands records to a [zap.Logger].
type ZapTransport struct {
	logger *zap.Logger
}

// Zap converts each record into a zap entry. TRACE maps to zap's debug level;
// nested records become zap objects.
func Zap(logger *zap.Logger) *ZapTransport {
	return &ZapTransport{logger: logger}
}

// Deliver implements [logging.Transport].
func (z *ZapTransport) Deliver(_ context.Context, level logging.Level, v any) error {
	if z.logger == nil {
		return logging.ErrNilWriter
	}

	rec, ok := v.(*logging.Record)
	if !ok {
		if ce := z.logger.Check(zapLevel(level), messageOf(v)); ce != nil {
			ce.Write()
		}
		return nil
	}

	ce := z.logger.Check(zapLevel(level), rec.Message())
	if ce == nil {
		return nil
	}
	fields := make([]zap.Field, 0, rec.Len())
	for k, val := range rec.All() {
		if k == logging.KeyLevel || k == logging.KeyMessage {
			continue
		}
		fields = append(fields, zapField(k, val))
	}
	ce.Write(fields...)

	return nil
}

// Flush syncs the zap logger.
func (z *ZapTransport) Flush() error {
	if z.logger == nil {
		return nil
	}

	return z.logger.Sync()
}

func zapLevel(level logging.Level) zapcore.Level {
	switch {
	case level >= logging.LevelError:
		return zapcore.ErrorLevel
	case level >= logging.LevelWarn:
		return zapcore.WarnLevel
	case level >= logging.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

func zapField(key string, v any) zap.Field {
	if nested, ok := v.(*logging.Record); ok {
		return zap.Object(key, zapRecord{nested})
	}

	return zap.Any(key, v)
}

// zapRecord exposes a nested record as a zap object.
type zapRecord struct {
	rec *logging.Record
}

func (z zapRecord) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for k, v := range z.rec.All() {
		zapField(k, v).AddTo(enc)
	}

	return nil
}
