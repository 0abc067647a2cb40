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
	"context"
	"log/slog"
	"slices"
)

// Handler returns a [slog.Handler] that emits through l.
//
// slog levels are mapped with [LevelFromSlog]; attributes become record
// fields and groups become nested records. Handle returns the error of
// [Logger.Log].
//
// Example:
//
//	sl := slog.New(logger.Handler())
//	sl.Info("user login", "user_id", 42)
func (l *Logger) Handler() slog.Handler {
	return &slogHandler{logger: l}
}

// groupOrAttrs holds either a group name or a list of attributes added
// through WithGroup / WithAttrs.
type groupOrAttrs struct {
	group string
	attrs []slog.Attr
}

type slogHandler struct {
	logger *Logger
	goas   []groupOrAttrs
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.Enabled(LevelFromSlog(level))
}

func (h *slogHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	// Innermost group first: each group wraps everything added after it.
	for i := len(h.goas) - 1; i >= 0; i-- {
		goa := h.goas[i]
		if goa.group != "" {
			if len(attrs) == 0 {
				continue
			}
			attrs = []slog.Attr{{Key: goa.group, Value: slog.GroupValue(attrs...)}}
			continue
		}
		attrs = slices.Concat(goa.attrs, attrs)
	}

	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}

	return h.logger.Log(ctx, LevelFromSlog(r.Level), r.Message, args...)
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	return h.with(groupOrAttrs{attrs: slices.Clone(attrs)})
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return h.with(groupOrAttrs{group: name})
}

func (h *slogHandler) with(goa groupOrAttrs) *slogHandler {
	return &slogHandler{
		logger: h.logger,
		goas:   append(slices.Clip(h.goas), goa),
	}
}
