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
	"fmt"
	"io"
	"os"

	"rivaas.dev/pipelog/logging"
	"rivaas.dev/pipelog/logging/processor"
	"rivaas.dev/pipelog/logging/transport"
)

// Logger builds a [logging.Logger] from the loaded settings. extra options
// are applied after the configured ones, so they can add processors or
// transports, or override the level.
//
// The returned logger owns the files and background goroutines it opened;
// release them with [logging.Logger.Shutdown].
func (c *Config) Logger(extra ...logging.Option) (*logging.Logger, error) {
	if !c.Loaded() {
		return nil, ErrNotLoaded
	}

	return NewLogger(c.Settings(), extra...)
}

// NewLogger builds a [logging.Logger] from s.
//
// Processors run in this order: context fields, error flattening, service
// fields, redaction, sampling, record id, timestamp, formatter.
func NewLogger(s Settings, extra ...logging.Option) (*logging.Logger, error) {
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	processors, err := s.processors()
	if err != nil {
		return nil, err
	}
	transports, err := s.transports()
	if err != nil {
		closeAll(processors)
		return nil, err
	}

	opts := []logging.Option{
		logging.WithLevelName(s.Level),
		logging.WithEnabled(!s.Disabled),
		logging.WithProcessors(processors...),
		logging.WithTransports(transports...),
	}
	logger, err := logging.New(append(opts, extra...)...)
	if err != nil {
		closeAll(processors)
		closeAll(transports)
		return nil, err
	}

	return logger, nil
}

func (s Settings) processors() ([]logging.Processor, error) {
	ps := []logging.Processor{
		processor.Context(),
		processor.Errors(processor.WithStack(s.Errors.Stack)),
	}
	if s.Service != (ServiceSettings{}) {
		ps = append(ps, processor.Service(s.Service.Name, s.Service.Version, s.Service.Environment))
	}
	ps = append(ps, processor.Redact(s.Redact...))

	if s.Sampling.Enabled() {
		sampler, err := processor.Sample(processor.SamplingConfig{
			Initial:    s.Sampling.Initial,
			Thereafter: s.Sampling.Thereafter,
			Tick:       s.Sampling.Tick,
		})
		if err != nil {
			return nil, NewFieldError("settings", "sampling", "build", err)
		}
		ps = append(ps, sampler)
	}
	if s.RecordID {
		ps = append(ps, processor.RecordID())
	}
	if s.Timestamp {
		ps = append(ps, processor.Timestamp())
	}

	switch s.Format {
	case FormatJSON:
		ps = append(ps, processor.JSON())
	case FormatHuman:
		ps = append(ps, processor.Human())
	case FormatConsole:
		ps = append(ps, processor.Console(processor.WithColors(s.Colors)))
	}

	return ps, nil
}

func (s Settings) transports() ([]logging.Transport, error) {
	ts := make([]logging.Transport, 0, len(s.Outputs))
	for i, out := range s.Outputs {
		t, err := out.transport()
		if err != nil {
			closeAll(ts)
			return nil, NewFieldError("settings", fmt.Sprintf("outputs[%d]", i), "open", err)
		}
		ts = append(ts, t)
	}

	return ts, nil
}

func (o OutputSettings) transport() (logging.Transport, error) {
	var t logging.Transport
	switch o.Type {
	case OutputStdout:
		t = transport.Writer(os.Stdout)
	case OutputStderr:
		t = transport.Writer(os.Stderr)
	case OutputFile:
		var opts []transport.FileOption
		if o.Gzip {
			opts = append(opts, transport.WithGzip())
		}
		ft, err := transport.File(o.Path, opts...)
		if err != nil {
			return nil, err
		}
		t = ft
	default:
		return nil, fmt.Errorf("unknown output type %q", o.Type)
	}

	levels, err := o.levels()
	if err != nil {
		closeAll([]logging.Transport{t})
		return nil, err
	}
	if levels != nil {
		t = transport.ForLevels(t, levels...)
	}

	return t, nil
}

// closeAll releases what a failed build already opened.
func closeAll[T any](items []T) {
	for _, it := range items {
		if c, ok := any(it).(io.Closer); ok {
			_ = c.Close()
		}
	}
}
