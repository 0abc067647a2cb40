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
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"

	"rivaas.dev/pipelog/logging"
)

// Formats accepted by Settings.Format.
const (
	FormatJSON    = "json"
	FormatHuman   = "human"
	FormatConsole = "console"
	FormatNone    = "none"
)

// Output types accepted by OutputSettings.Type.
const (
	OutputStdout = "stdout"
	OutputStderr = "stderr"
	OutputFile   = "file"
)

// Settings is the typed form of a logging configuration document.
//
// Example (YAML):
//
//	level: debug
//	format: console
//	service:
//	  name: checkout
//	errors:
//	  stack: true
//	redact: [password, card_number]
//	sampling:
//	  initial: 100
//	  thereafter: 10
//	  tick: 1s
//	outputs:
//	  - type: stdout
//	  - type: file
//	    path: /var/log/checkout/errors.log.gz
//	    gzip: true
//	    levels: [error]
type Settings struct {
	Level     string           `config:"level" default:"info"`
	Disabled  bool             `config:"disabled"`
	Format    string           `config:"format" default:"json"`
	Colors    bool             `config:"colors"`
	Timestamp bool             `config:"timestamp" default:"true"`
	RecordID  bool             `config:"record_id"`
	Redact    []string         `config:"redact"`
	Service   ServiceSettings  `config:"service"`
	Errors    ErrorSettings    `config:"errors"`
	Sampling  SamplingSettings `config:"sampling"`
	Outputs   []OutputSettings `config:"outputs"`
}

// ServiceSettings identifies the emitting service. Empty values are omitted
// from records.
type ServiceSettings struct {
	Name        string `config:"name"`
	Version     string `config:"version"`
	Environment string `config:"environment"`
}

// ErrorSettings configures the error flattening processor.
type ErrorSettings struct {
	Stack bool `config:"stack"`
}

// SamplingSettings configures sampling. Sampling is off unless Initial or
// Thereafter is positive.
type SamplingSettings struct {
	Initial    int           `config:"initial"`
	Thereafter int           `config:"thereafter"`
	Tick       time.Duration `config:"tick" default:"1m"`
}

// Enabled reports whether any sampling is configured.
func (s SamplingSettings) Enabled() bool {
	return s.Initial > 0 || s.Thereafter > 0
}

// OutputSettings describes one destination.
type OutputSettings struct {
	Type   string   `config:"type"`
	Path   string   `config:"path"`
	Gzip   bool     `config:"gzip"`
	Levels []string `config:"levels"`
}

// DefaultSettings returns the settings used when no source provides a value:
// INFO and above as JSON with a timestamp on stdout.
func DefaultSettings() Settings {
	var s Settings
	if err := applyDefaults(&s); err != nil {
		panic("config: invalid default tag: " + err.Error())
	}
	s.normalize()

	return s
}

// normalize fills derived defaults.
func (s *Settings) normalize() {
	s.Format = strings.ToLower(strings.TrimSpace(s.Format))
	if len(s.Outputs) == 0 {
		s.Outputs = []OutputSettings{{Type: OutputStdout}}
	}
}

// Validate checks every field and returns all problems joined.
// An unknown level name wraps [logging.ErrInvalidLevel].
func (s Settings) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(s.Level); err != nil {
		errs = append(errs, NewFieldError("settings", "level", "validate", err))
	}

	switch s.Format {
	case FormatJSON, FormatHuman, FormatConsole, FormatNone:
	default:
		errs = append(errs, NewFieldError("settings", "format", "validate",
			fmt.Errorf("unknown format %q", s.Format)))
	}

	if s.Sampling.Initial < 0 || s.Sampling.Thereafter < 0 || s.Sampling.Tick < 0 {
		errs = append(errs, NewFieldError("settings", "sampling", "validate",
			errors.New("values must be non-negative")))
	}

	for i, out := range s.Outputs {
		field := fmt.Sprintf("outputs[%d]", i)
		if err := out.validate(); err != nil {
			errs = append(errs, NewFieldError("settings", field, "validate", err))
		}
	}

	return errors.Join(errs...)
}

func (o OutputSettings) validate() error {
	switch o.Type {
	case OutputStdout, OutputStderr:
		if o.Path != "" || o.Gzip {
			return fmt.Errorf("%s output takes no path or gzip", o.Type)
		}
	case OutputFile:
		if o.Path == "" {
			return errors.New("file output requires a path")
		}
	default:
		return fmt.Errorf("unknown output type %q", o.Type)
	}

	_, err := o.levels()

	return err
}

// levels parses the level filter. Nil means every level.
func (o OutputSettings) levels() ([]logging.Level, error) {
	if len(o.Levels) == 0 {
		return nil, nil
	}
	levels := make([]logging.Level, 0, len(o.Levels))
	for _, name := range o.Levels {
		level, err := logging.ParseLevel(name)
		if err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}

	return levels, nil
}

// applyDefaults sets the `default` tag value on every zero-valued field of the
// struct target points to, descending into nested structs.
func applyDefaults(target any) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return errors.New("target must be a pointer to a struct")
	}

	return setDefaults(val.Elem())
}

func setDefaults(val reflect.Value) error {
	typ := val.Type()

	for i := range val.NumField() {
		field := val.Field(i)
		fieldType := typ.Field(i)
		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := setDefaults(field); err != nil {
				return err
			}
			continue
		}

		tag := fieldType.Tag.Get("default")
		if tag == "" || !field.IsZero() {
			continue
		}
		if err := setDefaultValue(field, tag); err != nil {
			return fmt.Errorf("failed to set default for field %s: %w", fieldType.Name, err)
		}
	}

	return nil
}

func setDefaultValue(field reflect.Value, tag string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(tag)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeFor[time.Duration]() {
			d, err := cast.ToDurationE(tag)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		i, err := cast.ToInt64E(tag)
		if err != nil {
			return err
		}
		field.SetInt(i)
	case reflect.Bool:
		b, err := cast.ToBoolE(tag)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type for default tag: %s", field.Kind())
	}

	return nil
}
