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
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"rivaas.dev/pipelog/config/codec"
	"rivaas.dev/pipelog/config/dumper"
	"rivaas.dev/pipelog/config/source"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "pipelog-logging.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}

	return compiler.Compile(schemaURL)
})

// Option configures a [Config].
type Option func(c *Config) error

// Config loads a logging configuration from layered sources, validates it and
// turns it into [Settings] and a ready [logging.Logger].
//
// Config is safe for concurrent use.
type Config struct {
	sources    []Source
	dumpers    []Dumper
	validators []func(map[string]any) error

	mu       sync.RWMutex
	values   map[string]any
	settings *Settings
}

// WithSource adds a source.
func WithSource(src Source) Option {
	return func(c *Config) error {
		if src == nil {
			return errors.New("source cannot be nil")
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithFile adds a file source. The format is detected from the extension
// (.yaml, .yml, .json, .toml); use [WithFileAs] otherwise.
// The path is expanded with os.ExpandEnv.
//
// Example:
//
//	cfg := config.MustNew(
//	    config.WithFile("logging.yaml"),
//	    config.WithFile("${CONFIG_DIR}/logging.override.json"),
//	)
func WithFile(path string) Option {
	return func(c *Config) error {
		path = os.ExpandEnv(path)
		format, err := detectFormat(path)
		if err != nil {
			return NewError("file-source", "detect-format", err)
		}

		return WithFileAs(path, format)(c)
	}
}

// WithFileAs adds a file source decoded as codecType.
func WithFileAs(path string, codecType codec.Type) Option {
	return func(c *Config) error {
		decoder, err := codec.GetDecoder(codecType)
		if err != nil {
			return NewError("file-source", "get-decoder", err)
		}
		c.sources = append(c.sources, source.NewFile(os.ExpandEnv(path), decoder))
		return nil
	}
}

// WithContent adds an in-memory source decoded as codecType.
//
// Example:
//
//	cfg := config.MustNew(
//	    config.WithContent([]byte("level: debug"), codec.TypeYAML),
//	)
func WithContent(data []byte, codecType codec.Type) Option {
	return func(c *Config) error {
		decoder, err := codec.GetDecoder(codecType)
		if err != nil {
			return NewError("content-source", "get-decoder", err)
		}
		c.sources = append(c.sources, source.NewContent(data, decoder))
		return nil
	}
}

// WithEnv adds the environment variables starting with prefix.
// With prefix "PIPELOG_", PIPELOG_LEVEL=debug sets level and
// PIPELOG_SERVICE__NAME=api sets service.name.
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, source.NewEnv(prefix))
		return nil
	}
}

// WithConsul adds a document stored in Consul under key, decoded according to
// the key's extension. The option is skipped when CONSUL_HTTP_ADDR is unset,
// so local runs work without Consul.
func WithConsul(key string) Option {
	return func(c *Config) error {
		format, err := detectFormat(os.ExpandEnv(key))
		if err != nil {
			return NewError("consul-source", "detect-format", err)
		}

		return WithConsulAs(key, format)(c)
	}
}

// WithConsulAs is [WithConsul] with an explicit format.
func WithConsulAs(key string, codecType codec.Type) Option {
	return func(c *Config) error {
		if os.Getenv("CONSUL_HTTP_ADDR") == "" {
			return nil
		}
		decoder, err := codec.GetDecoder(codecType)
		if err != nil {
			return NewError("consul-source", "get-decoder", err)
		}
		src, err := source.NewConsul(os.ExpandEnv(key), decoder, nil)
		if err != nil {
			return NewError("consul-source", "create-client", err)
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithDumper adds a dumper.
func WithDumper(d Dumper) Option {
	return func(c *Config) error {
		if d == nil {
			return errors.New("dumper cannot be nil")
		}
		c.dumpers = append(c.dumpers, d)
		return nil
	}
}

// WithFileDumper dumps the merged configuration to path on [Config.Dump].
// The format is detected from the extension.
func WithFileDumper(path string) Option {
	return func(c *Config) error {
		path = os.ExpandEnv(path)
		format, err := detectFormat(path)
		if err != nil {
			return NewError("file-dumper", "detect-format", err)
		}
		encoder, err := codec.GetEncoder(format)
		if err != nil {
			return NewError("file-dumper", "get-encoder", err)
		}
		c.dumpers = append(c.dumpers, dumper.NewFile(path, encoder))
		return nil
	}
}

// WithValidator adds a check run on the merged document after schema
// validation. A panicking validator is reported as a validation error.
func WithValidator(fn func(map[string]any) error) Option {
	return func(c *Config) error {
		if fn == nil {
			return errors.New("validator cannot be nil")
		}
		c.validators = append(c.validators, fn)
		return nil
	}
}

// New creates a Config. Nothing is read until [Config.Load].
// Option errors are joined; no Config is returned when any option fails.
func New(options ...Option) (*Config, error) {
	c := &Config{}

	var errs []error
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return c, nil
}

// MustNew is like [New] but panics on error.
func MustNew(options ...Option) *Config {
	c, err := New(options...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to create config: %v", err))
	}

	return c
}

// Load reads every source in order and replaces the current configuration
// when the result is valid. On error the previous configuration is kept.
//
// Steps:
//  1. load each source, lowercase its keys and merge it over the previous ones
//  2. validate the merged document against the embedded JSON schema
//  3. run the custom validators
//  4. bind the document onto [DefaultSettings] and validate the result
//
// Errors are [*Error] values naming the failing step.
func (c *Config) Load(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context cannot be nil")
	}

	merged, err := c.merge(ctx)
	if err != nil {
		return err
	}

	schema, err := compiledSchema()
	if err != nil {
		return NewError("json-schema", "compile", err)
	}
	if err = schema.Validate(merged); err != nil {
		return NewError("json-schema", "validate", err)
	}

	for i, fn := range c.validators {
		if err = runValidator(fn, merged); err != nil {
			return NewError(fmt.Sprintf("custom-validator[%d]", i), "validate", err)
		}
	}

	settings, err := bind(merged)
	if err != nil {
		return NewError("settings", "bind", err)
	}
	if err = settings.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = merged
	c.settings = &settings

	return nil
}

// MustLoad is like [Config.Load] but panics on error.
func (c *Config) MustLoad(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		panic(err)
	}
}

func (c *Config) merge(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)

	for i, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		conf, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if err = mergo.Map(&merged, normalizeMap(conf), mergo.WithOverride); err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}

	return merged, nil
}

func runValidator(fn func(map[string]any) error, values map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validator panic: %v", r)
		}
	}()

	return fn(values)
}

// bind decodes values onto the default settings, so absent keys keep their
// defaults.
func bind(values map[string]any) (Settings, error) {
	var s Settings
	if err := applyDefaults(&s); err != nil {
		return Settings{}, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &s,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return Settings{}, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err = decoder.Decode(values); err != nil {
		return Settings{}, fmt.Errorf("failed to decode configuration: %w", err)
	}
	s.normalize()

	return s, nil
}

// normalizeMap lowercases keys at every depth and turns typed slices of maps
// (as produced by TOML arrays of tables) into []any.
func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = normalizeValue(v)
	}

	return out
}

func normalizeValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return normalizeMap(v)
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = normalizeMap(m)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalizeValue(e)
		}
		return out
	case time.Duration:
		return v.String()
	}

	return v
}

// Settings returns the loaded settings, or [DefaultSettings] before the first
// successful [Config.Load].
func (c *Config) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.settings == nil {
		return DefaultSettings()
	}

	return *c.settings
}

// Loaded reports whether a Load has succeeded.
func (c *Config) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.settings != nil
}

// Values returns a copy of the merged document, with lowercase keys.
func (c *Config) Values() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return cloneMap(c.values)
}

// Dump hands a copy of the merged document to every dumper.
func (c *Config) Dump(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context cannot be nil")
	}

	values := c.Values()
	for i, d := range c.dumpers {
		if err := d.Dump(ctx, &values); err != nil {
			return NewError(fmt.Sprintf("dumper[%d]", i), "dump", err)
		}
	}

	return nil
}

func cloneMap(m map[string]any) map[string]any {
	out := maps.Clone(m)
	if out == nil {
		return map[string]any{}
	}
	for k, v := range out {
		switch v := v.(type) {
		case map[string]any:
			out[k] = cloneMap(v)
		case []any:
			s := make([]any, len(v))
			for i, e := range v {
				if em, ok := e.(map[string]any); ok {
					e = cloneMap(em)
				}
				s[i] = e
			}
			out[k] = s
		}
	}

	return out
}
