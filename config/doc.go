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

// Package config loads logging configuration and builds loggers from it.
//
// Configuration comes from layered sources merged in order, later sources
// overriding earlier ones: files (YAML, JSON, TOML), in-memory content,
// prefixed environment variables and Consul. Keys are case-insensitive.
// The merged document is validated against an embedded JSON schema, then
// bound onto [Settings].
//
// # Quick Start
//
//	cfg := config.MustNew(
//	    config.WithFile("logging.yaml"),
//	    config.WithEnv("PIPELOG_"),
//	)
//	if err := cfg.Load(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
//	logger, err := cfg.Logger()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Shutdown(context.Background())
//
// # Document
//
//	level: info              # trace, debug, info, warn, error
//	disabled: false
//	format: json             # json, human, console, none
//	colors: false            # console format only
//	timestamp: true
//	record_id: false
//	redact: [password, token]
//	service: {name: checkout, version: 1.4.0, environment: prod}
//	errors: {stack: false}
//	sampling: {initial: 100, thereafter: 10, tick: 1m}
//	outputs:
//	  - {type: stdout}
//	  - {type: file, path: /var/log/app.log.gz, gzip: true, levels: [error]}
//
// An empty redact list redacts the default sensitive keys. Without outputs
// records go to stdout.
//
// # Environment
//
// With [WithEnv]("PIPELOG_"), PIPELOG_LEVEL=debug sets level and a double
// underscore descends into objects: PIPELOG_SERVICE__NAME=checkout.
//
// # Dependency Injection
//
// [FXModule] provides the logger to go.uber.org/fx applications and shuts it
// down on stop.
package config
