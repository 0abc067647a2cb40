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

// Package main wires the configured logger into a go.uber.org/fx application.
package main

import (
	"context"

	"go.uber.org/fx"

	"rivaas.dev/pipelog/config"
	"rivaas.dev/pipelog/config/codec"
	"rivaas.dev/pipelog/logging"
)

func newConfig() (*config.Config, error) {
	cfg, err := config.New(
		config.WithContent([]byte("level: info\nformat: human\nservice:\n  name: fx-demo\n"), codec.TypeYAML),
		config.WithEnv("PIPELOG_"),
		config.WithConsul("${APP_ENV}/logging.yaml"),
	)
	if err != nil {
		return nil, err
	}

	return cfg, cfg.Load(context.Background())
}

func run(lc fx.Lifecycle, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("service started")
			return nil
		},
		OnStop: func(context.Context) error {
			logger.Info("service stopping")
			return nil
		},
	})
}

func main() {
	fx.New(
		fx.NopLogger,
		fx.Provide(newConfig),
		config.FXModule,
		fx.Invoke(run),
	).Run()
}
