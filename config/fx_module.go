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
	"go.uber.org/fx"

	"rivaas.dev/pipelog/logging"
)

// FXModule provides a [*logging.Logger] built from the [*Config] in the
// container and shuts it down when the application stops.
//
// Usage:
//
//	app := fx.New(
//	    fx.Provide(func() (*config.Config, error) {
//	        cfg, err := config.New(config.WithFile("logging.yaml"), config.WithEnv("PIPELOG_"))
//	        if err != nil {
//	            return nil, err
//	        }
//	        return cfg, cfg.Load(context.Background())
//	    }),
//	    config.FXModule,
//	)
var FXModule = fx.Module("pipelog",
	fx.Provide(NewLoggerFromConfig),
	fx.Invoke(RegisterLoggerLifecycle),
)

// NewLoggerFromConfig builds the logger from a loaded configuration.
func NewLoggerFromConfig(cfg *Config) (*logging.Logger, error) {
	return cfg.Logger()
}

// RegisterLoggerLifecycle flushes and closes the logger's processors and
// transports on application stop.
func RegisterLoggerLifecycle(lc fx.Lifecycle, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStop: logger.Shutdown,
	})
}
