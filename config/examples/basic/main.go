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

// Package main builds a logger from a YAML file.
package main

import (
	"context"
	"errors"
	"log"

	"rivaas.dev/pipelog/config"
)

func main() {
	cfg := config.MustNew(config.WithFile("./logging.yaml"))
	if err := cfg.Load(context.Background()); err != nil {
		log.Fatalf("failed to load logging config: %v", err)
	}

	logger, err := cfg.Logger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Shutdown(context.Background())

	logger.Debug("cache warmed", "entries", 1024)
	logger.Info("user signed in", "user", "ana", "password", "hunter2")
	logger.Error("order failed", errors.New("card declined"), "card_number", "4111111111111111")
}
