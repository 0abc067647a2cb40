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

// Package main layers environment variables over defaults and dumps the
// effective configuration.
//
// Try:
//
//	PIPELOG_LEVEL=trace PIPELOG_FORMAT=human PIPELOG_SERVICE__NAME=demo go run .
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"rivaas.dev/pipelog/config"
	"rivaas.dev/pipelog/config/codec"
)

func main() {
	dump := filepath.Join(os.TempDir(), "pipelog-effective.json")

	cfg := config.MustNew(
		config.WithContent([]byte(`{"level":"info","format":"json"}`), codec.TypeJSON),
		config.WithEnv("PIPELOG_"),
		config.WithFileDumper(dump),
	)
	cfg.MustLoad(context.Background())

	if err := cfg.Dump(context.Background()); err != nil {
		log.Fatalf("failed to dump config: %v", err)
	}
	fmt.Println("effective configuration written to", dump)

	logger, err := cfg.Logger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Shutdown(context.Background())

	logger.Trace("trace is visible with PIPELOG_LEVEL=trace")
	logger.Info("configured from the environment", "level", cfg.Settings().Level)
}
