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

package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"rivaas.dev/pipelog/logging"
)

// JSON serializes the value to a single-line JSON string. Records keep their
// field order. Strings pass through unchanged, so JSON is idempotent.
func JSON() logging.Processor {
	return logging.ProcessorFunc(func(_ context.Context, _ logging.Level, v any) (logging.Result, error) {
		switch x := v.(type) {
		case string:
			return logging.Continue(x), nil
		case *logging.Record:
			b, err := x.MarshalJSON()
			if err != nil {
				return logging.Result{}, fmt.Errorf("json: %w", err)
			}
			return logging.Continue(string(b)), nil
		default:
			b, err := json.Marshal(x)
			if err != nil {
				return logging.Result{}, fmt.Errorf("json: %w", err)
			}
			return logging.Continue(string(b)), nil
		}
	})
}
