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

// Package dumper writes the effective logging configuration somewhere it can
// be inspected, such as a file next to the service's logs.
//
//	encoder, _ := codec.GetEncoder(codec.TypeYAML)
//	err := dumper.NewFile("effective-logging.yaml", encoder).Dump(ctx, &values)
package dumper
