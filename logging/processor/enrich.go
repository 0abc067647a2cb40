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
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"rivaas.dev/pipelog/logging"
)

// Field names added by the enrichment processors.
const (
	KeyService = "service"
	KeyVersion = "version"
	KeyEnv     = "env"
	KeyID      = "id"
)

// Filter drops records for which keep returns false. Non-record values pass.
func Filter(keep func(ctx context.Context, level logging.Level, rec *logging.Record) bool) logging.Processor {
	return logging.ProcessorFunc(func(ctx context.Context, level logging.Level, v any) (logging.Result, error) {
		rec, ok := asRecord(v)
		if !ok || keep(ctx, level, rec) {
			return logging.Continue(v), nil
		}

		return logging.Drop(), nil
	})
}

// Service adds the service identity fields. Empty values are skipped.
func Service(name, version, env string) logging.Processor {
	var fields []any
	if name != "" {
		fields = append(fields, KeyService, name)
	}
	if version != "" {
		fields = append(fields, KeyVersion, version)
	}
	if env != "" {
		fields = append(fields, KeyEnv, env)
	}

	return logging.ProcessorFunc(func(_ context.Context, _ logging.Level, v any) (logging.Result, error) {
		if rec, ok := asRecord(v); ok && len(fields) > 0 {
			rec.Merge(fields...)
		}

		return logging.Continue(v), nil
	})
}

// RecordIDOption configures [RecordID].
type RecordIDOption func(*recordID)

type recordID struct {
	next func() (string, error)
}

// WithULID switches [RecordID] to monotonic ULIDs, which sort by creation
// time. The default is a random UUID.
func WithULID() RecordIDOption {
	return func(r *recordID) { r.next = newULID }
}

// RecordID adds a unique identifier under "id" so individual records can be
// referenced across systems.
func RecordID(opts ...RecordIDOption) logging.Processor {
	r := &recordID{next: newUUID}
	for _, opt := range opts {
		opt(r)
	}

	return logging.ProcessorFunc(func(_ context.Context, _ logging.Level, v any) (logging.Result, error) {
		rec, ok := asRecord(v)
		if !ok {
			return logging.Continue(v), nil
		}

		id, err := r.next()
		if err != nil {
			return logging.Result{}, err
		}
		rec.Set(KeyID, id)

		return logging.Continue(rec), nil
	})
}

func newUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// ulidEntropy is shared by every RecordID processor so IDs stay monotonic
// within a process.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

func newULID() (string, error) {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now()), ulidEntropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}
