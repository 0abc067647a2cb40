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
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"rivaas.dev/pipelog/logging"
)

// SamplingConfig configures log sampling to reduce volume in high-traffic scenarios.
//
// Sampling algorithm:
//  1. Pass the first 'Initial' records unconditionally (e.g., first 100)
//  2. After that, pass 1 in every 'Thereafter' records (e.g., 1 in 100)
//  3. Reset the counter every 'Tick' interval to avoid indefinite accumulation
//
// Example: Initial=100, Thereafter=100, Tick=1m means:
//   - Always pass first 100 records
//   - Then pass 1% of records (1 in 100)
//   - Every minute, reset counter (pass next 100 again)
type SamplingConfig struct {
	Initial    int           // Pass first N records unconditionally
	Thereafter int           // After Initial, pass 1 of every M records (0 = pass all)
	Tick       time.Duration // Reset the counter every interval (0 = never reset)
}

// Sampler is the processor returned by [Sample]. Records at ERROR or above
// are never sampled.
type Sampler struct {
	cfg     SamplingConfig
	counter atomic.Int64
	ticker  *time.Ticker
	stop    chan struct{}
	once    sync.Once
}

// Sample creates a sampling processor. A positive Tick starts a background
// goroutine that resets the counter; stop it with [Sampler.Close].
func Sample(cfg SamplingConfig) (*Sampler, error) {
	if cfg.Initial < 0 || cfg.Thereafter < 0 {
		return nil, errors.New("sampling config values must be non-negative")
	}
	if cfg.Tick < 0 {
		return nil, errors.New("sampling tick must be non-negative")
	}

	s := &Sampler{cfg: cfg}
	if cfg.Tick > 0 {
		s.stop = make(chan struct{})
		s.ticker = time.NewTicker(cfg.Tick)
		go s.resetter()
	}

	return s, nil
}

// resetter resets the sampling counter periodically.
func (s *Sampler) resetter() {
	for {
		select {
		case <-s.ticker.C:
			s.counter.Store(0)
		case <-s.stop:
			return
		}
	}
}

// Process implements [logging.Processor].
func (s *Sampler) Process(_ context.Context, level logging.Level, v any) (logging.Result, error) {
	if s.shouldSample(level) {
		return logging.Continue(v), nil
	}

	return logging.Drop(), nil
}

// shouldSample determines if a record passes the configured policy.
func (s *Sampler) shouldSample(level logging.Level) bool {
	if level >= logging.LevelError {
		return true
	}

	count := s.counter.Add(1)
	if count <= int64(s.cfg.Initial) {
		return true
	}

	// If Thereafter is 0, sample everything after initial
	if s.cfg.Thereafter == 0 {
		return true
	}

	return (count-int64(s.cfg.Initial))%int64(s.cfg.Thereafter) == 0
}

// Count returns the number of records counted since the last reset.
func (s *Sampler) Count() int64 {
	return s.counter.Load()
}

// Close stops the reset ticker. It is safe to call more than once.
func (s *Sampler) Close() error {
	s.once.Do(func() {
		if s.ticker != nil {
			s.ticker.Stop()
			close(s.stop)
		}
	})

	return nil
}
