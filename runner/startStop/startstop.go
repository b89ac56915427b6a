/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package startStop wraps a pair of start/stop functions behind a small
// lifecycle state machine: running flag, uptime tracking and last-error
// bookkeeping.
package startStop

import (
	"context"
	"sync"
	"time"
)

// StartStop is the lifecycle contract shared by background workers
// (aggregators, pooled hooks, long-running clients).
type StartStop interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
	IsRunning() bool
	Uptime() time.Duration
	ErrorsLast() error
	ErrorsList() []error
}

type runFunc func(ctx context.Context) error

type startStop struct {
	mu      sync.Mutex
	start   runFunc
	stop    runFunc
	running bool
	since   time.Time
	errs    []error
}

// New builds a StartStop from a start and a stop function. Either may be
// nil: calling Start/Stop in that case is a no-op returning a nil error.
func New(start, stop runFunc) StartStop {
	return &startStop{
		start: start,
		stop:  stop,
	}
}

func (s *startStop) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	var err error
	if s.start != nil {
		err = s.start(ctx)
	}

	if err != nil {
		s.errs = append(s.errs, err)
		return err
	}

	s.running = true
	s.since = time.Now()
	return nil
}

func (s *startStop) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	var err error
	if s.stop != nil {
		err = s.stop(ctx)
	}

	s.running = false
	s.since = time.Time{}

	if err != nil {
		s.errs = append(s.errs, err)
	}

	return err
}

func (s *startStop) Restart(ctx context.Context) error {
	if err := s.Stop(ctx); err != nil {
		return err
	}

	return s.Start(ctx)
}

func (s *startStop) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

func (s *startStop) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.since.IsZero() {
		return 0
	}

	return time.Since(s.since)
}

func (s *startStop) ErrorsLast() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.errs) == 0 {
		return nil
	}

	return s.errs[len(s.errs)-1]
}

func (s *startStop) ErrorsList() []error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]error, len(s.errs))
	copy(out, s.errs)
	return out
}
