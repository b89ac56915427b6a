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

// Package semaphore bounds the number of concurrent workers spawned by a
// goroutine fan-out, using a weighted semaphore under the hood.
package semaphore

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Semaphore gates concurrent worker goroutines started from a single
// caller. NewWorker blocks until a slot is available (or the semaphore's
// context is done); DeferWorker releases a slot. WaitAll blocks until
// every acquired slot has been released.
type Semaphore interface {
	NewWorker() error
	NewWorkerTry() bool
	DeferWorker()
	DeferMain()
	WaitAll() error
}

type sem struct {
	ctx context.Context
	wgt *semaphore.Weighted
	max int64
	wg  sync.WaitGroup
	mu  sync.Mutex
	err error
}

// NewSemaphoreWithContext creates a Semaphore allowing up to max concurrent
// workers. A max of 0 or less means unlimited concurrency: NewWorker never
// blocks on the weighted semaphore, only the context governs cancellation.
func NewSemaphoreWithContext(ctx context.Context, max int64) Semaphore {
	if ctx == nil {
		ctx = context.Background()
	}

	s := &sem{
		ctx: ctx,
		max: max,
	}

	if max > 0 {
		s.wgt = semaphore.NewWeighted(max)
	}

	return s
}

func (s *sem) NewWorker() error {
	if s.ctx.Err() != nil {
		return s.ctx.Err()
	}

	if s.wgt != nil {
		if err := s.wgt.Acquire(s.ctx, 1); err != nil {
			return err
		}
	}

	s.wg.Add(1)
	return nil
}

func (s *sem) NewWorkerTry() bool {
	if s.ctx.Err() != nil {
		return false
	}

	if s.wgt != nil {
		if !s.wgt.TryAcquire(1) {
			return false
		}
	}

	s.wg.Add(1)
	return true
}

func (s *sem) DeferWorker() {
	if s.wgt != nil {
		s.wgt.Release(1)
	}

	s.wg.Done()
}

func (s *sem) DeferMain() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err == nil {
		s.err = s.ctx.Err()
	}
}

func (s *sem) WaitAll() error {
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}
