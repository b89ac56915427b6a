/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
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

package eventloop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/tarmio/ioerror"
)

// queueSize is the cross-thread work queue's buffer: large enough that a
// burst of ExecuteOnLoopThread calls from thread-pool workers does not
// stall them waiting for the loop to catch up.
const queueSize = 1024

// idlePoll bounds how long Run waits for new work before re-checking the
// idle-exit condition while BlockFromExit is in effect.
const idlePoll = 10 * time.Millisecond

type loop struct {
	running atomic.Bool
	blocked atomic.Int64

	userMu   sync.Mutex
	userData interface{}

	queue chan func()

	// deferred holds Schedule callbacks; only ever touched from the loop
	// goroutine itself, matching the no-thread-safety contract of
	// schedule_callback.
	deferred []func()

	cycleMu   sync.Mutex
	cycleNext uint64
	cycle     map[uint64]CycleCallback
}

// New returns an EventLoop ready for Run.
func New() EventLoop {
	return &loop{
		queue: make(chan func(), queueSize),
		cycle: make(map[uint64]CycleCallback),
	}
}

func (l *loop) AddWork(work WorkCallback, done DoneCallback) {
	if work == nil {
		return
	}

	go func() {
		work()
		if done != nil {
			l.ExecuteOnLoopThread(func() { done() })
		}
	}()
}

func (l *loop) ExecuteOnLoopThread(callback func()) {
	if callback == nil {
		return
	}

	select {
	case l.queue <- callback:
	default:
		// queue momentarily full: hand off to a goroutine so the caller
		// (often a thread-pool worker) never blocks indefinitely.
		go func() { l.queue <- callback }()
	}
}

func (l *loop) Schedule(callback func()) {
	if callback == nil {
		return
	}
	l.deferred = append(l.deferred, callback)
}

func (l *loop) ScheduleCallOnEachLoopCycle(callback CycleCallback) uint64 {
	l.cycleMu.Lock()
	defer l.cycleMu.Unlock()

	l.cycleNext++
	h := l.cycleNext
	l.cycle[h] = callback
	return h
}

func (l *loop) StopCallOnEachLoopCycle(handle uint64) {
	l.cycleMu.Lock()
	defer l.cycleMu.Unlock()
	delete(l.cycle, handle)
}

func (l *loop) BlockFromExit() {
	l.blocked.Add(1)
}

func (l *loop) UnblockFromExit() {
	if l.blocked.Add(-1) < 0 {
		l.blocked.Store(0)
	}
}

func (l *loop) IsRunning() bool {
	return l.running.Load()
}

func (l *loop) UserData() interface{} {
	l.userMu.Lock()
	defer l.userMu.Unlock()
	return l.userData
}

func (l *loop) SetUserData(data interface{}) {
	l.userMu.Lock()
	l.userData = data
	l.userMu.Unlock()
}

func (l *loop) runCycleCallbacks() {
	l.cycleMu.Lock()
	cbs := make([]CycleCallback, 0, len(l.cycle))
	for _, cb := range l.cycle {
		cbs = append(cbs, cb)
	}
	l.cycleMu.Unlock()

	for _, cb := range cbs {
		if cb != nil {
			cb()
		}
	}
}

func (l *loop) drainDeferred() {
	for len(l.deferred) > 0 {
		cb := l.deferred[0]
		l.deferred = l.deferred[1:]
		if cb != nil {
			cb()
		}
	}
}

// Run processes one cycle (per-cycle callbacks, then deferred callbacks,
// then any queued cross-thread work) per iteration. It returns once ctx
// is done, or once the loop is idle (queue and deferred callbacks empty)
// and nothing is blocking it from exiting.
func (l *loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ioerror.New(ioerror.OperationAlreadyInProgress, "event loop")
	}
	defer l.running.Store(false)

	if ctx == nil {
		ctx = context.Background()
	}

	for {
		l.runCycleCallbacks()
		l.drainDeferred()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case cb := <-l.queue:
			if cb != nil {
				cb()
			}
			continue
		default:
		}

		if l.blocked.Load() <= 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case cb := <-l.queue:
			if cb != nil {
				cb()
			}
		case <-time.After(idlePoll):
		}
	}
}
