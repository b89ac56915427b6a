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

package timer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/handle"
)

type timerImpl struct {
	handle.Removable

	loop eventloop.EventLoop

	mu        sync.Mutex
	native    *time.Timer
	cb        Callback
	timeoutMs uint64
	repeatMs  uint64
	pending   []uint64
	counter   uint64
	lastFire  time.Time

	stopped  atomic.Bool
	blocking atomic.Bool
}

func newTimer(loop eventloop.EventLoop) *timerImpl {
	t := &timerImpl{
		Removable: handle.NewRemovable(),
		loop:      loop,
	}
	t.stopped.Store(true)
	return t
}

func (t *timerImpl) StartOnce(timeoutMs uint64, callback Callback) {
	t.start(timeoutMs, 0, nil, callback)
}

func (t *timerImpl) StartRepeating(timeoutMs, repeatMs uint64, callback Callback) {
	t.start(timeoutMs, repeatMs, nil, callback)
}

func (t *timerImpl) StartMultiple(timeoutsMs []uint64, callback Callback) {
	if len(timeoutsMs) == 0 {
		return
	}

	rest := make([]uint64, len(timeoutsMs)-1)
	copy(rest, timeoutsMs[1:])
	t.start(timeoutsMs[0], 0, rest, callback)
}

func (t *timerImpl) start(timeoutMs, repeatMs uint64, pending []uint64, callback Callback) {
	if t.IsRemovalScheduled() {
		return
	}

	t.mu.Lock()
	if t.native != nil {
		t.native.Stop()
		t.native = nil
	}
	t.timeoutMs = timeoutMs
	t.repeatMs = repeatMs
	t.pending = pending
	t.cb = callback
	t.counter = 0
	t.mu.Unlock()

	t.stopped.Store(false)
	t.block()
	t.schedule(timeoutMs)
}

// block keeps the loop from exiting while this timer has a pending
// native timer; unblock reverses it once nothing remains scheduled. A
// repeating or chained timer stays blocked continuously across fires,
// never toggling in between.
func (t *timerImpl) block() {
	if t.blocking.CompareAndSwap(false, true) {
		t.loop.BlockFromExit()
	}
}

func (t *timerImpl) unblock() {
	if t.blocking.CompareAndSwap(true, false) {
		t.loop.UnblockFromExit()
	}
}

func (t *timerImpl) schedule(ms uint64) {
	d := time.Duration(ms) * time.Millisecond
	if d <= 0 {
		d = time.Microsecond
	}

	native := time.AfterFunc(d, func() {
		t.loop.ExecuteOnLoopThread(t.fire)
	})

	t.mu.Lock()
	t.native = native
	t.mu.Unlock()
}

func (t *timerImpl) fire() {
	if t.stopped.Load() || t.IsRemovalScheduled() {
		return
	}

	t.mu.Lock()
	t.counter++
	t.lastFire = time.Now()
	cb := t.cb

	var (
		next    uint64
		hasNext bool
	)
	if len(t.pending) > 0 {
		next = t.pending[0]
		t.pending = t.pending[1:]
		hasNext = true
	} else if t.repeatMs > 0 {
		next = t.repeatMs
		hasNext = true
	}
	t.mu.Unlock()

	if cb != nil {
		cb(t)
	}

	if hasNext && !t.stopped.Load() && !t.IsRemovalScheduled() {
		t.schedule(next)
	} else {
		t.unblock()
	}
}

func (t *timerImpl) Stop() {
	t.stopped.Store(true)

	t.mu.Lock()
	if t.native != nil {
		t.native.Stop()
		t.native = nil
	}
	t.pending = nil
	t.mu.Unlock()

	t.unblock()
}

// ScheduleRemoval stops the timer before retiring the handle, so a
// callback already queued on the loop thread never fires after removal.
func (t *timerImpl) ScheduleRemoval() {
	t.Stop()
	t.Removable.ScheduleRemoval()
}

func (t *timerImpl) TimeoutMs() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timeoutMs
}

func (t *timerImpl) RepeatMs() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.repeatMs
}

func (t *timerImpl) CallbackCallCounter() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counter
}

func (t *timerImpl) RealTimePassedSinceLastCallback() time.Duration {
	t.mu.Lock()
	last := t.lastFire
	t.mu.Unlock()

	if last.IsZero() {
		return 0
	}
	return time.Since(last)
}
