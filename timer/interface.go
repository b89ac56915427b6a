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

// Package timer implements one-shot, repeating and multi-interval
// timers whose callbacks always run on the owning event loop's thread.
package timer

import (
	"time"

	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/handle"
)

// Callback receives the Timer instance that fired.
type Callback func(t Timer)

// Timer is a Removable handle driven by an eventloop.EventLoop: every
// Start call resets it, and ScheduleRemoval both stops it and retires
// the handle per handle.Removable's contract.
type Timer interface {
	handle.Removable

	// StartOnce fires callback once, after timeoutMs milliseconds. A
	// timeoutMs of 0 fires on the loop's next iteration.
	StartOnce(timeoutMs uint64, callback Callback)
	// StartRepeating fires callback first after timeoutMs milliseconds,
	// then again every repeatMs milliseconds until Stop or removal.
	StartRepeating(timeoutMs, repeatMs uint64, callback Callback)
	// StartMultiple fires callback once per entry of timeoutsMs, each
	// measured from the previous fire, then stops.
	StartMultiple(timeoutsMs []uint64, callback Callback)

	// Stop cancels any pending fire. The timer can be restarted with any
	// Start method afterward.
	Stop()

	// TimeoutMs returns the initial timeout passed to the last Start call.
	TimeoutMs() uint64
	// RepeatMs returns the repeat interval passed to StartRepeating, or 0.
	RepeatMs() uint64

	// CallbackCallCounter returns how many times callback has fired since
	// the last Start call.
	CallbackCallCounter() uint64
	// RealTimePassedSinceLastCallback returns the wall-clock time elapsed
	// since the last callback fired. Meaningful only when called from
	// within a callback or shortly after one.
	RealTimePassedSinceLastCallback() time.Duration
}

// New returns a Timer driven by loop, not yet started.
func New(loop eventloop.EventLoop) Timer {
	return newTimer(loop)
}
