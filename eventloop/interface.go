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

// Package eventloop implements a single-threaded cooperative event loop:
// Run drives one goroutine that drains cross-thread work, same-thread
// deferred callbacks and per-cycle callbacks until its context is done
// and nothing keeps it from exiting.
package eventloop

import "context"

// WorkCallback runs on a thread-pool goroutine, off the loop thread.
type WorkCallback func()

// DoneCallback runs back on the loop thread once a WorkCallback returns.
type DoneCallback func()

// CycleCallback runs once per loop iteration, on the loop thread.
type CycleCallback func()

// EventLoop is the reactor every handle in this module is driven by.
type EventLoop interface {
	// AddWork dispatches work on a thread-pool goroutine, then posts done
	// (if non-nil) back onto the loop thread once work returns.
	AddWork(work WorkCallback, done DoneCallback)

	// ExecuteOnLoopThread queues callback to run on the loop thread. Safe
	// to call from any goroutine.
	ExecuteOnLoopThread(callback func())

	// Schedule defers callback to run later in the same loop iteration,
	// before the next round of per-cycle callbacks. Not safe to call from
	// any thread but the loop's own.
	Schedule(callback func())

	// ScheduleCallOnEachLoopCycle registers callback to run once per loop
	// iteration and returns a handle for StopCallOnEachLoopCycle.
	ScheduleCallOnEachLoopCycle(callback CycleCallback) uint64
	// StopCallOnEachLoopCycle unregisters a callback registered with
	// ScheduleCallOnEachLoopCycle. No-op for an unknown handle.
	StopCallOnEachLoopCycle(handle uint64)

	// BlockFromExit postpones Run returning once the loop runs out of
	// work. Each call must be paired with UnblockFromExit.
	BlockFromExit()
	// UnblockFromExit reverses one BlockFromExit call.
	UnblockFromExit()

	// Run drives the loop until ctx is done, or until the loop has no
	// more work and nothing blocks it from exiting.
	Run(ctx context.Context) error
	// IsRunning reports whether Run is currently executing.
	IsRunning() bool

	// UserData returns the opaque value last passed to SetUserData, or
	// nil if none was set. The loop never reads or interprets it.
	UserData() interface{}
	// SetUserData attaches an opaque value to this loop for the caller's
	// own bookkeeping.
	SetUserData(data interface{})
}
