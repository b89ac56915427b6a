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

// Package handle implements the two lifecycle mixins every loop-owned
// object embeds: Removable (one-way Active -> RemovalScheduled transition,
// deferred destruction) and RefCounted (simple non-atomic reference
// counting on top of Removable).
package handle

// Removable is the one-way lifecycle of every handle owned by a loop:
// once schedule_removal runs, the handle can never return to Active and
// the registered callback, if any, fires exactly once.
type Removable interface {
	// ScheduleRemoval transitions the handle to RemovalScheduled. Safe to
	// call more than once; only the first call has any effect.
	ScheduleRemoval()
	// IsRemovalScheduled reports whether ScheduleRemoval has run.
	IsRemovalScheduled() bool
	// SetOnScheduleRemoval registers the callback fired by the first
	// ScheduleRemoval call. Registering after removal was already
	// scheduled does nothing: the callback will never fire.
	SetOnScheduleRemoval(cb func())
}

// RefCounted layers reference counting on top of Removable: the count
// starts at 1, and dropping it to zero schedules removal. Not safe for
// concurrent use without external synchronization, matching the loop's
// single-thread-owns-its-handles model.
type RefCounted interface {
	Removable

	// Ref increments the reference count.
	Ref()
	// Unref decrements the reference count; reaching zero triggers
	// ScheduleRemoval.
	Unref()
	// RefCount returns the current reference count.
	RefCount() uint64
}
