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

package handle

// refCounted is intentionally not safe for concurrent Ref/Unref calls: the
// loop thread owns the handles it counts, same as the C++ original this is
// ported from.
type refCounted struct {
	Removable
	count uint64
}

// NewRefCounted returns a RefCounted handle with an initial reference
// count of 1: the caller that creates it owns the first reference.
func NewRefCounted() RefCounted {
	return &refCounted{
		Removable: NewRemovable(),
		count:     1,
	}
}

func (r *refCounted) Ref() {
	r.count++
}

func (r *refCounted) Unref() {
	if r.count == 0 {
		return
	}

	r.count--
	if r.count == 0 {
		r.ScheduleRemoval()
	}
}

func (r *refCounted) RefCount() uint64 {
	return r.count
}
