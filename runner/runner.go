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

// Package runner provides shared helpers for goroutines started by the
// various background workers (loggers, aggregators, pooled hooks).
package runner

import (
	"fmt"
	"os"
	"runtime/debug"
)

// RecoveryCaller logs a panic recovered from a goroutine, identifying the
// caller that owned it. msg, when given, adds extra context (e.g. the
// resource the goroutine was operating on). It is a no-op when r is nil.
func RecoveryCaller(caller string, r interface{}, msg ...string) {
	if r == nil {
		return
	}

	if len(msg) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "recovered panic in %s (%s): %v\n%s\n", caller, msg[0], r, debug.Stack())
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "recovered panic in %s: %v\n%s\n", caller, r, debug.Stack())
	}
}
