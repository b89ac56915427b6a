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

package ioerror

import (
	"fmt"

	"github.com/nabbar/tarmio/errors"
)

// New builds a liberr.Error for code, appending context (e.g. a path or a
// peer endpoint) when non-empty. context is left out of the message
// entirely when empty, so New(Undefined, "") reads just "undefined error"
// instead of trailing whitespace.
func New(code errors.CodeError, context string, parent ...error) errors.Error {
	suffix := ""
	if context != "" {
		suffix = ": " + context
	}

	return errors.New(code.Uint16(), fmt.Sprintf(code.Message(), suffix), parent...)
}

// Is reports whether err carries code anywhere in its parent chain.
func Is(err error, code errors.CodeError) bool {
	return errors.IsCode(err, code)
}
