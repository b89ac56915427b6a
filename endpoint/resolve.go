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

package endpoint

import (
	"context"
	"net"

	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/ioerror"
)

// ResolveCallback receives the resolved endpoints (port 0, since DNS
// carries no port information) or an error. It always runs on the loop
// goroutine that called Resolve.
type ResolveCallback func(endpoints []Endpoint, err error)

// Resolve looks up host on a thread-pool goroutine via loop.AddWork and
// delivers the result to cb back on the loop thread, matching every other
// async operation in this module.
func Resolve(loop eventloop.EventLoop, host string, cb ResolveCallback) {
	if cb == nil {
		return
	}

	var (
		result []Endpoint
		rerr   error
	)

	loop.AddWork(func() {
		addrs, err := net.DefaultResolver.LookupIPAddr(context.Background(), host)
		if err != nil {
			rerr = ioerror.New(ioerror.UnknownNodeOrService, host, err)
			return
		}

		result = make([]Endpoint, 0, len(addrs))
		for _, a := range addrs {
			if e, eerr := FromIP(a.IP, 0); eerr == nil {
				result = append(result, e)
			}
		}
	}, func() {
		cb(result, rerr)
	})
}
