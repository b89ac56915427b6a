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

package tcp

import (
	"net"
	"strings"
	"sync"

	"github.com/nabbar/tarmio/endpoint"
	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/handle"
	"github.com/nabbar/tarmio/ioerror"
)

// client is a TcpClient: one dial-able handle that may be reconnected
// after a close, each attempt replacing its underlying base.
type client struct {
	handle.RefCounted

	mu sync.Mutex
	b  *base
}

var _ TcpClient = (*client)(nil)

// NewClient returns a TcpClient with no connection attempt in progress.
func NewClient() TcpClient {
	return &client{RefCounted: handle.NewRefCounted()}
}

func (c *client) current() *base {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.b
}

func (c *client) State() State {
	if b := c.current(); b != nil {
		return b.State()
	}
	return Closed
}

func (c *client) Connect(loop eventloop.EventLoop, ep endpoint.Endpoint, onConnect ConnectCallback, onData DataCallback, onClose CloseCallback) {
	b := newBase(loop)

	c.mu.Lock()
	c.b = b
	c.mu.Unlock()

	// The in-flight dial keeps the loop alive on its own; attach adds its
	// own block for the connection once it succeeds, so this one is
	// released unconditionally once the dial resolves either way.
	loop.BlockFromExit()

	var dialErr error
	loop.AddWork(func() {
		var d net.Dialer
		cnx, err := d.Dial("tcp", ep.String())
		if err != nil {
			dialErr = mapDialError(err, ep.String())
			return
		}
		b.attach(cnx, ep, onData, onClose)
	}, func() {
		loop.UnblockFromExit()
		if onConnect != nil {
			onConnect(dialErr)
		}
	})
}

func mapDialError(err error, ctx string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "refused"):
		return ioerror.New(ioerror.ConnectionRefused, ctx, err)
	case strings.Contains(msg, "no such host"), strings.Contains(msg, "lookup"):
		return ioerror.New(ioerror.UnknownNodeOrService, ctx, err)
	default:
		return ioerror.New(ioerror.ConnectionRefused, ctx, err)
	}
}

func (c *client) Send(data []byte, cb SendCallback) {
	b := c.current()
	if b == nil {
		if cb != nil {
			cb(ioerror.New(ioerror.NotConnected, ""))
		}
		return
	}
	b.send(data, cb)
}

func (c *client) PendingSendRequests() int {
	if b := c.current(); b != nil {
		return b.PendingSendRequests()
	}
	return 0
}

func (c *client) SetDelaySend(delay bool) {
	if b := c.current(); b != nil {
		b.SetDelaySend(delay)
	}
}

func (c *client) Close() {
	if b := c.current(); b != nil {
		b.requestClose(nil, false)
	}
}

func (c *client) CloseWithReset() {
	if b := c.current(); b != nil {
		b.requestClose(nil, true)
	}
}

// Shutdown half-closes the send side: subsequent Send calls fail, but
// data already in flight from the peer is still delivered to onData
// until the peer closes its own end and onClose fires.
func (c *client) Shutdown() {
	if b := c.current(); b != nil {
		b.halfClose()
	}
}
