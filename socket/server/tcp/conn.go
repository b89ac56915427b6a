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
	"sync/atomic"
)

// conn is the TcpConnectedClient Context handed to the server's
// HandlerFunc: a thin net.Conn wrapper tracking whether Close has run.
type conn struct {
	c      net.Conn
	closed atomic.Bool
}

func newConn(c net.Conn) *conn {
	return &conn{c: c}
}

func (o *conn) Read(p []byte) (int, error) {
	return o.c.Read(p)
}

func (o *conn) Write(p []byte) (int, error) {
	return o.c.Write(p)
}

func (o *conn) Close() error {
	if !o.closed.CompareAndSwap(false, true) {
		return nil
	}
	return o.c.Close()
}

func (o *conn) IsConnected() bool {
	return !o.closed.Load()
}

func (o *conn) LocalAddr() net.Addr {
	return o.c.LocalAddr()
}

func (o *conn) RemoteAddr() net.Addr {
	return o.c.RemoteAddr()
}

// SetNoDelay toggles Nagle's algorithm for this connection, when the
// underlying socket is a plain (non-TLS) TCP connection.
func (o *conn) SetNoDelay(noDelay bool) {
	if tc, ok := o.c.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(noDelay)
	}
}
