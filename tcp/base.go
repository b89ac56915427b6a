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
	"sync/atomic"

	"github.com/nabbar/tarmio/endpoint"
	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/handle"
	"github.com/nabbar/tarmio/ioerror"
	libsck "github.com/nabbar/tarmio/socket"
)

// base carries everything shared by the server-accepted TcpConnectedClient
// and the client-side TcpClient: both are one net.Conn wrapped in the
// same Open/Shutdown/Closed state machine, the same send queue, and the
// same cooperative-on-loop-thread callback dispatch.
type base struct {
	handle.RefCounted

	loop eventloop.EventLoop

	mu       sync.Mutex
	conn     net.Conn
	remote   endpoint.Endpoint
	userData interface{}

	onData DataCallback
	onClose CloseCallback
	pendingClose []CloseCallback

	state      atomic.Int32
	pending    atomic.Int64
	delaySend  atomic.Bool
	sendClosed atomic.Bool
	closeOnce  sync.Once
}

func newBase(loop eventloop.EventLoop) *base {
	b := &base{
		RefCounted: handle.NewRefCounted(),
		loop:       loop,
	}
	b.delaySend.Store(true)
	b.state.Store(int32(Connecting))
	return b
}

func (b *base) State() State {
	return State(b.state.Load())
}

func (b *base) RemoteEndpoint() endpoint.Endpoint {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remote
}

func (b *base) PendingSendRequests() int {
	return int(b.pending.Load())
}

func (b *base) UserData() interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.userData
}

func (b *base) SetUserData(data interface{}) {
	b.mu.Lock()
	b.userData = data
	b.mu.Unlock()
}

func (b *base) SetDelaySend(delay bool) {
	b.delaySend.Store(delay)

	b.mu.Lock()
	c := b.conn
	b.mu.Unlock()

	if tc, ok := underlyingTCPConn(c); ok {
		_ = tc.SetNoDelay(!delay)
	}
}

// underlyingTCPConn unwraps a *net.TCPConn from a plain connection or a
// *tls.Conn (whose NetConn() exposes the wrapped connection).
func underlyingTCPConn(c net.Conn) (*net.TCPConn, bool) {
	type netConner interface {
		NetConn() net.Conn
	}

	if tc, ok := c.(*net.TCPConn); ok {
		return tc, true
	}
	if nc, ok := c.(netConner); ok {
		return underlyingTCPConn(nc.NetConn())
	}
	return nil, false
}

// attach binds conn as this handle's transport and starts its read loop.
// Called once the connection is Open (accepted, or dialed successfully).
func (b *base) attach(conn net.Conn, remote endpoint.Endpoint, onData DataCallback, onClose CloseCallback) {
	b.mu.Lock()
	b.conn = conn
	b.remote = remote
	b.onData = onData
	b.onClose = onClose
	b.mu.Unlock()

	b.state.Store(int32(Open))
	b.closeOnce = sync.Once{}
	b.sendClosed.Store(false)

	// An open connection keeps the loop alive on its own, the same way
	// fs.file holds the loop open while buffers are outstanding.
	b.loop.BlockFromExit()

	b.loop.AddWork(func() { b.readLoop() }, nil)
}

func (b *base) readLoop() {
	buf := make([]byte, libsck.DefaultBufferSize)

	for {
		b.mu.Lock()
		conn := b.conn
		b.mu.Unlock()
		if conn == nil {
			return
		}

		n, err := conn.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			b.loop.ExecuteOnLoopThread(func() {
				if b.State() == Open && b.onData != nil {
					b.onData(data)
				}
			})
		}

		if err != nil {
			b.finishClose(readCloseError(err))
			return
		}
	}
}

func readCloseError(err error) error {
	if strings.Contains(err.Error(), "reset by peer") {
		return ioerror.New(ioerror.ConnectionResetByPeer, "")
	}
	return nil
}

func (b *base) finishClose(err error) {
	b.closeOnce.Do(func() {
		b.state.Store(int32(Closed))

		b.mu.Lock()
		conn := b.conn
		cb := b.onClose
		pending := b.pendingClose
		b.pendingClose = nil
		b.mu.Unlock()

		if conn != nil {
			_ = conn.Close()
		}

		b.loop.ExecuteOnLoopThread(func() {
			if cb != nil {
				cb(err)
			}
			for _, c := range pending {
				if c != nil {
					c(err)
				}
			}
		})

		b.ScheduleRemoval()
		b.loop.UnblockFromExit()
	})
}

func (b *base) requestClose(cb CloseCallback, reset bool) {
	if !b.state.CompareAndSwap(int32(Open), int32(Closed)) {
		if cb != nil {
			b.loop.ExecuteOnLoopThread(func() {
				cb(ioerror.New(ioerror.NotConnected, "already closed"))
			})
		}
		return
	}

	b.mu.Lock()
	b.pendingClose = append(b.pendingClose, cb)
	conn := b.conn
	b.mu.Unlock()

	if reset {
		if tc, ok := underlyingTCPConn(conn); ok {
			_ = tc.SetLinger(0)
		}
	}

	if conn != nil {
		_ = conn.Close()
	}
}

func (b *base) send(data []byte, cb SendCallback) {
	if len(data) == 0 {
		if cb != nil {
			b.loop.ExecuteOnLoopThread(func() { cb(ioerror.New(ioerror.InvalidArgument, "zero-length send")) })
		}
		return
	}

	if b.State() != Open || b.sendClosed.Load() {
		if cb != nil {
			b.loop.ExecuteOnLoopThread(func() { cb(ioerror.New(ioerror.NotConnected, "")) })
		}
		return
	}

	b.pending.Add(1)

	var werr error
	b.loop.AddWork(func() {
		b.mu.Lock()
		conn := b.conn
		b.mu.Unlock()

		if conn == nil {
			werr = ioerror.New(ioerror.NotConnected, "")
			return
		}
		if _, werr = conn.Write(data); werr != nil {
			werr = ioerror.New(ioerror.OperationCanceled, "", werr)
		}
	}, func() {
		b.pending.Add(-1)
		if cb != nil {
			cb(werr)
		}
	})
}

// drainThenClose waits for every pending Send to complete before closing,
// unlike requestClose's immediate close-and-cancel.
func (b *base) drainThenClose(cb CloseCallback) {
	if b.State() != Open {
		b.requestClose(cb, false)
		return
	}

	var h uint64
	h = b.loop.ScheduleCallOnEachLoopCycle(func() {
		if b.PendingSendRequests() > 0 {
			return
		}
		b.loop.StopCallOnEachLoopCycle(h)
		b.requestClose(cb, false)
	})
}

// halfClose stops accepting new sends but leaves the read side open, so
// data already in flight from the peer still arrives until it closes its
// own end.
func (b *base) halfClose() {
	if !b.sendClosed.CompareAndSwap(false, true) {
		return
	}

	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()

	if tc, ok := underlyingTCPConn(conn); ok {
		_ = tc.CloseWrite()
	}
}
