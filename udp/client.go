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

package udp

import (
	"net"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/nabbar/tarmio/endpoint"
	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/ioerror"
	"github.com/nabbar/tarmio/timer"
)

type client struct {
	mu   sync.Mutex
	loop eventloop.EventLoop
	conn *net.UDPConn
	dest endpoint.Endpoint
	tmr  timer.Timer

	ready    atomic.Bool
	blocking atomic.Bool

	onData    DataCallback
	onTimeout func()

	closeOnce sync.Once
}

var _ UdpClient = (*client)(nil)

// NewClient returns a UdpClient with no destination bound.
func NewClient() UdpClient {
	return &client{}
}

func (c *client) SetDestination(loop eventloop.EventLoop, ep endpoint.Endpoint, onSet SetDestinationCallback, onData DataCallback, timeoutMs int64, onTimeout func()) {
	c.mu.Lock()
	c.loop = loop
	c.dest = ep
	c.onData = onData
	c.onTimeout = onTimeout
	c.closeOnce = sync.Once{}
	c.mu.Unlock()

	// The resolve/dial keeps the loop alive; Close reverses it once the
	// destination is torn down. A failed resolve/dial never holds the
	// loop past this SetDestination call.
	c.block()

	var setErr error
	loop.AddWork(func() {
		raddr, err := net.ResolveUDPAddr("udp", ep.String())
		if err != nil {
			setErr = ioerror.New(ioerror.UnknownNodeOrService, ep.String(), err)
			return
		}

		cnx, err := net.DialUDP("udp", nil, raddr)
		if err != nil {
			setErr = ioerror.New(ioerror.ConnectionRefused, ep.String(), err)
			return
		}

		c.mu.Lock()
		c.conn = cnx
		c.mu.Unlock()

		c.ready.Store(true)

		if timeoutMs > 0 {
			t := timer.New(loop)
			c.mu.Lock()
			c.tmr = t
			c.mu.Unlock()
			t.StartOnce(uint64(timeoutMs), func(timer.Timer) { c.fireTimeout() })
		}

		loop.AddWork(func() { c.recvLoop(cnx, timeoutMs) }, nil)
	}, func() {
		if setErr != nil {
			c.unblock()
		}
		if onSet != nil {
			onSet(setErr)
		}
	})
}

func (c *client) block() {
	if c.blocking.CompareAndSwap(false, true) {
		c.loop.BlockFromExit()
	}
}

func (c *client) unblock() {
	if c.blocking.CompareAndSwap(true, false) {
		c.loop.UnblockFromExit()
	}
}

func (c *client) recvLoop(cnx *net.UDPConn, timeoutMs int64) {
	buf := make([]byte, 65535)

	for {
		n, raddr, err := cnx.ReadFromUDP(buf)
		if err != nil {
			return
		}

		c.mu.Lock()
		dest := c.dest
		c.mu.Unlock()

		srcEp, epErr := endpoint.FromIP(raddr.IP, uint16(raddr.Port))
		if epErr != nil || srcEp != dest {
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		c.mu.Lock()
		t := c.tmr
		c.mu.Unlock()
		if t != nil && timeoutMs > 0 {
			t.StartOnce(uint64(timeoutMs), func(timer.Timer) { c.fireTimeout() })
		}

		c.loop.ExecuteOnLoopThread(func() {
			if c.onData != nil {
				c.onData(data)
			}
		})
	}
}

func (c *client) fireTimeout() {
	c.ready.Store(false)

	c.mu.Lock()
	cnx := c.conn
	c.conn = nil
	cb := c.onTimeout
	c.mu.Unlock()

	if cnx != nil {
		_ = cnx.Close()
	}
	c.unblock()
	if cb != nil {
		cb()
	}
}

func (c *client) Send(data []byte, cb SendCallback) {
	if !c.ready.Load() {
		if cb != nil {
			c.loop.ExecuteOnLoopThread(func() { cb(ioerror.New(ioerror.OperationCanceled, "")) })
		}
		return
	}

	c.mu.Lock()
	cnx := c.conn
	loop := c.loop
	c.mu.Unlock()

	if cnx == nil {
		if cb != nil {
			cb(ioerror.New(ioerror.NotConnected, ""))
		}
		return
	}

	if len(data) > 65507 {
		if cb != nil {
			loop.ExecuteOnLoopThread(func() { cb(ioerror.New(ioerror.MessageTooLong, "")) })
		}
		return
	}

	var werr error
	loop.AddWork(func() {
		if _, werr = cnx.Write(data); werr != nil {
			werr = ioerror.New(ioerror.OperationCanceled, "", werr)
		}
	}, func() {
		if cb != nil {
			cb(werr)
		}
	})
}

func (c *client) BoundPort() int {
	if !c.ready.Load() {
		return 0
	}

	c.mu.Lock()
	cnx := c.conn
	c.mu.Unlock()

	if cnx == nil {
		return 0
	}
	if a, ok := cnx.LocalAddr().(*net.UDPAddr); ok {
		return a.Port
	}
	return 0
}

func (c *client) ReceiveBufferSize() (int, error) {
	c.mu.Lock()
	cnx := c.conn
	c.mu.Unlock()
	return queryBufferSize(cnx, unix.SO_RCVBUF)
}

func (c *client) SetReceiveBufferSize(bytes int) error {
	c.mu.Lock()
	cnx := c.conn
	c.mu.Unlock()
	if cnx == nil {
		return ioerror.New(ioerror.NotConnected, "")
	}
	return applyBufferSize(cnx, bytes, cnx.SetReadBuffer)
}

func (c *client) SendBufferSize() (int, error) {
	c.mu.Lock()
	cnx := c.conn
	c.mu.Unlock()
	return queryBufferSize(cnx, unix.SO_SNDBUF)
}

func (c *client) SetSendBufferSize(bytes int) error {
	c.mu.Lock()
	cnx := c.conn
	c.mu.Unlock()
	if cnx == nil {
		return ioerror.New(ioerror.NotConnected, "")
	}
	return applyBufferSize(cnx, bytes, cnx.SetWriteBuffer)
}

func (c *client) Close() {
	c.closeOnce.Do(func() {
		c.ready.Store(false)

		c.mu.Lock()
		cnx := c.conn
		t := c.tmr
		c.conn = nil
		c.mu.Unlock()

		if t != nil {
			t.Stop()
		}
		if cnx != nil {
			_ = cnx.Close()
		}
		c.unblock()
	})
}
