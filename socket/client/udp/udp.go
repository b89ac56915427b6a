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

// Package udp implements the UdpClient side of socket/client: a connected
// UDP socket with a fixed destination (set_destination in the original
// API), exposing the same bound_port()/timeout bookkeeping.
package udp

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/nabbar/tarmio/ioerror"
	libptc "github.com/nabbar/tarmio/network/protocol"
)

type client struct {
	mu  sync.Mutex
	ntw libptc.NetworkProtocol
	adr string

	cnx     *net.UDPConn
	err     func(errs ...error)
	timeout time.Duration
}

// New creates a UDP client bound to no local port until Connect resolves
// and fixes the destination address adr.
func New(adr string) (*client, error) {
	return NewNetwork(libptc.NetworkUDP, adr)
}

func NewNetwork(ntw libptc.NetworkProtocol, adr string) (*client, error) {
	if adr == "" {
		return nil, ioerror.New(ioerror.InvalidArgument, "empty address")
	}
	if !ntw.IsUDP() {
		ntw = libptc.NetworkUDP
	}
	return &client{ntw: ntw, adr: adr}, nil
}

func (c *client) RegisterFuncError(fct func(errs ...error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = fct
}

func (c *client) notify(e error) {
	if e == nil {
		return
	}
	c.mu.Lock()
	fct := c.err
	c.mu.Unlock()
	if fct != nil {
		fct(e)
	}
}

// SetTimeout configures the read/write inactivity timeout applied to every
// subsequent I/O call. Zero disables it.
func (c *client) SetTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
}

func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cnx != nil {
		return ioerror.New(ioerror.ConnectionAlreadyInProgress, c.adr)
	}

	raddr, err := net.ResolveUDPAddr(c.ntw.Code(), c.adr)
	if err != nil {
		return ioerror.New(ioerror.UnknownNodeOrService, c.adr, err)
	}

	cnx, err := net.DialUDP(c.ntw.Code(), nil, raddr)
	if err != nil {
		return ioerror.New(ioerror.ConnectionRefused, c.adr, err)
	}

	c.cnx = cnx
	return nil
}

// BoundPort returns the local ephemeral port picked by the OS, 0 before
// Connect succeeds.
func (c *client) BoundPort() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cnx == nil {
		return 0
	}
	if a, ok := c.cnx.LocalAddr().(*net.UDPAddr); ok {
		return a.Port
	}
	return 0
}

func (c *client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cnx != nil
}

func (c *client) LocalAddr() net.Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cnx == nil {
		return nil
	}
	return c.cnx.LocalAddr()
}

func (c *client) RemoteAddr() net.Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cnx == nil {
		return nil
	}
	return c.cnx.RemoteAddr()
}

func (c *client) applyDeadline() {
	if c.timeout <= 0 || c.cnx == nil {
		return
	}
	_ = c.cnx.SetDeadline(time.Now().Add(c.timeout))
}

func (c *client) Read(p []byte) (int, error) {
	c.mu.Lock()
	cnx := c.cnx
	c.applyDeadline()
	c.mu.Unlock()

	if cnx == nil {
		return 0, ioerror.New(ioerror.NotConnected, c.adr)
	}

	n, err := cnx.Read(p)
	if err != nil {
		c.notify(err)
	}
	return n, err
}

func (c *client) Write(p []byte) (int, error) {
	c.mu.Lock()
	cnx := c.cnx
	c.applyDeadline()
	c.mu.Unlock()

	if cnx == nil {
		return 0, ioerror.New(ioerror.NotConnected, c.adr)
	}

	if len(p) > 65507 {
		return 0, ioerror.New(ioerror.MessageTooLong, c.adr)
	}

	n, err := cnx.Write(p)
	if err != nil {
		c.notify(err)
	}
	return n, err
}

func (c *client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cnx == nil {
		return nil
	}
	err := c.cnx.Close()
	c.cnx = nil
	return err
}
