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

// Package tcp implements the TcpClient side of the socket/client contract:
// connect, optionally upgrade to TLS, and hand a plain net.Conn to the
// caller's read/write calls. The Nagle toggle (delay_send in the original
// API) is exposed as SetNoDelay.
package tcp

import (
	"context"
	"crypto/tls"
	"net"
	"sync"

	libtls "github.com/nabbar/tarmio/certificates"
	"github.com/nabbar/tarmio/ioerror"
	libptc "github.com/nabbar/tarmio/network/protocol"
)

type client struct {
	mu  sync.Mutex
	ntw libptc.NetworkProtocol
	adr string
	tls libtls.TLSConfig
	srv string

	cnx net.Conn
	err func(errs ...error)

	noDelay bool
}

// New creates a TCP client targeting network (tcp/tcp4/tcp6) address adr.
// tlsCfg is nil for a plain connection.
func New(ntw libptc.NetworkProtocol, adr string, tlsCfg libtls.TLSConfig, serverName string) (*client, error) {
	if adr == "" {
		return nil, ioerror.New(ioerror.InvalidArgument, "empty address")
	}
	if !ntw.IsTCP() {
		ntw = libptc.NetworkTCP
	}
	return &client{ntw: ntw, adr: adr, tls: tlsCfg, srv: serverName, noDelay: true}, nil
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

func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cnx != nil {
		return ioerror.New(ioerror.ConnectionAlreadyInProgress, c.adr)
	}

	var d net.Dialer
	cnx, err := d.DialContext(ctx, c.ntw.Code(), c.adr)
	if err != nil {
		return mapDialError(err, c.adr)
	}

	if tc, ok := cnx.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(c.noDelay)
	}

	if c.tls != nil {
		cnx = tls.Client(cnx, c.tls.TLS(c.srv))
	}

	c.cnx = cnx
	return nil
}

// SetNoDelay toggles Nagle's algorithm on the underlying TCP connection.
// disabled (true, the default) means every write is flushed immediately.
func (c *client) SetNoDelay(noDelay bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.noDelay = noDelay
	if tc, ok := c.cnx.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(noDelay)
	}
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

func (c *client) Read(p []byte) (int, error) {
	c.mu.Lock()
	cnx := c.cnx
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
	c.mu.Unlock()

	if cnx == nil {
		return 0, ioerror.New(ioerror.NotConnected, c.adr)
	}

	n, err := cnx.Write(p)
	if err != nil {
		c.notify(err)
	}
	return n, err
}

// Close shuts down the write half then releases the socket, matching the
// graceful shutdown() contract. Use CloseWithReset for an abrupt RST.
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

// CloseWithReset forces an RST on the wire by disabling the linger grace
// period before closing, instead of the default graceful FIN exchange.
func (c *client) CloseWithReset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tc, ok := c.cnx.(*net.TCPConn); ok {
		_ = tc.SetLinger(0)
	}

	if c.cnx == nil {
		return nil
	}
	err := c.cnx.Close()
	c.cnx = nil
	return err
}

func mapDialError(err error, ctx string) error {
	if err == nil {
		return nil
	}
	if ne, ok := err.(*net.OpError); ok {
		if ne.Timeout() {
			return ioerror.New(ioerror.OperationCanceled, ctx, err)
		}
	}
	return ioerror.New(ioerror.ConnectionRefused, ctx, err)
}
