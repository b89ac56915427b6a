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

// Package socket declares the Client/Server contracts shared by the TCP and
// UDP transports: a reconnectable, callback-driven wrapper around net.Conn
// and net.Listener that the event loop drives from its own goroutine.
package socket

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
)

// DefaultBufferSize is the read chunk size used when a handle does not
// override it (matches the file package's pooled buffer size).
const DefaultBufferSize = 32 * 1024

// EOL is the line delimiter recognized by the line-oriented helpers.
const EOL = '\n'

// Client is a single outbound connection, reconnectable by calling Connect
// again after Close.
type Client interface {
	io.ReadWriteCloser

	// Connect dials the configured address. Calling Connect while already
	// connected returns an ioerror.ConnectionAlreadyInProgress error.
	Connect(ctx context.Context) error
	IsConnected() bool
	LocalAddr() net.Addr
	RemoteAddr() net.Addr

	// RegisterFuncError installs the callback invoked with any error
	// observed by the background read/write goroutines.
	RegisterFuncError(fct func(errs ...error))
}

// Context is the per-connection/per-peer handle passed to a HandlerFunc:
// a TcpConnectedClient or a synthesized UdpPeer.
type Context interface {
	io.ReadWriteCloser

	IsConnected() bool
	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

// HandlerFunc processes one accepted connection (TCP) or one active peer
// (UDP). It owns the Context for its lifetime and is responsible for
// closing it.
type HandlerFunc func(c Context)

// Server accepts inbound connections/datagrams and dispatches them to a
// per-connection handler.
type Server interface {
	io.Closer

	Listen(ctx context.Context) error
	// Shutdown stops accepting new work and waits for in-flight handlers
	// to return before releasing the listener.
	Shutdown(ctx context.Context) error
	IsListening() bool
	ConnectedClients() int

	RegisterFuncError(fct func(errs ...error))
}

// ErrorFilter drops the noisy errors produced when a peer or the local side
// tears down a connection: io.EOF, net.ErrClosed and "use of closed
// network connection" are not failures, they are the normal end of a
// stream.
func ErrorFilter(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return nil
	}
	if strings.Contains(err.Error(), "use of closed network connection") {
		return nil
	}
	return err
}
