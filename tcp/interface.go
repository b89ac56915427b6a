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

// Package tcp layers the spec-exact TcpServer / TcpClient / TcpConnectedClient
// callback state machine on top of the net.Conn/net.Listener plumbing in
// socket/client/tcp and socket/server/tcp, driving every callback through
// an eventloop.EventLoop so user code never observes a callback off the
// loop thread.
package tcp

import (
	"github.com/nabbar/tarmio/endpoint"
	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/handle"
)

// State is a TcpConnectedClient's position in its lifecycle.
type State uint8

const (
	// Connecting is only observed client-side, between Connect and the
	// on-connect callback.
	Connecting State = iota
	Open
	Shutdown
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Shutdown:
		return "shutdown"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// DefaultBacklog is used by Listen when the caller passes backlog <= 0.
const DefaultBacklog = 128

// SendCallback reports completion of one Send: err is nil once the OS has
// accepted the bytes, ioerror.OperationCanceled if the connection closed
// with sends still pending.
type SendCallback func(err error)

// DataCallback delivers one chunk of received bytes, in arrival order.
type DataCallback func(data []byte)

// CloseCallback reports err == nil on a graceful close/shutdown, or
// ioerror.ConnectionResetByPeer on a reset.
type CloseCallback func(err error)

// ConnectCallback reports the outcome of TcpClient.Connect. When err is
// non-nil, CloseCallback registered on Connect must never fire for this
// attempt.
type ConnectCallback func(err error)

// NewConnectionCallback fires once per accepted connection, before any
// DataCallback for that connection.
type NewConnectionCallback func(c TcpConnectedClient)

// TcpConnectedClient is the server-side handle for one accepted TCP
// connection.
type TcpConnectedClient interface {
	handle.RefCounted

	State() State
	RemoteEndpoint() endpoint.Endpoint

	// Send enqueues data; cb fires once the OS has accepted it, or with
	// an error if the connection is not Open or the send is canceled by
	// a concurrent close.
	Send(data []byte, cb SendCallback)
	// PendingSendRequests reports how many Send calls have not yet
	// completed.
	PendingSendRequests() int

	// SetDelaySend toggles Nagle's algorithm; true enables it (delays
	// small sends), false disables it. Nagle is enabled by default.
	SetDelaySend(delay bool)

	// Close stops accepting data and fires cb with nil once fully closed.
	Close(cb CloseCallback)
	// CloseWithReset sends a TCP RST; the peer observes
	// ioerror.ConnectionResetByPeer.
	CloseWithReset(cb CloseCallback)
	// Shutdown drains pending sends, then closes.
	Shutdown(cb CloseCallback)

	// UserData returns the opaque value last passed to SetUserData, or
	// nil if none was set.
	UserData() interface{}
	// SetUserData attaches an opaque value to this connection for the
	// caller's own bookkeeping.
	SetUserData(data interface{})
}

// TcpServer accepts inbound TCP connections on one bound address.
type TcpServer interface {
	// Listen binds ep and starts accepting. Only one Listen is permitted
	// between Close calls; a second concurrent Listen returns
	// ioerror.OperationAlreadyInProgress (the module's
	// CONNECTION_ALREADY_IN_PROGRESS code, see DESIGN.md).
	Listen(loop eventloop.EventLoop, ep endpoint.Endpoint, onNewConnection NewConnectionCallback, onData DataCallback, onClose CloseCallback, backlog int) error

	// Close stops accepting, closes every connected client (each fires
	// its CloseCallback), then invokes cb.
	Close(cb func(err error))
	// Shutdown drains connected clients, then closes.
	Shutdown(cb func(err error))

	// ConnectedClientsCount reflects currently open peers.
	ConnectedClientsCount() int
}

// TcpClient is the client-side handle for one outbound TCP connection. A
// TcpClient may be reconnected after Close.
type TcpClient interface {
	handle.RefCounted

	State() State

	// Connect dials ep. onConnect always fires; onData/onClose may be
	// nil. If onConnect reports an error, onClose must never fire for
	// this attempt.
	Connect(loop eventloop.EventLoop, ep endpoint.Endpoint, onConnect ConnectCallback, onData DataCallback, onClose CloseCallback)

	Send(data []byte, cb SendCallback)
	PendingSendRequests() int
	SetDelaySend(delay bool)

	Close()
	CloseWithReset()
	Shutdown()
}
