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

// Package udp layers the spec-exact UdpServer / UdpClient / UdpPeer peer
// bookkeeping and inactivity-timeout scheme on top of net.UDPConn,
// driving every callback through an eventloop.EventLoop.
package udp

import (
	"time"

	"github.com/nabbar/tarmio/endpoint"
	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/handle"
)

// SendCallback reports completion of one Send.
type SendCallback func(err error)

// DataCallback delivers one datagram with no peer identity: used by
// UdpServer.StartReceive (untracked mode) and by UdpClient.
type DataCallback func(data []byte)

// PeerDataCallback delivers one datagram from a tracked UdpPeer.
type PeerDataCallback func(p UdpPeer, data []byte)

// NewPeerCallback fires once, the first time a source endpoint is seen,
// before the first PeerDataCallback for that peer.
type NewPeerCallback func(p UdpPeer)

// PeerTimeoutCallback fires when a tracked UdpPeer has not been heard
// from within its configured inactivity timeout; the peer is evicted
// immediately afterward.
type PeerTimeoutCallback func(p UdpPeer)

// SetDestinationCallback reports the outcome of UdpClient.SetDestination.
type SetDestinationCallback func(err error)

// UdpPeer is the server-side representation of one remote endpoint,
// synthesized lazily on the first datagram received from it.
type UdpPeer interface {
	handle.RefCounted

	RemoteEndpoint() endpoint.Endpoint
	LastPacketTime() time.Time

	Send(data []byte, cb SendCallback)

	// Close places the peer in a graveyard for inactivityMs: datagrams
	// from its endpoint are dropped silently until the window elapses,
	// after which a fresh peer is synthesized. Only the first Close call
	// on a given peer takes effect.
	Close(inactivityMs int64)

	// UserData returns the opaque value last passed to SetUserData, or
	// nil if none was set.
	UserData() interface{}
	// SetUserData attaches an opaque value to this peer for the caller's
	// own bookkeeping.
	SetUserData(data interface{})
}

// UdpServer receives datagrams on one bound endpoint, optionally
// synthesizing and tracking a UdpPeer per distinct source.
type UdpServer interface {
	// StartReceive delivers every datagram through onData with no peer
	// identity tracked across calls.
	StartReceive(loop eventloop.EventLoop, ep endpoint.Endpoint, onData DataCallback) error

	// StartReceiveWithPeers tracks one UdpPeer per distinct source
	// endpoint. timeoutMs must be greater than zero; zero is rejected as
	// ioerror.InvalidArgument. onTimeout fires, and the peer is evicted,
	// when no datagram arrives from it within timeoutMs of the last one.
	StartReceiveWithPeers(loop eventloop.EventLoop, ep endpoint.Endpoint, onNewPeer NewPeerCallback, onData PeerDataCallback, timeoutMs int64, onTimeout PeerTimeoutCallback) error

	// Close stops receiving and closes every tracked peer.
	Close(cb func(err error))

	// ConnectedPeersCount reflects currently tracked (non-graveyard) peers.
	ConnectedPeersCount() int

	// ReceiveBufferSize/SendBufferSize query the OS socket buffer sizes.
	ReceiveBufferSize() (int, error)
	SendBufferSize() (int, error)

	// SetReceiveBufferSize/SetSendBufferSize resize the OS socket
	// buffers; bytes outside [1KiB, 64MiB] is rejected as
	// ioerror.InvalidArgument before ever reaching setsockopt.
	SetReceiveBufferSize(bytes int) error
	SetSendBufferSize(bytes int) error
}

// UdpClient is a fixed-destination UDP handle.
type UdpClient interface {
	// SetDestination fixes ep as this client's destination and binds a
	// local socket; onSet always fires. Sends issued before onSet fires
	// fail with ioerror.OperationCanceled. Receive filtering: only
	// datagrams whose source equals ep reach onData. timeoutMs of 0
	// disables the inactivity timeout.
	SetDestination(loop eventloop.EventLoop, ep endpoint.Endpoint, onSet SetDestinationCallback, onData DataCallback, timeoutMs int64, onTimeout func())

	Send(data []byte, cb SendCallback)
	// BoundPort is non-zero only between a successful SetDestination and
	// Close or a firing onTimeout.
	BoundPort() int

	// ReceiveBufferSize/SendBufferSize query the OS socket buffer sizes.
	ReceiveBufferSize() (int, error)
	SendBufferSize() (int, error)

	// SetReceiveBufferSize/SetSendBufferSize resize the OS socket
	// buffers; bytes outside [1KiB, 64MiB] is rejected as
	// ioerror.InvalidArgument before ever reaching setsockopt.
	SetReceiveBufferSize(bytes int) error
	SetSendBufferSize(bytes int) error

	Close()
}
