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
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/nabbar/tarmio/endpoint"
	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/ioerror"
)

type server struct {
	mu  sync.Mutex
	lst net.Listener
	loop eventloop.EventLoop

	onNewConnection NewConnectionCallback
	onData          DataCallback
	onClose         CloseCallback

	clients   sync.Map // *connectedClient keyed by itself
	count     atomic.Int64
	closeOnce sync.Once
}

var _ TcpServer = (*server)(nil)

// NewServer returns an idle TcpServer; call Listen to start accepting.
func NewServer() TcpServer {
	return &server{}
}

func (s *server) Listen(loop eventloop.EventLoop, ep endpoint.Endpoint, onNewConnection NewConnectionCallback, onData DataCallback, onClose CloseCallback, backlog int) error {
	if loop == nil {
		return ioerror.New(ioerror.InvalidArgument, "nil event loop")
	}
	if backlog <= 0 {
		backlog = DefaultBacklog
	}

	s.mu.Lock()
	if s.lst != nil {
		s.mu.Unlock()
		return ioerror.New(ioerror.OperationAlreadyInProgress, ep.String())
	}

	var lc net.ListenConfig
	lst, err := lc.Listen(context.Background(), "tcp", ep.String())
	if err != nil {
		s.mu.Unlock()
		return mapListenError(err, ep.String())
	}

	s.lst = lst
	s.loop = loop
	s.onNewConnection = onNewConnection
	s.onData = onData
	s.onClose = onClose
	s.closeOnce = sync.Once{}
	s.mu.Unlock()

	// A listening server keeps the loop alive on its own until Close.
	loop.BlockFromExit()

	loop.AddWork(func() { s.acceptLoop(lst) }, nil)
	return nil
}

func (s *server) acceptLoop(lst net.Listener) {
	for {
		cnx, err := lst.Accept()
		if err != nil {
			return
		}

		remote := parseRemoteEndpoint(cnx.RemoteAddr())

		c := &connectedClient{base: newBase(s.loop), srv: s}
		s.clients.Store(c, struct{}{})
		s.count.Add(1)

		c.attach(cnx, remote, s.onData, func(err error) {
			s.clients.Delete(c)
			s.count.Add(-1)
			if s.onClose != nil {
				s.onClose(err)
			}
		})

		s.loop.ExecuteOnLoopThread(func() {
			if s.onNewConnection != nil {
				s.onNewConnection(c)
			}
		})
	}
}

func (s *server) ConnectedClientsCount() int {
	return int(s.count.Load())
}

func (s *server) Close(cb func(err error)) {
	s.mu.Lock()
	lst := s.lst
	loop := s.loop
	s.mu.Unlock()

	if lst == nil {
		if cb != nil {
			cb(ioerror.New(ioerror.NotConnected, ""))
		}
		return
	}

	already := true
	s.closeOnce.Do(func() { already = false })
	if already {
		if cb != nil && loop != nil {
			loop.ExecuteOnLoopThread(func() { cb(ioerror.New(ioerror.OperationAlreadyInProgress, "")) })
		}
		return
	}

	_ = lst.Close()

	s.clients.Range(func(k, _ interface{}) bool {
		k.(*connectedClient).requestClose(nil, false)
		return true
	})

	s.mu.Lock()
	s.lst = nil
	s.mu.Unlock()

	loop.UnblockFromExit()

	if cb != nil {
		if loop != nil {
			loop.ExecuteOnLoopThread(func() { cb(nil) })
		} else {
			cb(nil)
		}
	}
}

// Shutdown stops accepting new connections immediately, like Close, but
// lets already-connected clients finish on their own rather than force
// closing them; cb fires once the last one has gone away.
func (s *server) Shutdown(cb func(err error)) {
	s.mu.Lock()
	lst := s.lst
	loop := s.loop
	s.mu.Unlock()

	if lst == nil {
		if cb != nil {
			cb(ioerror.New(ioerror.NotConnected, ""))
		}
		return
	}

	already := true
	s.closeOnce.Do(func() { already = false })
	if already {
		if cb != nil && loop != nil {
			loop.ExecuteOnLoopThread(func() { cb(ioerror.New(ioerror.OperationAlreadyInProgress, "")) })
		}
		return
	}

	_ = lst.Close()

	s.mu.Lock()
	s.lst = nil
	s.mu.Unlock()

	loop.UnblockFromExit()

	if s.ConnectedClientsCount() == 0 {
		if cb != nil {
			loop.ExecuteOnLoopThread(func() { cb(nil) })
		}
		return
	}

	var h uint64
	h = loop.ScheduleCallOnEachLoopCycle(func() {
		if s.ConnectedClientsCount() > 0 {
			return
		}
		loop.StopCallOnEachLoopCycle(h)
		if cb != nil {
			cb(nil)
		}
	})
}

func parseRemoteEndpoint(addr net.Addr) endpoint.Endpoint {
	host, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return endpoint.New()
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return endpoint.New()
	}
	ep, err := endpoint.FromString(host, uint16(port))
	if err != nil {
		return endpoint.New()
	}
	return ep
}

func mapListenError(err error, ctx string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "address already in use"):
		return ioerror.New(ioerror.AddressAlreadyInUse, ctx, err)
	case strings.Contains(msg, "permission denied"):
		return ioerror.New(ioerror.PermissionDenied, ctx, err)
	case strings.Contains(msg, "cannot assign requested address"):
		return ioerror.New(ioerror.AddressNotAvailable, ctx, err)
	default:
		return ioerror.New(ioerror.InvalidArgument, ctx, err)
	}
}
