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

// Package udp implements the UdpServer side of socket/server: a single
// socket receive loop that lazily synthesizes one UdpPeer Context per
// distinct source endpoint and retires it after an inactivity timeout.
package udp

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/nabbar/tarmio/ioerror"
	libptc "github.com/nabbar/tarmio/network/protocol"
	libsck "github.com/nabbar/tarmio/socket"
)

// DefaultPeerTimeout is the inactivity window after which an idle peer is
// forgotten, matching the graveyard window used by the event loop's
// handle lifecycle.
const DefaultPeerTimeout = 2 * time.Minute

type server struct {
	ntw         libptc.NetworkProtocol
	adr         string
	hdl         libsck.HandlerFunc
	peerTimeout time.Duration

	mu    sync.Mutex
	cnx   *net.UDPConn
	err   func(errs ...error)
	peers map[string]*peer
}

// New creates a UDP server for address adr. Every distinct source
// endpoint seen on the socket gets its own peer Context, handed to hdl
// exactly once on first sight; subsequent datagrams from the same source
// feed that peer's Read channel.
func New(ntw libptc.NetworkProtocol, adr string, hdl libsck.HandlerFunc, peerTimeout time.Duration) (*server, error) {
	if hdl == nil {
		return nil, ioerror.New(ioerror.InvalidArgument, "nil handler")
	}
	if !ntw.IsUDP() {
		ntw = libptc.NetworkUDP
	}
	if peerTimeout <= 0 {
		peerTimeout = DefaultPeerTimeout
	}
	return &server{ntw: ntw, adr: adr, hdl: hdl, peerTimeout: peerTimeout, peers: make(map[string]*peer)}, nil
}

func (s *server) RegisterFuncError(fct func(errs ...error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = fct
}

func (s *server) notify(e error) {
	if e = libsck.ErrorFilter(e); e == nil {
		return
	}
	s.mu.Lock()
	fct := s.err
	s.mu.Unlock()
	if fct != nil {
		fct(e)
	}
}

func (s *server) Listen(ctx context.Context) error {
	s.mu.Lock()
	if s.cnx != nil {
		s.mu.Unlock()
		return ioerror.New(ioerror.OperationAlreadyInProgress, s.adr)
	}

	laddr, err := net.ResolveUDPAddr(s.ntw.Code(), s.adr)
	if err != nil {
		s.mu.Unlock()
		return ioerror.New(ioerror.UnknownNodeOrService, s.adr, err)
	}

	cnx, err := net.ListenUDP(s.ntw.Code(), laddr)
	if err != nil {
		s.mu.Unlock()
		return ioerror.New(ioerror.AddressAlreadyInUse, s.adr, err)
	}

	s.cnx = cnx
	s.mu.Unlock()

	go s.recvLoop(cnx)
	go s.reapLoop(ctx)
	return nil
}

func (s *server) recvLoop(cnx *net.UDPConn) {
	buf := make([]byte, libsck.DefaultBufferSize)
	for {
		n, raddr, err := cnx.ReadFromUDP(buf)
		if err != nil {
			s.notify(err)
			return
		}

		p := s.peerFor(cnx, raddr)
		p.deliver(buf[:n])
	}
}

func (s *server) peerFor(cnx *net.UDPConn, raddr *net.UDPAddr) *peer {
	key := raddr.String()

	s.mu.Lock()
	p, ok := s.peers[key]
	if !ok {
		p = newPeer(cnx, raddr, func() {
			s.mu.Lock()
			delete(s.peers, key)
			s.mu.Unlock()
		})
		s.peers[key] = p
	}
	s.mu.Unlock()

	if !ok {
		go s.hdl(p)
	}
	return p
}

func (s *server) reapLoop(ctx context.Context) {
	t := time.NewTicker(s.peerTimeout / 2)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.mu.Lock()
			for k, p := range s.peers {
				if time.Since(p.lastSeen()) > s.peerTimeout {
					delete(s.peers, k)
					_ = p.Close()
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *server) IsListening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cnx != nil
}

func (s *server) ConnectedClients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.peers)
}

func (s *server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cnx == nil {
		return nil
	}
	err := s.cnx.Close()
	s.cnx = nil
	for k, p := range s.peers {
		delete(s.peers, k)
		_ = p.Close()
	}
	return err
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.Close()
}
