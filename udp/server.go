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
	"time"

	"golang.org/x/sys/unix"

	"github.com/nabbar/tarmio/endpoint"
	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/ioerror"
	"github.com/nabbar/tarmio/timer"
)

type server struct {
	mu   sync.Mutex
	conn *net.UDPConn
	loop eventloop.EventLoop

	blocking atomic.Bool

	tracked   bool
	onData    DataCallback
	onNewPeer NewPeerCallback
	onPeer    PeerDataCallback
	onTimeout PeerTimeoutCallback
	timeoutMs int64

	peers     map[string]*peer
	graveyard map[string]time.Time
}

var _ UdpServer = (*server)(nil)

// NewServer returns an idle UdpServer; call StartReceive or
// StartReceiveWithPeers to start receiving.
func NewServer() UdpServer {
	return &server{
		peers:     make(map[string]*peer),
		graveyard: make(map[string]time.Time),
	}
}

func (s *server) StartReceive(loop eventloop.EventLoop, ep endpoint.Endpoint, onData DataCallback) error {
	return s.start(loop, ep, false, nil, nil, 0, nil, onData)
}

func (s *server) StartReceiveWithPeers(loop eventloop.EventLoop, ep endpoint.Endpoint, onNewPeer NewPeerCallback, onData PeerDataCallback, timeoutMs int64, onTimeout PeerTimeoutCallback) error {
	if timeoutMs <= 0 {
		return ioerror.New(ioerror.InvalidArgument, "timeoutMs must be greater than zero")
	}
	return s.start(loop, ep, true, onNewPeer, onData, timeoutMs, onTimeout, nil)
}

func (s *server) start(loop eventloop.EventLoop, ep endpoint.Endpoint, tracked bool, onNewPeer NewPeerCallback, onPeer PeerDataCallback, timeoutMs int64, onTimeout PeerTimeoutCallback, onData DataCallback) error {
	if loop == nil {
		return ioerror.New(ioerror.InvalidArgument, "nil event loop")
	}

	s.mu.Lock()
	if s.conn != nil {
		s.mu.Unlock()
		return ioerror.New(ioerror.OperationAlreadyInProgress, ep.String())
	}

	laddr, err := net.ResolveUDPAddr("udp", ep.String())
	if err != nil {
		s.mu.Unlock()
		return ioerror.New(ioerror.UnknownNodeOrService, ep.String(), err)
	}

	cnx, err := net.ListenUDP("udp", laddr)
	if err != nil {
		s.mu.Unlock()
		return ioerror.New(ioerror.AddressAlreadyInUse, ep.String(), err)
	}

	s.conn = cnx
	s.loop = loop
	s.tracked = tracked
	s.onNewPeer = onNewPeer
	s.onPeer = onPeer
	s.onData = onData
	s.onTimeout = onTimeout
	s.timeoutMs = timeoutMs
	s.mu.Unlock()

	// A bound socket keeps the loop alive on its own until Close.
	if s.blocking.CompareAndSwap(false, true) {
		loop.BlockFromExit()
	}

	loop.AddWork(func() { s.recvLoop(cnx) }, nil)
	return nil
}

func (s *server) recvLoop(cnx *net.UDPConn) {
	buf := make([]byte, 65535)

	for {
		n, raddr, err := cnx.ReadFromUDP(buf)
		if err != nil {
			return
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		if !s.tracked {
			s.loop.ExecuteOnLoopThread(func() {
				if s.onData != nil {
					s.onData(data)
				}
			})
			continue
		}

		s.handleTrackedDatagram(cnx, raddr, data)
	}
}

func (s *server) handleTrackedDatagram(cnx *net.UDPConn, raddr *net.UDPAddr, data []byte) {
	key := raddr.String()
	now := time.Now()

	s.mu.Lock()
	if until, ok := s.graveyard[key]; ok {
		if now.Before(until) {
			s.mu.Unlock()
			return
		}
		delete(s.graveyard, key)
	}

	p, known := s.peers[key]
	if !known {
		p = newPeer(s.loop, cnx, raddr, func(inactivityMs int64) { s.onPeerClosed(key, inactivityMs) })
		s.peers[key] = p
	}
	s.mu.Unlock()

	if !known {
		p.arm(s.timeoutMs, func(timer.Timer) { s.onPeerTimeout(key, p) })
		s.loop.ExecuteOnLoopThread(func() {
			if s.onNewPeer != nil {
				s.onNewPeer(p)
			}
		})
	} else {
		p.touch()
	}

	s.loop.ExecuteOnLoopThread(func() {
		if s.onPeer != nil {
			s.onPeer(p, data)
		}
	})
}

func (s *server) onPeerTimeout(key string, p *peer) {
	s.mu.Lock()
	delete(s.peers, key)
	s.mu.Unlock()

	if s.onTimeout != nil {
		s.onTimeout(p)
	}
	p.ScheduleRemoval()
}

func (s *server) onPeerClosed(key string, inactivityMs int64) {
	s.mu.Lock()
	delete(s.peers, key)
	if inactivityMs > 0 {
		s.graveyard[key] = time.Now().Add(time.Duration(inactivityMs) * time.Millisecond)
	}
	s.mu.Unlock()
}

func (s *server) ConnectedPeersCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.peers)
}

func (s *server) ReceiveBufferSize() (int, error) {
	s.mu.Lock()
	cnx := s.conn
	s.mu.Unlock()
	return queryBufferSize(cnx, unix.SO_RCVBUF)
}

func (s *server) SetReceiveBufferSize(bytes int) error {
	s.mu.Lock()
	cnx := s.conn
	s.mu.Unlock()
	if cnx == nil {
		return ioerror.New(ioerror.NotConnected, "")
	}
	return applyBufferSize(cnx, bytes, cnx.SetReadBuffer)
}

func (s *server) SendBufferSize() (int, error) {
	s.mu.Lock()
	cnx := s.conn
	s.mu.Unlock()
	return queryBufferSize(cnx, unix.SO_SNDBUF)
}

func (s *server) SetSendBufferSize(bytes int) error {
	s.mu.Lock()
	cnx := s.conn
	s.mu.Unlock()
	if cnx == nil {
		return ioerror.New(ioerror.NotConnected, "")
	}
	return applyBufferSize(cnx, bytes, cnx.SetWriteBuffer)
}

func (s *server) Close(cb func(err error)) {
	s.mu.Lock()
	cnx := s.conn
	peers := make([]*peer, 0, len(s.peers))
	for _, p := range s.peers {
		peers = append(peers, p)
	}
	s.peers = make(map[string]*peer)
	s.conn = nil
	s.mu.Unlock()

	if cnx == nil {
		if cb != nil {
			cb(ioerror.New(ioerror.NotConnected, ""))
		}
		return
	}

	_ = cnx.Close()
	for _, p := range peers {
		p.Close(0)
	}

	if s.blocking.CompareAndSwap(true, false) {
		s.loop.UnblockFromExit()
	}

	if cb != nil {
		cb(nil)
	}
}
