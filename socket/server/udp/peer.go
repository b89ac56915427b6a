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

	"github.com/nabbar/tarmio/ioerror"
)

// peer is a UdpPeer: identity-keyed by its source endpoint, synthesized on
// first datagram and retired by the server's inactivity reaper.
type peer struct {
	cnx   *net.UDPConn
	raddr *net.UDPAddr

	mu       sync.Mutex
	seen     time.Time
	data     chan []byte
	closed   atomic.Bool
	onClosed func()
}

func newPeer(cnx *net.UDPConn, raddr *net.UDPAddr, onClosed func()) *peer {
	return &peer{
		cnx:      cnx,
		raddr:    raddr,
		seen:     time.Now(),
		data:     make(chan []byte, 64),
		onClosed: onClosed,
	}
}

func (p *peer) deliver(b []byte) {
	p.mu.Lock()
	p.seen = time.Now()
	p.mu.Unlock()

	cp := make([]byte, len(b))
	copy(cp, b)

	select {
	case p.data <- cp:
	default:
		// backpressure: drop rather than block the shared receive loop
	}
}

func (p *peer) lastSeen() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seen
}

func (p *peer) Read(b []byte) (int, error) {
	data, ok := <-p.data
	if !ok {
		return 0, ioerror.New(ioerror.OperationOnClosedSocket, p.raddr.String())
	}
	n := copy(b, data)
	return n, nil
}

func (p *peer) Write(b []byte) (int, error) {
	if p.closed.Load() {
		return 0, ioerror.New(ioerror.OperationOnClosedSocket, p.raddr.String())
	}
	return p.cnx.WriteToUDP(b, p.raddr)
}

func (p *peer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(p.data)
	if p.onClosed != nil {
		p.onClosed()
	}
	return nil
}

func (p *peer) IsConnected() bool {
	return !p.closed.Load()
}

func (p *peer) LocalAddr() net.Addr {
	return p.cnx.LocalAddr()
}

func (p *peer) RemoteAddr() net.Addr {
	return p.raddr
}
