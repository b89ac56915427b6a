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
	"time"

	"github.com/nabbar/tarmio/endpoint"
	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/handle"
	"github.com/nabbar/tarmio/ioerror"
	"github.com/nabbar/tarmio/timer"
)

// peer is the shared UdpPeer implementation for both tracked server-side
// peers and the single implicit peer owned by a UdpClient.
type peer struct {
	handle.RefCounted

	loop eventloop.EventLoop
	conn *net.UDPConn
	raddr *net.UDPAddr
	remote endpoint.Endpoint

	mu        sync.Mutex
	lastSeen  time.Time
	tmr       timer.Timer
	timeoutMs int64
	onTimeout timer.Callback
	userData  interface{}

	onEvict   func(inactivityMs int64)
	closeOnce sync.Once
}

func newPeer(loop eventloop.EventLoop, conn *net.UDPConn, raddr *net.UDPAddr, onEvict func(inactivityMs int64)) *peer {
	ep, _ := endpoint.FromIP(raddr.IP, uint16(raddr.Port))
	return &peer{
		RefCounted: handle.NewRefCounted(),
		loop:       loop,
		conn:       conn,
		raddr:      raddr,
		remote:     ep,
		lastSeen:   time.Now(),
		onEvict:    onEvict,
	}
}

func (p *peer) RemoteEndpoint() endpoint.Endpoint {
	return p.remote
}

func (p *peer) LastPacketTime() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}

func (p *peer) UserData() interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.userData
}

func (p *peer) SetUserData(data interface{}) {
	p.mu.Lock()
	p.userData = data
	p.mu.Unlock()
}

// touch records a fresh datagram and, for a tracked peer, restarts its
// inactivity timer from zero.
func (p *peer) touch() {
	p.mu.Lock()
	p.lastSeen = time.Now()
	t := p.tmr
	ms := p.timeoutMs
	cb := p.onTimeout
	p.mu.Unlock()

	if t != nil {
		t.StartOnce(uint64(ms), cb)
	}
}

// arm starts this peer's inactivity timer. Only used by tracked
// server-side peers, once, right after synthesis.
func (p *peer) arm(timeoutMs int64, cb timer.Callback) {
	p.mu.Lock()
	if p.tmr == nil {
		p.tmr = timer.New(p.loop)
	}
	p.timeoutMs = timeoutMs
	p.onTimeout = cb
	t := p.tmr
	p.mu.Unlock()

	t.StartOnce(uint64(timeoutMs), cb)
}

func (p *peer) Send(data []byte, cb SendCallback) {
	p.loop.AddWork(func() {
		_, err := p.conn.WriteToUDP(data, p.raddr)
		if err != nil {
			err = ioerror.New(ioerror.OperationCanceled, p.remote.String(), err)
		}
		if cb != nil {
			p.loop.ExecuteOnLoopThread(func() { cb(err) })
		}
	}, nil)
}

func (p *peer) Close(inactivityMs int64) {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		t := p.tmr
		p.mu.Unlock()
		if t != nil {
			t.Stop()
		}
		if p.onEvict != nil {
			p.onEvict(inactivityMs)
		}
		p.ScheduleRemoval()
	})
}
