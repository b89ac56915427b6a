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

// Package tcp implements the TcpServer side of socket/server: accept loop,
// one goroutine per TcpConnectedClient, graceful Shutdown that waits for
// in-flight handlers to return.
package tcp

import (
	"context"
	"crypto/tls"
	"net"
	"strings"
	"sync"
	"sync/atomic"

	libtls "github.com/nabbar/tarmio/certificates"
	"github.com/nabbar/tarmio/ioerror"
	libptc "github.com/nabbar/tarmio/network/protocol"
	libsck "github.com/nabbar/tarmio/socket"
)

type server struct {
	ntw libptc.NetworkProtocol
	adr string
	tls libtls.TLSConfig
	hdl libsck.HandlerFunc

	mu  sync.Mutex
	lst net.Listener
	err func(errs ...error)
	wg  sync.WaitGroup

	clients atomic.Int64
}

// New creates a TCP server for network (tcp/tcp4/tcp6) address adr,
// dispatching every accepted connection to hdl in its own goroutine.
// tlsCfg is nil for a plain listener.
func New(ntw libptc.NetworkProtocol, adr string, tlsCfg libtls.TLSConfig, hdl libsck.HandlerFunc) (*server, error) {
	if hdl == nil {
		return nil, ioerror.New(ioerror.InvalidArgument, "nil handler")
	}
	if !ntw.IsTCP() {
		ntw = libptc.NetworkTCP
	}
	return &server{ntw: ntw, adr: adr, tls: tlsCfg, hdl: hdl}, nil
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
	if s.lst != nil {
		s.mu.Unlock()
		return ioerror.New(ioerror.OperationAlreadyInProgress, s.adr)
	}

	var lc net.ListenConfig
	lst, err := lc.Listen(ctx, s.ntw.Code(), s.adr)
	if err != nil {
		s.mu.Unlock()
		return mapListenError(err, s.adr)
	}

	if s.tls != nil {
		lst = tls.NewListener(lst, s.tls.TLS(""))
	}

	s.lst = lst
	s.mu.Unlock()

	go s.acceptLoop(ctx, lst)
	return nil
}

func (s *server) acceptLoop(ctx context.Context, lst net.Listener) {
	for {
		cnx, err := lst.Accept()
		if err != nil {
			s.notify(err)
			return
		}

		s.wg.Add(1)
		s.clients.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.clients.Add(-1)
			s.hdl(newConn(cnx))
		}()

		if ctx.Err() != nil {
			return
		}
	}
}

func (s *server) IsListening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lst != nil
}

func (s *server) ConnectedClients() int {
	return int(s.clients.Load())
}

// Close is the abrupt counterpart to Shutdown: it stops the listener
// immediately without waiting for in-flight handlers.
func (s *server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lst == nil {
		return nil
	}
	err := s.lst.Close()
	s.lst = nil
	return err
}

func (s *server) Shutdown(ctx context.Context) error {
	if err := s.Close(); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func mapListenError(err error, ctx string) error {
	if err == nil {
		return nil
	}
	// net.errAddrInUse is unexported; string matching is the usual way to
	// recover errno-class detail from a wrapped *net.OpError.
	if strings.Contains(err.Error(), "address already in use") {
		return ioerror.New(ioerror.AddressAlreadyInUse, ctx, err)
	}
	return ioerror.New(ioerror.InvalidArgument, ctx, err)
}
