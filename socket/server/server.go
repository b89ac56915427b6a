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

// Package server builds a socket.Server from a config.Server, picking the
// TCP or UDP implementation by Network.
package server

import (
	"fmt"

	"github.com/nabbar/tarmio/ioerror"
	libsck "github.com/nabbar/tarmio/socket"
	sckcfg "github.com/nabbar/tarmio/socket/config"
	"github.com/nabbar/tarmio/socket/server/tcp"
	"github.com/nabbar/tarmio/socket/server/udp"
)

// New builds a Server for cfg, dispatching accepted connections/peers to
// hdl. errFct, when non-nil, is registered before Listen is ever called.
func New(errFct func(errs ...error), hdl libsck.HandlerFunc, cfg sckcfg.Server) (libsck.Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		s   libsck.Server
		err error
	)

	switch {
	case cfg.Network.IsTCP():
		var tlsConf = cfg.TLS.Config
		if !cfg.TLS.Enabled {
			tlsConf = nil
		}
		s, err = tcp.New(cfg.Network, cfg.Address, tlsConf, hdl)
	case cfg.Network.IsUDP():
		s, err = udp.New(cfg.Network, cfg.Address, hdl, 0)
	default:
		err = ioerror.New(ioerror.InvalidArgument, fmt.Sprintf("unsupported network protocol %q", cfg.Network.Code()))
	}

	if err != nil {
		return nil, err
	}
	if errFct != nil {
		s.RegisterFuncError(errFct)
	}
	return s, nil
}
