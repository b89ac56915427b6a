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

// Package client builds a socket.Client from a config.Client, picking the
// TCP or UDP implementation by Network.
package client

import (
	"fmt"

	"github.com/nabbar/tarmio/ioerror"
	libsck "github.com/nabbar/tarmio/socket"
	"github.com/nabbar/tarmio/socket/client/tcp"
	"github.com/nabbar/tarmio/socket/client/udp"
	sckcfg "github.com/nabbar/tarmio/socket/config"
)

// New builds a Client for cfg. errFct, when non-nil, is registered on the
// returned client before it is handed back.
func New(cfg sckcfg.Client, errFct func(errs ...error)) (libsck.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		c   libsck.Client
		err error
	)

	switch {
	case cfg.Network.IsTCP():
		tlsConf := cfg.TLS.Config
		if !cfg.TLS.Enabled {
			tlsConf = nil
		}
		c, err = tcp.New(cfg.Network, cfg.Address, tlsConf, cfg.TLS.ServerName)
	case cfg.Network.IsUDP():
		c, err = udp.NewNetwork(cfg.Network, cfg.Address)
	default:
		err = ioerror.New(ioerror.InvalidArgument, fmt.Sprintf("unsupported network protocol %q", cfg.Network.Code()))
	}

	if err != nil {
		return nil, err
	}
	if errFct != nil {
		c.RegisterFuncError(errFct)
	}
	return c, nil
}
