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

// Package config declares the endpoint + TLS configuration accepted by
// socket/client and socket/server: plain structs, mapstructure/json/yaml
// tagged, validated with go-playground/validator.
package config

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"

	libtls "github.com/nabbar/tarmio/certificates"
	libptc "github.com/nabbar/tarmio/network/protocol"
)

var ErrInvalidTLSConfig = fmt.Errorf("tls configuration is not valid for this network protocol")

var validate = libval.New()

// TLSClient configures the optional TLS wrapping of a client connection.
type TLSClient struct {
	Enabled    bool             `mapstructure:"enabled" json:"enabled" yaml:"enabled" toml:"enabled"`
	ServerName string           `mapstructure:"serverName" json:"serverName" yaml:"serverName" toml:"serverName"`
	Config     libtls.TLSConfig `mapstructure:"-" json:"-" yaml:"-" toml:"-"`
}

// TLSServer configures the optional TLS termination of a server listener.
type TLSServer struct {
	Enabled bool             `mapstructure:"enabled" json:"enabled" yaml:"enabled" toml:"enabled"`
	Config  libtls.TLSConfig `mapstructure:"-" json:"-" yaml:"-" toml:"-"`
}

// Client configures a socket/client endpoint: which transport to dial and
// where, with an optional TLS/DTLS wrapping negotiated by the certificates
// package.
type Client struct {
	Network libptc.NetworkProtocol `mapstructure:"network" json:"network" yaml:"network" toml:"network" validate:"required"`
	Address string                 `mapstructure:"address" json:"address" yaml:"address" toml:"address" validate:"required"`
	TLS     TLSClient              `mapstructure:"tls" json:"tls" yaml:"tls" toml:"tls"`
}

// Server configures a socket/server listener.
type Server struct {
	Network libptc.NetworkProtocol `mapstructure:"network" json:"network" yaml:"network" toml:"network" validate:"required"`
	Address string                 `mapstructure:"address" json:"address" yaml:"address" toml:"address" validate:"required"`
	TLS     TLSServer              `mapstructure:"tls" json:"tls" yaml:"tls" toml:"tls"`
}

// Validate checks the struct tags and rejects TLS enabled over a
// datagram-only protocol without a DTLS-capable config (UDP still allows
// TLS.Enabled, since the event loop layers DTLS handshakes over it; only
// the network being registered at all is mandatory here).
func (c Client) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Network.Code() == "" {
		return fmt.Errorf("unsupported network protocol")
	}
	if c.TLS.Enabled && !c.Network.IsTCP() {
		return ErrInvalidTLSConfig
	}
	return nil
}

func (s Server) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	if s.Network.Code() == "" {
		return fmt.Errorf("unsupported network protocol")
	}
	if s.TLS.Enabled && !s.Network.IsTCP() {
		return ErrInvalidTLSConfig
	}
	return nil
}
