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

// Package endpoint is the tagged-union address model shared by every
// transport handle: an Endpoint is either undefined, an IPv4 4-byte
// address plus port, or an IPv6 16-byte address plus port.
package endpoint

import (
	"encoding/binary"
	"fmt"
	"net"
	"strconv"

	"github.com/nabbar/tarmio/ioerror"
)

// Type discriminates the Endpoint union.
type Type uint8

const (
	Undefined Type = iota
	IPv4
	IPv6
)

func (t Type) String() string {
	switch t {
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	default:
		return "undefined"
	}
}

// Endpoint is a small value type: safe to copy, compare with ==, and
// store as a plain field.
type Endpoint struct {
	typ  Type
	addr [16]byte
	port uint16
}

// New returns the zero-value, undefined Endpoint.
func New() Endpoint {
	return Endpoint{}
}

// FromIP builds an Endpoint from a net.IP and a port. Returns an error if
// ip is neither a valid IPv4 nor IPv6 address.
func FromIP(ip net.IP, port uint16) (Endpoint, error) {
	if v4 := ip.To4(); v4 != nil {
		var e Endpoint
		e.typ = IPv4
		copy(e.addr[:4], v4)
		e.port = port
		return e, nil
	}

	if v6 := ip.To16(); v6 != nil {
		var e Endpoint
		e.typ = IPv6
		copy(e.addr[:16], v6)
		e.port = port
		return e, nil
	}

	return Endpoint{}, ioerror.New(ioerror.InvalidArgument, fmt.Sprintf("not an IP address: %v", ip))
}

// FromString parses address (dotted-quad or colon-form) and builds an
// Endpoint with the given port.
func FromString(address string, port uint16) (Endpoint, error) {
	ip := net.ParseIP(address)
	if ip == nil {
		return Endpoint{}, ioerror.New(ioerror.InvalidArgument, fmt.Sprintf("invalid address %q", address))
	}
	return FromIP(ip, port)
}

// Type reports whether this Endpoint is undefined, IPv4 or IPv6.
func (e Endpoint) Type() Type {
	return e.typ
}

// Port returns the Endpoint's port, or 0 if undefined.
func (e Endpoint) Port() uint16 {
	return e.port
}

// IP returns the Endpoint's address as a net.IP, or nil if undefined.
func (e Endpoint) IP() net.IP {
	switch e.typ {
	case IPv4:
		ip := make(net.IP, 4)
		copy(ip, e.addr[:4])
		return ip
	case IPv6:
		ip := make(net.IP, 16)
		copy(ip, e.addr[:16])
		return ip
	default:
		return nil
	}
}

// AddressString returns the textual address, or "" if undefined.
func (e Endpoint) AddressString() string {
	if ip := e.IP(); ip != nil {
		return ip.String()
	}
	return ""
}

// IPv4Addr returns the address as a big-endian uint32 and true, when this
// Endpoint is an IPv4 address. Returns 0, false otherwise.
func (e Endpoint) IPv4Addr() (uint32, bool) {
	if e.typ != IPv4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(e.addr[:4]), true
}

// String renders "address:port", or "" for an undefined Endpoint.
func (e Endpoint) String() string {
	if e.typ == Undefined {
		return ""
	}
	return net.JoinHostPort(e.AddressString(), strconv.Itoa(int(e.port)))
}
