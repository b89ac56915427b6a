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

// Package varsize encodes and decodes the variable-length size prefix
// used by this module's stream-oriented protocols: each byte carries 7
// value bits, high bit first, with a leading continuation bit (1 means
// another byte follows). Up to 8 bytes are used, capping the encodable
// value at 2^56 - 1.
//
// Layout (3 bytes shown, value bits increasing from the first byte):
//
//	 byte 0            byte 1            byte 2
//	+-+-------------+ +-+-------------+ +-+-------------+
//	|M|  value bits | |M|  value bits | |M|  value bits |
//	+-+-------------+ +-+-------------+ +-+-------------+
package varsize

import "github.com/nabbar/tarmio/ioerror"

// MaxValue is the largest value this codec can represent: 2^56 - 1.
const MaxValue = (uint64(1) << 56) - 1

// MaxBytes is the largest encoding this codec ever produces.
const MaxBytes = 8

// Encode returns the variable-length encoding of value. Returns an error
// if value exceeds MaxValue. Groups are emitted high-order first: the
// first byte on the wire carries the most significant 7-bit group, and
// the continuation bit is set on every byte except the last.
func Encode(value uint64) ([]byte, error) {
	if value > MaxValue {
		return nil, ioerror.New(ioerror.InvalidArgument, "value exceeds variable-length size maximum")
	}

	if value == 0 {
		return []byte{0}, nil
	}

	var groups []byte // low-order group first
	for v := value; v > 0; v >>= 7 {
		groups = append(groups, byte(v&0x7F))
	}

	n := len(groups)
	out := make([]byte, n)
	for k := 0; k < n; k++ {
		b := groups[n-1-k]
		if k < n-1 {
			b |= 0x80
		}
		out[k] = b
	}
	return out, nil
}

// Decoder incrementally decodes a variable-length size, byte by byte,
// suitable for feeding as a TCP stream is read. Bytes arrive high-order
// group first, so the decoded value simply shifts left by 7 bits per
// byte consumed.
type Decoder struct {
	value    uint64
	count    int
	complete bool
	failed   bool
}

// NewDecoder returns a Decoder ready to accept bytes.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// AddByte feeds one byte into the decoder. Returns true once the value
// is complete (the continuation bit was not set). Feeding more bytes
// after completion, or after a failure, is a no-op.
func (d *Decoder) AddByte(b byte) bool {
	if d.complete || d.failed {
		return d.complete
	}

	d.value = (d.value << 7) | uint64(b&0x7F)
	d.count++

	if b&0x80 == 0 {
		d.complete = true
		return true
	}

	if d.count >= MaxBytes {
		d.failed = true
	}
	return false
}

// AddBytes feeds b into the decoder until it completes, fails, or b is
// exhausted. Returns the number of bytes consumed.
func (d *Decoder) AddBytes(b []byte) int {
	for i, c := range b {
		if d.AddByte(c) || d.failed {
			return i + 1
		}
	}
	return len(b)
}

// Value returns the decoded value. Meaningful only once IsComplete is true.
func (d *Decoder) Value() uint64 {
	return d.value
}

// IsComplete reports whether a full value has been decoded.
func (d *Decoder) IsComplete() bool {
	return d.complete
}

// Fail reports whether the decoder received more continuation bytes than
// this codec's 8-byte ceiling allows.
func (d *Decoder) Fail() bool {
	return d.failed
}

// Reset clears the decoder so it can decode another value.
func (d *Decoder) Reset() {
	d.value = 0
	d.shift = 0
	d.complete = false
	d.failed = false
}
