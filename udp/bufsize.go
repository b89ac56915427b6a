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

	"golang.org/x/sys/unix"

	"github.com/nabbar/tarmio/ioerror"
)

// Buffer size bounds enforced by SetReceiveBufferSize/SetSendBufferSize;
// the kernel applies its own ceiling on top of these.
const (
	minBufferSize = 1 << 10  // 1 KiB
	maxBufferSize = 64 << 20 // 64 MiB
)

// queryBufferSize reads the OS socket buffer size via getsockopt, since
// net.UDPConn exposes setters but no getter.
func queryBufferSize(conn *net.UDPConn, opt int) (int, error) {
	if conn == nil {
		return 0, ioerror.New(ioerror.NotConnected, "")
	}

	raw, err := conn.SyscallConn()
	if err != nil {
		return 0, ioerror.New(ioerror.InvalidArgument, "", err)
	}

	var (
		size int
		serr error
	)
	if cerr := raw.Control(func(fd uintptr) {
		size, serr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, opt)
	}); cerr != nil {
		return 0, ioerror.New(ioerror.InvalidArgument, "", cerr)
	}
	if serr != nil {
		return 0, ioerror.New(ioerror.InvalidArgument, "", serr)
	}
	return size, nil
}

func applyBufferSize(conn *net.UDPConn, bytes int, set func(int) error) error {
	if conn == nil {
		return ioerror.New(ioerror.NotConnected, "")
	}
	if bytes < minBufferSize || bytes > maxBufferSize {
		return ioerror.New(ioerror.InvalidArgument, "buffer size out of bounds")
	}
	if err := set(bytes); err != nil {
		return ioerror.New(ioerror.InvalidArgument, "", err)
	}
	return nil
}
