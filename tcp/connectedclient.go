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

package tcp

// connectedClient is the TcpConnectedClient handed to on_new_connection; it
// carries a non-owning back-reference to the TcpServer that accepted it.
type connectedClient struct {
	*base
	srv *server
}

var _ TcpConnectedClient = (*connectedClient)(nil)

func (c *connectedClient) Send(data []byte, cb SendCallback) {
	c.base.send(data, cb)
}

func (c *connectedClient) Close(cb CloseCallback) {
	c.base.requestClose(cb, false)
}

func (c *connectedClient) CloseWithReset(cb CloseCallback) {
	c.base.requestClose(cb, true)
}

func (c *connectedClient) Shutdown(cb CloseCallback) {
	c.base.drainThenClose(cb)
}
