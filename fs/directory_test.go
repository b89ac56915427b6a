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

package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/fs"
)

var _ = Describe("Directory", func() {
	var (
		loop eventloop.EventLoop
		ctx  context.Context
		cncl context.CancelFunc
		dir  string
	)

	BeforeEach(func() {
		loop = eventloop.New()
		ctx, cncl = context.WithTimeout(context.Background(), 3*time.Second)

		var err error
		dir, err = os.MkdirTemp("", "tarmio-dir-*")
		Expect(err).ToNot(HaveOccurred())

		Expect(os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644)).To(Succeed())
		Expect(os.Mkdir(filepath.Join(dir, "sub"), 0o755)).To(Succeed())
	})

	AfterEach(func() {
		cncl()
		_ = os.RemoveAll(dir)
	})

	It("lists every entry and types them correctly", func() {
		opened := make(chan fs.Directory, 1)
		fs.OpenDir(loop, dir, func(d fs.Directory, err error) {
			Expect(err).ToNot(HaveOccurred())
			opened <- d
		})

		loop.BlockFromExit()
		go func() { _ = loop.Run(ctx) }()

		var d fs.Directory
		Eventually(opened, time.Second).Should(Receive(&d))

		var names []string
		var types []fs.EntryType
		ended := make(chan struct{})

		Expect(d.List(func(e fs.Entry, c fs.Continuation) {
			names = append(names, e.Name)
			types = append(types, e.Type)
		}, func() {
			close(ended)
		})).To(Succeed())

		Eventually(ended, time.Second).Should(BeClosed())
		Expect(names).To(ConsistOf("a.txt", "b.txt", "sub"))
		Expect(types).To(ContainElement(fs.EntryDir))
		Expect(types).To(ContainElement(fs.EntryFile))

		loop.UnblockFromExit()
	})

	It("stops iteration early when the continuation is stopped", func() {
		opened := make(chan fs.Directory, 1)
		fs.OpenDir(loop, dir, func(d fs.Directory, err error) { opened <- d })

		loop.BlockFromExit()
		go func() { _ = loop.Run(ctx) }()

		var d fs.Directory
		Eventually(opened, time.Second).Should(Receive(&d))

		count := 0
		ended := make(chan struct{})

		Expect(d.List(func(e fs.Entry, c fs.Continuation) {
			count++
			c.Stop()
		}, func() {
			close(ended)
		})).To(Succeed())

		Eventually(ended, time.Second).Should(BeClosed())
		Expect(count).To(Equal(1))

		loop.UnblockFromExit()
	})

	It("rejects a second concurrent List with OperationAlreadyInProgress", func() {
		opened := make(chan fs.Directory, 1)
		fs.OpenDir(loop, dir, func(d fs.Directory, err error) { opened <- d })

		loop.BlockFromExit()
		go func() { _ = loop.Run(ctx) }()

		var d fs.Directory
		Eventually(opened, time.Second).Should(Receive(&d))

		ended := make(chan struct{})
		Expect(d.List(func(e fs.Entry, c fs.Continuation) {}, func() { close(ended) })).To(Succeed())
		Expect(d.List(func(e fs.Entry, c fs.Continuation) {}, func() {})).To(HaveOccurred())

		Eventually(ended, time.Second).Should(BeClosed())
		loop.UnblockFromExit()
	})

	It("reports NotADirectory when opening a regular file", func() {
		done := make(chan error, 1)
		fs.OpenDir(loop, filepath.Join(dir, "a.txt"), func(d fs.Directory, err error) {
			done <- err
		})

		loop.BlockFromExit()
		go func() { _ = loop.Run(ctx) }()

		Eventually(done, time.Second).Should(Receive(HaveOccurred()))
		loop.UnblockFromExit()
	})

	It("reports DirNotOpen from List after Close", func() {
		opened := make(chan fs.Directory, 1)
		fs.OpenDir(loop, dir, func(d fs.Directory, err error) { opened <- d })

		loop.BlockFromExit()
		go func() { _ = loop.Run(ctx) }()

		var d fs.Directory
		Eventually(opened, time.Second).Should(Receive(&d))

		closed := make(chan error, 1)
		d.Close(func(err error) { closed <- err })
		Eventually(closed, time.Second).Should(Receive(BeNil()))

		Expect(d.List(func(e fs.Entry, c fs.Continuation) {}, func() {})).To(HaveOccurred())

		loop.UnblockFromExit()
	})
})
