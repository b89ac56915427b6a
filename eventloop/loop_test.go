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

package eventloop_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/tarmio/eventloop"
)

var _ = Describe("EventLoop", func() {
	It("returns immediately when idle and unblocked", func() {
		l := eventloop.New()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		Expect(l.Run(ctx)).To(Succeed())
		Expect(l.IsRunning()).To(BeFalse())
	})

	It("runs queued work posted from another goroutine", func() {
		l := eventloop.New()
		done := make(chan struct{})

		l.ExecuteOnLoopThread(func() { close(done) })

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(l.Run(ctx)).To(Succeed())

		Eventually(done).Should(BeClosed())
	})

	It("runs AddWork on a worker goroutine and posts done back to the loop", func() {
		l := eventloop.New()
		var workRan, doneRan bool

		l.AddWork(func() {
			workRan = true
		}, func() {
			doneRan = true
		})

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		// give the worker goroutine a chance to run before the loop polls
		time.Sleep(20 * time.Millisecond)
		Expect(l.Run(ctx)).To(Succeed())

		Expect(workRan).To(BeTrue())
		Expect(doneRan).To(BeTrue())
	})

	It("runs Schedule callbacks on the same loop iteration", func() {
		l := eventloop.New()
		var ran bool

		l.ExecuteOnLoopThread(func() {
			l.Schedule(func() { ran = true })
		})

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(l.Run(ctx)).To(Succeed())
		Expect(ran).To(BeTrue())
	})

	It("invokes per-cycle callbacks until stopped", func() {
		l := eventloop.New()
		count := 0

		h := l.ScheduleCallOnEachLoopCycle(func() {
			count++
			if count == 3 {
				l.StopCallOnEachLoopCycle(h)
			}
		})

		l.BlockFromExit()
		go func() {
			time.Sleep(50 * time.Millisecond)
			l.UnblockFromExit()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(l.Run(ctx)).To(Succeed())
		Expect(count).To(BeNumerically(">=", 3))
	})

	It("stays running until BlockFromExit is released", func() {
		l := eventloop.New()
		l.BlockFromExit()

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := l.Run(ctx)
		Expect(err).To(MatchError(context.DeadlineExceeded))
		Expect(time.Since(start)).To(BeNumerically(">=", 150*time.Millisecond))
	})

	It("rejects a second concurrent Run", func() {
		l := eventloop.New()
		l.BlockFromExit()

		runErr := make(chan error, 1)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
			defer cancel()
			runErr <- l.Run(ctx)
		}()

		Eventually(l.IsRunning).Should(BeTrue())
		Expect(l.Run(context.Background())).To(HaveOccurred())

		l.UnblockFromExit()
		Eventually(runErr).Should(Receive())
	})
})
