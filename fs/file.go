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

package fs

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/handle"
	"github.com/nabbar/tarmio/ioerror"
	libsem "github.com/nabbar/tarmio/semaphore"
)

type file struct {
	handle.Removable

	loop eventloop.EventLoop
	path string
	pool libsem.Semaphore

	mu     sync.Mutex
	native *os.File
	onData ReadCallback
	onEnd  EndCallback

	reading        atomic.Bool
	closed         atomic.Bool
	outstanding    atomic.Int64
	pendingRemoval atomic.Bool
}

func openFile(loop eventloop.EventLoop, path string, cb func(f File, err error)) {
	var (
		f   *file
		err error
	)

	loop.AddWork(func() {
		info, statErr := os.Stat(path)
		if statErr != nil {
			err = mapOpenError(path, statErr)
			return
		}
		if info.IsDir() {
			err = ioerror.New(ioerror.IllegalOperationOnADirectory, path)
			return
		}

		native, openErr := os.Open(path)
		if openErr != nil {
			err = mapOpenError(path, openErr)
			return
		}

		f = &file{
			Removable: handle.NewRemovable(),
			loop:      loop,
			path:      path,
			native:    native,
			pool:      libsem.NewSemaphoreWithContext(context.Background(), ReadBufsNum),
		}
	}, func() {
		if cb == nil {
			return
		}
		if err != nil {
			cb(nil, err)
			return
		}
		cb(f, nil)
	})
}

func mapOpenError(path string, err error) error {
	if os.IsNotExist(err) {
		return ioerror.New(ioerror.NoSuchFileOrDirectory, path, err)
	}
	if os.IsPermission(err) {
		return ioerror.New(ioerror.PermissionDenied, path, err)
	}
	return ioerror.New(ioerror.InvalidArgument, path, err)
}

func (f *file) Read(onData ReadCallback, onEnd EndCallback) error {
	if f.closed.Load() {
		return ioerror.New(ioerror.FileNotOpen, f.path)
	}

	f.mu.Lock()
	f.onData = onData
	f.onEnd = onEnd
	f.mu.Unlock()

	if f.reading.CompareAndSwap(false, true) {
		f.loop.AddWork(func() { f.pump() }, nil)
	}
	return nil
}

// pump drains the file through the buffer pool: it acquires a slot,
// reads into a fresh buffer, hands it to onData, and only gives the
// slot back once Release is called — unless nothing was read, in which
// case the slot returns immediately.
func (f *file) pump() {
	for {
		if err := f.pool.NewWorker(); err != nil {
			return
		}

		buf := make([]byte, ReadBufSize)
		n, err := f.native.Read(buf)

		if n > 0 {
			f.outstanding.Add(1)
			f.loop.BlockFromExit()

			b := &buffer{data: buf[:n], release: f.releaseSlot}
			f.loop.ExecuteOnLoopThread(func() {
				f.mu.Lock()
				cb := f.onData
				f.mu.Unlock()
				if cb != nil {
					cb(b)
				}
			})
		} else {
			f.pool.DeferWorker()
		}

		if err != nil {
			f.reading.Store(false)
			f.loop.ExecuteOnLoopThread(func() {
				f.mu.Lock()
				cb := f.onEnd
				f.mu.Unlock()
				if cb != nil {
					cb()
				}
			})
			return
		}
	}
}

func (f *file) releaseSlot() {
	f.pool.DeferWorker()
	if f.outstanding.Add(-1) == 0 {
		f.loop.UnblockFromExit()
		if f.pendingRemoval.Load() {
			f.Removable.ScheduleRemoval()
		}
	}
}

// ScheduleRemoval defers actual removal while buffers from this file are
// still held by the caller.
func (f *file) ScheduleRemoval() {
	if f.outstanding.Load() > 0 {
		f.pendingRemoval.Store(true)
		return
	}
	f.Removable.ScheduleRemoval()
}

func (f *file) ReadBlock(offset int64, nbytes int, cb ReadBlockCallback) error {
	if f.closed.Load() {
		return ioerror.New(ioerror.FileNotOpen, f.path)
	}

	var (
		data []byte
		rerr error
	)

	f.loop.AddWork(func() {
		buf := make([]byte, nbytes)
		n, err := f.native.ReadAt(buf, offset)
		if err != nil && err != io.EOF {
			rerr = ioerror.New(ioerror.InvalidArgument, f.path, err)
		}
		data = buf[:n]
	}, func() {
		if cb != nil {
			cb(data, rerr)
		}
	})
	return nil
}

func (f *file) Stat(cb StatCallback) error {
	if f.closed.Load() {
		return ioerror.New(ioerror.FileNotOpen, f.path)
	}

	var (
		st  Stat
		err error
	)

	f.loop.AddWork(func() {
		info, serr := f.native.Stat()
		if serr != nil {
			err = ioerror.New(ioerror.InvalidArgument, f.path, serr)
			return
		}
		st = Stat{
			Size:       info.Size(),
			ModifyTime: info.ModTime(),
		}
		st.AccessTime, st.ChangeTime = statTimes(info)
	}, func() {
		if cb != nil {
			cb(st, err)
		}
	})
	return nil
}

func (f *file) Close(cb FileCloseCallback) {
	if !f.closed.CompareAndSwap(false, true) {
		if cb != nil {
			cb(ioerror.New(ioerror.FileNotOpen, f.path))
		}
		return
	}

	var err error
	f.loop.AddWork(func() {
		err = f.native.Close()
	}, func() {
		if cb != nil {
			cb(err)
		}
	})
}
