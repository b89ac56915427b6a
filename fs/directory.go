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
	"os"
	"sync/atomic"

	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/handle"
	"github.com/nabbar/tarmio/ioerror"
)

type directory struct {
	handle.Removable

	loop eventloop.EventLoop
	path string

	closed  atomic.Bool
	closing atomic.Bool
	listing atomic.Bool
}

func openDirectory(loop eventloop.EventLoop, path string, cb func(d Directory, err error)) {
	var (
		d   *directory
		err error
	)

	loop.AddWork(func() {
		info, statErr := os.Stat(path)
		if statErr != nil {
			err = mapOpenError(path, statErr)
			return
		}
		if !info.IsDir() {
			err = ioerror.New(ioerror.NotADirectory, path)
			return
		}
		d = &directory{Removable: handle.NewRemovable(), loop: loop, path: path}
	}, func() {
		if cb == nil {
			return
		}
		if err != nil {
			cb(nil, err)
			return
		}
		cb(d, nil)
	})
}

type continuation struct {
	stopped atomic.Bool
}

func (c *continuation) Stop() {
	c.stopped.Store(true)
}

func (d *directory) List(onEntry EntryCallback, onEnd ListEndCallback) error {
	if d.closed.Load() {
		return ioerror.New(ioerror.DirNotOpen, d.path)
	}
	if !d.listing.CompareAndSwap(false, true) {
		return ioerror.New(ioerror.OperationAlreadyInProgress, d.path)
	}

	var entries []Entry
	var readErr error

	d.loop.AddWork(func() {
		dirEntries, err := os.ReadDir(d.path)
		if err != nil {
			readErr = ioerror.New(ioerror.InvalidArgument, d.path, err)
			return
		}
		entries = make([]Entry, 0, len(dirEntries))
		for _, de := range dirEntries {
			entries = append(entries, Entry{Name: de.Name(), Type: entryType(de)})
		}
	}, func() {
		defer d.listing.Store(false)

		if readErr != nil {
			if onEnd != nil {
				onEnd()
			}
			return
		}

		c := &continuation{}
		for _, e := range entries {
			if c.stopped.Load() {
				break
			}
			if onEntry != nil {
				onEntry(e, c)
			}
		}
		if onEnd != nil {
			onEnd()
		}
	})
	return nil
}

func entryType(de os.DirEntry) EntryType {
	mode := de.Type()
	switch {
	case mode.IsRegular():
		return EntryFile
	case mode.IsDir():
		return EntryDir
	case mode&os.ModeSymlink != 0:
		return EntryLink
	case mode&os.ModeNamedPipe != 0:
		return EntryFifo
	case mode&os.ModeSocket != 0:
		return EntrySocket
	case mode&os.ModeCharDevice != 0:
		return EntryChar
	case mode&os.ModeDevice != 0:
		return EntryBlock
	default:
		return Unknown
	}
}

func (d *directory) Close(cb DirCloseCallback) {
	if !d.closing.CompareAndSwap(false, true) {
		if cb != nil {
			cb(ioerror.New(ioerror.OperationAlreadyInProgress, d.path))
		}
		return
	}

	d.closed.Store(true)
	d.loop.ExecuteOnLoopThread(func() {
		d.ScheduleRemoval()
		if cb != nil {
			cb(nil)
		}
	})
}
