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

// Package fs implements the asynchronous File and Directory primitives:
// a cooperative, backpressured read protocol over a bounded buffer pool,
// positional reads, stat, and directory listing/creation/removal
// helpers, all dispatched through an eventloop.EventLoop.
package fs

import (
	"time"

	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/handle"
)

// ReadBufsNum is the fixed size of a File's cooperative-read buffer pool.
const ReadBufsNum = 4

// ReadBufSize is the capacity of each pooled read buffer.
const ReadBufSize = 4096

// Buffer is one pooled read buffer handed to a ReadCallback. The caller
// may retain it past the callback's return; the pool will not reuse its
// slot until Release is called.
type Buffer interface {
	Bytes() []byte
	Release()
}

// ReadCallback delivers one buffer of data read from a File.
type ReadCallback func(buf Buffer)

// EndCallback fires once, when a File's cooperative read reaches EOF.
type EndCallback func()

// ReadBlockCallback delivers the result of one ReadBlock call. data may
// be shorter than requested at EOF; err is nil in that case.
type ReadBlockCallback func(data []byte, err error)

// Stat carries a File's size and POSIX timestamps.
type Stat struct {
	Size       int64
	AccessTime time.Time
	ModifyTime time.Time
	ChangeTime time.Time
}

// StatCallback delivers the result of a Stat call.
type StatCallback func(info Stat, err error)

// FileCloseCallback reports the result of closing a File.
type FileCloseCallback func(err error)

// File is an opened regular file.
type File interface {
	handle.Removable

	// Read starts (or continues) the cooperative read loop: onData fires
	// once per pooled buffer filled, in file order; onEnd fires exactly
	// once at EOF. Returns ioerror.FileNotOpen if the file is closed.
	Read(onData ReadCallback, onEnd EndCallback) error

	// ReadBlock issues one positional read of nbytes at offset. cb fires
	// exactly once.
	ReadBlock(offset int64, nbytes int, cb ReadBlockCallback) error

	Stat(cb StatCallback) error

	Close(cb FileCloseCallback)
}

// Open opens path for reading. cb fires exactly once: with a non-nil
// File on success, or a nil File and an error —
// ioerror.IllegalOperationOnADirectory if path is a directory,
// ioerror.NoSuchFileOrDirectory if it does not exist.
func Open(loop eventloop.EventLoop, path string, cb func(f File, err error)) {
	openFile(loop, path, cb)
}

// EntryType discriminates a directory entry's kind.
type EntryType uint8

const (
	Unknown EntryType = iota
	EntryFile
	EntryDir
	EntryLink
	EntryFifo
	EntrySocket
	EntryChar
	EntryBlock
)

func (t EntryType) String() string {
	switch t {
	case EntryFile:
		return "file"
	case EntryDir:
		return "dir"
	case EntryLink:
		return "link"
	case EntryFifo:
		return "fifo"
	case EntrySocket:
		return "socket"
	case EntryChar:
		return "char"
	case EntryBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Entry is one name + kind pair yielded by Directory.List.
type Entry struct {
	Name string
	Type EntryType
}

// Continuation lets an EntryCallback stop iteration after the current
// entry.
type Continuation interface {
	Stop()
}

// EntryCallback delivers one directory entry, with a Continuation the
// callback may use to end iteration early.
type EntryCallback func(e Entry, c Continuation)

// ListEndCallback fires once, when a directory listing completes or is
// stopped.
type ListEndCallback func()

// DirCloseCallback reports the result of closing a Directory.
type DirCloseCallback func(err error)

// Directory is an opened directory.
type Directory interface {
	handle.Removable

	// List iterates entries in this directory; onEnd fires exactly once,
	// whether iteration completed or was stopped. Returns
	// ioerror.DirNotOpen if the directory is closed, or
	// ioerror.OperationAlreadyInProgress if a List is already running.
	List(onEntry EntryCallback, onEnd ListEndCallback) error

	// Close closes the directory. A second Close call while the first is
	// still in flight reports ioerror.OperationAlreadyInProgress.
	Close(cb DirCloseCallback)
}

// OpenDir opens path for listing.
func OpenDir(loop eventloop.EventLoop, path string, cb func(d Directory, err error)) {
	openDirectory(loop, path, cb)
}

// ProgressCallback fires once per directory removed by RemoveDir; files
// are not reported.
type ProgressCallback func(path string)
