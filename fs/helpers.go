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
	"os"
	"path/filepath"

	"github.com/nabbar/tarmio/eventloop"
	"github.com/nabbar/tarmio/ioerror"
	libsem "github.com/nabbar/tarmio/semaphore"
)

// removeDirConcurrency bounds how many subdirectories RemoveDir walks at
// once; unbounded recursion on a deep tree would spawn one goroutine per
// directory.
const removeDirConcurrency = 8

// MakeTempDir creates a directory from template (trailing "XXXXXX" is
// replaced by a random suffix, os.MkdirTemp's convention) and reports its
// path.
func MakeTempDir(loop eventloop.EventLoop, dir, pattern string, cb func(path string, err error)) {
	var (
		path string
		err  error
	)
	loop.AddWork(func() {
		path, err = os.MkdirTemp(dir, pattern)
		if err != nil {
			err = ioerror.New(ioerror.InvalidArgument, dir, err)
		}
	}, func() {
		if cb != nil {
			cb(path, err)
		}
	})
}

// MakeDir creates exactly one directory; it does not create missing
// parents (use MakeAllDirs for that).
func MakeDir(loop eventloop.EventLoop, path string, mode os.FileMode, cb func(err error)) {
	var err error
	loop.AddWork(func() {
		if mkErr := os.Mkdir(path, mode); mkErr != nil {
			err = mapMkdirError(path, mkErr)
		}
	}, func() {
		if cb != nil {
			cb(err)
		}
	})
}

// MakeAllDirs creates path and any missing parents. On failure the
// returned error's contextual string names the deepest path it reached.
func MakeAllDirs(loop eventloop.EventLoop, path string, mode os.FileMode, cb func(err error)) {
	var err error
	loop.AddWork(func() {
		err = mkdirAll(path, mode)
	}, func() {
		if cb != nil {
			cb(err)
		}
	})
}

// mkdirAll is os.MkdirAll reimplemented to track the deepest path reached,
// so a failure reports that path in its contextual string rather than the
// original target (which os.MkdirAll's own error already does, but this
// keeps the mapping to our own error codes explicit).
func mkdirAll(path string, mode os.FileMode) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return ioerror.New(ioerror.FileOrDirAlreadyExists, path)
	}

	parent := filepath.Dir(path)
	if parent != path {
		if err = mkdirAll(parent, mode); err != nil {
			return err
		}
	}

	if err = os.Mkdir(path, mode); err != nil {
		if os.IsExist(err) {
			return nil
		}
		return mapMkdirError(path, err)
	}
	return nil
}

func mapMkdirError(path string, err error) error {
	if os.IsExist(err) {
		return ioerror.New(ioerror.FileOrDirAlreadyExists, path, err)
	}
	if os.IsPermission(err) {
		return ioerror.New(ioerror.PermissionDenied, path, err)
	}
	if os.IsNotExist(err) {
		return ioerror.New(ioerror.NoSuchFileOrDirectory, path, err)
	}
	return ioerror.New(ioerror.InvalidArgument, path, err)
}

// RemoveDir removes path recursively. progress fires once per directory
// removed, in children-before-parent order; files are not reported.
func RemoveDir(loop eventloop.EventLoop, path string, done func(err error), progress ProgressCallback) {
	var err error

	loop.AddWork(func() {
		sem := libsem.NewSemaphoreWithContext(context.Background(), removeDirConcurrency)
		err = removeDirRecursive(loop, sem, path, progress)
	}, func() {
		if done != nil {
			done(err)
		}
	})
}

func removeDirRecursive(loop eventloop.EventLoop, sem libsem.Semaphore, path string, progress ProgressCallback) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return mapMkdirError(path, err)
	}

	errCh := make(chan error, len(entries))
	pending := 0

	for _, e := range entries {
		child := filepath.Join(path, e.Name())

		if !e.IsDir() {
			if rmErr := os.Remove(child); rmErr != nil {
				return mapMkdirError(child, rmErr)
			}
			continue
		}

		pending++
		if sem.NewWorkerTry() {
			go func(p string) {
				defer sem.DeferWorker()
				errCh <- removeDirRecursive(loop, sem, p, progress)
			}(child)
		} else {
			errCh <- removeDirRecursive(loop, sem, child, progress)
		}
	}

	for i := 0; i < pending; i++ {
		if e := <-errCh; e != nil {
			return e
		}
	}

	if err = os.Remove(path); err != nil {
		return mapMkdirError(path, err)
	}

	if progress != nil {
		loop.ExecuteOnLoopThread(func() { progress(path) })
	}
	return nil
}
