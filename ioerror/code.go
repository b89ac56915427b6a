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

// Package ioerror registers the unified error code space shared by the
// event loop, TCP/UDP handles and the filesystem primitives. A code never
// carries state by itself: call Error/Errorf on it with the operation's
// contextual detail (peer endpoint, path, ...) to get a liberr.Error.
package ioerror

import "github.com/nabbar/tarmio/errors"

const (
	InvalidArgument errors.CodeError = iota + errors.MinPkgAsyncIO
	NotConnected
	ConnectionRefused
	ConnectionResetByPeer
	ConnectionAlreadyInProgress
	AddressAlreadyInUse
	AddressNotAvailable
	PermissionDenied
	MessageTooLong
	EndOfFile
	NoSuchFileOrDirectory
	FileOrDirAlreadyExists
	NotADirectory
	IllegalOperationOnADirectory
	NameTooLong
	OperationAlreadyInProgress
	OperationCanceled
	OperationOnClosedSocket
	FileNotOpen
	DirNotOpen
	OutOfMemory
	UnknownNodeOrService
	TLSCertificateFileNotExist
	TLSPrivateKeyFileNotExist
	TLSCertificateInvalid
	TLSPrivateKeyInvalid
	TLSPrivateKeyAndCertificateNotMatch
	OpenSSLError
	Undefined
)

var isCodeError = false

// IsCodeError reports whether this package's codes are registered in the
// shared message map. Mirrors the check every nabbar-golib leaf package
// runs once at init.
func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(InvalidArgument)
	errors.RegisterIdFctMessage(InvalidArgument, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case InvalidArgument:
		return "invalid argument%s"
	case NotConnected:
		return "not connected%s"
	case ConnectionRefused:
		return "connection refused%s"
	case ConnectionResetByPeer:
		return "connection reset by peer%s"
	case ConnectionAlreadyInProgress:
		return "connection already in progress%s"
	case AddressAlreadyInUse:
		return "address already in use%s"
	case AddressNotAvailable:
		return "address not available%s"
	case PermissionDenied:
		return "permission denied%s"
	case MessageTooLong:
		return "message too long%s"
	case EndOfFile:
		return "end of file%s"
	case NoSuchFileOrDirectory:
		return "no such file or directory%s"
	case FileOrDirAlreadyExists:
		return "file or directory already exists%s"
	case NotADirectory:
		return "not a directory%s"
	case IllegalOperationOnADirectory:
		return "illegal operation on a directory%s"
	case NameTooLong:
		return "name too long%s"
	case OperationAlreadyInProgress:
		return "operation already in progress%s"
	case OperationCanceled:
		return "operation canceled%s"
	case OperationOnClosedSocket:
		return "operation on closed socket%s"
	case FileNotOpen:
		return "file not open%s"
	case DirNotOpen:
		return "directory not open%s"
	case OutOfMemory:
		return "out of memory%s"
	case UnknownNodeOrService:
		return "unknown node or service%s"
	case TLSCertificateFileNotExist:
		return "tls certificate file does not exist%s"
	case TLSPrivateKeyFileNotExist:
		return "tls private key file does not exist%s"
	case TLSCertificateInvalid:
		return "tls certificate invalid%s"
	case TLSPrivateKeyInvalid:
		return "tls private key invalid%s"
	case TLSPrivateKeyAndCertificateNotMatch:
		return "tls private key and certificate do not match%s"
	case OpenSSLError:
		return "openssl error%s"
	case Undefined:
		return "undefined error%s"
	}

	return ""
}
