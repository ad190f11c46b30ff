/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

package lsv2

import (
	"fmt"

	liberr "github.com/nabbar/lsv2/errors"
)

const (
	ErrorNotConnected liberr.CodeError = iota + liberr.MinPkgClient
	ErrorAlreadyConnected
	ErrorHandshakeFailed
	ErrorPreconditionFailed
	ErrorFileExists
	ErrorFileMissing
	ErrorNotAFile
	ErrorUnknownMemoryType
	ErrorElementCountExceeded
	ErrorControlReported
	ErrorSafeModeRejected
)

func init() {
	if liberr.ExistInMapMessage(ErrorNotConnected) {
		panic(fmt.Errorf("error code collision with package lsv2"))
	}
	liberr.RegisterIdFctMessage(ErrorNotConnected, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorNotConnected:
		return "lsv2: client is not connected"
	case ErrorAlreadyConnected:
		return "lsv2: client is already connected"
	case ErrorHandshakeFailed:
		return "lsv2: connection handshake failed"
	case ErrorPreconditionFailed:
		return "lsv2: operation precondition not met"
	case ErrorFileExists:
		return "lsv2: remote file already exists"
	case ErrorFileMissing:
		return "lsv2: remote file does not exist"
	case ErrorNotAFile:
		return "lsv2: remote path is not a file"
	case ErrorUnknownMemoryType:
		return "lsv2: unknown PLC memory type"
	case ErrorElementCountExceeded:
		return "lsv2: element count exceeds the declared maximum"
	case ErrorControlReported:
		return "lsv2: control reported an error"
	case ErrorSafeModeRejected:
		return "lsv2: operation rejected by safe mode"
	}

	return liberr.NullMessage
}
