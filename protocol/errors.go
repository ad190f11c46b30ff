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

package protocol

import (
	"fmt"

	liberr "github.com/nabbar/lsv2/errors"
)

const (
	ErrorUnexpectedTag liberr.CodeError = iota + liberr.MinPkgProtocol
	ErrorBlockTransfer
)

func init() {
	if liberr.ExistInMapMessage(ErrorUnexpectedTag) {
		panic(fmt.Errorf("error code collision with package lsv2/protocol"))
	}
	liberr.RegisterIdFctMessage(ErrorUnexpectedTag, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorUnexpectedTag:
		return "protocol: received unexpected response tag"
	case ErrorBlockTransfer:
		return "protocol: block transfer aborted on unexpected tag"
	}

	return liberr.NullMessage
}

// ControlError represents a decoded T_ER / T_BD (group, code) envelope. It
// satisfies the error interface directly so it can travel either as a bare
// error or wrapped as a parent of a liberr.Error.
type ControlError struct {
	Group byte
	Code  byte
}

// ErrNoNextErrorCode is the sentinel (group, code) value that terminates the
// error-list enumeration normally; it is not itself a failure there.
const ErrNoNextErrorCode byte = 0

func (c ControlError) Error() string {
	return fmt.Sprintf("control reported error (group=%d, code=%d)", c.Group, c.Code)
}

// IsNoNextError reports whether this is the sentinel that ends the
// error-list enumeration loop, per the NEXT_ERROR call site contract.
func (c ControlError) IsNoNextError() bool {
	return c.Code == ErrNoNextErrorCode
}
