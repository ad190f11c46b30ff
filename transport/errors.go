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

package transport

import (
	"fmt"

	liberr "github.com/nabbar/lsv2/errors"
)

const (
	ErrorNotConnected liberr.CodeError = iota + liberr.MinPkgTransport
	ErrorDial
	ErrorWrite
	ErrorRead
	ErrorTimeout
	ErrorShortFrame
	ErrorPayloadTooLarge
)

func init() {
	if liberr.ExistInMapMessage(ErrorNotConnected) {
		panic(fmt.Errorf("error code collision with package lsv2/transport"))
	}
	liberr.RegisterIdFctMessage(ErrorNotConnected, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorNotConnected:
		return "transport: not connected"
	case ErrorDial:
		return "transport: dial failed"
	case ErrorWrite:
		return "transport: write failed"
	case ErrorRead:
		return "transport: read failed"
	case ErrorTimeout:
		return "transport: i/o timeout"
	case ErrorShortFrame:
		return "transport: short or malformed frame"
	case ErrorPayloadTooLarge:
		return "transport: payload exceeds negotiated buffer size"
	}

	return liberr.NullMessage
}
