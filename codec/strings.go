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

package codec

import (
	"bytes"
	"strings"

	liberr "github.com/nabbar/lsv2/errors"
	"golang.org/x/text/encoding"
)

// ErrorPolicy mirrors the caller-configurable decode_errors option: ignore
// (best effort, never fails) or strict (fail on the first invalid byte
// sequence for the configured encoding).
type ErrorPolicy uint8

const (
	ErrorPolicyIgnore ErrorPolicy = iota
	ErrorPolicyStrict
)

// ParseErrorPolicy maps the lowercase config string to an ErrorPolicy,
// defaulting to ignore for anything other than "strict".
func ParseErrorPolicy(s string) ErrorPolicy {
	if strings.EqualFold(s, "strict") {
		return ErrorPolicyStrict
	}
	return ErrorPolicyIgnore
}

// StringCodec centralises NUL-terminated string decoding so the
// caller-configured encoding and error policy flow uniformly through every
// text field: versions, directory/filesystem entry names, tool/override
// text, error-message segments, and data-path string values.
type StringCodec struct {
	Encoding encoding.Encoding
	Policy   ErrorPolicy
}

// DefaultStringCodec decodes as UTF-8 pass-through with the ignore policy,
// matching the module's documented defaults.
func DefaultStringCodec() StringCodec {
	return StringCodec{Encoding: encoding.Nop, Policy: ErrorPolicyIgnore}
}

// DecodeNul decodes b up to its first NUL byte (or all of b if there is
// none) using the codec's encoding and error policy.
func (c StringCodec) DecodeNul(b []byte) (string, liberr.Error) {
	if i := bytes.IndexByte(b, 0x00); i >= 0 {
		b = b[:i]
	}
	return c.decode(b)
}

// DecodeRest decodes the whole of b, trimming any trailing NUL bytes first
// (used for fields that are NUL-padded rather than NUL-terminated, such as
// the R_DP string value).
func (c StringCodec) DecodeRest(b []byte) (string, liberr.Error) {
	return c.decode(bytes.TrimRight(b, "\x00"))
}

func (c StringCodec) decode(b []byte) (string, liberr.Error) {
	enc := c.Encoding
	if enc == nil {
		enc = encoding.Nop
	}

	out, e := enc.NewDecoder().Bytes(b)
	if e == nil {
		return string(out), nil
	}

	if c.Policy == ErrorPolicyStrict {
		return "", ErrorDecodeString.Error(e)
	}

	return strings.ToValidUTF8(string(b), ""), nil
}

// SplitNulDelimited splits b into fields delimited by NUL bytes, dropping a
// trailing empty field produced by a terminating NUL. Used by the axis
// location decoder.
func SplitNulDelimited(b []byte) [][]byte {
	parts := bytes.Split(b, []byte{0x00})
	if n := len(parts); n > 0 && len(parts[n-1]) == 0 {
		parts = parts[:n-1]
	}
	return parts
}
