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

package codec_test

import (
	. "github.com/nabbar/lsv2/codec"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResolveEncoding", func() {
	It("resolves an empty name to UTF-8 pass-through", func() {
		enc, err := ResolveEncoding("")
		Expect(err).To(BeNil())
		Expect(enc).To(Equal(encoding.Nop))
	})

	It("resolves a known codepage name case- and separator-insensitively", func() {
		for _, name := range []string{"windows-1252", "Windows_1252", "WINDOWS1252"} {
			enc, err := ResolveEncoding(name)
			Expect(err).To(BeNil())
			Expect(enc).To(Equal(charmap.Windows1252))
		}
	})

	It("resolves latin1 to ISO-8859-1", func() {
		enc, err := ResolveEncoding("latin1")
		Expect(err).To(BeNil())
		Expect(enc).To(Equal(charmap.ISO8859_1))
	})

	It("rejects an unrecognised encoding name", func() {
		_, err := ResolveEncoding("does-not-exist")
		Expect(err).ToNot(BeNil())
		Expect(err.IsCode(ErrorUnknownEncoding)).To(BeTrue())
	})
})
