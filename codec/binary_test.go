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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IsBinaryFile", func() {
	It("classifies known binary extensions regardless of case", func() {
		Expect(IsBinaryFile("TNC:\\NC_PROG\\SCREEN.BMP")).To(BeTrue())
		Expect(IsBinaryFile("plc.PLC")).To(BeTrue())
		Expect(IsBinaryFile("module.mo")).To(BeTrue())
	})

	It("treats program and text extensions as text", func() {
		Expect(IsBinaryFile("TNC:\\NC_PROG\\TEST.H")).To(BeFalse())
		Expect(IsBinaryFile("README.TXT")).To(BeFalse())
	})

	It("treats a path with no extension as text", func() {
		Expect(IsBinaryFile("TNC:\\NC_PROG\\NOEXT")).To(BeFalse())
	})

	It("treats a trailing dot with nothing after it as no extension", func() {
		Expect(IsBinaryFile("TNC:\\NC_PROG\\TRAILING.")).To(BeFalse())
	})
})
