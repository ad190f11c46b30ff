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

var _ = Describe("records", func() {
	It("round-trips SystemParameters through Encode/Decode", func() {
		p := SystemParameters{
			MarkerStart:     100,
			MarkerCount:     4096,
			InputStart:      200,
			InputCount:      64,
			OutputStart:     300,
			OutputCount:     64,
			CounterStart:    400,
			CounterCount:    32,
			TimerStart:      500,
			TimerCount:      16,
			WordStart:       600,
			WordCount:       128,
			StringStart:     700,
			StringCount:     16,
			StringLength:    80,
			InputWordStart:  800,
			InputWordCount:  64,
			OutputWordStart: 900,
			OutputWordCount: 64,
			MaxBlockLength:  4096,
			LSV2VersionMaj:  1,
			LSV2VersionMin:  0,
		}

		decoded, err := DecodeSystemParameters(EncodeSystemParameters(p))
		Expect(err).To(BeNil())
		Expect(decoded).To(Equal(p))
	})

	It("rejects a SystemParameters payload shorter than the fixed record", func() {
		_, err := DecodeSystemParameters(make([]byte, 4))
		Expect(err).ToNot(BeNil())
	})

	It("round-trips ToolInfo through Encode/Decode", func() {
		t := ToolInfo{Number: 17, Length: 123.456, Radius: 2.5}
		decoded, err := DecodeToolInformation(EncodeToolInformation(t))
		Expect(err).To(BeNil())
		Expect(decoded).To(Equal(t))
	})

	It("round-trips OverrideInfo through Encode/Decode", func() {
		o := OverrideInfo{Feed: 100, Speed: 80, Rapid: 50}
		decoded, err := DecodeOverrideInformation(EncodeOverrideInformation(o))
		Expect(err).To(BeNil())
		Expect(decoded).To(Equal(o))
	})

	It("decodes a FileSystemEntry with a timestamp", func() {
		sc := DefaultStringCodec()
		raw := append([]byte{0, 0, 0, 42, 0, 0, 0, 7, AttrDirectory}, []byte("SUBDIR\x00")...)
		e, err := DecodeFileSystemEntry(raw, true, sc)
		Expect(err).To(BeNil())
		Expect(e.Size).To(Equal(uint32(42)))
		Expect(e.Timestamp).To(Equal(uint32(7)))
		Expect(e.IsDir()).To(BeTrue())
		Expect(e.Name).To(Equal("SUBDIR"))
	})

	It("decodes a FileSystemEntry without a timestamp (legacy mill)", func() {
		sc := DefaultStringCodec()
		raw := append([]byte{0, 0, 0, 10, 0}, []byte("FILE.H\x00")...)
		e, err := DecodeFileSystemEntry(raw, false, sc)
		Expect(err).To(BeNil())
		Expect(e.Size).To(Equal(uint32(10)))
		Expect(e.HasTime).To(BeFalse())
		Expect(e.IsDir()).To(BeFalse())
		Expect(e.Name).To(Equal("FILE.H"))
	})

	It("decodes an ErrorMessage's four NUL-delimited text segments", func() {
		sc := DefaultStringCodec()
		raw := []byte{3, 7}
		raw = append(raw, []byte("CH1\x00")...)
		raw = append(raw, []byte("group text\x00")...)
		raw = append(raw, []byte("TYPE\x00")...)
		raw = append(raw, []byte("message text")...)

		m, err := DecodeErrorMessage(raw, sc)
		Expect(err).To(BeNil())
		Expect(m.Group).To(Equal(byte(3)))
		Expect(m.Code).To(Equal(byte(7)))
		Expect(m.Channel).To(Equal("CH1"))
		Expect(m.GroupText).To(Equal("group text"))
		Expect(m.Type).To(Equal("TYPE"))
		Expect(m.Text).To(Equal("message text"))
	})

	It("decodes a DirectoryInfo record", func() {
		sc := DefaultStringCodec()
		raw := append([]byte{0, 1, 0x86, 0xa0, AttrDirectory}, []byte("TNC:\\NC_PROG\x00")...)
		d, err := DecodeDirectoryInfo(raw, sc)
		Expect(err).To(BeNil())
		Expect(d.FreeSpace).To(Equal(uint32(100000)))
		Expect(d.Path).To(Equal("TNC:\\NC_PROG"))
	})
})
