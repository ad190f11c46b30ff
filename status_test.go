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

package lsv2_test

import (
	"context"
	"encoding/binary"
	"math"

	. "github.com/nabbar/lsv2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Client control-error propagation", func() {
	It("wraps a T_ER response as ErrorControlReported", func() {
		c, mock := dialedClient(false, mockScript{control: "TNC640", sysPar: defaultSysPar()})
		defer mock.ln.Close()
		defer c.Disconnect()

		_, err := c.GetDirectoryInfo(context.Background())
		Expect(err).ToNot(BeNil())
		Expect(err.IsCode(ErrorControlReported)).To(BeTrue())
	})
})

var _ = Describe("Client PLC memory reads", func() {
	It("reads a byte-sized marker range as one chunk", func() {
		c, mock := dialedClient(false, mockScript{
			control:   "TNC640",
			sysPar:    defaultSysPar(),
			plcMemory: []byte{0x01, 0x02, 0x03, 0x04},
		})
		defer mock.ln.Close()
		defer c.Disconnect()

		values, err := c.ReadPLCMemory(context.Background(), MemoryMarker, 0, 4)
		Expect(err).To(BeNil())
		Expect(values).To(HaveLen(4))
		for i, v := range values {
			Expect(v).To(Equal([]byte{byte(i + 1)}))
		}
	})

	It("rejects an element count above the per-type maximum", func() {
		c, mock := dialedClient(false, mockScript{control: "TNC640", sysPar: defaultSysPar()})
		defer mock.ln.Close()
		defer c.Disconnect()

		_, err := c.ReadPLCMemory(context.Background(), MemoryMarker, 0, 5000)
		Expect(err).ToNot(BeNil())
		Expect(err.IsCode(ErrorElementCountExceeded)).To(BeTrue())
	})
})

var _ = Describe("Client iTNC data path reads", func() {
	It("decodes a floating-point value", func() {
		content := make([]byte, 12)
		binary.BigEndian.PutUint32(content[0:4], 5)
		binary.LittleEndian.PutUint64(content[4:12], math.Float64bits(12.5))

		c, mock := dialedClient(false, mockScript{control: "TNC640", sysPar: defaultSysPar(), dataPath: content})
		defer mock.ln.Close()
		defer c.Disconnect()

		v, err := c.ReadDataPath(context.Background(), "/PLC/memory/marker")
		Expect(err).To(BeNil())
		Expect(v.TypeCode).To(Equal(int32(5)))
		Expect(v.Float64).To(Equal(12.5))
	})

	It("reports a control error for an unrecognised value type", func() {
		content := make([]byte, 5)
		binary.BigEndian.PutUint32(content[0:4], 99)
		content[4] = 0

		c, mock := dialedClient(false, mockScript{control: "TNC640", sysPar: defaultSysPar(), dataPath: content})
		defer mock.ln.Close()
		defer c.Disconnect()

		_, err := c.ReadDataPath(context.Background(), "/PLC/memory/marker")
		Expect(err).ToNot(BeNil())
		Expect(err.IsCode(ErrorControlReported)).To(BeTrue())
	})
})
