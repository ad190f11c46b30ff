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
	"time"

	. "github.com/nabbar/lsv2"

	"github.com/nabbar/lsv2/config"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// dialedClientWithConfig is dialedClient but lets the test tune Config
// fields (here, Encoding) that the default helper leaves at the zero value.
func dialedClientWithConfig(script mockScript, tune func(*config.Config)) (*Client, *mockListener) {
	mock := newMockListener()
	mock.serve(script)

	cfg := &config.Config{
		Hostname: mock.host,
		Port:     mock.port,
		Timeout:  2 * time.Second,
	}
	if tune != nil {
		tune(cfg)
	}

	c, err := New(cfg)
	Expect(err).To(BeNil())

	derr := c.Dial(context.Background())
	Expect(derr).To(BeNil())

	return c, mock
}

var _ = Describe("Client string decoding honours the configured encoding", func() {
	// 0xE9 is 'e' with an acute accent in both Windows-1252 and Latin-1,
	// but is not valid standalone UTF-8.
	nameWindows1252 := string([]byte{0xE9})

	It("decodes an 8-bit filename correctly when windows-1252 is configured", func() {
		entries := [][]byte{encodeFileSystemEntry(1, false, nameWindows1252)}
		c, mock := dialedClientWithConfig(
			mockScript{control: "TNC640", sysPar: defaultSysPar(), dirEntries: entries},
			func(cfg *config.Config) { cfg.Encoding = "windows-1252" },
		)
		defer mock.ln.Close()
		defer c.Disconnect()

		list, err := c.GetDirectoryContent(context.Background())
		Expect(err).To(BeNil())
		Expect(list).To(HaveLen(1))
		Expect(list[0].Name).To(Equal("é"))
	})

	It("does not produce the same decoded name under the UTF-8 pass-through default", func() {
		entries := [][]byte{encodeFileSystemEntry(1, false, nameWindows1252)}
		c, mock := dialedClientWithConfig(
			mockScript{control: "TNC640", sysPar: defaultSysPar(), dirEntries: entries},
			nil,
		)
		defer mock.ln.Close()
		defer c.Disconnect()

		list, err := c.GetDirectoryContent(context.Background())
		Expect(err).To(BeNil())
		Expect(list).To(HaveLen(1))
		Expect(list[0].Name).ToNot(Equal("é"))
	})
})
