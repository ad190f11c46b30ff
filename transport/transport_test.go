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

package transport_test

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"strconv"
	"time"

	. "github.com/nabbar/lsv2/transport"

	"github.com/nabbar/lsv2/protocol"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// loopbackServer accepts exactly one connection and lets the test script its
// raw-frame behaviour on a background goroutine.
type loopbackServer struct {
	ln   net.Listener
	host string
	port uint16
}

func newLoopbackServer() *loopbackServer {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).To(BeNil())

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	Expect(err).To(BeNil())
	port, err := strconv.Atoi(portStr)
	Expect(err).To(BeNil())

	return &loopbackServer{ln: ln, host: host, port: uint16(port)}
}

func (s *loopbackServer) accept() net.Conn {
	conn, err := s.ln.Accept()
	Expect(err).To(BeNil())
	return conn
}

func readFrame(conn net.Conn) (protocol.Tag, []byte) {
	var header [4]byte
	_, err := io.ReadFull(conn, header[:])
	Expect(err).To(BeNil())

	length := binary.BigEndian.Uint32(header[:])
	body := make([]byte, length)
	_, err = io.ReadFull(conn, body)
	Expect(err).To(BeNil())

	return protocol.Tag(body[0:2]), body[2:]
}

func writeFrame(conn net.Conn, tag protocol.Tag, payload []byte) {
	body := append([]byte(tag.String()), payload...)
	frame := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(frame[0:4], uint32(len(body)))
	copy(frame[4:], body)
	_, err := conn.Write(frame)
	Expect(err).To(BeNil())
}

var _ = Describe("Transport", func() {
	It("reports ErrorNotConnected for a Telegram call before Connect", func() {
		tr := New(nil)
		_, err := tr.Telegram(context.Background(), protocol.TagReadSysPar, nil, 256, time.Second, true)
		Expect(err).ToNot(BeNil())
		Expect(err.IsCode(ErrorNotConnected)).To(BeTrue())
	})

	It("connects, exchanges one framed telegram, and disconnects", func() {
		srv := newLoopbackServer()
		defer srv.ln.Close()

		tr := New(nil)
		err := tr.Connect(context.Background(), srv.host, srv.port, time.Second)
		Expect(err).To(BeNil())
		Expect(tr.Connected()).To(BeTrue())

		conn := srv.accept()
		defer conn.Close()

		done := make(chan struct{})
		go func() {
			defer close(done)
			tag, payload := readFrame(conn)
			Expect(tag).To(Equal(protocol.TagReadSysPar))
			Expect(payload).To(BeEmpty())
			writeFrame(conn, protocol.TagRespSysPar, []byte("system-parameters"))
		}()

		tel, terr := tr.Telegram(context.Background(), protocol.TagReadSysPar, nil, 256, time.Second, true)
		Expect(terr).To(BeNil())
		Expect(tel.Tag).To(Equal(protocol.TagRespSysPar))
		Expect(tel.Payload).To(Equal([]byte("system-parameters")))

		Eventually(done).Should(BeClosed())

		tr.Disconnect()
		Expect(tr.Connected()).To(BeFalse())
	})

	It("does not wait for a response when waitForResponse is false", func() {
		srv := newLoopbackServer()
		defer srv.ln.Close()

		tr := New(nil)
		err := tr.Connect(context.Background(), srv.host, srv.port, time.Second)
		Expect(err).To(BeNil())

		conn := srv.accept()
		defer conn.Close()

		tel, terr := tr.Telegram(context.Background(), protocol.TagSysCommand, []byte{0, 1}, 256, time.Second, false)
		Expect(terr).To(BeNil())
		Expect(tel).To(Equal(protocol.Telegram{}))

		tag, payload := readFrame(conn)
		Expect(tag).To(Equal(protocol.TagSysCommand))
		Expect(payload).To(Equal([]byte{0, 1}))
	})
})
