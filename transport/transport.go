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

// Package transport carries LSV2 telegrams over a single TCP connection. It
// knows nothing about tags, access levels or file transfer state machines:
// it only frames and unframes `u32 BE length | 2 ASCII tag | payload` and
// applies a per-call read/write deadline.
package transport

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/lsv2/errors"
	"github.com/nabbar/lsv2/logging"
	"github.com/nabbar/lsv2/protocol"
	"github.com/sirupsen/logrus"
)

// DefaultPort is the LSV2 well-known TCP port used when the caller supplies
// port 0.
const DefaultPort uint16 = 19000

// DefaultBufferSize is the payload size assumed before the connection
// configurator negotiates a larger one.
const DefaultBufferSize = 256

// Transport owns a single TCP connection and the framing of telegrams over
// it. It performs no retries and no reconnection: a failed exchange poisons
// the connection, and the caller is expected to Disconnect and Connect
// again.
type Transport struct {
	mu   sync.Mutex
	conn *atomic.Value // net.Conn
	log  *logrus.Entry
}

// New returns a Transport ready to Connect. A nil logger is replaced by a
// discard entry.
func New(log *logrus.Entry) *Transport {
	return &Transport{
		conn: new(atomic.Value),
		log:  logging.Component(log, "transport"),
	}
}

func (t *Transport) getConn() net.Conn {
	if i := t.conn.Load(); i == nil {
		return nil
	} else if c, ok := i.(net.Conn); !ok || c == nil {
		return nil
	} else {
		return c
	}
}

func (t *Transport) setConn(c net.Conn) {
	t.conn.Store(c)
}

// Connected reports whether a connection is currently held.
func (t *Transport) Connected() bool {
	return t.getConn() != nil
}

// Connect dials host:port with the given per-call timeout used as the dial
// timeout. port 0 selects DefaultPort.
func (t *Transport) Connect(ctx context.Context, host string, port uint16, timeout time.Duration) liberr.Error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if port == 0 {
		port = DefaultPort
	}

	d := net.Dialer{Timeout: timeout}
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))

	conn, e := d.DialContext(ctx, "tcp", addr)
	if e != nil {
		t.log.WithError(e).WithField("addr", addr).Error("dial failed")
		return ErrorDial.Error(e)
	}

	t.log.WithField("addr", addr).Debug("connected")
	t.setConn(conn)
	return nil
}

// Disconnect closes the underlying connection, if any. It is safe to call
// more than once.
func (t *Transport) Disconnect() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c := t.getConn(); c != nil {
		_ = c.Close()
		t.setConn(nil)
		t.log.Debug("disconnected")
	}
}

// Telegram writes one framed request and, unless waitForResponse is false,
// reads back one framed response. A response payload longer than bufferSize
// is logged at Warn and still returned in full; timeout bounds the whole
// round trip.
//
// waitForResponse=false is fire-and-forget: the command is written and the
// call returns immediately with a zero Telegram.
func (t *Transport) Telegram(ctx context.Context, cmd protocol.Tag, payload []byte, bufferSize int, timeout time.Duration, waitForResponse bool) (protocol.Telegram, liberr.Error) {
	conn := t.getConn()
	if conn == nil {
		return protocol.Telegram{}, ErrorNotConnected.Error(nil)
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if dl, ok := ctx.Deadline(); ok && (deadline.IsZero() || dl.Before(deadline)) {
		deadline = dl
	}

	if e := conn.SetDeadline(deadline); e != nil {
		return protocol.Telegram{}, ErrorTimeout.Error(e)
	}

	if err := t.write(conn, cmd, payload); err != nil {
		return protocol.Telegram{}, err
	}

	if !waitForResponse {
		return protocol.Telegram{}, nil
	}

	return t.read(conn, bufferSize)
}

func (t *Transport) write(conn net.Conn, cmd protocol.Tag, payload []byte) liberr.Error {
	body := []byte(cmd.String())
	length := uint32(len(body) + len(payload))

	frame := make([]byte, 4+len(body)+len(payload))
	binary.BigEndian.PutUint32(frame[0:4], length)
	copy(frame[4:4+len(body)], body)
	copy(frame[4+len(body):], payload)

	if _, e := conn.Write(frame); e != nil {
		if ne, ok := e.(net.Error); ok && ne.Timeout() {
			return ErrorTimeout.Error(e)
		}
		t.log.WithError(e).WithField("tag", cmd.String()).Error("write failed")
		return ErrorWrite.Error(e)
	}

	t.log.WithField("tag", cmd.String()).WithField("len", len(payload)).Debug("sent telegram")
	return nil
}

func (t *Transport) read(conn net.Conn, bufferSize int) (protocol.Telegram, liberr.Error) {
	var header [4]byte
	if _, e := io.ReadFull(conn, header[:]); e != nil {
		if ne, ok := e.(net.Error); ok && ne.Timeout() {
			return protocol.Telegram{}, ErrorTimeout.Error(e)
		}
		return protocol.Telegram{}, ErrorRead.Error(e)
	}

	length := binary.BigEndian.Uint32(header[:])
	if length < 2 {
		return protocol.Telegram{}, ErrorShortFrame.Error(nil)
	}

	if bufferSize > 0 && int(length)-2 > bufferSize {
		t.log.WithField("len", length-2).WithField("buffer_size", bufferSize).Warn("response payload exceeds negotiated buffer size")
	}

	body := make([]byte, length)
	if _, e := io.ReadFull(conn, body); e != nil {
		if ne, ok := e.(net.Error); ok && ne.Timeout() {
			return protocol.Telegram{}, ErrorTimeout.Error(e)
		}
		return protocol.Telegram{}, ErrorRead.Error(e)
	}

	tag := protocol.Tag(body[0:2])
	payload := body[2:]

	t.log.WithField("tag", tag.String()).WithField("len", len(payload)).Debug("received telegram")
	return protocol.Telegram{Tag: tag, Payload: payload}, nil
}
