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
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/lsv2/errors"
	"github.com/nabbar/lsv2/logging"
	"github.com/sirupsen/logrus"
)

// Dialer is the narrow transport contract the Engine needs: write one
// framed telegram and, optionally, read one back. *transport.Transport
// satisfies this without either package importing the other.
type Dialer interface {
	Telegram(ctx context.Context, cmd Tag, payload []byte, bufferSize int, timeout time.Duration, waitForResponse bool) (Telegram, liberr.Error)
}

// Outcome is the result of a dispatch primitive: OK mirrors the spec's
// truthy sentinel, Content carries the response payload when non-empty.
type Outcome struct {
	OK      bool
	Content []byte
}

// Engine wraps a Dialer with the three LSV2 dispatch primitives and tracks
// the last control-reported error. Exchanges are serialised: the wire
// forbids pipelining, so every call holds the dispatch mutex for its
// duration.
type Engine struct {
	dispatch sync.Mutex
	dial     Dialer
	lastErr  atomic.Value // *ControlError
	log      *logrus.Entry
}

// NewEngine wraps dial with the dispatch primitives. A nil logger is
// replaced by a discard entry.
func NewEngine(dial Dialer, log *logrus.Entry) *Engine {
	return &Engine{
		dial: dial,
		log:  logging.Component(log, "protocol"),
	}
}

// LastError returns the most recently recorded control error, or nil if the
// most recent exchange did not receive T_ER/T_BD.
func (e *Engine) LastError() *ControlError {
	if v := e.lastErr.Load(); v != nil {
		if ce, ok := v.(*ControlError); ok {
			return ce
		}
	}
	return nil
}

func (e *Engine) setLastError(ce *ControlError) {
	e.lastErr.Store(ce)
}

func (e *Engine) clearLastError() {
	e.lastErr.Store((*ControlError)(nil))
}

// SendReceive sends one telegram and waits for one response (unless expected
// is empty, in which case it is fire-and-forget). If the response tag is in
// expected, OK is true and Content carries the payload when non-empty. On
// T_ER/T_BD it records LastError and returns OK=false. On any other
// unexpected tag it clears LastError and returns OK=false. A transport
// failure is returned as a liberr.Error and poisons the connection.
func (e *Engine) SendReceive(ctx context.Context, cmd Tag, expected TagSet, payload []byte, bufferSize int, timeout time.Duration) (Outcome, liberr.Error) {
	e.dispatch.Lock()
	defer e.dispatch.Unlock()

	if len(expected) == 0 {
		if _, err := e.dial.Telegram(ctx, cmd, payload, bufferSize, timeout, false); err != nil {
			return Outcome{}, err
		}
		e.log.WithField("cmd", cmd.String()).Debug("fire-and-forget command sent")
		return Outcome{OK: true}, nil
	}

	tel, err := e.dial.Telegram(ctx, cmd, payload, bufferSize, timeout, true)
	if err != nil {
		return Outcome{}, err
	}

	return e.resolve(cmd, expected, tel), nil
}

func (e *Engine) resolve(cmd Tag, expected TagSet, tel Telegram) Outcome {
	if expected.Contains(tel.Tag) {
		if len(tel.Payload) > 0 {
			e.log.WithField("cmd", cmd.String()).WithField("resp", tel.Tag.String()).Debug("exchange succeeded with content")
			return Outcome{OK: true, Content: tel.Payload}
		}
		e.log.WithField("cmd", cmd.String()).WithField("resp", tel.Tag.String()).Debug("exchange succeeded without content")
		return Outcome{OK: true}
	}

	if IsErrorTag(tel.Tag) {
		ce := decodeControlError(tel.Payload)
		e.setLastError(ce)
		e.log.WithField("cmd", cmd.String()).WithField("group", ce.Group).WithField("code", ce.Code).Warn("control reported error")
		return Outcome{OK: false}
	}

	e.clearLastError()
	e.log.WithField("cmd", cmd.String()).WithField("resp", tel.Tag.String()).Error("received unexpected response tag")
	return Outcome{OK: false}
}

func decodeControlError(payload []byte) *ControlError {
	ce := &ControlError{}
	if len(payload) >= 1 {
		ce.Group = payload[0]
	}
	if len(payload) >= 2 {
		ce.Code = payload[1]
	}
	return ce
}

// SendReceiveAck is SendReceive with expected={T_OK}, collapsed to a bool.
func (e *Engine) SendReceiveAck(ctx context.Context, cmd Tag, payload []byte, bufferSize int, timeout time.Duration) (bool, liberr.Error) {
	out, err := e.SendReceive(ctx, cmd, TagSet{TagOk}, payload, bufferSize, timeout)
	if err != nil {
		return false, err
	}
	return out.OK, nil
}

// SendReceiveBlock drives a multi-packet read: it sends cmd, then while the
// response tag is in expected it appends the payload and sends a bare T_OK
// to pull the next packet, until T_FD ends the stream normally. A T_ER/T_BD
// records LastError and returns the packets received so far with a nil
// error; any other tag fails the exchange with ErrorBlockTransfer.
func (e *Engine) SendReceiveBlock(ctx context.Context, cmd Tag, expected TagSet, payload []byte, bufferSize int, timeout time.Duration) ([][]byte, liberr.Error) {
	e.dispatch.Lock()
	defer e.dispatch.Unlock()

	buf := make([][]byte, 0)

	tel, err := e.dial.Telegram(ctx, cmd, payload, bufferSize, timeout, true)
	if err != nil {
		return nil, err
	}

	for {
		if IsErrorTag(tel.Tag) {
			ce := decodeControlError(tel.Payload)
			e.setLastError(ce)
			e.log.WithField("cmd", cmd.String()).WithField("group", ce.Group).WithField("code", ce.Code).Warn("block transfer reported error")
			return buf, nil
		}

		if tel.Tag == TagFinished {
			e.log.WithField("cmd", cmd.String()).WithField("packets", len(buf)).Debug("block transfer finished")
			return buf, nil
		}

		if !expected.Contains(tel.Tag) {
			e.log.WithField("cmd", cmd.String()).WithField("resp", tel.Tag.String()).Error("unexpected tag during block transfer")
			return buf, ErrorBlockTransfer.Error(fmt.Errorf("unexpected tag %s for command %s", tel.Tag.String(), cmd.String()))
		}

		buf = append(buf, tel.Payload)

		tel, err = e.dial.Telegram(ctx, TagOk, nil, bufferSize, timeout, true)
		if err != nil {
			return nil, err
		}
	}
}
