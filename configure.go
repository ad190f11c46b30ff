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

package lsv2

import (
	"context"
	"encoding/binary"
	"strings"

	"github.com/nabbar/lsv2/codec"
	liberr "github.com/nabbar/lsv2/errors"
	"github.com/nabbar/lsv2/protocol"
	"github.com/nabbar/lsv2/session"
)

const notSupported = "not supported"

// Configure runs the post-connect handshake: login(INSPECT), read
// versions, map the control variant, read system parameters, negotiate
// the buffer size, toggle secure-file-send, login(FILETRANSFER). It must
// run exactly once per connection, after Connect.
func (c *Client) Configure(ctx context.Context) liberr.Error {
	if ok, err := c.sess.Login(ctx, session.LevelInspect, "", c.bufferSize(), c.timeout()); err != nil {
		return err
	} else if !ok {
		return ErrorHandshakeFailed.Error(c.lastErrorAsError())
	}

	versions, err := c.readVersions(ctx)
	if err != nil {
		return err
	}

	c.state.Lock()
	c.versions = versions
	c.variant = variantFromControlString(versions.Control)
	c.state.Unlock()

	if _, err := c.readSystemParameters(ctx); err != nil {
		return err
	}

	if err := c.negotiateBufferSize(ctx); err != nil {
		return err
	}

	c.negotiateSecureFileSend(ctx)

	if ok, err := c.sess.Login(ctx, session.LevelFileTransfer, "", c.bufferSize(), c.timeout()); err != nil {
		return err
	} else if !ok {
		return ErrorHandshakeFailed.Error(c.lastErrorAsError())
	}

	return nil
}

func (c *Client) readVersions(ctx context.Context) (Versions, liberr.Error) {
	var v Versions
	sc := c.stringCodec()

	control, ok, err := c.readVersionField(ctx, protocol.RVRControl, sc)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, ErrorHandshakeFailed.Error(nil)
	}
	v.Control = control

	if s, _, err := c.readVersionField(ctx, protocol.RVRNCVersion, sc); err != nil {
		return v, err
	} else {
		v.NCVersion = s
	}
	if s, _, err := c.readVersionField(ctx, protocol.RVRPLCVersion, sc); err != nil {
		return v, err
	} else {
		v.PLCVersion = s
	}
	if s, _, err := c.readVersionField(ctx, protocol.RVROptions, sc); err != nil {
		return v, err
	} else {
		v.Options = s
	}
	if s, _, err := c.readVersionField(ctx, protocol.RVRID, sc); err != nil {
		return v, err
	} else {
		v.ID = s
	}

	if s, ok, err := c.readVersionField(ctx, protocol.RVRReleaseType, sc); err != nil {
		return v, err
	} else if !ok {
		v.ReleaseType = notSupported
	} else {
		v.ReleaseType = s
	}

	if s, ok, err := c.readVersionField(ctx, protocol.RVRSPLCVersion, sc); err != nil {
		return v, err
	} else if !ok {
		v.SPLCVersion = notSupported
	} else {
		v.SPLCVersion = s
	}

	return v, nil
}

func (c *Client) readVersionField(ctx context.Context, sel protocol.RVRSelector, sc codec.StringCodec) (string, bool, liberr.Error) {
	out, err := c.eng.SendReceive(ctx, protocol.TagReadVersion, protocol.TagSet{protocol.TagRespVersion}, []byte{byte(sel)}, c.bufferSize(), c.timeout())
	if err != nil {
		return "", false, err
	}
	if !out.OK {
		return "", false, nil
	}

	s, derr := sc.DecodeNul(out.Content)
	if derr != nil {
		return "", false, derr
	}
	return s, true, nil
}

func variantFromControlString(control string) ControlVariant {
	switch {
	case strings.HasPrefix(control, "TNC640"), strings.HasPrefix(control, "TNC620"),
		strings.HasPrefix(control, "TNC320"), strings.HasPrefix(control, "TNC128"):
		return VariantMillNew
	case control == "iTNC530", control == "iTNC530 Programm":
		return VariantMillOld
	case strings.HasPrefix(control, "CNCPILOT640"):
		return VariantLatheNew
	default:
		return VariantMillNew
	}
}

func (c *Client) negotiateBufferSize(ctx context.Context) liberr.Error {
	p, err := c.SystemParameters(ctx, false)
	if err != nil {
		return err
	}

	chosen := 256
	for _, n := range bufferSizeLadder {
		if uint16(n) <= p.MaxBlockLength {
			chosen = n
			break
		}
	}

	if chosen >= 512 {
		cmd, ok := bufferCommandFor(chosen)
		if !ok {
			return ErrorHandshakeFailed.Error(nil)
		}
		if ok, err := c.sendSysCommand(ctx, cmd, nil); err != nil {
			return err
		} else if !ok {
			return ErrorHandshakeFailed.Error(c.lastErrorAsError())
		}
	}

	c.setBufferSize(chosen)
	return nil
}

func bufferCommandFor(size int) (protocol.CCCCommand, bool) {
	switch size {
	case 512:
		return protocol.CCCSetBuf512, true
	case 1024:
		return protocol.CCCSetBuf1024, true
	case 2048:
		return protocol.CCCSetBuf2048, true
	case 3072:
		return protocol.CCCSetBuf3072, true
	case 4096:
		return protocol.CCCSetBuf4096, true
	default:
		return 0, false
	}
}

func (c *Client) negotiateSecureFileSend(ctx context.Context) {
	ok, err := c.sendSysCommand(ctx, protocol.CCCSecureFileSend, nil)
	secure := err == nil && ok

	c.state.Lock()
	c.secure = secure
	c.state.Unlock()
}

func (c *Client) sendSysCommand(ctx context.Context, cmd protocol.CCCCommand, param []byte) (bool, liberr.Error) {
	if !session.SystemCommandAllowed(c.sess.SafeMode(), cmd) {
		return false, nil
	}

	payload := make([]byte, 2+len(param))
	binary.BigEndian.PutUint16(payload[0:2], uint16(cmd))
	copy(payload[2:], param)

	return c.eng.SendReceiveAck(ctx, protocol.TagSysCommand, payload, c.bufferSize(), c.timeout())
}
