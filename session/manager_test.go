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

package session_test

import (
	"context"
	"time"

	. "github.com/nabbar/lsv2/session"

	liberr "github.com/nabbar/lsv2/errors"
	"github.com/nabbar/lsv2/protocol"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeDispatcher records every A_LG/A_LO exchange it is asked to perform and
// replays a scripted bool/error result.
type fakeDispatcher struct {
	ok    bool
	err   liberr.Error
	calls []fakeExchange
}

type fakeExchange struct {
	cmd     protocol.Tag
	payload []byte
}

func (f *fakeDispatcher) SendReceiveAck(_ context.Context, cmd protocol.Tag, payload []byte, _ int, _ time.Duration) (bool, liberr.Error) {
	f.calls = append(f.calls, fakeExchange{cmd: cmd, payload: payload})
	return f.ok, f.err
}

var _ = Describe("Manager", func() {
	var dispatch *fakeDispatcher

	BeforeEach(func() {
		dispatch = &fakeDispatcher{ok: true}
	})

	Describe("Login", func() {
		It("sends A_LG with a NUL-terminated login and password", func() {
			m := New(dispatch, false, nil)
			ok, err := m.Login(context.Background(), LevelFileTransfer, "secret", 256, time.Second)
			Expect(err).To(BeNil())
			Expect(ok).To(BeTrue())
			Expect(m.Has(LevelFileTransfer)).To(BeTrue())

			Expect(dispatch.calls).To(HaveLen(1))
			Expect(dispatch.calls[0].cmd).To(Equal(protocol.TagLoginAdmin))
			Expect(dispatch.calls[0].payload).To(Equal([]byte("FILETRANSFER\x00secret\x00")))
		})

		It("omits the password segment when none is given", func() {
			m := New(dispatch, false, nil)
			_, _ = m.Login(context.Background(), LevelInspect, "", 256, time.Second)
			Expect(dispatch.calls[0].payload).To(Equal([]byte("INSPECT\x00")))
		})

		It("is a no-op when the level is already held", func() {
			m := New(dispatch, false, nil)
			_, _ = m.Login(context.Background(), LevelInspect, "", 256, time.Second)
			Expect(dispatch.calls).To(HaveLen(1))

			ok, err := m.Login(context.Background(), LevelInspect, "", 256, time.Second)
			Expect(err).To(BeNil())
			Expect(ok).To(BeTrue())
			Expect(dispatch.calls).To(HaveLen(1), "a second login for an already-held level must not emit a telegram")
		})

		It("rejects a level outside the safe-mode allow-list without emitting a telegram", func() {
			m := New(dispatch, true, nil)
			ok, err := m.Login(context.Background(), LevelPLCDebug, "", 256, time.Second)
			Expect(err).To(BeNil())
			Expect(ok).To(BeFalse())
			Expect(dispatch.calls).To(BeEmpty())
			Expect(m.Has(LevelPLCDebug)).To(BeFalse())
		})

		It("allows every level once safe mode is disabled", func() {
			m := New(dispatch, false, nil)
			ok, err := m.Login(context.Background(), LevelPLCDebug, "", 256, time.Second)
			Expect(err).To(BeNil())
			Expect(ok).To(BeTrue())
		})

		It("does not record the level when the control refuses the login", func() {
			dispatch.ok = false
			m := New(dispatch, false, nil)
			ok, err := m.Login(context.Background(), LevelMonitor, "", 256, time.Second)
			Expect(err).To(BeNil())
			Expect(ok).To(BeFalse())
			Expect(m.Has(LevelMonitor)).To(BeFalse())
		})
	})

	Describe("Logout", func() {
		It("drops a single held level", func() {
			m := New(dispatch, false, nil)
			_, _ = m.Login(context.Background(), LevelInspect, "", 256, time.Second)
			_, _ = m.Login(context.Background(), LevelMonitor, "", 256, time.Second)

			ok, err := m.Logout(context.Background(), LevelInspect, 256, time.Second)
			Expect(err).To(BeNil())
			Expect(ok).To(BeTrue())
			Expect(m.Has(LevelInspect)).To(BeFalse())
			Expect(m.Has(LevelMonitor)).To(BeTrue())
		})

		It("drops every held level when given the empty string", func() {
			m := New(dispatch, false, nil)
			_, _ = m.Login(context.Background(), LevelInspect, "", 256, time.Second)
			_, _ = m.Login(context.Background(), LevelMonitor, "", 256, time.Second)

			ok, err := m.Logout(context.Background(), "", 256, time.Second)
			Expect(err).To(BeNil())
			Expect(ok).To(BeTrue())
			Expect(m.ActiveLevels()).To(BeEmpty())
		})
	})

	Describe("SystemCommandAllowed", func() {
		It("allows every known C_CC sub-command under both safe and unsafe mode", func() {
			Expect(SystemCommandAllowed(true, protocol.CCCSetBuf4096)).To(BeTrue())
			Expect(SystemCommandAllowed(false, protocol.CCCSecureFileSend)).To(BeTrue())
		})
	})
})
