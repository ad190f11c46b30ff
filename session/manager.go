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

package session

import (
	"context"
	"sync"
	"time"

	liberr "github.com/nabbar/lsv2/errors"
	"github.com/nabbar/lsv2/logging"
	"github.com/nabbar/lsv2/protocol"
	"github.com/sirupsen/logrus"
)

// Dispatcher is the narrow protocol-engine contract the session manager
// needs to serialise A_LG/A_LO exchanges.
type Dispatcher interface {
	SendReceiveAck(ctx context.Context, cmd protocol.Tag, payload []byte, bufferSize int, timeout time.Duration) (bool, liberr.Error)
}

// Manager tracks the access levels held on one connection and enforces the
// safe-mode allow-list. Safe mode is fixed at construction; it never
// changes for the lifetime of a Manager.
type Manager struct {
	mu       sync.Mutex
	active   map[AccessLevel]bool
	safeMode bool
	dispatch Dispatcher
	log      *logrus.Entry
}

// New returns a Manager bound to dispatch, enforcing safeMode's allow-list.
func New(dispatch Dispatcher, safeMode bool, log *logrus.Entry) *Manager {
	return &Manager{
		active:   make(map[AccessLevel]bool),
		safeMode: safeMode,
		dispatch: dispatch,
		log:      logging.Component(log, "session"),
	}
}

// SafeMode reports whether this manager enforces the restricted allow-list.
func (m *Manager) SafeMode() bool { return m.safeMode }

// ActiveLevels returns the access levels currently held, in no particular
// order.
func (m *Manager) ActiveLevels() []AccessLevel {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := make([]AccessLevel, 0, len(m.active))
	for l := range m.active {
		r = append(r, l)
	}
	return r
}

// Has reports whether level is currently held.
func (m *Manager) Has(level AccessLevel) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[level]
}

// Login requests level, no-op if already held. It is rejected locally,
// without emitting a telegram, if level is not in the safe-mode allow-list.
func (m *Manager) Login(ctx context.Context, level AccessLevel, password string, bufferSize int, timeout time.Duration) (bool, liberr.Error) {
	if m.Has(level) {
		m.log.WithField("level", string(level)).Debug("login already active")
		return true, nil
	}

	if !containsLevel(allowedLevels(m.safeMode), level) {
		m.log.WithField("level", string(level)).Warn("login rejected by safe mode")
		return false, nil
	}

	payload := buildCredentialPayload(string(level), password)

	ok, err := m.dispatch.SendReceiveAck(ctx, protocol.TagLoginAdmin, payload, bufferSize, timeout)
	if err != nil {
		return false, err
	}
	if !ok {
		m.log.WithField("level", string(level)).Error("login failed")
		return false, nil
	}

	m.mu.Lock()
	m.active[level] = true
	m.mu.Unlock()

	m.log.WithField("level", string(level)).Info("login succeeded")
	return true, nil
}

// Logout drops level, or every held level if level is the empty string.
func (m *Manager) Logout(ctx context.Context, level AccessLevel, bufferSize int, timeout time.Duration) (bool, liberr.Error) {
	payload := []byte(nil)
	if level != "" {
		payload = buildCredentialPayload(string(level), "")
	}

	ok, err := m.dispatch.SendReceiveAck(ctx, protocol.TagLogoutAdmin, payload, bufferSize, timeout)
	if err != nil {
		return false, err
	}
	if !ok {
		m.log.WithField("level", string(level)).Error("logout failed")
		return false, nil
	}

	m.mu.Lock()
	if level == "" {
		m.active = make(map[AccessLevel]bool)
	} else {
		delete(m.active, level)
	}
	m.mu.Unlock()

	m.log.WithField("level", string(level)).Info("logout succeeded")
	return true, nil
}

func buildCredentialPayload(login, password string) []byte {
	b := make([]byte, 0, len(login)+len(password)+2)
	b = append(b, login...)
	b = append(b, 0x00)
	if password != "" {
		b = append(b, password...)
		b = append(b, 0x00)
	}
	return b
}

// SystemCommandAllowed reports whether cmd may be issued under the given
// safe-mode setting. In the current enumeration every known C_CC
// sub-command (buffer-size selection, secure-file-send, screen-dump) is
// already in the safe-mode allow-list, so this only rejects values outside
// the known enumeration.
func SystemCommandAllowed(safeMode bool, cmd protocol.CCCCommand) bool {
	switch cmd {
	case protocol.CCCSetBuf512, protocol.CCCSetBuf1024, protocol.CCCSetBuf2048,
		protocol.CCCSetBuf3072, protocol.CCCSetBuf4096,
		protocol.CCCSecureFileSend, protocol.CCCScreenDump:
		return true
	default:
		return false
	}
}
