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

// Package logging carries the single logrus.Entry every layer of this module
// logs through, so callers never have to pass a *logrus.Logger around and
// every package can add its own fields (component, tag, remote address)
// without fighting over a shared logger instance.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Fields is a short alias kept local so callers building a contextual entry
// do not need to import logrus directly.
type Fields = logrus.Fields

// Discard returns an Entry bound to a logger that writes nowhere. OrDiscard
// falls back to it for a nil entry, and the root Client builds every layer
// on it.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// OrDiscard returns entry unchanged if non nil, otherwise a Discard entry.
// Every package that accepts an injected *logrus.Entry funnels it through
// this helper once, at construction time, so the rest of the code never
// needs a nil check before logging.
func OrDiscard(entry *logrus.Entry) *logrus.Entry {
	if entry == nil {
		return Discard()
	}
	return entry
}

// Component returns a derived entry with a "component" field set, following
// the convention used across this module's packages (transport, protocol,
// session, client) to make interleaved log lines attributable at a glance.
func Component(entry *logrus.Entry, name string) *logrus.Entry {
	return OrDiscard(entry).WithField("component", name)
}
