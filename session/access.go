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

// Package session tracks the access levels held on one LSV2 connection and
// enforces the safe-mode allow-list. It knows how to build A_LG/A_LO
// payloads; it does not know how to dispatch them (that is the protocol
// engine's job), so a Manager is constructed around a Dispatcher.
package session

// AccessLevel is a named authorisation scope obtained via A_LG.
type AccessLevel string

const (
	LevelInspect     AccessLevel = "INSPECT"
	LevelFileTransfer AccessLevel = "FILETRANSFER"
	LevelMonitor     AccessLevel = "MONITOR"
	LevelDNC         AccessLevel = "DNC"
	LevelPLCDebug    AccessLevel = "PLCDEBUG"
	LevelData        AccessLevel = "DATA"
)

// allLevels is the full enumeration, used when safe mode is disabled.
var allLevels = []AccessLevel{LevelInspect, LevelFileTransfer, LevelMonitor, LevelDNC, LevelPLCDebug, LevelData}

// safeLevels is the allow-list enforced when safe mode is enabled.
var safeLevels = []AccessLevel{LevelInspect, LevelFileTransfer, LevelMonitor}

func allowedLevels(safeMode bool) []AccessLevel {
	if safeMode {
		return safeLevels
	}
	return allLevels
}

func containsLevel(levels []AccessLevel, l AccessLevel) bool {
	for _, v := range levels {
		if v == l {
			return true
		}
	}
	return false
}
