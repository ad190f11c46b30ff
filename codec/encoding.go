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

package codec

import (
	"strings"

	liberr "github.com/nabbar/lsv2/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// namedEncodings maps the Config.Encoding option to a concrete codepage.
// Names are matched case-insensitively with '-'/'_' stripped, so
// "windows-1252", "Windows_1252" and "WINDOWS1252" all resolve the same way.
var namedEncodings = map[string]encoding.Encoding{
	"windows1252": charmap.Windows1252,
	"windows1250": charmap.Windows1250,
	"windows1251": charmap.Windows1251,
	"cp437":       charmap.CodePage437,
	"cp850":       charmap.CodePage850,
	"cp852":       charmap.CodePage852,
	"iso88591":    charmap.ISO8859_1,
	"iso88592":    charmap.ISO8859_2,
	"iso885915":   charmap.ISO8859_15,
	"latin1":      charmap.ISO8859_1,
}

func normalizeEncodingName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", "")
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, " ", "")
	return name
}

// ResolveEncoding maps a Config.Encoding name to its golang.org/x/text/encoding
// codepage. An empty name resolves to encoding.Nop (UTF-8 pass-through), the
// documented default. Any other unrecognised name is ErrorUnknownEncoding
// rather than a silent fallback, so a typo'd encoding name surfaces instead
// of quietly decoding as UTF-8.
func ResolveEncoding(name string) (encoding.Encoding, liberr.Error) {
	if name == "" {
		return encoding.Nop, nil
	}
	if enc, ok := namedEncodings[normalizeEncodingName(name)]; ok {
		return enc, nil
	}
	return nil, ErrorUnknownEncoding.Error(nil)
}
