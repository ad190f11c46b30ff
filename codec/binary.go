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

import "strings"

// binaryExtensions is the closed allow-list of file-name extensions (without
// the leading dot, lower-cased) that force binary transfer mode. Anything
// not on this list is treated as text.
var binaryExtensions = map[string]bool{
	"bmp":  true, // screen dump images
	"bin":  true, // CNC binary program
	"cfg":  true, // calibration/configuration binaries
	"cyc":  true, // compiled cycle program
	"gif":  true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"zip":  true,
	"rar":  true,
	"pdf":  true,
	"exe":  true,
	"dll":  true,
	"plc":  true, // compiled PLC program
	"mo":   true, // compiled PLC module
	"ads":  true, // tool/pocket table binaries on some control families
	"t":    true,
	"p":    true,
}

// IsBinaryFile classifies path as binary (true) or text (false) by its
// extension. It never inspects file content: the LSV2 wire protocol has no
// other way to learn the intended mode ahead of transfer.
func IsBinaryFile(path string) bool {
	ext := extensionOf(path)
	return binaryExtensions[ext]
}

func extensionOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 || i == len(path)-1 {
		return ""
	}
	return strings.ToLower(path[i+1:])
}
