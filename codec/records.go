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
	"encoding/binary"
	"math"

	liberr "github.com/nabbar/lsv2/errors"
)

// SystemParameters is the decoded R_PR / S_PR payload: the start address and
// element count for each PLC memory region, plus the control's maximum
// block length and protocol version the connection configurator consumes.
type SystemParameters struct {
	MarkerStart     uint32
	MarkerCount     uint16
	InputStart      uint32
	InputCount      uint16
	OutputStart     uint32
	OutputCount     uint16
	CounterStart    uint32
	CounterCount    uint16
	TimerStart      uint32
	TimerCount      uint16
	WordStart       uint32
	WordCount       uint16
	StringStart     uint32
	StringCount     uint16
	StringLength    uint16
	InputWordStart  uint32
	InputWordCount  uint16
	OutputWordStart uint32
	OutputWordCount uint16
	MaxBlockLength  uint16
	LSV2VersionMaj  uint16
	LSV2VersionMin  uint16
}

const systemParametersSize = 62

// DecodeSystemParameters decodes a S_PR payload. All fields are big-endian.
func DecodeSystemParameters(b []byte) (SystemParameters, liberr.Error) {
	var p SystemParameters
	if len(b) < systemParametersSize {
		return p, ErrorShortRecord.Error(nil)
	}

	be := binary.BigEndian
	p.MarkerStart = be.Uint32(b[0:4])
	p.MarkerCount = be.Uint16(b[4:6])
	p.InputStart = be.Uint32(b[6:10])
	p.InputCount = be.Uint16(b[10:12])
	p.OutputStart = be.Uint32(b[12:16])
	p.OutputCount = be.Uint16(b[16:18])
	p.CounterStart = be.Uint32(b[18:22])
	p.CounterCount = be.Uint16(b[22:24])
	p.TimerStart = be.Uint32(b[24:28])
	p.TimerCount = be.Uint16(b[28:30])
	p.WordStart = be.Uint32(b[30:34])
	p.WordCount = be.Uint16(b[34:36])
	p.StringStart = be.Uint32(b[36:40])
	p.StringCount = be.Uint16(b[40:42])
	p.StringLength = be.Uint16(b[42:44])
	p.InputWordStart = be.Uint32(b[44:48])
	p.InputWordCount = be.Uint16(b[48:50])
	p.OutputWordStart = be.Uint32(b[50:54])
	p.OutputWordCount = be.Uint16(b[54:56])
	p.MaxBlockLength = be.Uint16(b[56:58])
	p.LSV2VersionMaj = be.Uint16(b[58:60])
	p.LSV2VersionMin = be.Uint16(b[60:62])

	return p, nil
}

// EncodeSystemParameters is the inverse of DecodeSystemParameters, used by
// the round-trip tests and by the loopback mock control fixture.
func EncodeSystemParameters(p SystemParameters) []byte {
	b := make([]byte, systemParametersSize)
	be := binary.BigEndian

	be.PutUint32(b[0:4], p.MarkerStart)
	be.PutUint16(b[4:6], p.MarkerCount)
	be.PutUint32(b[6:10], p.InputStart)
	be.PutUint16(b[10:12], p.InputCount)
	be.PutUint32(b[12:16], p.OutputStart)
	be.PutUint16(b[16:18], p.OutputCount)
	be.PutUint32(b[18:22], p.CounterStart)
	be.PutUint16(b[22:24], p.CounterCount)
	be.PutUint32(b[24:28], p.TimerStart)
	be.PutUint16(b[28:30], p.TimerCount)
	be.PutUint32(b[30:34], p.WordStart)
	be.PutUint16(b[34:36], p.WordCount)
	be.PutUint32(b[36:40], p.StringStart)
	be.PutUint16(b[40:42], p.StringCount)
	be.PutUint16(b[42:44], p.StringLength)
	be.PutUint32(b[44:48], p.InputWordStart)
	be.PutUint16(b[48:50], p.InputWordCount)
	be.PutUint32(b[50:54], p.OutputWordStart)
	be.PutUint16(b[54:56], p.OutputWordCount)
	be.PutUint16(b[56:58], p.MaxBlockLength)
	be.PutUint16(b[58:60], p.LSV2VersionMaj)
	be.PutUint16(b[60:62], p.LSV2VersionMin)

	return b
}

// DirectoryInfo is the decoded R_DI / S_DI payload: the free space on the
// current drive, the attribute flags of the current directory, and its
// full path.
type DirectoryInfo struct {
	FreeSpace  uint32
	Attributes byte
	Path       string
}

// Attribute bits shared by DirectoryInfo and FileSystemEntry.
const (
	AttrDirectory byte = 1 << iota
	AttrDrive
	AttrHidden
	AttrReadOnly
)

func DecodeDirectoryInfo(b []byte, sc StringCodec) (DirectoryInfo, liberr.Error) {
	var d DirectoryInfo
	if len(b) < 5 {
		return d, ErrorShortRecord.Error(nil)
	}

	d.FreeSpace = binary.BigEndian.Uint32(b[0:4])
	d.Attributes = b[4]

	path, err := sc.DecodeNul(b[5:])
	if err != nil {
		return d, err
	}
	d.Path = path
	return d, nil
}

// FileSystemEntry is one decoded S_DR packet: a directory or drive entry.
// Control-variant affects header width: legacy mill controls (MILL_OLD)
// carry no timestamp field.
type FileSystemEntry struct {
	Size      uint32
	Timestamp uint32
	HasTime   bool
	Attr      byte
	Name      string
}

// DecodeFileSystemEntry decodes one S_DR packet. hasTimestamp selects the
// wider header carried by current controls; legacy mill controls omit the
// timestamp field entirely.
func DecodeFileSystemEntry(b []byte, hasTimestamp bool, sc StringCodec) (FileSystemEntry, liberr.Error) {
	var e FileSystemEntry

	headerLen := 5
	if hasTimestamp {
		headerLen = 9
	}
	if len(b) < headerLen+1 {
		return e, ErrorShortRecord.Error(nil)
	}

	be := binary.BigEndian
	e.Size = be.Uint32(b[0:4])
	if hasTimestamp {
		e.Timestamp = be.Uint32(b[4:8])
		e.HasTime = true
		e.Attr = b[8]
	} else {
		e.Attr = b[4]
	}

	name, err := sc.DecodeNul(b[headerLen:])
	if err != nil {
		return e, err
	}
	e.Name = name
	return e, nil
}

// IsDir reports whether the entry's attribute byte marks it as a directory.
func (e FileSystemEntry) IsDir() bool { return e.Attr&AttrDirectory != 0 }

// ToolInfo is the decoded S_RI (CURRENT_TOOL) payload: little-endian numeric
// triple identifying the tool currently in the spindle.
type ToolInfo struct {
	Number uint32
	Length float64
	Radius float64
}

const toolInfoSize = 20

func DecodeToolInformation(b []byte) (ToolInfo, liberr.Error) {
	var t ToolInfo
	if len(b) < toolInfoSize {
		return t, ErrorShortRecord.Error(nil)
	}

	le := binary.LittleEndian
	t.Number = le.Uint32(b[0:4])
	t.Length = math.Float64frombits(le.Uint64(b[4:12]))
	t.Radius = math.Float64frombits(le.Uint64(b[12:20]))
	return t, nil
}

func EncodeToolInformation(t ToolInfo) []byte {
	b := make([]byte, toolInfoSize)
	le := binary.LittleEndian
	le.PutUint32(b[0:4], t.Number)
	le.PutUint64(b[4:12], math.Float64bits(t.Length))
	le.PutUint64(b[12:20], math.Float64bits(t.Radius))
	return b
}

// OverrideInfo is the decoded S_RI (OVERRIDE) payload: little-endian numeric
// triple of override percentages.
type OverrideInfo struct {
	Feed  float64
	Speed float64
	Rapid float64
}

const overrideInfoSize = 24

func DecodeOverrideInformation(b []byte) (OverrideInfo, liberr.Error) {
	var o OverrideInfo
	if len(b) < overrideInfoSize {
		return o, ErrorShortRecord.Error(nil)
	}

	le := binary.LittleEndian
	o.Feed = math.Float64frombits(le.Uint64(b[0:8]))
	o.Speed = math.Float64frombits(le.Uint64(b[8:16]))
	o.Rapid = math.Float64frombits(le.Uint64(b[16:24]))
	return o, nil
}

func EncodeOverrideInformation(o OverrideInfo) []byte {
	b := make([]byte, overrideInfoSize)
	le := binary.LittleEndian
	le.PutUint64(b[0:8], math.Float64bits(o.Feed))
	le.PutUint64(b[8:16], math.Float64bits(o.Speed))
	le.PutUint64(b[16:24], math.Float64bits(o.Rapid))
	return b
}

// ErrorMessage is one decoded error-list entry: the (group, code) pair plus
// the four NUL-terminated text segments the control reports alongside it.
type ErrorMessage struct {
	Group     byte
	Code      byte
	Channel   string
	GroupText string
	Type      string
	Text      string
}

func DecodeErrorMessage(b []byte, sc StringCodec) (ErrorMessage, liberr.Error) {
	var m ErrorMessage
	if len(b) < 2 {
		return m, ErrorShortRecord.Error(nil)
	}

	m.Group = b[0]
	m.Code = b[1]

	rest := b[2:]
	var err liberr.Error

	m.Channel, rest, err = readNulField(rest, sc)
	if err != nil {
		return m, err
	}
	m.GroupText, rest, err = readNulField(rest, sc)
	if err != nil {
		return m, err
	}
	m.Type, rest, err = readNulField(rest, sc)
	if err != nil {
		return m, err
	}
	m.Text, _, err = readNulField(rest, sc)
	if err != nil {
		return m, err
	}

	return m, nil
}

func readNulField(b []byte, sc StringCodec) (string, []byte, liberr.Error) {
	i := indexNul(b)
	if i < 0 {
		s, err := sc.DecodeNul(b)
		return s, nil, err
	}

	s, err := sc.DecodeNul(b[:i])
	if err != nil {
		return "", nil, err
	}
	return s, b[i+1:], nil
}

func indexNul(b []byte) int {
	for i, c := range b {
		if c == 0x00 {
			return i
		}
	}
	return -1
}
