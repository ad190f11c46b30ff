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
	"math"
	"strconv"
	"strings"

	"github.com/nabbar/lsv2/codec"
	liberr "github.com/nabbar/lsv2/errors"
	"github.com/nabbar/lsv2/protocol"
)

// ProgramState is the decoded PGM_STATE register value.
type ProgramState uint16

const (
	ProgramUndefined ProgramState = iota
	ProgramStarted
	ProgramStopped
	ProgramFinished
	ProgramCancelled
	ProgramInterrupted
	ProgramError
	ProgramIdle
)

// ExecState is the decoded EXEC_STATE register value.
type ExecState uint16

const (
	ExecUndefined ExecState = iota
	ExecManual
	ExecMDI
	ExecPass
	ExecSingleStep
	ExecAutomatic
	ExecSuspended
)

func (c *Client) readRegister(ctx context.Context, sel protocol.RRISelector) ([]byte, bool, liberr.Error) {
	payload := make([]byte, 2)
	binary.BigEndian.PutUint16(payload, uint16(sel))

	out, err := c.eng.SendReceive(ctx, protocol.TagReadRegInfo, protocol.TagSet{protocol.TagRespRegInfo}, payload, c.bufferSize(), c.timeout())
	if err != nil {
		return nil, false, err
	}
	if !out.OK {
		return nil, false, nil
	}
	return out.Content, true, nil
}

// GetProgramState reads PGM_STATE. DNC login is required by the control.
func (c *Client) GetProgramState(ctx context.Context) (ProgramState, liberr.Error) {
	b, ok, err := c.readRegister(ctx, protocol.RRIProgramState)
	if err != nil {
		return ProgramUndefined, err
	}
	if !ok || len(b) < 2 {
		return ProgramUndefined, ErrorControlReported.Error(c.lastErrorAsError())
	}
	return ProgramState(binary.BigEndian.Uint16(b[0:2])), nil
}

// GetExecutionState reads EXEC_STATE. DNC login is required by the control.
func (c *Client) GetExecutionState(ctx context.Context) (ExecState, liberr.Error) {
	b, ok, err := c.readRegister(ctx, protocol.RRIExecutionState)
	if err != nil {
		return ExecUndefined, err
	}
	if !ok || len(b) < 2 {
		return ExecUndefined, ErrorControlReported.Error(c.lastErrorAsError())
	}
	return ExecState(binary.BigEndian.Uint16(b[0:2])), nil
}

// StackInfo is the decoded call-stack depth/current line/current program
// triple read from the SELECTED_PGM register family.
type StackInfo struct {
	Depth       uint16
	Line        uint32
	ProgramName string
}

// GetStackInfo reads SELECTED_PGM and decodes the call-stack summary.
func (c *Client) GetStackInfo(ctx context.Context) (StackInfo, liberr.Error) {
	b, ok, err := c.readRegister(ctx, protocol.RRISelectedProgram)
	if err != nil {
		return StackInfo{}, err
	}
	if !ok || len(b) < 6 {
		return StackInfo{}, ErrorControlReported.Error(c.lastErrorAsError())
	}

	si := StackInfo{
		Depth: binary.BigEndian.Uint16(b[0:2]),
		Line:  binary.BigEndian.Uint32(b[2:6]),
	}
	name, derr := c.stringCodec().DecodeNul(b[6:])
	if derr != nil {
		return si, derr
	}
	si.ProgramName = name
	return si, nil
}

// GetCurrentTool reads CURRENT_TOOL.
func (c *Client) GetCurrentTool(ctx context.Context) (codec.ToolInfo, liberr.Error) {
	b, ok, err := c.readRegister(ctx, protocol.RRICurrentTool)
	if err != nil {
		return codec.ToolInfo{}, err
	}
	if !ok {
		return codec.ToolInfo{}, ErrorControlReported.Error(c.lastErrorAsError())
	}
	return codec.DecodeToolInformation(b)
}

// GetOverrideInfo reads OVERRIDE.
func (c *Client) GetOverrideInfo(ctx context.Context) (codec.OverrideInfo, liberr.Error) {
	b, ok, err := c.readRegister(ctx, protocol.RRIOverride)
	if err != nil {
		return codec.OverrideInfo{}, err
	}
	if !ok {
		return codec.OverrideInfo{}, ErrorControlReported.Error(c.lastErrorAsError())
	}
	return codec.DecodeOverrideInformation(b)
}

// GetErrorMessages enumerates every pending control error, starting with
// FIRST_ERROR and repeating NEXT_ERROR until the control reports the
// T_ER_NO_NEXT_ERROR sentinel, which ends the loop normally rather than as
// a failure.
func (c *Client) GetErrorMessages(ctx context.Context) ([]codec.ErrorMessage, liberr.Error) {
	msgs := make([]codec.ErrorMessage, 0)
	sc := c.stringCodec()

	b, ok, err := c.readRegister(ctx, protocol.RRIFirstError)
	if err != nil {
		return nil, err
	}
	if !ok {
		return msgs, nil
	}

	for {
		m, derr := codec.DecodeErrorMessage(b, sc)
		if derr != nil {
			return msgs, derr
		}
		msgs = append(msgs, m)

		next, ok, err := c.readRegister(ctx, protocol.RRINextError)
		if err != nil {
			return msgs, err
		}
		if !ok {
			if ce := c.LastError(); ce != nil && ce.IsNoNextError() {
				return msgs, nil
			}
			return msgs, nil
		}
		b = next
	}
}

// ReadMachineParameter reads R_MC/S_MC for name. INSPECT access is
// required by the control.
func (c *Client) ReadMachineParameter(ctx context.Context, name string) (string, liberr.Error) {
	out, err := c.eng.SendReceive(ctx, protocol.TagReadMachPar, protocol.TagSet{protocol.TagRespMachPar}, nulTerminated(name), c.bufferSize(), c.timeout())
	if err != nil {
		return "", err
	}
	if !out.OK {
		return "", ErrorControlReported.Error(c.lastErrorAsError())
	}
	return c.stringCodec().DecodeNul(out.Content)
}

// WriteMachineParameter writes name=value. persist selects whether the
// change is written to disk (true) or left volatile (false). PLCDEBUG
// access is required by the control.
func (c *Client) WriteMachineParameter(ctx context.Context, name, value string, persist bool) (bool, liberr.Error) {
	flag := uint32(1)
	if persist {
		flag = 0
	}

	payload := make([]byte, 4)
	binary.BigEndian.PutUint32(payload, flag)
	payload = append(payload, nulTerminated(name)...)
	payload = append(payload, nulTerminated(value)...)

	return c.eng.SendReceiveAck(ctx, protocol.TagWriteMachPar, payload, c.bufferSize(), c.timeout())
}

// SetKeyboardLock locks (true) or unlocks (false) the control's keyboard.
// MONITOR access is required by the control.
func (c *Client) SetKeyboardLock(ctx context.Context, locked bool) (bool, liberr.Error) {
	var b byte
	if locked {
		b = 1
	}
	return c.eng.SendReceiveAck(ctx, protocol.TagKeyboardLock, []byte{b}, c.bufferSize(), c.timeout())
}

// SendKeyCode sends one simulated key press. MONITOR access is required
// by the control.
func (c *Client) SendKeyCode(ctx context.Context, code uint16) (bool, liberr.Error) {
	payload := make([]byte, 2)
	binary.BigEndian.PutUint16(payload, code)
	return c.eng.SendReceiveAck(ctx, protocol.TagKeyCode, payload, c.bufferSize(), c.timeout())
}

// MemoryType selects which PLC memory region ReadPLCMemory reads.
type MemoryType uint8

const (
	MemoryMarker MemoryType = iota
	MemoryInput
	MemoryOutput
	MemoryCounter
	MemoryTimer
	MemoryByte
	MemoryWord
	MemoryDWord
	MemoryString
	MemoryInputWord
	MemoryOutputWord
)

type memoryLayout struct {
	start    uint32
	maxCount uint16
	size     uint16
}

func (c *Client) memoryLayout(t MemoryType) (memoryLayout, liberr.Error) {
	p := c.cachedSystemParameters()

	switch t {
	case MemoryMarker:
		return memoryLayout{p.MarkerStart, p.MarkerCount, 1}, nil
	case MemoryInput:
		return memoryLayout{p.InputStart, p.InputCount, 1}, nil
	case MemoryOutput:
		return memoryLayout{p.OutputStart, p.OutputCount, 1}, nil
	case MemoryCounter:
		return memoryLayout{p.CounterStart, p.CounterCount, 1}, nil
	case MemoryTimer:
		return memoryLayout{p.TimerStart, p.TimerCount, 1}, nil
	case MemoryByte:
		return memoryLayout{p.WordStart, p.WordCount * 2, 1}, nil
	case MemoryWord:
		return memoryLayout{p.WordStart, p.WordCount, 2}, nil
	case MemoryDWord:
		return memoryLayout{p.WordStart, p.WordCount / 4, 4}, nil
	case MemoryString:
		return memoryLayout{p.StringStart, p.StringCount, p.StringLength}, nil
	case MemoryInputWord:
		return memoryLayout{p.InputWordStart, p.InputWordCount, 2}, nil
	case MemoryOutputWord:
		return memoryLayout{p.OutputWordStart, p.OutputWordCount, 2}, nil
	default:
		return memoryLayout{}, ErrorUnknownMemoryType.Error(nil)
	}
}

func (c *Client) cachedSystemParameters() codec.SystemParameters {
	c.state.Lock()
	defer c.state.Unlock()
	return c.sysPar
}

// ReadPLCMemory reads count elements of type t starting at address
// (relative, 0-based). count must not exceed 255 nor the per-type maximum.
// STRING reads are looped one element per request since each element may
// span up to the control's declared string length.
func (c *Client) ReadPLCMemory(ctx context.Context, t MemoryType, address uint32, count int) ([][]byte, liberr.Error) {
	layout, err := c.memoryLayout(t)
	if err != nil {
		return nil, err
	}

	if count > 0xFF {
		return nil, ErrorElementCountExceeded.Error(nil)
	}
	if uint16(count) > layout.maxCount {
		return nil, ErrorElementCountExceeded.Error(nil)
	}

	if t == MemoryString {
		values := make([][]byte, 0, count)
		for i := 0; i < count; i++ {
			addr := layout.start + (address+uint32(i))*uint32(layout.size)
			b, rerr := c.readMemoryChunk(ctx, addr, byte(layout.size))
			if rerr != nil {
				return nil, rerr
			}
			values = append(values, b)
		}
		return values, nil
	}

	totalBytes := count * int(layout.size)
	if totalBytes > 0xFF {
		return nil, ErrorElementCountExceeded.Error(nil)
	}

	addr := layout.start + address*uint32(layout.size)
	b, rerr := c.readMemoryChunk(ctx, addr, byte(totalBytes))
	if rerr != nil {
		return nil, rerr
	}

	values := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		off := i * int(layout.size)
		values = append(values, b[off:off+int(layout.size)])
	}
	return values, nil
}

func (c *Client) readMemoryChunk(ctx context.Context, address uint32, byteCount byte) ([]byte, liberr.Error) {
	payload := make([]byte, 5)
	binary.BigEndian.PutUint32(payload[0:4], address)
	payload[4] = byteCount

	out, err := c.eng.SendReceive(ctx, protocol.TagReadPlcMemory, protocol.TagSet{protocol.TagRespPlcMem}, payload, c.bufferSize(), c.timeout())
	if err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, ErrorControlReported.Error(c.lastErrorAsError())
	}
	return out.Content, nil
}

// DataPathValue is the decoded R_DP/S_DP result: exactly one of the typed
// fields is populated, matching the value type code carried on the wire.
type DataPathValue struct {
	TypeCode int32
	Int16    int16
	Int32    int32
	Float64  float64
	String   string
	Bool     bool
	Int8     int8
	UInt8    uint8
}

// ReadDataPath reads the iTNC data path at path.
func (c *Client) ReadDataPath(ctx context.Context, path string) (DataPathValue, liberr.Error) {
	norm := strings.NewReplacer("/", string(protocol.PathSeparator), "\"", "'").Replace(path)

	payload := make([]byte, 4, 4+len(norm)+1)
	payload = append(payload, nulTerminated(norm)...)

	out, err := c.eng.SendReceive(ctx, protocol.TagReadDataPath, protocol.TagSet{protocol.TagRespDataPath}, payload, c.bufferSize(), c.timeout())
	if err != nil {
		return DataPathValue{}, err
	}
	if !out.OK {
		return DataPathValue{}, ErrorControlReported.Error(c.lastErrorAsError())
	}

	return decodeDataPathValue(out.Content, c.stringCodec())
}

func decodeDataPathValue(b []byte, sc codec.StringCodec) (DataPathValue, liberr.Error) {
	if len(b) < 4 {
		return DataPathValue{}, ErrorControlReported.Error(nil)
	}

	typeCode := int32(binary.BigEndian.Uint32(b[0:4]))
	rest := b[4:]
	v := DataPathValue{TypeCode: typeCode}

	switch typeCode {
	case 2:
		if len(rest) < 2 {
			return v, ErrorControlReported.Error(nil)
		}
		v.Int16 = int16(binary.BigEndian.Uint16(rest))
	case 3:
		if len(rest) < 4 {
			return v, ErrorControlReported.Error(nil)
		}
		v.Int32 = int32(binary.BigEndian.Uint32(rest))
	case 5:
		if len(rest) < 8 {
			return v, ErrorControlReported.Error(nil)
		}
		v.Float64 = math.Float64frombits(binary.LittleEndian.Uint64(rest))
	case 8:
		s, err := sc.DecodeNul(rest)
		if err != nil {
			return v, err
		}
		v.String = s
	case 11:
		if len(rest) < 1 {
			return v, ErrorControlReported.Error(nil)
		}
		v.Bool = rest[0] != 0
	case 16:
		if len(rest) < 1 {
			return v, ErrorControlReported.Error(nil)
		}
		v.Int8 = int8(rest[0])
	case 17:
		if len(rest) < 1 {
			return v, ErrorControlReported.Error(nil)
		}
		v.UInt8 = rest[0]
	default:
		return v, ErrorControlReported.Error(nil)
	}

	return v, nil
}

// AxisLocation is one decoded axis entry: its label and numeric position.
type AxisLocation struct {
	Label string
	Value float64
}

// GetAxesLocation reads AXIS_LOCATION and decodes the label/value pairs.
func (c *Client) GetAxesLocation(ctx context.Context) ([]AxisLocation, liberr.Error) {
	b, ok, err := c.readRegister(ctx, protocol.RRIAxisLocation)
	if err != nil {
		return nil, err
	}
	if !ok || len(b) < 2 {
		return nil, ErrorControlReported.Error(c.lastErrorAsError())
	}

	n := int(b[1])
	fields := codec.SplitNulDelimited(b[2:])
	if len(fields) < 2*n {
		return nil, ErrorControlReported.Error(nil)
	}

	sc := c.stringCodec()
	out := make([]AxisLocation, 0, n)
	for i := 0; i < n; i++ {
		valueStr, err := sc.DecodeNul(fields[i])
		if err != nil {
			return nil, err
		}
		label, err := sc.DecodeNul(fields[n+i])
		if err != nil {
			return nil, err
		}
		f, perr := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
		if perr != nil {
			f = 0
		}
		out = append(out, AxisLocation{Label: label, Value: f})
	}
	return out, nil
}
