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

// RVRSelector selects which version field R_VR returns. Carried on the wire
// as a single byte.
type RVRSelector byte

const (
	RVRControl     RVRSelector = iota + 1 // control type identification string
	RVRNCVersion                          // NC software version
	RVRPLCVersion                         // PLC software version
	RVROptions                            // installed software options
	RVRID                                 // control ID string
	RVRReleaseType                        // release type (not supported on legacy mill)
	RVRSPLCVersion                        // SPLC version (may be absent)
)

// CCCCommand selects the C_CC system/configuration sub-command. Carried on
// the wire as a big-endian u16.
type CCCCommand uint16

const (
	CCCSetBuf512 CCCCommand = iota + 1
	CCCSetBuf1024
	CCCSetBuf2048
	CCCSetBuf3072
	CCCSetBuf4096
	CCCSecureFileSend
	CCCScreenDump
)

// RDRSelector selects the R_DR listing mode. Carried on the wire as a single
// byte.
type RDRSelector byte

const (
	RDRSingle RDRSelector = iota + 1 // list the current directory
	RDRDrives                        // list available drives
)

// RRISelector selects which register-indexed status field R_RI returns.
// Carried on the wire as a big-endian u16.
type RRISelector uint16

const (
	RRIProgramState RRISelector = iota + 1
	RRISelectedProgram
	RRIExecutionState
	RRIOverride
	RRICurrentTool
	RRIFirstError
	RRINextError
	RRIAxisLocation
)

// ModeBinary is the file-transfer mode byte selecting binary transfer;
// text mode is the zero byte.
const ModeBinary byte = 1

// PathSeparator is the on-wire path separator. Every inbound path has '/'
// replaced by this byte before being placed on the wire.
const PathSeparator = '\\'
