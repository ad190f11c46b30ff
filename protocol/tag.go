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

// Package protocol implements the LSV2 telegram framing contract and the
// three dispatch primitives every higher layer (session, filesystem, status
// readers) is built on: a single exchange with content, a single exchange
// acknowledgement, and a multi-packet block receive.
package protocol

// Tag is the 2-ASCII-byte identifier carried by every telegram, naming either
// a command (client to control) or a response (control to client).
type Tag string

func (t Tag) String() string {
	return string(t)
}

// Command tags, client to control.
const (
	TagLoginAdmin    Tag = "A_LG" // A_LG - request an access level
	TagLogoutAdmin   Tag = "A_LO" // A_LO - drop one or all access levels
	TagSysCommand    Tag = "C_CC" // C_CC - system/configuration command
	TagChangeDir     Tag = "C_DC" // C_DC - change working directory
	TagMakeDir       Tag = "C_DM" // C_DM - create directory
	TagDeleteDir     Tag = "C_DD" // C_DD - delete empty directory
	TagCopyFile      Tag = "C_FC" // C_FC - copy file
	TagMoveFile      Tag = "C_FR" // C_FR - move/rename file
	TagDeleteFile    Tag = "C_FD" // C_FD - delete file
	TagSendFile      Tag = "C_FL" // C_FL - begin file upload
	TagKeyboardLock  Tag = "C_LK" // C_LK - lock/unlock keyboard
	TagKeyCode       Tag = "C_EK" // C_EK - send key code
	TagWriteMachPar  Tag = "C_MC" // C_MC - write machine parameter
	TagReadVersion   Tag = "R_VR" // R_VR - read version info
	TagReadSysPar    Tag = "R_PR" // R_PR - read system parameters
	TagReadDirInfo   Tag = "R_DI" // R_DI - read directory info
	TagReadDirCont   Tag = "R_DR" // R_DR - read directory/drive content
	TagReadFileInfo  Tag = "R_FI" // R_FI - read single file info
	TagReadFile      Tag = "R_FL" // R_FL - begin file download
	TagReadPlcMemory Tag = "R_MB" // R_MB - read PLC memory
	TagReadMachPar   Tag = "R_MC" // R_MC - read machine parameter
	TagReadRegInfo   Tag = "R_RI" // R_RI - read register-indexed status
	TagReadDataPath  Tag = "R_DP" // R_DP - read iTNC data path
)

// Response tags, control to client.
const (
	TagRespVersion  Tag = "S_VR" // S_VR - version info payload
	TagRespSysPar   Tag = "S_PR" // S_PR - system parameters payload
	TagRespDirInfo  Tag = "S_DI" // S_DI - directory info payload
	TagRespDirCont  Tag = "S_DR" // S_DR - directory/drive content packet
	TagRespFileInfo Tag = "S_FI" // S_FI - file info payload
	TagRespFile     Tag = "S_FL" // S_FL - file content packet
	TagRespPlcMem   Tag = "S_MB" // S_MB - PLC memory payload
	TagRespMachPar  Tag = "S_MC" // S_MC - machine parameter payload
	TagRespRegInfo  Tag = "S_RI" // S_RI - register-indexed status payload
	TagRespDataPath Tag = "S_DP" // S_DP - iTNC data path payload

	TagOk        Tag = "T_OK" // T_OK - bare acknowledgement / block pull
	TagFinished  Tag = "T_FD" // T_FD - end of block/file transfer
	TagError     Tag = "T_ER" // T_ER - (group, code) error envelope
	TagBadFormat Tag = "T_BD" // T_BD - malformed request, T_ER-style payload
)

// IsErrorTag reports whether t carries a (group, code) error envelope.
func IsErrorTag(t Tag) bool {
	return t == TagError || t == TagBadFormat
}

// TagSet is a small membership helper used by the dispatch primitives to
// test a received tag against an "expected" set without allocating a map
// for every call.
type TagSet []Tag

// Contains reports whether t is a member of s.
func (s TagSet) Contains(t Tag) bool {
	for _, c := range s {
		if c == t {
			return true
		}
	}
	return false
}

// Telegram is the decoded on-wire unit: a tag plus its payload. Framing
// (length prefix) is owned by the transport package; Telegram is the shape
// the protocol engine and transport agree on at their boundary.
type Telegram struct {
	Tag     Tag
	Payload []byte
}
