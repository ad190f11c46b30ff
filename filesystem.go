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
	"io"
	"os"
	"strings"
	"time"

	"github.com/nabbar/lsv2/codec"
	liberr "github.com/nabbar/lsv2/errors"
	"github.com/nabbar/lsv2/protocol"
)

// normalizePath replaces every '/' with the wire path separator, matching
// the "every inbound path is normalised before being placed on the wire"
// rule.
func normalizePath(path string) string {
	return strings.ReplaceAll(path, "/", string(protocol.PathSeparator))
}

func nulTerminated(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// ChangeDirectory issues C_DC for path.
func (c *Client) ChangeDirectory(ctx context.Context, path string) (bool, liberr.Error) {
	return c.eng.SendReceiveAck(ctx, protocol.TagChangeDir, nulTerminated(normalizePath(path)), c.bufferSize(), c.timeout())
}

// GetDirectoryInfo reads R_DI/S_DI for the current working directory.
func (c *Client) GetDirectoryInfo(ctx context.Context) (codec.DirectoryInfo, liberr.Error) {
	out, err := c.eng.SendReceive(ctx, protocol.TagReadDirInfo, protocol.TagSet{protocol.TagRespDirInfo}, nil, c.bufferSize(), c.timeout())
	if err != nil {
		return codec.DirectoryInfo{}, err
	}
	if !out.OK {
		return codec.DirectoryInfo{}, ErrorControlReported.Error(c.lastErrorAsError())
	}
	return codec.DecodeDirectoryInfo(out.Content, c.stringCodec())
}

func (c *Client) readDirContent(ctx context.Context, sel protocol.RDRSelector) ([]codec.FileSystemEntry, liberr.Error) {
	packets, err := c.eng.SendReceiveBlock(ctx, protocol.TagReadDirCont, protocol.TagSet{protocol.TagRespDirCont}, []byte{byte(sel)}, c.bufferSize(), c.timeout())
	if err != nil {
		return nil, err
	}

	hasTime := c.Variant() != VariantMillOld
	sc := c.stringCodec()

	entries := make([]codec.FileSystemEntry, 0, len(packets))
	for _, p := range packets {
		e, derr := codec.DecodeFileSystemEntry(p, hasTime, sc)
		if derr != nil {
			return nil, derr
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// GetDirectoryContent lists the current working directory.
func (c *Client) GetDirectoryContent(ctx context.Context) ([]codec.FileSystemEntry, liberr.Error) {
	return c.readDirContent(ctx, protocol.RDRSingle)
}

// GetDriveInfo lists the available drives.
func (c *Client) GetDriveInfo(ctx context.Context) ([]codec.FileSystemEntry, liberr.Error) {
	return c.readDirContent(ctx, protocol.RDRDrives)
}

// GetFileInfo reads R_FI/S_FI for path. An absent file is reported as
// (zero value, false, nil): a warning-level condition, not a fatal one.
func (c *Client) GetFileInfo(ctx context.Context, path string) (codec.FileSystemEntry, bool, liberr.Error) {
	out, err := c.eng.SendReceive(ctx, protocol.TagReadFileInfo, protocol.TagSet{protocol.TagRespFileInfo}, nulTerminated(normalizePath(path)), c.bufferSize(), c.timeout())
	if err != nil {
		return codec.FileSystemEntry{}, false, err
	}
	if !out.OK {
		return codec.FileSystemEntry{}, false, nil
	}

	hasTime := c.Variant() != VariantMillOld
	e, derr := codec.DecodeFileSystemEntry(out.Content, hasTime, c.stringCodec())
	if derr != nil {
		return codec.FileSystemEntry{}, false, derr
	}
	return e, true, nil
}

// FileExists is a thin predicate over GetFileInfo.
func (c *Client) FileExists(ctx context.Context, path string) (bool, liberr.Error) {
	e, ok, err := c.GetFileInfo(ctx, path)
	if err != nil {
		return false, err
	}
	return ok && !e.IsDir(), nil
}

// DirectoryExists is a thin predicate over GetFileInfo.
func (c *Client) DirectoryExists(ctx context.Context, path string) (bool, liberr.Error) {
	e, ok, err := c.GetFileInfo(ctx, path)
	if err != nil {
		return false, err
	}
	return ok && e.IsDir(), nil
}

// MakeDirectory ensures path exists, creating every missing path segment
// in order.
func (c *Client) MakeDirectory(ctx context.Context, path string) liberr.Error {
	norm := normalizePath(path)
	sep := string(protocol.PathSeparator)
	segments := strings.Split(norm, sep)

	prefix := ""
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if prefix == "" {
			prefix = seg
		} else {
			prefix = prefix + sep + seg
		}
		if i == 0 && strings.HasSuffix(seg, ":") {
			continue // drive letter alone is never a creatable directory
		}

		_, ok, err := c.GetFileInfo(ctx, prefix)
		if err != nil {
			return err
		}
		if ok {
			continue
		}

		if ok, err := c.eng.SendReceiveAck(ctx, protocol.TagMakeDir, nulTerminated(prefix), c.bufferSize(), c.timeout()); err != nil {
			return err
		} else if !ok {
			return ErrorControlReported.Error(c.lastErrorAsError())
		}
	}
	return nil
}

// DeleteEmptyDirectory issues C_DD for path.
func (c *Client) DeleteEmptyDirectory(ctx context.Context, path string) (bool, liberr.Error) {
	return c.eng.SendReceiveAck(ctx, protocol.TagDeleteDir, nulTerminated(normalizePath(path)), c.bufferSize(), c.timeout())
}

// DeleteFile issues C_FD for path.
func (c *Client) DeleteFile(ctx context.Context, path string) (bool, liberr.Error) {
	return c.eng.SendReceiveAck(ctx, protocol.TagDeleteFile, nulTerminated(normalizePath(path)), c.bufferSize(), c.timeout())
}

// sourceDirOf splits a normalised path on the LAST path separator,
// returning the directory component. Unlike a suffix-strip, this is safe
// for names that happen to contain the separator character nowhere but at
// that boundary.
func sourceDirOf(normPath string) string {
	i := strings.LastIndex(normPath, string(protocol.PathSeparator))
	if i < 0 {
		return ""
	}
	return normPath[:i]
}

// CopyLocalFile issues C_FC, first changing the working directory to the
// source's directory as the control requires.
func (c *Client) CopyLocalFile(ctx context.Context, source, dest string) (bool, liberr.Error) {
	normSrc := normalizePath(source)
	if dir := sourceDirOf(normSrc); dir != "" {
		if ok, err := c.ChangeDirectory(ctx, dir); err != nil {
			return false, err
		} else if !ok {
			return false, ErrorControlReported.Error(c.lastErrorAsError())
		}
	}

	payload := append(nulTerminated(normSrc), nulTerminated(normalizePath(dest))...)
	return c.eng.SendReceiveAck(ctx, protocol.TagCopyFile, payload, c.bufferSize(), c.timeout())
}

// MoveLocalFile issues C_FR, first changing the working directory to the
// source's directory as the control requires.
func (c *Client) MoveLocalFile(ctx context.Context, source, dest string) (bool, liberr.Error) {
	normSrc := normalizePath(source)
	if dir := sourceDirOf(normSrc); dir != "" {
		if ok, err := c.ChangeDirectory(ctx, dir); err != nil {
			return false, err
		} else if !ok {
			return false, ErrorControlReported.Error(c.lastErrorAsError())
		}
	}

	payload := append(nulTerminated(normSrc), nulTerminated(normalizePath(dest))...)
	return c.eng.SendReceiveAck(ctx, protocol.TagMoveFile, payload, c.bufferSize(), c.timeout())
}

func modeByte(remotePath string, binaryMode bool) byte {
	if binaryMode || codec.IsBinaryFile(remotePath) {
		return protocol.ModeBinary
	}
	return 0x00
}

// SendFile uploads localPath to remotePath. override controls whether an
// existing remote file is deleted first; binaryMode forces binary
// transfer even for an extension not on the binary allow-list.
func (c *Client) SendFile(ctx context.Context, localPath, remotePath string, override bool, binaryMode bool) liberr.Error {
	normRemote := normalizePath(remotePath)

	if dir := sourceDirOf(normRemote); dir != "" {
		if err := c.MakeDirectory(ctx, dir); err != nil {
			return err
		}
	}

	exists, err := c.FileExists(ctx, normRemote)
	if err != nil {
		return err
	}
	if exists {
		if !override {
			return ErrorFileExists.Error(nil)
		}
		if ok, derr := c.DeleteFile(ctx, normRemote); derr != nil {
			return derr
		} else if !ok {
			return ErrorControlReported.Error(c.lastErrorAsError())
		}
	}

	f, oerr := os.Open(localPath)
	if oerr != nil {
		return ErrorFileMissing.Error(oerr)
	}
	defer f.Close()

	mode := modeByte(normRemote, binaryMode)
	payload := append(nulTerminated(normRemote), mode)

	out, serr := c.eng.SendReceive(ctx, protocol.TagSendFile, protocol.TagSet{protocol.TagOk}, payload, c.bufferSize(), c.timeout())
	if serr != nil {
		return serr
	}
	if !out.OK {
		return ErrorControlReported.Error(c.lastErrorAsError())
	}

	chunkSize := c.bufferSize() - 10
	if chunkSize < 1 {
		chunkSize = 1
	}
	chunk := make([]byte, chunkSize)

	for {
		n, rerr := f.Read(chunk)
		if n > 0 {
			ack, aerr := c.eng.SendReceiveAck(ctx, protocol.TagRespFile, chunk[:n], c.bufferSize(), c.timeout())
			if aerr != nil {
				return aerr
			}
			if !ack {
				return ErrorControlReported.Error(c.lastErrorAsError())
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return ErrorFileMissing.Error(rerr)
		}
	}

	if c.SecureFileSend() {
		ok, ferr := c.eng.SendReceiveAck(ctx, protocol.TagFinished, nil, c.bufferSize(), c.timeout())
		if ferr != nil {
			return ferr
		}
		if !ok {
			return ErrorControlReported.Error(c.lastErrorAsError())
		}
		return nil
	}

	if _, ferr := c.eng.SendReceive(ctx, protocol.TagFinished, nil, nil, c.bufferSize(), c.timeout()); ferr != nil {
		return ferr
	}
	return nil
}

// ReceiveFile downloads remotePath to localPath. override controls whether
// an existing local file is deleted first; binaryMode forces binary
// transfer even for an extension not on the binary allow-list.
func (c *Client) ReceiveFile(ctx context.Context, remotePath, localPath string, override bool, binaryMode bool) liberr.Error {
	normRemote := normalizePath(remotePath)

	exists, err := c.FileExists(ctx, normRemote)
	if err != nil {
		return err
	}
	if !exists {
		return ErrorFileMissing.Error(nil)
	}

	if _, statErr := os.Stat(localPath); statErr == nil {
		if !override {
			return ErrorFileExists.Error(nil)
		}
		if rmErr := os.Remove(localPath); rmErr != nil {
			return ErrorFileExists.Error(rmErr)
		}
	}

	f, cerr := os.Create(localPath)
	if cerr != nil {
		return ErrorFileMissing.Error(cerr)
	}
	defer f.Close()

	binary := binaryMode || codec.IsBinaryFile(normRemote)
	mode := modeByte(normRemote, binaryMode)
	payload := append(nulTerminated(normRemote), mode)

	packets, perr := c.eng.SendReceiveBlock(ctx, protocol.TagReadFile, protocol.TagSet{protocol.TagRespFile}, payload, c.bufferSize(), c.timeout())
	if perr != nil {
		return perr
	}

	for _, p := range packets {
		if binary {
			if _, werr := f.Write(p); werr != nil {
				return ErrorFileMissing.Error(werr)
			}
			continue
		}
		if _, werr := f.Write(textRewrite(p)); werr != nil {
			return ErrorFileMissing.Error(werr)
		}
	}

	return nil
}

// textRewrite replaces every 0x00 byte with CRLF, the text-mode download
// rewrite rule.
func textRewrite(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c == 0x00 {
			out = append(out, '\r', '\n')
		} else {
			out = append(out, c)
		}
	}
	return out
}

// ScreenDump grabs a screenshot, downloads it to localPath, then removes
// the temporary remote file.
func (c *Client) ScreenDump(ctx context.Context, localPath string) liberr.Error {
	remote := "TNC:" + string(protocol.PathSeparator) + "screendump_" + screenDumpTimestamp() + ".bmp"

	payload := nulTerminated(remote)
	if ok, err := c.sendSysCommand(ctx, protocol.CCCScreenDump, payload); err != nil {
		return err
	} else if !ok {
		return ErrorControlReported.Error(c.lastErrorAsError())
	}

	if err := c.ReceiveFile(ctx, remote, localPath, true, true); err != nil {
		return err
	}

	if _, err := c.DeleteFile(ctx, remote); err != nil {
		return err
	}
	return nil
}

func screenDumpTimestamp() string {
	return time.Now().Format("20060102_150405")
}
