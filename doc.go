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

// Package lsv2 implements a client for the LSV2 control protocol used by
// Heidenhain-style CNC controls to expose file transfer, PLC memory and
// machine status over a single TCP connection.
//
// A Client composes four independent layers, each importable on its own:
//
//	transport.Transport  - frames/unframes telegrams over one TCP socket
//	protocol.Engine      - the three dispatch primitives (exchange, ack, block)
//	session.Manager      - access-level login/logout and the safe-mode allow-list
//	codec                - binary record decode/encode for every response shape
//
// Client wires these together, runs the post-connect handshake
// (Configure), and exposes filesystem operations and status/data readers
// as plain Go methods. Configuration is immutable once built: Reconfigure
// swaps caller-tunable knobs (encoding, decode-error policy, timeout)
// atomically, while
// wire-negotiated state (buffer size, secure-file-send, control variant,
// cached versions/system parameters) lives behind the Client's own mutex.
package lsv2
