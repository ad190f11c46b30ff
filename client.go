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
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/lsv2/codec"
	"github.com/nabbar/lsv2/config"
	liberr "github.com/nabbar/lsv2/errors"
	"github.com/nabbar/lsv2/logging"
	"github.com/nabbar/lsv2/protocol"
	"github.com/nabbar/lsv2/session"
	"github.com/nabbar/lsv2/transport"
)

// ControlVariant identifies the family of control the client is talking
// to, derived from the CONTROL version string during Configure.
type ControlVariant uint8

const (
	VariantUnknown ControlVariant = iota
	VariantMillNew
	VariantMillOld
	VariantLatheNew
)

func (v ControlVariant) String() string {
	switch v {
	case VariantMillNew:
		return "MILL_NEW"
	case VariantMillOld:
		return "MILL_OLD"
	case VariantLatheNew:
		return "LATHE_NEW"
	default:
		return "UNKNOWN"
	}
}

// Versions is the set of strings read from the control during Configure.
type Versions struct {
	Control     string
	NCVersion   string
	PLCVersion  string
	Options     string
	ID          string
	ReleaseType string
	SPLCVersion string
}

// bufferSizeLadder lists every buffer size the configurator may negotiate,
// largest first so the handshake picks the biggest one the control's
// max_block_length allows.
var bufferSizeLadder = []int{4096, 3072, 2048, 1024, 512, 256}

// Client is a single LSV2 connection: one Transport, one protocol Engine,
// one session Manager, plus the wire-negotiated state the connection
// configurator discovers (buffer size, secure-file-send, control variant,
// cached versions/system parameters).
type Client struct {
	cfg *atomic.Value // *config.Config

	tr  *transport.Transport
	eng *protocol.Engine

	state       sync.Mutex // guards everything below, distinct from eng's dispatch mutex
	sess        *session.Manager
	buf         int
	secure      bool
	variant     ControlVariant
	versions    Versions
	sysPar      codec.SystemParameters
	sysParValid bool
}

// New builds a Client from cfg. The client is not yet connected: call
// Connect then Configure (or Dial, which does both) before issuing any
// operation.
func New(cfg *config.Config) (*Client, liberr.Error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logging.Component(logging.Discard(), "lsv2")

	c := &Client{
		cfg: new(atomic.Value),
		tr:  transport.New(log),
		buf: transport.DefaultBufferSize,
	}
	c.cfg.Store(cfg)
	c.eng = protocol.NewEngine(c.tr, log)
	c.sess = session.New(c.eng, cfg.SafeMode, log)

	return c, nil
}

// Config returns the configuration currently in effect. Safe for
// concurrent readers without locking, per the atomic-config-swap idiom.
func (c *Client) Config() *config.Config {
	if i := c.cfg.Load(); i == nil {
		return nil
	} else if o, ok := i.(*config.Config); ok {
		return o
	}
	return nil
}

// Reconfigure swaps in a validated copy of cfg. Only caller-tunable knobs
// (encoding, decode-error policy, timeout) take effect this way;
// wire-negotiated state is never touched here.
func (c *Client) Reconfigure(cfg *config.Config) liberr.Error {
	if cfg == nil {
		return ErrorPreconditionFailed.Error(nil)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg.Store(cfg)
	return nil
}

func (c *Client) stringCodec() codec.StringCodec {
	sc := codec.DefaultStringCodec()
	cfg := c.Config()
	if cfg == nil {
		return sc
	}

	sc.Policy = codec.ParseErrorPolicy(cfg.DecodeErrors)
	if enc, eerr := codec.ResolveEncoding(cfg.Encoding); eerr == nil {
		sc.Encoding = enc
	}
	return sc
}

func (c *Client) timeout() time.Duration {
	if cfg := c.Config(); cfg != nil {
		return cfg.Timeout
	}
	return 0
}

func (c *Client) bufferSize() int {
	c.state.Lock()
	defer c.state.Unlock()
	return c.buf
}

func (c *Client) setBufferSize(n int) {
	c.state.Lock()
	defer c.state.Unlock()
	c.buf = n
}

// Connect dials the configured host/port. Connect alone does not run the
// LSV2 handshake; call Configure afterwards (or use Dial).
func (c *Client) Connect(ctx context.Context) liberr.Error {
	cfg := c.Config()
	if cfg == nil {
		return ErrorPreconditionFailed.Error(nil)
	}
	if c.tr.Connected() {
		return ErrorAlreadyConnected.Error(nil)
	}
	return c.tr.Connect(ctx, cfg.Hostname, cfg.Port, cfg.Timeout)
}

// Dial connects then runs the post-connect handshake.
func (c *Client) Dial(ctx context.Context) liberr.Error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Configure(ctx)
}

// Disconnect closes the underlying socket. The session's active access
// levels are forgotten; a future Dial starts from a clean login state.
func (c *Client) Disconnect() {
	c.tr.Disconnect()

	c.state.Lock()
	c.sess = session.New(c.eng, c.sess.SafeMode(), logging.Component(logging.Discard(), "lsv2"))
	c.state.Unlock()
}

// Connected reports whether the underlying socket is open.
func (c *Client) Connected() bool {
	return c.tr.Connected()
}

// ActiveLevels returns the access levels currently held.
func (c *Client) ActiveLevels() []session.AccessLevel {
	return c.sess.ActiveLevels()
}

// Login requests level, going through the session manager's safe-mode
// allow-list.
func (c *Client) Login(ctx context.Context, level session.AccessLevel, password string) (bool, liberr.Error) {
	return c.sess.Login(ctx, level, password, c.bufferSize(), c.timeout())
}

// Logout drops level, or every held level when level is the empty string.
func (c *Client) Logout(ctx context.Context, level session.AccessLevel) (bool, liberr.Error) {
	return c.sess.Logout(ctx, level, c.bufferSize(), c.timeout())
}

// Variant returns the control family identified during Configure.
func (c *Client) Variant() ControlVariant {
	c.state.Lock()
	defer c.state.Unlock()
	return c.variant
}

// Versions returns the version strings read during Configure.
func (c *Client) Versions() Versions {
	c.state.Lock()
	defer c.state.Unlock()
	return c.versions
}

// SecureFileSend reports whether the control acknowledged secure-file-send
// during Configure.
func (c *Client) SecureFileSend() bool {
	c.state.Lock()
	defer c.state.Unlock()
	return c.secure
}

// SystemParameters returns the cached R_PR decode. force re-reads from the
// control instead of serving the cache.
func (c *Client) SystemParameters(ctx context.Context, force bool) (codec.SystemParameters, liberr.Error) {
	c.state.Lock()
	if c.sysParValid && !force {
		defer c.state.Unlock()
		return c.sysPar, nil
	}
	c.state.Unlock()

	return c.readSystemParameters(ctx)
}

// LastError returns the most recently recorded control-reported error, if
// any.
func (c *Client) LastError() *protocol.ControlError {
	return c.eng.LastError()
}

// lastErrorAsError adapts LastError to a plain error, nil when there is
// none, so it can be passed as an errors.Error parent without the
// nil-pointer-in-interface pitfall of handing a typed *ControlError
// straight to an interface parameter.
func (c *Client) lastErrorAsError() error {
	if ce := c.eng.LastError(); ce != nil {
		return *ce
	}
	return nil
}

func (c *Client) readSystemParameters(ctx context.Context) (codec.SystemParameters, liberr.Error) {
	out, err := c.eng.SendReceive(ctx, protocol.TagReadSysPar, protocol.TagSet{protocol.TagRespSysPar}, nil, c.bufferSize(), c.timeout())
	if err != nil {
		return codec.SystemParameters{}, err
	}
	if !out.OK {
		return codec.SystemParameters{}, ErrorControlReported.Error(c.lastErrorAsError())
	}

	p, derr := codec.DecodeSystemParameters(out.Content)
	if derr != nil {
		return codec.SystemParameters{}, derr
	}

	c.state.Lock()
	c.sysPar = p
	c.sysParValid = true
	c.state.Unlock()

	return p, nil
}
