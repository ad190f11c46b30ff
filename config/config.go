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

// Package config defines the LSV2 client configuration surface: the
// struct a caller fills in (directly, from a map, or through viper), its
// validation rules, and nothing else. It never reaches out to a file or
// the environment itself.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/nabbar/lsv2/codec"
	liberr "github.com/nabbar/lsv2/errors"
)

var validate = validator.New()

// Config is every option a caller may set before dialing a control.
// Zero-value fields fall back to the library defaults documented on each
// field below.
type Config struct {
	// Hostname is the control's network name or address. Required.
	Hostname string `mapstructure:"hostname" json:"hostname" yaml:"hostname" toml:"hostname" validate:"required,hostname_rfc1123|ip"`

	// Port is the LSV2 TCP port. Zero means "use the transport default"
	// (19000).
	Port uint16 `mapstructure:"port" json:"port" yaml:"port" toml:"port" validate:"omitempty"`

	// Timeout bounds every blocking exchange. Zero means "no timeout
	// beyond whatever context the caller supplies".
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout" toml:"timeout" validate:"omitempty,gt=0"`

	// SafeMode restricts login to the INSPECT/FILETRANSFER/MONITOR
	// access levels. Every known C_CC sub-command (buffer size,
	// secure-file-send, screen dump) is allowed in either mode.
	SafeMode bool `mapstructure:"safe_mode" json:"safe_mode" yaml:"safe_mode" toml:"safe_mode"`

	// Encoding names the golang.org/x/text/encoding codepage used to
	// decode NUL-terminated string fields. Empty means pass-through
	// UTF-8 (encoding.Nop).
	Encoding string `mapstructure:"encoding" json:"encoding" yaml:"encoding" toml:"encoding" validate:"omitempty"`

	// DecodeErrors selects the string-decode error policy: "ignore"
	// (best-effort, the default) or "strict" (fail on the first invalid
	// byte sequence).
	DecodeErrors string `mapstructure:"decode_errors" json:"decode_errors" yaml:"decode_errors" toml:"decode_errors" validate:"omitempty,oneof=ignore strict"`

	// LocalePath is stored and exposed for an external collaborator
	// that wants to map control error codes to localized text; core
	// code never reads it.
	LocalePath string `mapstructure:"locale_path" json:"locale_path" yaml:"locale_path" toml:"locale_path" validate:"omitempty"`
}

// Validate runs struct-tag validation and translates the result into the
// module's own error hierarchy so no third-party error type crosses the
// package boundary. It also resolves Encoding against the supported
// codepage names, so a typo'd encoding is rejected here rather than
// silently decoding as UTF-8 later.
func (c *Config) Validate() liberr.Error {
	if err := validate.Struct(c); err != nil {
		return ErrorValidation.Error(err)
	}
	if _, err := codec.ResolveEncoding(c.Encoding); err != nil {
		return ErrorValidation.Error(err)
	}
	return nil
}

// LoadConfig decodes a Config out of an already-configured viper instance.
// The caller owns v's sources (file, env, flags); this package never
// calls viper.New() itself so construction stays free of global state.
func LoadConfig(v *viper.Viper) (*Config, liberr.Error) {
	if v == nil {
		return nil, ErrorLoad.Error(nil)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, ErrorLoad.Error(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
