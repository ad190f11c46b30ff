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

package config_test

import (
	"time"

	. "github.com/nabbar/lsv2/config"

	"github.com/spf13/viper"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config.Validate", func() {
	It("accepts a minimal valid configuration", func() {
		c := &Config{Hostname: "10.0.0.5", Timeout: time.Second}
		Expect(c.Validate()).To(BeNil())
	})

	It("accepts a hostname given as an RFC1123 name", func() {
		c := &Config{Hostname: "control.shopfloor.local"}
		Expect(c.Validate()).To(BeNil())
	})

	It("rejects a missing hostname", func() {
		c := &Config{}
		err := c.Validate()
		Expect(err).ToNot(BeNil())
		Expect(err.IsCode(ErrorValidation)).To(BeTrue())
	})

	It("rejects a negative timeout", func() {
		c := &Config{Hostname: "10.0.0.5", Timeout: -time.Second}
		err := c.Validate()
		Expect(err).ToNot(BeNil())
		Expect(err.IsCode(ErrorValidation)).To(BeTrue())
	})

	It("rejects a decode_errors value outside ignore/strict", func() {
		c := &Config{Hostname: "10.0.0.5", DecodeErrors: "explode"}
		err := c.Validate()
		Expect(err).ToNot(BeNil())
		Expect(err.IsCode(ErrorValidation)).To(BeTrue())
	})

	It("accepts both recognised decode_errors values", func() {
		for _, v := range []string{"ignore", "strict", ""} {
			c := &Config{Hostname: "10.0.0.5", DecodeErrors: v}
			Expect(c.Validate()).To(BeNil())
		}
	})

	It("accepts a recognised encoding codepage name", func() {
		c := &Config{Hostname: "10.0.0.5", Encoding: "windows-1252"}
		Expect(c.Validate()).To(BeNil())
	})

	It("rejects an unrecognised encoding name", func() {
		c := &Config{Hostname: "10.0.0.5", Encoding: "not-a-codepage"}
		err := c.Validate()
		Expect(err).ToNot(BeNil())
		Expect(err.IsCode(ErrorValidation)).To(BeTrue())
	})
})

var _ = Describe("LoadConfig", func() {
	It("rejects a nil viper instance", func() {
		cfg, err := LoadConfig(nil)
		Expect(cfg).To(BeNil())
		Expect(err).ToNot(BeNil())
		Expect(err.IsCode(ErrorLoad)).To(BeTrue())
	})

	It("unmarshals and validates a populated viper instance", func() {
		v := viper.New()
		v.Set("hostname", "10.0.0.5")
		v.Set("port", 19000)
		v.Set("timeout", 5*time.Second)
		v.Set("safe_mode", true)
		v.Set("decode_errors", "strict")

		cfg, err := LoadConfig(v)
		Expect(err).To(BeNil())
		Expect(cfg.Hostname).To(Equal("10.0.0.5"))
		Expect(cfg.Port).To(Equal(uint16(19000)))
		Expect(cfg.Timeout).To(Equal(5 * time.Second))
		Expect(cfg.SafeMode).To(BeTrue())
		Expect(cfg.DecodeErrors).To(Equal("strict"))
	})

	It("surfaces a validation failure from an incomplete viper instance", func() {
		v := viper.New()
		v.Set("decode_errors", "ignore")

		cfg, err := LoadConfig(v)
		Expect(cfg).To(BeNil())
		Expect(err).ToNot(BeNil())
		Expect(err.IsCode(ErrorValidation)).To(BeTrue())
	})
})
