//
// Copyright 2024 The Data Anonymizer Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package anonymizer

import (
	"strings"
	"unicode"

	"github.com/hanialnaber/data-anonymizer/dataset"
)

// maskText masks the alphanumeric characters of text outside the kept prefix
// and suffix windows. The output has the same length as the input and every
// non-alphanumeric separator keeps its position; keepPrefix and keepSuffix
// count alphanumeric characters only, so a kept suffix of 4 reveals the last
// 4 digits of an SSN regardless of dashes.
func maskText(text string, keepPrefix, keepSuffix int, maskChar rune) string {
	runes := []rune(text)
	alnum := 0
	for _, r := range runes {
		if isAlnum(r) {
			alnum++
		}
	}
	var b strings.Builder
	b.Grow(len(text))
	seen := 0
	for _, r := range runes {
		if !isAlnum(r) {
			b.WriteRune(r)
			continue
		}
		if seen < keepPrefix || seen >= alnum-keepSuffix {
			b.WriteRune(r)
		} else {
			b.WriteRune(maskChar)
		}
		seen++
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// applyMask masks every non-null cell format-preservingly.
func applyMask(p *columnPlan, rc *RunContext, c *dataset.Column) error {
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		c.Values[i] = dataset.String(maskText(v.Text(), p.keepPrefix, p.keepSuffix, p.maskChar))
	}
	return nil
}

// applyEmail anonymizes the local part of email addresses while preserving
// the domain structure. The local part becomes user<8 hex chars> derived from
// its salted hash, keeping repeated addresses consistent. With the
// mask_domain option the domain is hashed too, keeping only the TLD. Values
// without an @ are masked generically.
func applyEmail(p *columnPlan, rc *RunContext, c *dataset.Column) error {
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		text := v.Text()
		at := strings.Index(text, "@")
		if at < 0 {
			c.Values[i] = dataset.String(maskText(text, 0, 0, p.maskChar))
			continue
		}
		local, domain := text[:at], text[at+1:]
		anonLocal := "user" + hashHex(rc.Salt, local, algorithmSHA256)[:8]
		if p.maskDomain {
			if dot := strings.LastIndex(domain, "."); dot > 0 {
				tld := domain[dot+1:]
				domain = "company" + hashHex(rc.Salt, domain, algorithmSHA256)[:6] + "." + tld
			}
		}
		c.Values[i] = dataset.String(anonLocal + "@" + domain)
	}
	return nil
}

// applyPhone masks phone numbers while preserving their formatting: digits
// outside the kept prefix/suffix are replaced, every non-digit character
// keeps its position. Values with fewer than 7 digits are too short to be
// phone numbers and pass through.
func applyPhone(p *columnPlan, rc *RunContext, c *dataset.Column) error {
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		text := v.Text()
		digits := 0
		for _, r := range text {
			if unicode.IsDigit(r) {
				digits++
			}
		}
		if digits < 7 {
			continue
		}
		var b strings.Builder
		b.Grow(len(text))
		seen := 0
		for _, r := range text {
			if !unicode.IsDigit(r) {
				b.WriteRune(r)
				continue
			}
			if seen < p.keepPrefix || seen >= digits-p.keepSuffix {
				b.WriteRune(r)
			} else {
				b.WriteRune(p.maskChar)
			}
			seen++
		}
		c.Values[i] = dataset.String(b.String())
	}
	return nil
}

// applySSN fixes the output shape of Social Security Numbers so that only the
// trailing keep_suffix digits remain visible.
func applySSN(p *columnPlan, rc *RunContext, c *dataset.Column) error {
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		c.Values[i] = dataset.String(maskText(v.Text(), 0, p.keepSuffix, p.maskChar))
	}
	return nil
}

// applyRemove nulls every cell. Rows are never deleted, so downstream joins
// keep their row-count invariants.
func applyRemove(p *columnPlan, rc *RunContext, c *dataset.Column) error {
	for i := range c.Values {
		c.Values[i] = dataset.Null()
	}
	return nil
}
