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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hanialnaber/data-anonymizer/dataset"
)

// fallbackCategory is the label for values missing from a taxonomy.
const fallbackCategory = "Other"

// Date generalization granularities.
const (
	granularityDay     = "day"
	granularityMonth   = "month"
	granularityQuarter = "quarter"
	granularityYear    = "year"
)

// bucketLabel returns the range label for value under the given bin size,
// "{bucket}-{bucket+binSize-1}" with bucket = floor(value/binSize)*binSize.
func bucketLabel(value, binSize float64) string {
	bucket := math.Floor(value/binSize) * binSize
	lo := strconv.FormatFloat(bucket, 'f', -1, 64)
	hi := strconv.FormatFloat(bucket+binSize-1, 'f', -1, 64)
	return lo + "-" + hi
}

// dateLabel truncates t to the requested granularity.
func dateLabel(t time.Time, granularity string) string {
	switch granularity {
	case granularityYear:
		return strconv.Itoa(t.Year())
	case granularityQuarter:
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case granularityDay:
		return t.Format(dataset.DateLayout)
	default:
		return fmt.Sprintf("%d-%02d", t.Year(), t.Month())
	}
}

// applyGeneralizeNumeric replaces numeric cells with their bucket range labels.
func applyGeneralizeNumeric(p *columnPlan, rc *RunContext, c *dataset.Column) error {
	for i, v := range c.Values {
		f, ok := v.Float()
		if !ok {
			continue
		}
		c.Values[i] = dataset.String(bucketLabel(f, p.binSize))
	}
	return nil
}

// applyGeneralizeDate truncates date cells to the configured granularity.
// Cells that do not carry a date pass through unchanged.
func applyGeneralizeDate(p *columnPlan, rc *RunContext, c *dataset.Column) error {
	for i, v := range c.Values {
		t, ok := v.Date()
		if !ok {
			continue
		}
		c.Values[i] = dataset.String(dateLabel(t, p.granularity))
	}
	return nil
}

// applyGeneralizeCategorical maps fine categories to coarse ones through the
// configured taxonomy. Unmapped values fall back to the sentinel category
// instead of failing.
func applyGeneralizeCategorical(p *columnPlan, rc *RunContext, c *dataset.Column) error {
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		coarse, ok := p.taxonomy[v.Text()]
		if !ok {
			coarse = fallbackCategory
		}
		c.Values[i] = dataset.String(coarse)
	}
	return nil
}

// widenText generalizes an already-transformed quasi-identifier value one or
// more steps further. Depth 0 is the value as-is; each additional depth level
// widens it: numeric values and range labels re-bucket at doubling widths,
// dates truncate day -> month -> year, everything else truncates to a
// shrinking prefix until only the suppression marker "*" remains.
func widenText(v dataset.Value, depth int) string {
	if v.IsNull() {
		return ""
	}
	if depth == 0 {
		return v.Text()
	}
	if f, ok := v.Float(); ok {
		return bucketLabel(f, widenBinSize(depth))
	}
	if t, ok := v.Date(); ok {
		switch depth {
		case 1:
			return dateLabel(t, granularityMonth)
		case 2:
			return dateLabel(t, granularityYear)
		}
		return "*"
	}
	text := v.Text()
	if y, rest, ok := parseDateLabel(text); ok {
		switch {
		case depth == 1 && rest > 0:
			// Drop one trailing component: 2006-01-02 -> 2006-01 -> 2006.
			return text[:strings.LastIndex(text, "-")]
		case depth == 1 || depth == 2:
			return strconv.Itoa(y)
		}
		return "*"
	}
	if lo, ok := parseRangeLow(text); ok {
		return bucketLabel(lo, widenBinSize(depth))
	}
	return prefixLabel(text, depth)
}

// widenBinSize returns the numeric bucket width for a widening depth:
// 10, 20, 40, 80, ...
func widenBinSize(depth int) float64 {
	return 10 * math.Exp2(float64(depth-1))
}

// parseRangeLow recognizes range labels produced by bucketLabel and returns
// the lower bound.
func parseRangeLow(text string) (float64, bool) {
	// The separator is the first '-' that is not a leading sign.
	for i := 1; i < len(text); i++ {
		if text[i] != '-' {
			continue
		}
		lo, errLo := strconv.ParseFloat(text[:i], 64)
		_, errHi := strconv.ParseFloat(text[i+1:], 64)
		if errLo == nil && errHi == nil {
			return lo, true
		}
	}
	return 0, false
}

// parseDateLabel recognizes date labels: "2006-01-02", "2006-01" and "2006".
// rest is the number of components beyond the year.
func parseDateLabel(text string) (year, rest int, ok bool) {
	parts := strings.Split(text, "-")
	if len(parts) == 0 || len(parts) > 3 || len(parts[0]) != 4 {
		return 0, 0, false
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil || y < 1000 {
		return 0, 0, false
	}
	for _, part := range parts[1:] {
		if len(part) != 2 {
			return 0, 0, false
		}
		if _, err := strconv.Atoi(part); err != nil {
			return 0, 0, false
		}
	}
	return y, len(parts) - 1, true
}

// prefixLabel truncates text to a shrinking prefix: depth 1 keeps 3
// characters, depth 2 keeps 1, anything deeper suppresses entirely.
func prefixLabel(text string, depth int) string {
	keep := 0
	switch depth {
	case 1:
		keep = 3
	case 2:
		keep = 1
	}
	runes := []rune(text)
	if keep == 0 || len(runes) <= keep {
		if keep > 0 && len(runes) <= keep {
			return text + "*"
		}
		return "*"
	}
	return string(runes[:keep]) + "*"
}
