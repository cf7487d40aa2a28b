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
	"strings"

	"github.com/hanialnaber/data-anonymizer/dataset"
)

// groupSet accumulates the distinct quasi-identifier tuples of a dataset,
// after row-wise transforms have been applied, together with their
// multiplicities. For chunked inputs it is fed once per chunk during the
// statistics pass; group counts are global, never per chunk.
type groupSet struct {
	fields []string
	tuples map[string]*qiTuple
}

type qiTuple struct {
	values []dataset.Value
	count  int
}

func newGroupSet(fields []string) *groupSet {
	return &groupSet{fields: fields, tuples: make(map[string]*qiTuple)}
}

// observe folds one dataset's quasi-identifier tuples into the set.
func (g *groupSet) observe(d *dataset.Dataset) error {
	cols := make([]*dataset.Column, len(g.fields))
	for i, name := range g.fields {
		c, ok := d.Column(name)
		if !ok {
			return fmt.Errorf("quasi-identifier column %q not found", name)
		}
		cols[i] = c
	}
	for row := 0; row < d.Rows(); row++ {
		values := make([]dataset.Value, len(cols))
		for i, c := range cols {
			values[i] = c.Values[row]
		}
		key := tupleKey(values, nil)
		t, ok := g.tuples[key]
		if !ok {
			t = &qiTuple{values: values}
			g.tuples[key] = t
		}
		t.count++
	}
	return nil
}

// tupleKey joins the widened texts of a tuple. A nil depth vector means
// depth 0 for every field.
func tupleKey(values []dataset.Value, depths []int) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		depth := 0
		if depths != nil {
			depth = depths[i]
		}
		b.WriteString(widenText(v, depth))
	}
	return b.String()
}

// minGroupSize returns the smallest equivalence-class size under the given
// per-field widening depths, or 0 for an empty set.
func (g *groupSet) minGroupSize(depths []int) int {
	counts := make(map[string]int)
	for _, t := range g.tuples {
		counts[tupleKey(t.values, depths)] += t.count
	}
	min := 0
	for _, n := range counts {
		if min == 0 || n < min {
			min = n
		}
	}
	return min
}

// distinctAt returns how many distinct widened values the i-th field has at
// its current depth.
func (g *groupSet) distinctAt(field int, depths []int) int {
	seen := make(map[string]bool)
	for _, t := range g.tuples {
		seen[widenText(t.values[field], depths[field])] = true
	}
	return len(seen)
}

// solve searches for the shallowest per-field widening depths under which
// every equivalence class holds at least k rows. Each step widens the field
// that currently contributes the most distinct values, the one most likely to
// be splitting groups. Returns the depth vector, the smallest class size
// reached, and whether k was achieved before every field hit maxDepth.
func (g *groupSet) solve(k, maxDepth int) (depths []int, achieved int, ok bool) {
	depths = make([]int, len(g.fields))
	// Zero rows have zero groups; the guarantee holds vacuously.
	if len(g.tuples) == 0 {
		return depths, 0, true
	}
	for {
		achieved = g.minGroupSize(depths)
		if achieved >= k {
			return depths, achieved, true
		}
		widest, best := -1, 1
		for i := range g.fields {
			if depths[i] >= maxDepth {
				continue
			}
			if n := g.distinctAt(i, depths); n > best {
				widest, best = i, n
			}
		}
		if widest < 0 {
			// Every field is either exhausted or already down to a single
			// value; widening further cannot merge any groups.
			return depths, achieved, false
		}
		depths[widest]++
	}
}

// applyWidening rewrites the quasi-identifier columns of d at the solved
// depths. Depth-0 fields keep their row-wise transformed values untouched.
func applyWidening(d *dataset.Dataset, fields []string, depths []int) error {
	for i, name := range fields {
		if depths[i] == 0 {
			continue
		}
		c, ok := d.Column(name)
		if !ok {
			return fmt.Errorf("quasi-identifier column %q not found", name)
		}
		for row, v := range c.Values {
			if v.IsNull() {
				continue
			}
			c.Values[row] = dataset.String(widenText(v, depths[i]))
		}
	}
	return nil
}

// applyShuffle permutes the column's cells with a cryptographically secure
// Fisher-Yates pass, severing row alignment while preserving the multiset of
// values, nulls included.
func applyShuffle(p *columnPlan, rc *RunContext, c *dataset.Column) error {
	src := rc.sourceFor(c.Name)
	src.Shuffle(len(c.Values), func(i, j int) {
		c.Values[i], c.Values[j] = c.Values[j], c.Values[i]
	})
	return nil
}
