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
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/hanialnaber/data-anonymizer/dataset"
)

// Supported hash algorithm names.
const (
	algorithmSHA256 = "sha256"
	algorithmSHA512 = "sha512"
)

// hashHex returns the hex digest of salt||text under the given algorithm.
// Identical (salt, text, algorithm) triples always yield identical digests,
// which keeps joins across datasets hashed with the same salt intact.
func hashHex(salt, text, algorithm string) string {
	input := []byte(salt + text)
	if algorithm == algorithmSHA512 {
		sum := sha512.Sum512(input)
		return hex.EncodeToString(sum[:])
	}
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:])
}

// hashIndex derives a non-negative index seed from the salted SHA-256 of text.
func hashIndex(salt, text string) uint64 {
	sum := sha256.Sum256([]byte(salt + text))
	return binary.BigEndian.Uint64(sum[:8])
}

// effectiveSalt returns the plan's per-column salt override, falling back to
// the run salt.
func effectiveSalt(p *columnPlan, rc *RunContext) string {
	if p.salt != "" {
		return p.salt
	}
	return rc.Salt
}

// applyHash replaces every non-null cell with its salted digest.
func applyHash(p *columnPlan, rc *RunContext, c *dataset.Column) error {
	salt := effectiveSalt(p, rc)
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		c.Values[i] = dataset.String(hashHex(salt, v.Text(), p.algorithm))
	}
	return nil
}

// applyPseudonymize replaces every non-null cell with a pseudonym that is
// consistent within the run: the first occurrence of a value fixes the
// pseudonym for all later occurrences. With a pool, the pseudonym is a pool
// entry selected by a salted hash of the value; without one, it is
// prefix_<first 8 digest characters>.
func applyPseudonymize(p *columnPlan, rc *RunContext, c *dataset.Column) error {
	table := rc.table(c.Name)
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		original := v.Text()
		pseudo, ok := table.byOriginal[original]
		if !ok {
			var err error
			pseudo, err = assignPseudonym(p, rc, table, original)
			if err != nil {
				return err
			}
		}
		c.Values[i] = dataset.String(pseudo)
	}
	return nil
}

func assignPseudonym(p *columnPlan, rc *RunContext, table *pseudonymTable, original string) (string, error) {
	var pseudo string
	if len(p.pool) == 0 {
		pseudo = p.prefix + "_" + hashHex(rc.Salt, original, algorithmSHA256)[:8]
	} else {
		idx := int(hashIndex(rc.Salt, original) % uint64(len(p.pool)))
		if p.unique {
			// Probe for a free slot from the hashed starting point. Pool
			// exhaustion means one-to-one uniqueness cannot be honored.
			probed := 0
			for table.used[idx] {
				idx = (idx + 1) % len(p.pool)
				probed++
				if probed == len(p.pool) {
					return "", &Error{
						Kind:   RandomnessExhaustionError,
						Column: p.column,
						Method: p.method.String(),
						Err:    fmt.Errorf("pool of %d entries exhausted by distinct values requiring unique pseudonyms", len(p.pool)),
					}
				}
			}
			table.used[idx] = true
		}
		pseudo = p.pool[idx]
	}
	table.byOriginal[original] = pseudo
	return pseudo, nil
}
