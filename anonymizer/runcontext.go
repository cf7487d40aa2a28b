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
	log "github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/hanialnaber/data-anonymizer/rand"
)

// saltLength is the length of engine-generated salts.
const saltLength = 32

// RunContext owns the per-run state: the salt, the randomness source policy
// and the pseudonym mapping tables. Its lifetime is one engine; it is
// discarded afterwards unless the caller exports the mappings for a later
// consistent run.
type RunContext struct {
	// ID identifies the run in logs and reports.
	ID string
	// Salt is mixed into every hash-derived transformation of the run.
	Salt string

	perWorker bool
	shared    *rand.Source

	// pseudonyms maps column name -> original value -> assigned pseudonym.
	// Tables are partitioned by column; each column worker owns its partition
	// exclusively, so no locking is needed.
	pseudonyms map[string]*pseudonymTable
}

// pseudonymTable is one column's consistent mapping from original values to
// pseudonyms. used tracks pool slots already taken when uniqueness is
// demanded.
type pseudonymTable struct {
	byOriginal map[string]string
	used       map[int]bool
}

func newRunContext(salt string, generateSalt, perWorker bool) (*RunContext, error) {
	if salt == "" {
		if !generateSalt {
			// A silent fallback salt would make hashes comparable across
			// deployments; omission must be an explicit caller decision.
			return nil, configError("", "", "no salt supplied and salt generation not requested")
		}
		salt = rand.AlphanumericString(saltLength)
	}
	rc := &RunContext{
		ID:         uuid.NewString(),
		Salt:       salt,
		perWorker:  perWorker,
		shared:     rand.Default(),
		pseudonyms: make(map[string]*pseudonymTable),
	}
	log.V(1).Infof("run %s: context created (per-worker randomness: %t)", rc.ID, perWorker)
	return rc, nil
}

// sourceFor returns the randomness source a column worker should use. With
// per-worker randomness each call returns a fresh lock-free source; otherwise
// all workers share the synchronized default source.
func (rc *RunContext) sourceFor(column string) *rand.Source {
	if rc.perWorker {
		return rand.NewSource()
	}
	return rc.shared
}

// table returns the pseudonym partition for a column, creating it if needed.
// Partitions must be created before workers fan out; see Engine.Run.
func (rc *RunContext) table(column string) *pseudonymTable {
	t, ok := rc.pseudonyms[column]
	if !ok {
		t = &pseudonymTable{byOriginal: make(map[string]string), used: make(map[int]bool)}
		rc.pseudonyms[column] = t
	}
	return t
}

// Mappings returns a copy of the pseudonym tables assigned during the run,
// keyed by column name and original value. Needed by callers that must keep
// later runs consistent with this one.
func (rc *RunContext) Mappings() map[string]map[string]string {
	out := make(map[string]map[string]string, len(rc.pseudonyms))
	for column, t := range rc.pseudonyms {
		m := make(map[string]string, len(t.byOriginal))
		for orig, pseudo := range t.byOriginal {
			m[orig] = pseudo
		}
		out[column] = m
	}
	return out
}
