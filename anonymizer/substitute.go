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
	"github.com/hanialnaber/data-anonymizer/dataset"
)

// applySubstitute replaces every non-null cell with an entry from the
// configured pool. By default each cell draws independently at random, so
// repeated originals may map to different substitutes. With deterministic
// substitution the method behaves like pseudonymization: the replacement is
// consistent per original value within the run.
func applySubstitute(p *columnPlan, rc *RunContext, c *dataset.Column) error {
	if p.deterministic {
		return applyPseudonymize(p, rc, c)
	}
	src := rc.sourceFor(c.Name)
	for i, v := range c.Values {
		if v.IsNull() {
			continue
		}
		c.Values[i] = dataset.String(p.pool[src.I63n(int64(len(p.pool)))])
	}
	return nil
}
