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

// applyPerturb adds zero-mean noise to every numeric cell. The noise
// magnitude is noise_scale times the column's standard deviation, computed
// over the full dataset in a prior statistics pass, or an absolute scale when
// the absolute option is set. Domain constraints are enforced after noising:
// with non_negative, results are clipped at 0.
func applyPerturb(p *columnPlan, rc *RunContext, c *dataset.Column) error {
	scale := p.noiseScale
	if !p.absolute {
		stddev := p.columnStdDev
		if stddev == 0 {
			// A constant column has nothing to hide behind noise; leave it
			// unchanged rather than emitting zero noise pretending otherwise.
			return nil
		}
		scale = p.noiseScale * stddev
	}
	src := rc.sourceFor(c.Name)
	for i, v := range c.Values {
		f, ok := v.Float()
		if !ok {
			continue
		}
		noised := f + p.distribution.Sample(src, scale)
		if p.nonNegative && noised < 0 {
			noised = 0
		}
		c.Values[i] = dataset.Number(noised)
	}
	return nil
}
