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

	"github.com/hanialnaber/data-anonymizer/dataset"
	"github.com/hanialnaber/data-anonymizer/noise"
)

// Differential privacy application modes.
const (
	dpModePerValue  = "per_value"
	dpModeAggregate = "aggregate"
)

// Aggregate statistics releasable under aggregate mode.
const (
	dpStatisticSum   = "sum"
	dpStatisticCount = "count"
)

// applyDifferentialPrivacy adds Laplace noise with scale sensitivity/epsilon
// to every numeric cell. Epsilon and sensitivity carry no defaults: a silently
// assumed sensitivity breaks the privacy guarantee without any visible
// symptom, so both must be configured explicitly.
func applyDifferentialPrivacy(p *columnPlan, rc *RunContext, c *dataset.Column) error {
	src := rc.sourceFor(c.Name)
	for i, v := range c.Values {
		f, ok := v.Float()
		if !ok {
			continue
		}
		noised, err := noise.AddLaplaceFloat64(src, f, p.epsilon, p.sensitivity)
		if err != nil {
			return configError(p.column, p.method.String(), "laplace noise: %v", err)
		}
		c.Values[i] = dataset.Number(noised)
	}
	return nil
}

// ReleasedAggregate is a differentially private aggregate released in place
// of a column's raw values.
type ReleasedAggregate struct {
	Column    string  `json:"column"`
	Statistic string  `json:"statistic"`
	Epsilon   float64 `json:"epsilon"`
	Value     float64 `json:"value"`
}

// releaseAggregate computes the configured statistic over the column's
// moments, noises it once, and nulls the column: under aggregate mode the
// column is released only as the noised aggregate, never row by row.
func releaseAggregate(p *columnPlan, rc *RunContext, c *dataset.Column, sum float64, count int64) (ReleasedAggregate, error) {
	var raw float64
	switch p.dpStatistic {
	case dpStatisticCount:
		raw = float64(count)
	default:
		raw = sum
	}
	noised, err := noise.AddLaplaceFloat64(rc.shared, raw, p.epsilon, p.sensitivity)
	if err != nil {
		return ReleasedAggregate{}, configError(p.column, p.method.String(), "laplace noise: %v", err)
	}
	for i := range c.Values {
		c.Values[i] = dataset.Null()
	}
	return ReleasedAggregate{
		Column:    c.Name,
		Statistic: p.dpStatistic,
		Epsilon:   p.epsilon,
		Value:     noised,
	}, nil
}

func parseDPMode(mode string) (string, error) {
	switch mode {
	case "", dpModePerValue:
		return dpModePerValue, nil
	case dpModeAggregate:
		return dpModeAggregate, nil
	}
	return "", fmt.Errorf("unknown differential privacy mode %q", mode)
}

func parseDPStatistic(statistic string) (string, error) {
	switch statistic {
	case "", dpStatisticSum:
		return dpStatisticSum, nil
	case dpStatisticCount:
		return dpStatisticCount, nil
	}
	return "", fmt.Errorf("unknown aggregate statistic %q", statistic)
}
