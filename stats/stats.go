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

// Package stats collects per-column statistics needed by scale-calibrated
// transformations. Statistics such as a column's standard deviation cannot be
// derived from a single chunk of a larger dataset, so Moments supports
// incremental accumulation across chunks (Pass 1) before any transformation
// runs (Pass 2).
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/hanialnaber/data-anonymizer/dataset"
)

// Moments accumulates count, mean and variance of a stream of observations
// using Welford's online algorithm. The zero value is ready to use.
type Moments struct {
	n    int64
	mean float64
	m2   float64
}

// Add folds one observation into the moments.
func (m *Moments) Add(x float64) {
	m.n++
	delta := x - m.mean
	m.mean += delta / float64(m.n)
	m.m2 += delta * (x - m.mean)
}

// Merge folds another accumulator into m, as if m had seen all of other's
// observations. Chan-Golub-LeVeque parallel combination.
func (m *Moments) Merge(other *Moments) {
	if other.n == 0 {
		return
	}
	if m.n == 0 {
		*m = *other
		return
	}
	n := m.n + other.n
	delta := other.mean - m.mean
	m.m2 += other.m2 + delta*delta*float64(m.n)*float64(other.n)/float64(n)
	m.mean += delta * float64(other.n) / float64(n)
	m.n = n
}

// Count returns the number of observations.
func (m *Moments) Count() int64 {
	return m.n
}

// Mean returns the mean of the observations, 0 if none were added.
func (m *Moments) Mean() float64 {
	return m.mean
}

// Variance returns the population variance of the observations.
func (m *Moments) Variance() float64 {
	if m.n == 0 {
		return 0
	}
	return m.m2 / float64(m.n)
}

// StdDev returns the population standard deviation of the observations.
func (m *Moments) StdDev() float64 {
	return math.Sqrt(m.Variance())
}

// Sum returns the sum of the observations.
func (m *Moments) Sum() float64 {
	return m.mean * float64(m.n)
}

// ObserveColumn folds every non-null numeric cell of the column into m.
// Non-numeric cells are skipped.
func (m *Moments) ObserveColumn(c *dataset.Column) {
	for _, v := range c.Values {
		if f, ok := v.Float(); ok {
			m.Add(f)
		}
	}
}

// OfColumn computes mean and population standard deviation of a whole
// in-memory column in one shot. Callers that hold the entire dataset can use
// this instead of the two-pass Moments protocol.
func OfColumn(c *dataset.Column) (mean, stddev float64) {
	values := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.Float(); ok {
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		return 0, 0
	}
	mean = stat.Mean(values, nil)
	// stat.Variance is sample variance; the perturbation scale is calibrated
	// on the population variance to match the accumulated Moments.
	variance := stat.Variance(values, nil) * float64(len(values)-1) / float64(len(values))
	if len(values) == 1 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}
