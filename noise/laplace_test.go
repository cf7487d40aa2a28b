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

package noise

import (
	"math"
	"testing"

	"github.com/grd/stat"

	"github.com/hanialnaber/data-anonymizer/rand"
)

var ln3 = math.Log(3)

func TestLaplaceStatistics(t *testing.T) {
	const numberOfSamples = 125000
	src := rand.NewSource()
	for _, tc := range []struct {
		epsilon, sensitivity, mean, variance float64
	}{
		{
			epsilon:     1.0,
			sensitivity: 1.0,
			mean:        0.0,
			variance:    2.0,
		},
		{
			epsilon:     ln3,
			sensitivity: 1.0,
			mean:        0.0,
			variance:    2.0 / (ln3 * ln3),
		},
		{
			epsilon:     ln3,
			sensitivity: 1.0,
			mean:        45941223.02107,
			variance:    2.0 / (ln3 * ln3),
		},
		{
			epsilon:     2.0 * ln3,
			sensitivity: 1.0,
			mean:        0.0,
			variance:    2.0 / (2.0 * ln3 * 2.0 * ln3),
		},
		{
			epsilon:     ln3,
			sensitivity: 2.0,
			mean:        0.0,
			variance:    2.0 * 4.0 / (ln3 * ln3),
		},
	} {
		noisedSamples := make(stat.Float64Slice, numberOfSamples)
		for i := range noisedSamples {
			noised, err := AddLaplaceFloat64(src, tc.mean, tc.epsilon, tc.sensitivity)
			if err != nil {
				t.Fatalf("AddLaplaceFloat64(%f, %f, %f) failed: %v", tc.mean, tc.epsilon, tc.sensitivity, err)
			}
			noisedSamples[i] = noised
		}
		sampleMean, sampleVariance := stat.Mean(noisedSamples), stat.Variance(noisedSamples)
		// Assuming that the Laplace samples have a mean of tc.mean and the
		// specified variance, sampleMean and sampleVariance are approximately
		// Gaussian distributed. The error tolerances are set to the 99.9995%
		// quantiles of those distributions.
		meanErrorTolerance := 4.41717 * math.Sqrt(tc.variance/float64(numberOfSamples))
		varianceErrorTolerance := 4.41717 * math.Sqrt(5.0*tc.variance*tc.variance/float64(numberOfSamples))

		if !nearEqual(sampleMean, tc.mean, meanErrorTolerance) {
			t.Errorf("got mean = %f, want %f (parameters %+v)", sampleMean, tc.mean, tc)
		}
		if !nearEqual(sampleVariance, tc.variance, varianceErrorTolerance) {
			t.Errorf("got variance = %f, want %f (parameters %+v)", sampleVariance, tc.variance, tc)
		}
	}
}

func TestAddLaplaceInt64Statistics(t *testing.T) {
	const numberOfSamples = 125000
	src := rand.NewSource()
	noisedSamples := make(stat.IntSlice, numberOfSamples)
	for i := range noisedSamples {
		noised, err := AddLaplaceInt64(src, 42, ln3, 1.0)
		if err != nil {
			t.Fatalf("AddLaplaceInt64 failed: %v", err)
		}
		noisedSamples[i] = noised
	}
	sampleMean := stat.Mean(noisedSamples)
	if !nearEqual(sampleMean, 42.0, 0.1) {
		t.Errorf("got mean = %f, want approximately 42.0", sampleMean)
	}
}

func TestLaplaceRejectsInvalidParameters(t *testing.T) {
	src := rand.NewSource()
	for _, tc := range []struct {
		desc                 string
		epsilon, sensitivity float64
	}{
		{"zero epsilon", 0.0, 1.0},
		{"negative epsilon", -1.0, 1.0},
		{"infinite epsilon", math.Inf(1), 1.0},
		{"NaN epsilon", math.NaN(), 1.0},
		{"tiny epsilon", math.Exp2(-51.0), 1.0},
		{"zero sensitivity", 1.0, 0.0},
		{"negative sensitivity", 1.0, -1.0},
		{"infinite sensitivity", 1.0, math.Inf(1)},
	} {
		if _, err := AddLaplaceFloat64(src, 0, tc.epsilon, tc.sensitivity); err == nil {
			t.Errorf("AddLaplaceFloat64 with %s: got nil error, want error", tc.desc)
		}
		if _, err := AddLaplaceInt64(src, 0, tc.epsilon, tc.sensitivity); err == nil {
			t.Errorf("AddLaplaceInt64 with %s: got nil error, want error", tc.desc)
		}
	}
}

func nearEqual(a, b, maxError float64) bool {
	return math.Abs(a-b) < maxError
}
