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

	"github.com/hanialnaber/data-anonymizer/checks"
	"github.com/hanialnaber/data-anonymizer/rand"
)

// granularityParam determines the resolution of the numerical noise that is
// being generated relative to the sensitivity and privacy parameter epsilon.
// Larger values result in more fine grained noise, but increase the chance of
// sampling inaccuracies due to overflows. The probability of an overflow is
// negligible if the granularity parameter is set to a value of 2⁴⁰ or less and
// epsilon is at least 2⁻⁵⁰.
//
// This parameter should be a power of 2.
var granularityParam = math.Exp2(40)

// AddLaplaceFloat64 adds Laplace noise with scale sensitivity/epsilon to x so
// that releasing the result is ε-differentially private for a query whose L1
// sensitivity is bounded by the given sensitivity.
//
// The sampler is based on a geometric mechanism that is robust against
// unintentional privacy leaks due to artifacts of floating point arithmetic,
// rather than drawing a Laplace variable directly.
func AddLaplaceFloat64(s *rand.Source, x, epsilon, sensitivity float64) (float64, error) {
	if err := checkArgsLaplace(epsilon, sensitivity); err != nil {
		return 0, err
	}
	granularity := ceilPowerOfTwo((sensitivity / epsilon) / granularityParam)
	sample := twoSidedGeometric(s, granularity*epsilon/(sensitivity+granularity))
	return roundToMultipleOfPowerOfTwo(x, granularity) + float64(sample)*granularity, nil
}

// AddLaplaceInt64 adds Laplace noise with scale sensitivity/epsilon to the
// specified int64 x.
func AddLaplaceInt64(s *rand.Source, x int64, epsilon, sensitivity float64) (int64, error) {
	if err := checkArgsLaplace(epsilon, sensitivity); err != nil {
		return 0, err
	}
	granularity := ceilPowerOfTwo((sensitivity / epsilon) / granularityParam)
	sample := twoSidedGeometric(s, granularity*epsilon/(sensitivity+granularity))
	if granularity < 1 {
		return x + int64(math.Round(float64(sample)*granularity)), nil
	}
	return roundToMultiple(x, int64(granularity)) + sample*int64(granularity), nil
}

// LaplaceScale returns the scale parameter b of the Laplace distribution used
// for the given epsilon and sensitivity. The standard deviation of the noise
// is √2·b.
func LaplaceScale(epsilon, sensitivity float64) float64 {
	return sensitivity / epsilon
}

func checkArgsLaplace(epsilon, sensitivity float64) error {
	if err := checks.CheckEpsilonVeryStrict(epsilon); err != nil {
		return err
	}
	return checks.CheckSensitivity(sensitivity)
}

// geometric draws a sample from a geometric distribution with parameter
// p = 1 - e^-λ. More precisely, it returns the number of Bernoulli trials
// until the first success where the success probability is p. The returned
// sample is truncated to the max int64 value.
//
// To keep the probability of truncation below 10⁻⁶, λ must be greater
// than 2⁻⁵⁹.
func geometric(s *rand.Source, lambda float64) int64 {
	// Return a truncated sample in the case that the sample exceeds the max int64.
	if s.Uniform() > -1.0*math.Expm1(-1.0*lambda*math.MaxInt64) {
		return math.MaxInt64
	}

	// Perform a binary search for the sample in the interval from 1 to max
	// int64. Each iteration splits the interval in two and randomly keeps
	// either the left or the right subinterval depending on the respective
	// probability of the sample being contained in them. The search ends once
	// the interval only contains a single sample.
	var left int64 = 0              // exclusive bound
	var right int64 = math.MaxInt64 // inclusive bound

	for left+1 < right {
		// Compute a midpoint that divides the probability mass of the current
		// interval approximately evenly between the left and right subinterval.
		// The resulting midpoint will be less or equal to the arithmetic mean
		// of the interval, which reduces the expected number of iterations of
		// the search compared to using the arithmetic mean directly.
		mid := left - int64(math.Floor((math.Log(0.5)+math.Log1p(math.Exp(lambda*float64(left-right))))/lambda))
		// Ensure that mid is contained in the search interval. This is a
		// safeguard against potential inaccuracies of finite precision arithmetic.
		if mid <= left {
			mid = left + 1
		} else if mid >= right {
			mid = right - 1
		}

		// Probability that the sample is at most mid, i.e.
		//   q = Pr[X ≤ mid | left < X ≤ right]
		// where X denotes the sample. The value of q should be approximately
		// one half.
		q := math.Expm1(lambda*float64(left-mid)) / math.Expm1(lambda*float64(left-right))
		if s.Uniform() <= q {
			right = mid
		} else {
			left = mid
		}
	}
	return right
}

// twoSidedGeometric draws a sample from a geometric distribution that is
// mirrored at 0. The non-negative part of the distribution's PDF matches
// the PDF of a geometric distribution of parameter p = 1 - e^-λ that is
// shifted to the left by 1 and scaled accordingly.
func twoSidedGeometric(s *rand.Source, lambda float64) int64 {
	var sample int64 = 0
	var sign int64 = -1
	// Keep a sample of 0 only if the sign is positive. Otherwise, the
	// probability of 0 would be twice as high as it should be.
	for sample == 0 && sign == -1 {
		sample = geometric(s, lambda) - 1
		sign = int64(s.Sign())
	}
	return sample * sign
}
