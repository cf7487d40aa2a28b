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
)

// ceilPowerOfTwo returns the smallest power of 2 larger or equal to x. The
// value of x must be a finite positive number not greater than 2^1023. The
// result is guaranteed to be an exact power of 2.
func ceilPowerOfTwo(x float64) float64 {
	if x <= 0.0 || math.IsInf(x, 0) || math.IsNaN(x) {
		return math.NaN()
	}

	// Per IEEE 754, a float64 is laid out as "1*s 11*e 52*m" where "s" is the
	// sign bit, "e" the exponent bits and "m" the mantissa bits.
	var exponentMask uint64 = 0x7ff0000000000000
	var mantissaMask uint64 = 0x000fffffffffffff

	bits := math.Float64bits(x)

	// A finite positive x is a power of 2 if and only if its mantissa is 0.
	if bits&mantissaMask == 0 {
		return x
	}

	exponentBits := bits & exponentMask
	if exponentBits >= math.Float64bits(math.MaxFloat64)&exponentMask {
		// Input is too large.
		return math.NaN()
	}

	// Increase the exponent by 1 to get the next power of 2, keeping a
	// mantissa of all zeros.
	return math.Float64frombits(exponentBits + 0x0010000000000000)
}

// roundToMultipleOfPowerOfTwo returns the multiple of granularity closest
// to x. The granularity needs to be an exact power of 2, otherwise the
// result might not be exact.
func roundToMultipleOfPowerOfTwo(x, granularity float64) float64 {
	return math.Round(x/granularity) * granularity
}

// roundToMultiple returns the multiple of granularity closest to x. Ties are
// broken towards positive infinity.
func roundToMultiple(x, granularity int64) int64 {
	result := (x / granularity) * granularity
	remainder := x % granularity
	if remainder*2 >= granularity {
		return result + granularity
	}
	if -remainder*2 > granularity {
		return result - granularity
	}
	return result
}
