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
)

func TestCeilPowerOfTwoInputIsPowerOfTwo(t *testing.T) {
	for exponent := -1022.0; exponent <= 1023.0; exponent++ {
		x := math.Pow(2.0, exponent)
		if got := ceilPowerOfTwo(x); got != x {
			t.Errorf("ceilPowerOfTwo(%g) = %g, want %g", x, got, x)
		}
	}
}

func TestCeilPowerOfTwoRoundsUp(t *testing.T) {
	for _, tc := range []struct {
		x    float64
		want float64
	}{
		{0.99, 1.0},
		{1.01, 2.0},
		{3.0, 4.0},
		{5.5, 8.0},
		{1023.0, 1024.0},
	} {
		if got := ceilPowerOfTwo(tc.x); got != tc.want {
			t.Errorf("ceilPowerOfTwo(%g) = %g, want %g", tc.x, got, tc.want)
		}
	}
}

func TestCeilPowerOfTwoInvalidInput(t *testing.T) {
	for _, x := range []float64{0.0, -1.0, math.Inf(1), math.Inf(-1), math.NaN()} {
		if got := ceilPowerOfTwo(x); !math.IsNaN(got) {
			t.Errorf("ceilPowerOfTwo(%g) = %g, want NaN", x, got)
		}
	}
}

func TestRoundToMultipleGranularityIsOne(t *testing.T) {
	for _, x := range []int64{0, 1, -1, 2, -2, 648391, -648391} {
		if got := roundToMultiple(x, 1); got != x {
			t.Errorf("roundToMultiple(%d, 1) = %d, want %d", x, got, x)
		}
	}
}

func TestRoundToMultiple(t *testing.T) {
	for _, tc := range []struct {
		x           int64
		granularity int64
		want        int64
	}{
		{0, 4, 0},
		{1, 4, 0},
		{2, 4, 4}, // ties round towards positive infinity
		{3, 4, 4},
		{4, 4, 4},
		{-1, 4, 0},
		{-2, 4, 0}, // ties round towards positive infinity
		{-3, 4, -4},
		{7, 5, 5},
		{8, 5, 10},
		{-7, 5, -5},
	} {
		if got := roundToMultiple(tc.x, tc.granularity); got != tc.want {
			t.Errorf("roundToMultiple(%d, %d) = %d, want %d", tc.x, tc.granularity, got, tc.want)
		}
	}
}
