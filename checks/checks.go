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

// Package checks contains parameter checks for anonymization methods.
package checks

import (
	"fmt"
	"math"
	"unicode/utf8"

	log "github.com/golang/glog"
)

// CheckEpsilonStrict returns an error if ε is nonpositive or +∞.
func CheckEpsilonStrict(epsilon float64) error {
	if epsilon <= 0 || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return fmt.Errorf("Epsilon is %f, must be strictly positive and finite", epsilon)
	}
	return nil
}

// CheckEpsilonVeryStrict returns an error if ε is +∞ or less than 2⁻⁵⁰.
// The lower bound guards the secure noise sampler against granularity overflows.
func CheckEpsilonVeryStrict(epsilon float64) error {
	if epsilon < math.Exp2(-50.0) || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return fmt.Errorf("Epsilon is %f, must be at least 2^-50 and finite", epsilon)
	}
	return nil
}

// CheckSensitivity returns an error if the sensitivity is nonpositive or +∞.
func CheckSensitivity(sensitivity float64) error {
	if sensitivity <= 0 || math.IsInf(sensitivity, 0) || math.IsNaN(sensitivity) {
		return fmt.Errorf("Sensitivity is %f, must be strictly positive and finite", sensitivity)
	}
	return nil
}

// CheckNoiseScale returns an error if a perturbation scale is nonpositive or +∞.
func CheckNoiseScale(scale float64) error {
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return fmt.Errorf("NoiseScale is %f, must be strictly positive and finite", scale)
	}
	return nil
}

// CheckBinSize returns an error if a generalization bin size is nonpositive or +∞.
func CheckBinSize(binSize float64) error {
	if binSize <= 0 || math.IsInf(binSize, 0) || math.IsNaN(binSize) {
		return fmt.Errorf("BinSize is %f, must be strictly positive and finite", binSize)
	}
	if binSize < 1 {
		log.Warningf("BinSize is %f, bins narrower than 1 rarely generalize anything", binSize)
	}
	return nil
}

// CheckK returns an error if a k-anonymity threshold is less than 2.
func CheckK(k int) error {
	if k < 2 {
		return fmt.Errorf("K is %d, must be at least 2", k)
	}
	return nil
}

// CheckGeneralizationDepth returns an error if the maximum generalization
// depth is not strictly positive.
func CheckGeneralizationDepth(depth int) error {
	if depth < 1 {
		return fmt.Errorf("MaxGeneralizationDepth is %d, must be at least 1", depth)
	}
	return nil
}

// CheckMaskChar returns an error if the mask character is not exactly one rune.
func CheckMaskChar(maskChar string) error {
	if utf8.RuneCountInString(maskChar) != 1 {
		return fmt.Errorf("MaskChar is %q, must be exactly one character", maskChar)
	}
	return nil
}

// CheckKeepWindow returns an error if a masking keep-prefix/keep-suffix pair
// is negative.
func CheckKeepWindow(keepPrefix, keepSuffix int) error {
	if keepPrefix < 0 {
		return fmt.Errorf("KeepPrefix is %d, cannot be negative", keepPrefix)
	}
	if keepSuffix < 0 {
		return fmt.Errorf("KeepSuffix is %d, cannot be negative", keepSuffix)
	}
	return nil
}

// CheckSalt returns an error if the salt is empty. An empty salt makes hashes
// comparable across deployments and enables precomputed lookup attacks.
func CheckSalt(salt string) error {
	if salt == "" {
		return fmt.Errorf("Salt is empty, must be supplied or explicitly generated")
	}
	if len(salt) < 8 {
		log.Warningf("Salt is only %d characters, consider at least 16", len(salt))
	}
	return nil
}

// CheckPool returns an error if a substitution pool is empty.
func CheckPool(pool []string) error {
	if len(pool) == 0 {
		return fmt.Errorf("Pool is empty, must contain at least one entry")
	}
	return nil
}
