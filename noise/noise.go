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

// Package noise contains zero-mean noise samplers used for statistical
// perturbation and differential privacy.
package noise

import (
	"fmt"

	"github.com/hanialnaber/data-anonymizer/rand"
)

// Kind is an enum type. Its values are the supported perturbation
// distributions.
type Kind int

// Perturbation distributions.
const (
	UniformNoise Kind = iota
	GaussianNoise
)

// ToKind converts a distribution name into a Kind.
func ToKind(name string) (Kind, error) {
	switch name {
	case "", "uniform":
		return UniformNoise, nil
	case "gaussian":
		return GaussianNoise, nil
	}
	return UniformNoise, fmt.Errorf("unknown noise distribution %q", name)
}

// String returns the configuration name of the Kind.
func (k Kind) String() string {
	switch k {
	case UniformNoise:
		return "uniform"
	case GaussianNoise:
		return "gaussian"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sample draws one zero-mean sample of the given Kind and scale from s.
// For UniformNoise the sample is uniform on [-scale, scale]; for GaussianNoise
// it is normal with standard deviation scale.
func (k Kind) Sample(s *rand.Source, scale float64) float64 {
	switch k {
	case GaussianNoise:
		return s.Normal() * scale
	default:
		// Uniform() covers (0,1]; recenter onto [-scale, scale).
		return (2*s.Uniform() - 1) * scale
	}
}
