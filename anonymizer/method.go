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

// Package anonymizer implements the column anonymization engine: a dispatcher
// over per-column transformation methods, cross-row methods such as
// k-anonymity grouping, differential privacy noise injection, and the
// post-transform privacy report.
package anonymizer

import (
	"fmt"

	"github.com/hanialnaber/data-anonymizer/dataset"
)

// Method enumerates the supported anonymization methods. The set is closed;
// unknown method names fail configuration compilation.
type Method int

// Anonymization methods.
const (
	MethodHash Method = iota
	MethodMask
	MethodPseudonymize
	MethodSubstitute
	MethodRemove
	MethodGeneralizeNumeric
	MethodGeneralizeDate
	MethodGeneralizeCategorical
	MethodPerturb
	MethodKAnonymity
	MethodDifferentialPrivacy
	MethodShuffle
	MethodEmail
	MethodPhone
	MethodSSN
)

// phase separates row-wise methods, which transform cells of one column
// independently, from cross-row methods, which operate over whole columns and
// must run only after every row-wise method has completed.
type phase int

const (
	rowPhase phase = iota
	crossPhase
)

// methodInfo is the compile-time registry entry for a method.
type methodInfo struct {
	name  string
	phase phase
	// kinds lists the column kinds the method accepts; nil means any.
	kinds []dataset.Kind
}

var methodTable = map[Method]methodInfo{
	MethodHash:                  {name: "hash", phase: rowPhase},
	MethodMask:                  {name: "mask", phase: rowPhase},
	MethodPseudonymize:          {name: "pseudonymize", phase: rowPhase},
	MethodSubstitute:            {name: "substitute", phase: rowPhase},
	MethodRemove:                {name: "remove", phase: rowPhase},
	MethodGeneralizeNumeric:     {name: "generalize_numeric", phase: rowPhase, kinds: []dataset.Kind{dataset.NumericKind}},
	MethodGeneralizeDate:        {name: "generalize_date", phase: rowPhase, kinds: []dataset.Kind{dataset.DateKind}},
	MethodGeneralizeCategorical: {name: "generalize_categorical", phase: rowPhase, kinds: []dataset.Kind{dataset.CategoricalKind, dataset.StringKind}},
	MethodPerturb:               {name: "perturb", phase: rowPhase, kinds: []dataset.Kind{dataset.NumericKind}},
	MethodKAnonymity:            {name: "k_anonymity", phase: crossPhase},
	MethodDifferentialPrivacy:   {name: "differential_privacy", phase: rowPhase, kinds: []dataset.Kind{dataset.NumericKind}},
	MethodShuffle:               {name: "shuffle", phase: crossPhase},
	MethodEmail:                 {name: "email", phase: rowPhase, kinds: []dataset.Kind{dataset.StringKind}},
	MethodPhone:                 {name: "phone", phase: rowPhase, kinds: []dataset.Kind{dataset.StringKind}},
	MethodSSN:                   {name: "ssn", phase: rowPhase, kinds: []dataset.Kind{dataset.StringKind}},
}

// methodByName maps configuration names to methods, including aliases.
var methodByName = func() map[string]Method {
	m := make(map[string]Method, len(methodTable)+1)
	for method, info := range methodTable {
		m[info.name] = method
	}
	// Historical alias.
	m["date_generalization"] = MethodGeneralizeDate
	return m
}()

// ParseMethod resolves a configuration method name.
func ParseMethod(name string) (Method, error) {
	m, ok := methodByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown method %q", name)
	}
	return m, nil
}

// String returns the configuration name of the method.
func (m Method) String() string {
	if info, ok := methodTable[m]; ok {
		return info.name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// compatibleWith reports whether the method accepts a column of the given kind.
func (m Method) compatibleWith(kind dataset.Kind) bool {
	info := methodTable[m]
	if info.kinds == nil {
		return true
	}
	for _, k := range info.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// MethodSpec is one column's configuration entry: a method name plus its
// method-specific options. Columns absent from the configuration pass through
// unmodified.
type MethodSpec struct {
	Method  string         `json:"method"`
	Options map[string]any `json:"options,omitempty"`
}

// Config maps column names to their MethodSpec.
type Config map[string]MethodSpec

// Option accessors. JSON decoding yields float64 for all numbers, so the
// numeric accessors accept both float64 and int.

func optString(opts map[string]any, key, fallback string) (string, error) {
	v, ok := opts[key]
	if !ok {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("option %q is %T, must be a string", key, v)
	}
	return s, nil
}

func optFloat(opts map[string]any, key string, fallback float64) (float64, error) {
	v, ok := opts[key]
	if !ok {
		return fallback, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("option %q is %T, must be a number", key, v)
}

func optInt(opts map[string]any, key string, fallback int) (int, error) {
	f, err := optFloat(opts, key, float64(fallback))
	if err != nil {
		return 0, err
	}
	i := int(f)
	if float64(i) != f {
		return 0, fmt.Errorf("option %q is %v, must be an integer", key, f)
	}
	return i, nil
}

func optBool(opts map[string]any, key string, fallback bool) (bool, error) {
	v, ok := opts[key]
	if !ok {
		return fallback, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("option %q is %T, must be a boolean", key, v)
	}
	return b, nil
}

func optStringSlice(opts map[string]any, key string) ([]string, error) {
	v, ok := opts[key]
	if !ok {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, len(list))
		for i, e := range list {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("option %q element %d is %T, must be a string", key, i, e)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("option %q is %T, must be a list of strings", key, v)
}

func optStringMap(opts map[string]any, key string) (map[string]string, error) {
	v, ok := opts[key]
	if !ok {
		return nil, nil
	}
	switch m := v.(type) {
	case map[string]string:
		return m, nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, e := range m {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("option %q entry %q is %T, must be a string", key, k, e)
			}
			out[k] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("option %q is %T, must be a string mapping", key, v)
}
