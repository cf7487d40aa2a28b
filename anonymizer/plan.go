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

	"github.com/hanialnaber/data-anonymizer/checks"
	"github.com/hanialnaber/data-anonymizer/dataset"
	"github.com/hanialnaber/data-anonymizer/noise"
)

// applyFunc is the row-wise capability contract: transform one column's cells
// in place using the run context.
type applyFunc func(*columnPlan, *RunContext, *dataset.Column) error

// columnPlan is one column's compiled configuration: the resolved method,
// validated options and the bound apply function. Compiling up front means a
// run can only fail on data-dependent conditions, never on a typo in an
// option name.
type columnPlan struct {
	column string
	method Method
	apply  applyFunc

	// hash
	algorithm string
	salt      string // optional per-column override of the run salt

	// mask, email, phone, ssn
	maskChar               rune
	keepPrefix, keepSuffix int
	maskDomain             bool

	// pseudonymize, substitute
	pool          []string
	prefix        string
	unique        bool
	deterministic bool

	// generalization
	binSize     float64
	granularity string
	taxonomy    map[string]string

	// perturb
	noiseScale   float64
	absolute     bool
	distribution noise.Kind
	nonNegative  bool
	columnStdDev float64 // stamped by the dispatcher before the row phase

	// differential privacy
	epsilon, sensitivity float64
	dpMode, dpStatistic  string

	// k-anonymity
	quasiIdentifiers []string
	k                int
	maxDepth         int
}

// rowApply maps row-wise methods to their implementations. Cross-row methods
// and aggregate-mode differential privacy are orchestrated by the dispatcher
// instead.
var rowApply = map[Method]applyFunc{
	MethodHash:                  applyHash,
	MethodMask:                  applyMask,
	MethodPseudonymize:          applyPseudonymize,
	MethodSubstitute:            applySubstitute,
	MethodRemove:                applyRemove,
	MethodGeneralizeNumeric:     applyGeneralizeNumeric,
	MethodGeneralizeDate:        applyGeneralizeDate,
	MethodGeneralizeCategorical: applyGeneralizeCategorical,
	MethodPerturb:               applyPerturb,
	MethodDifferentialPrivacy:   applyDifferentialPrivacy,
	MethodEmail:                 applyEmail,
	MethodPhone:                 applyPhone,
	MethodSSN:                   applySSN,
}

// compilePlan validates a MethodSpec and binds it to its implementation.
func compilePlan(column string, spec MethodSpec) (*columnPlan, error) {
	method, err := ParseMethod(spec.Method)
	if err != nil {
		return nil, configError(column, spec.Method, "%v", err)
	}
	p := &columnPlan{column: column, method: method}
	opts := spec.Options

	fail := func(err error) (*columnPlan, error) {
		return nil, configError(column, method.String(), "%v", err)
	}

	switch method {
	case MethodHash:
		if err := checkKeys(opts, "algorithm", "salt"); err != nil {
			return fail(err)
		}
		if p.algorithm, err = optString(opts, "algorithm", algorithmSHA256); err != nil {
			return fail(err)
		}
		if p.algorithm != algorithmSHA256 && p.algorithm != algorithmSHA512 {
			return fail(fmt.Errorf("unsupported hash algorithm %q", p.algorithm))
		}
		if p.salt, err = optString(opts, "salt", ""); err != nil {
			return fail(err)
		}

	case MethodMask:
		if err := checkKeys(opts, "mask_char", "keep_prefix", "keep_suffix"); err != nil {
			return fail(err)
		}
		if err := p.parseMaskWindow(opts, 0, 0); err != nil {
			return fail(err)
		}

	case MethodPseudonymize:
		if err := checkKeys(opts, "pool", "list", "prefix", "deterministic", "unique"); err != nil {
			return fail(err)
		}
		det, err := optBool(opts, "deterministic", true)
		if err != nil {
			return fail(err)
		}
		if !det {
			return fail(fmt.Errorf("pseudonymization is deterministic; use substitute for independent draws"))
		}
		p.deterministic = true
		if p.prefix, err = optString(opts, "prefix", "ID"); err != nil {
			return fail(err)
		}
		if p.unique, err = optBool(opts, "unique", false); err != nil {
			return fail(err)
		}
		if err := p.parsePool(opts, false); err != nil {
			return fail(err)
		}

	case MethodSubstitute:
		if err := checkKeys(opts, "category", "list", "deterministic", "unique"); err != nil {
			return fail(err)
		}
		if p.deterministic, err = optBool(opts, "deterministic", false); err != nil {
			return fail(err)
		}
		if p.unique, err = optBool(opts, "unique", false); err != nil {
			return fail(err)
		}
		if err := p.parsePool(opts, true); err != nil {
			return fail(err)
		}

	case MethodRemove, MethodShuffle:
		if err := checkKeys(opts); err != nil {
			return fail(err)
		}

	case MethodGeneralizeNumeric:
		if err := checkKeys(opts, "bin_size"); err != nil {
			return fail(err)
		}
		if p.binSize, err = optFloat(opts, "bin_size", 10); err != nil {
			return fail(err)
		}
		if err := checks.CheckBinSize(p.binSize); err != nil {
			return fail(err)
		}

	case MethodGeneralizeDate:
		if err := checkKeys(opts, "granularity"); err != nil {
			return fail(err)
		}
		if p.granularity, err = optString(opts, "granularity", granularityMonth); err != nil {
			return fail(err)
		}
		switch p.granularity {
		case granularityDay, granularityMonth, granularityQuarter, granularityYear:
		default:
			return fail(fmt.Errorf("unknown granularity %q", p.granularity))
		}

	case MethodGeneralizeCategorical:
		if err := checkKeys(opts, "taxonomy"); err != nil {
			return fail(err)
		}
		if p.taxonomy, err = optStringMap(opts, "taxonomy"); err != nil {
			return fail(err)
		}
		if len(p.taxonomy) == 0 {
			return fail(fmt.Errorf("taxonomy is required"))
		}

	case MethodPerturb:
		if err := checkKeys(opts, "noise_scale", "absolute", "distribution", "non_negative"); err != nil {
			return fail(err)
		}
		if p.noiseScale, err = optFloat(opts, "noise_scale", 0.1); err != nil {
			return fail(err)
		}
		if err := checks.CheckNoiseScale(p.noiseScale); err != nil {
			return fail(err)
		}
		if p.absolute, err = optBool(opts, "absolute", false); err != nil {
			return fail(err)
		}
		if p.nonNegative, err = optBool(opts, "non_negative", false); err != nil {
			return fail(err)
		}
		name, err := optString(opts, "distribution", "")
		if err != nil {
			return fail(err)
		}
		if p.distribution, err = noise.ToKind(name); err != nil {
			return fail(err)
		}

	case MethodKAnonymity:
		if err := checkKeys(opts, "quasi_identifiers", "k", "max_generalization_depth"); err != nil {
			return fail(err)
		}
		if p.quasiIdentifiers, err = optStringSlice(opts, "quasi_identifiers"); err != nil {
			return fail(err)
		}
		if len(p.quasiIdentifiers) == 0 {
			return fail(fmt.Errorf("quasi_identifiers is required"))
		}
		seen := make(map[string]bool, len(p.quasiIdentifiers))
		for _, field := range p.quasiIdentifiers {
			if seen[field] {
				return fail(fmt.Errorf("duplicate quasi-identifier %q", field))
			}
			seen[field] = true
		}
		if p.k, err = optInt(opts, "k", 5); err != nil {
			return fail(err)
		}
		if err := checks.CheckK(p.k); err != nil {
			return fail(err)
		}
		if p.maxDepth, err = optInt(opts, "max_generalization_depth", 5); err != nil {
			return fail(err)
		}
		if err := checks.CheckGeneralizationDepth(p.maxDepth); err != nil {
			return fail(err)
		}

	case MethodDifferentialPrivacy:
		if err := checkKeys(opts, "epsilon", "sensitivity", "mode", "statistic"); err != nil {
			return fail(err)
		}
		// No defaults on purpose: a wrong implicit sensitivity silently voids
		// the privacy guarantee.
		if _, ok := opts["epsilon"]; !ok {
			return fail(fmt.Errorf("epsilon is required"))
		}
		if _, ok := opts["sensitivity"]; !ok {
			return fail(fmt.Errorf("sensitivity is required"))
		}
		if p.epsilon, err = optFloat(opts, "epsilon", 0); err != nil {
			return fail(err)
		}
		if err := checks.CheckEpsilonVeryStrict(p.epsilon); err != nil {
			return fail(err)
		}
		if p.sensitivity, err = optFloat(opts, "sensitivity", 0); err != nil {
			return fail(err)
		}
		if err := checks.CheckSensitivity(p.sensitivity); err != nil {
			return fail(err)
		}
		mode, err := optString(opts, "mode", "")
		if err != nil {
			return fail(err)
		}
		if p.dpMode, err = parseDPMode(mode); err != nil {
			return fail(err)
		}
		statistic, err := optString(opts, "statistic", "")
		if err != nil {
			return fail(err)
		}
		if p.dpStatistic, err = parseDPStatistic(statistic); err != nil {
			return fail(err)
		}

	case MethodEmail:
		if err := checkKeys(opts, "mask_domain", "mask_char"); err != nil {
			return fail(err)
		}
		if p.maskDomain, err = optBool(opts, "mask_domain", false); err != nil {
			return fail(err)
		}
		if err := p.parseMaskChar(opts); err != nil {
			return fail(err)
		}

	case MethodPhone:
		if err := checkKeys(opts, "keep_prefix", "keep_suffix", "mask_char"); err != nil {
			return fail(err)
		}
		if err := p.parseMaskWindow(opts, 3, 2); err != nil {
			return fail(err)
		}

	case MethodSSN:
		if err := checkKeys(opts, "keep_suffix", "mask_char"); err != nil {
			return fail(err)
		}
		if err := p.parseMaskWindow(opts, 0, 4); err != nil {
			return fail(err)
		}
	}

	p.apply = rowApply[method]
	return p, nil
}

// parseMaskWindow resolves mask_char, keep_prefix and keep_suffix with the
// given method-specific defaults.
func (p *columnPlan) parseMaskWindow(opts map[string]any, defaultPrefix, defaultSuffix int) error {
	if err := p.parseMaskChar(opts); err != nil {
		return err
	}
	var err error
	if p.keepPrefix, err = optInt(opts, "keep_prefix", defaultPrefix); err != nil {
		return err
	}
	if p.keepSuffix, err = optInt(opts, "keep_suffix", defaultSuffix); err != nil {
		return err
	}
	return checks.CheckKeepWindow(p.keepPrefix, p.keepSuffix)
}

func (p *columnPlan) parseMaskChar(opts map[string]any) error {
	s, err := optString(opts, "mask_char", "*")
	if err != nil {
		return err
	}
	if err := checks.CheckMaskChar(s); err != nil {
		return err
	}
	p.maskChar = []rune(s)[0]
	return nil
}

// parsePool resolves an inline list or a named category into p.pool. For
// substitute a pool is mandatory; pseudonymize falls back to prefix_<digest>
// pseudonyms when none is configured.
func (p *columnPlan) parsePool(opts map[string]any, required bool) error {
	inline, err := optStringSlice(opts, "list")
	if err != nil {
		return err
	}
	if len(inline) > 0 {
		p.pool = inline
		return nil
	}
	nameKey := "category"
	if p.method == MethodPseudonymize {
		nameKey = "pool"
	}
	// The pool option takes either a category name or an inline list.
	switch opts[nameKey].(type) {
	case []any, []string:
		if p.pool, err = optStringSlice(opts, nameKey); err != nil {
			return err
		}
		return checks.CheckPool(p.pool)
	}
	name, err := optString(opts, nameKey, "")
	if err != nil {
		return err
	}
	if name == "" {
		if required {
			return fmt.Errorf("a substitution pool is required: set %q or \"list\"", nameKey)
		}
		return nil
	}
	if p.pool, err = poolByName(name); err != nil {
		return err
	}
	return checks.CheckPool(p.pool)
}

// checkKeys rejects unrecognized option names. A typo in an option name must
// not silently fall back to a default.
func checkKeys(opts map[string]any, allowed ...string) error {
	for key := range opts {
		found := false
		for _, a := range allowed {
			if key == a {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown option %q", key)
		}
	}
	return nil
}

// nondeterministic reports whether the plan's output for a value can differ
// between applications. Quasi-identifier columns must be deterministic so
// that group membership is stable across the statistics and transform passes.
func (p *columnPlan) nondeterministic() bool {
	switch p.method {
	case MethodSubstitute:
		return !p.deterministic
	case MethodPerturb, MethodDifferentialPrivacy, MethodShuffle:
		return true
	}
	return false
}
