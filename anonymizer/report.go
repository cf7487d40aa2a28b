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

import "github.com/hanialnaber/data-anonymizer/dataset"

// Classification is the coarse privacy property a method gives a column. It
// describes the relationship between output and original values, not a
// formal guarantee.
type Classification string

const (
	// ClassIrreversible: original values cannot be recovered from the output
	// without the salt, or are gone entirely.
	ClassIrreversible Classification = "irreversible"
	// ClassPseudonym: replaced consistently, so joins survive but the mapping
	// exists and must itself be protected.
	ClassPseudonym Classification = "consistent-pseudonym"
	// ClassMasked: partially redacted; the retained window is disclosed as-is.
	ClassMasked Classification = "masked"
	// ClassGeneralized: replaced by a coarser category covering the original.
	ClassGeneralized Classification = "generalized"
	// ClassNoised: randomly altered; aggregate structure survives.
	ClassNoised Classification = "noised"
	// ClassShuffled: true values survive, detached from their rows.
	ClassShuffled Classification = "shuffled"
)

// ColumnReport describes what happened to a single configured column.
type ColumnReport struct {
	Column         string         `json:"column"`
	Method         string         `json:"method"`
	Classification Classification `json:"classification"`
}

// Report summarizes one anonymization run for audit purposes. It never
// contains original values or pseudonym mappings.
type Report struct {
	RunID   string         `json:"run_id"`
	Rows    int            `json:"rows"`
	Columns []ColumnReport `json:"columns"`
	// AchievedK is the smallest quasi-identifier group size after
	// generalization, or 0 when no k-anonymity method was configured.
	AchievedK int `json:"achieved_k,omitempty"`
	// Aggregates lists the differentially private aggregates released in
	// place of columns configured in aggregate mode.
	Aggregates []ReleasedAggregate `json:"aggregates,omitempty"`
}

func classify(p *columnPlan) Classification {
	switch p.method {
	case MethodHash, MethodRemove:
		return ClassIrreversible
	case MethodPseudonymize:
		return ClassPseudonym
	case MethodSubstitute:
		if p.deterministic {
			return ClassPseudonym
		}
		return ClassNoised
	case MethodMask, MethodEmail, MethodPhone, MethodSSN:
		return ClassMasked
	case MethodGeneralizeNumeric, MethodGeneralizeDate, MethodGeneralizeCategorical, MethodKAnonymity:
		return ClassGeneralized
	case MethodPerturb, MethodDifferentialPrivacy:
		return ClassNoised
	case MethodShuffle:
		return ClassShuffled
	}
	return ClassNoised
}

// score builds the run report. Column entries follow the dataset's column
// order so reports line up with the data they describe.
func (e *Engine) score(out *dataset.Dataset, achievedK int, aggregates []ReleasedAggregate) *Report {
	byColumn := make(map[string]*columnPlan)
	for _, plans := range [][]*columnPlan{e.rowPlans, e.kanonPlans, e.shufflers} {
		for _, p := range plans {
			byColumn[p.column] = p
		}
	}
	for column, p := range e.aggregateByColumn {
		byColumn[column] = p
	}

	report := &Report{
		RunID:      e.rc.ID,
		Rows:       out.Rows(),
		AchievedK:  achievedK,
		Aggregates: aggregates,
	}
	for _, name := range out.Names() {
		if p, ok := byColumn[name]; ok {
			report.Columns = append(report.Columns, ColumnReport{
				Column:         name,
				Method:         p.method.String(),
				Classification: classify(p),
			})
		}
	}
	return report
}
