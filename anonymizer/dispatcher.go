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

// Package anonymizer applies configured anonymization methods to tabular
// datasets. An Engine is compiled once from a Config and then run against one
// dataset, or fed chunks through Observe before running on each chunk.
package anonymizer

import (
	"fmt"
	"sort"
	"sync"

	log "github.com/golang/glog"
	"github.com/samber/lo"

	"github.com/hanialnaber/data-anonymizer/checks"
	"github.com/hanialnaber/data-anonymizer/dataset"
	"github.com/hanialnaber/data-anonymizer/stats"
)

// Options configures engine behavior that is not tied to any one column.
type Options struct {
	// Salt is mixed into every hash-derived transformation. Exactly one of
	// Salt and GenerateSalt must be set; with both empty, New fails rather
	// than falling back to a built-in constant.
	Salt string
	// GenerateSalt draws a fresh random salt for this run. Hashes from such a
	// run are not comparable with any other run's.
	GenerateSalt bool
	// PerWorkerRandomness gives every column worker its own lock-free secure
	// randomness source instead of the shared synchronized one.
	PerWorkerRandomness bool
}

// kanonSolution caches the solved widening depths of one k-anonymity plan so
// that every chunk of a multi-chunk run is widened identically.
type kanonSolution struct {
	depths   []int
	achieved int
}

// Engine holds a compiled configuration and the state shared across chunks.
type Engine struct {
	rowPlans   []*columnPlan // sorted by column name
	kanonPlans []*columnPlan
	shufflers  []*columnPlan
	// aggregateByColumn holds aggregate-mode differential privacy plans,
	// which run in neither the row nor the cross phase.
	aggregateByColumn map[string]*columnPlan

	rc *RunContext

	// moments accumulates per-column numeric moments during the statistics
	// pass, for relative perturbation scales and aggregate-mode differential
	// privacy releases.
	moments  map[string]*stats.Moments
	groups   map[string]*groupSet
	observed bool

	solutions  map[string]*kanonSolution
	aggregates map[string]ReleasedAggregate
}

// New compiles a configuration into an engine. All option validation happens
// here; a compiled engine can only fail on data-dependent conditions.
func New(cfg Config, opts Options) (*Engine, error) {
	rc, err := newRunContext(opts.Salt, opts.GenerateSalt, opts.PerWorkerRandomness)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		rc:                rc,
		aggregateByColumn: make(map[string]*columnPlan),
		moments:           make(map[string]*stats.Moments),
		groups:            make(map[string]*groupSet),
		solutions:         make(map[string]*kanonSolution),
		aggregates:        make(map[string]ReleasedAggregate),
	}

	plans := make(map[string]*columnPlan, len(cfg))
	columns := lo.Keys(cfg)
	sort.Strings(columns)
	for _, column := range columns {
		p, err := compilePlan(column, cfg[column])
		if err != nil {
			return nil, err
		}
		plans[column] = p
		switch {
		case p.method == MethodKAnonymity:
			e.kanonPlans = append(e.kanonPlans, p)
		case p.method == MethodShuffle:
			e.shufflers = append(e.shufflers, p)
		case p.method == MethodDifferentialPrivacy && p.dpMode == dpModeAggregate:
			// Released after the row phase, from column aggregates.
			e.aggregateByColumn[column] = p
		default:
			e.rowPlans = append(e.rowPlans, p)
		}
	}

	for _, p := range plans {
		if p.method == MethodPerturb && !p.absolute {
			e.moments[p.column] = &stats.Moments{}
		}
		if p.method == MethodDifferentialPrivacy && p.dpMode == dpModeAggregate {
			e.moments[p.column] = &stats.Moments{}
		}
	}

	// Quasi-identifier columns must transform deterministically: group
	// membership has to be identical between the statistics pass and the
	// transform pass, and between chunks.
	for _, kp := range e.kanonPlans {
		for _, field := range kp.quasiIdentifiers {
			if qp, ok := plans[field]; ok && qp.nondeterministic() {
				return nil, configError(kp.column, kp.method.String(),
					"quasi-identifier %q uses non-deterministic method %q", field, qp.method)
			}
		}
		e.groups[kp.column] = newGroupSet(kp.quasiIdentifiers)
	}

	err = checks.CheckSalt(rc.Salt)
	if err != nil {
		return nil, configError("", "", "%v", err)
	}
	log.V(1).Infof("run %s: engine compiled, %d row plans, %d cross plans",
		rc.ID, len(e.rowPlans), len(e.kanonPlans)+len(e.shufflers))
	return e, nil
}

// RunID identifies this engine's run in logs, reports and exported mappings.
func (e *Engine) RunID() string {
	return e.rc.ID
}

// Mappings exports the pseudonym tables assigned so far. See
// RunContext.Mappings.
func (e *Engine) Mappings() map[string]map[string]string {
	return e.rc.Mappings()
}

// Observe feeds one chunk to the statistics pass. For datasets too large to
// hold at once, call Observe for every chunk, then Run for every chunk; the
// engine then scales noise, releases aggregates and solves k-anonymity from
// whole-dataset statistics. Engines run on a single dataset may skip Observe.
func (e *Engine) Observe(chunk *dataset.Dataset) error {
	e.observed = true
	for column, m := range e.moments {
		if c, ok := chunk.Column(column); ok {
			m.ObserveColumn(c)
		}
	}
	for _, kp := range e.kanonPlans {
		transformed, err := e.transformQuasiIdentifiers(chunk, kp)
		if err != nil {
			return err
		}
		if err := e.groups[kp.column].observe(transformed); err != nil {
			return configError(kp.column, kp.method.String(), "%v", err)
		}
	}
	return nil
}

// transformQuasiIdentifiers applies the row-wise plans of a k-anonymity
// plan's quasi-identifier columns to cloned copies, so grouping sees the
// values the transform pass will produce. All such plans are deterministic,
// enforced at compile time.
func (e *Engine) transformQuasiIdentifiers(d *dataset.Dataset, kp *columnPlan) (*dataset.Dataset, error) {
	cols := make([]*dataset.Column, 0, len(kp.quasiIdentifiers))
	for _, field := range kp.quasiIdentifiers {
		c, ok := d.Column(field)
		if !ok {
			return nil, configError(kp.column, kp.method.String(), "quasi-identifier column %q not found", field)
		}
		clone := dataset.NewColumn(c.Name, c.Kind, append([]dataset.Value(nil), c.Values...))
		for _, p := range e.rowPlans {
			if p.column == field {
				if err := p.apply(p, e.rc, clone); err != nil {
					return nil, err
				}
			}
		}
		cols = append(cols, clone)
	}
	return dataset.New(cols...)
}

// Run anonymizes one dataset. On success it returns a transformed copy and a
// report; on any failure it returns the error and no dataset, leaving the
// input untouched. Failure is atomic: a partially transformed dataset is
// never released.
func (e *Engine) Run(d *dataset.Dataset) (*dataset.Dataset, *Report, error) {
	if err := e.validate(d); err != nil {
		return nil, nil, err
	}
	out := d.Clone()

	e.stampScales(d)
	// Pseudonym partitions are created before workers fan out so the map is
	// never written concurrently.
	for _, p := range e.rowPlans {
		if p.method == MethodPseudonymize || (p.method == MethodSubstitute && p.deterministic) {
			e.rc.table(p.column)
		}
	}

	if err := e.runRowPhase(out); err != nil {
		return nil, nil, err
	}
	aggregates, err := e.releaseAggregates(d, out)
	if err != nil {
		return nil, nil, err
	}
	achievedK, err := e.runKAnonymity(out)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range e.shufflers {
		c, _ := out.Column(p.column)
		if err := applyShuffle(p, e.rc, c); err != nil {
			return nil, nil, err
		}
	}

	report := e.score(out, achievedK, aggregates)
	log.V(1).Infof("run %s: %d rows anonymized across %d columns", e.rc.ID, out.Rows(), len(report.Columns))
	return out, report, nil
}

// validate checks every configured column against the dataset: the column
// must exist and its kind must be acceptable to the method.
func (e *Engine) validate(d *dataset.Dataset) error {
	check := func(p *columnPlan) error {
		c, ok := d.Column(p.column)
		if !ok {
			return configError(p.column, p.method.String(), "column not found in dataset")
		}
		if !p.method.compatibleWith(c.Kind) {
			return typeError(p.column, p.method.String(), "method does not accept %s columns", c.Kind)
		}
		return nil
	}
	for _, p := range e.rowPlans {
		if err := check(p); err != nil {
			return err
		}
	}
	for _, p := range e.shufflers {
		if err := check(p); err != nil {
			return err
		}
	}
	for _, kp := range e.kanonPlans {
		if err := check(kp); err != nil {
			return err
		}
		for _, field := range kp.quasiIdentifiers {
			if _, ok := d.Column(field); !ok {
				return configError(kp.column, kp.method.String(), "quasi-identifier column %q not found", field)
			}
		}
	}
	for _, p := range e.aggregateByColumn {
		if err := check(p); err != nil {
			return err
		}
	}
	return nil
}

// stampScales resolves data-dependent noise scales before workers start.
// With a prior statistics pass the accumulated moments are authoritative;
// otherwise the scale comes from the dataset at hand.
func (e *Engine) stampScales(d *dataset.Dataset) {
	for _, p := range e.rowPlans {
		if p.method != MethodPerturb || p.absolute {
			continue
		}
		if e.observed {
			p.columnStdDev = e.moments[p.column].StdDev()
		} else if c, ok := d.Column(p.column); ok {
			_, p.columnStdDev = stats.OfColumn(c)
		}
	}
}

// runRowPhase applies every row-wise plan, one goroutine per column. Columns
// are disjoint, so workers share no dataset state; the run context is either
// sharded per worker or internally synchronized.
func (e *Engine) runRowPhase(out *dataset.Dataset) error {
	errs := make([]error, len(e.rowPlans))
	var wg sync.WaitGroup
	for i, p := range e.rowPlans {
		c, _ := out.Column(p.column)
		wg.Add(1)
		go func(i int, p *columnPlan, c *dataset.Column) {
			defer wg.Done()
			errs[i] = p.apply(p, e.rc, c)
		}(i, p, c)
	}
	wg.Wait()
	// Plans are sorted by column name, so the reported error is deterministic
	// even when several columns fail.
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// releaseAggregates handles aggregate-mode differential privacy columns: the
// statistic is noised exactly once per engine, and every chunk's column is
// nulled. Re-releasing per chunk would multiply the privacy spend.
func (e *Engine) releaseAggregates(in, out *dataset.Dataset) ([]ReleasedAggregate, error) {
	columns := lo.Keys(e.moments)
	sort.Strings(columns)
	var released []ReleasedAggregate
	for _, column := range columns {
		p := e.aggregatePlan(column)
		if p == nil {
			continue
		}
		c, _ := out.Column(column)
		if agg, ok := e.aggregates[column]; ok {
			for i := range c.Values {
				c.Values[i] = dataset.Null()
			}
			released = append(released, agg)
			continue
		}
		m := e.moments[column]
		if !e.observed {
			raw, _ := in.Column(column)
			m.ObserveColumn(raw)
		}
		agg, err := releaseAggregate(p, e.rc, c, m.Sum(), m.Count())
		if err != nil {
			return nil, err
		}
		e.aggregates[column] = agg
		released = append(released, agg)
	}
	return released, nil
}

func (e *Engine) aggregatePlan(column string) *columnPlan {
	// Moments are also kept for relative perturbation scales; only
	// aggregate-mode differential privacy columns produce a release.
	return e.aggregateByColumn[column]
}

// runKAnonymity solves and applies each k-anonymity plan. Depths are solved
// once and reused for every chunk.
func (e *Engine) runKAnonymity(out *dataset.Dataset) (int, error) {
	achieved := 0
	for _, kp := range e.kanonPlans {
		sol, ok := e.solutions[kp.column]
		if !ok {
			groups := e.groups[kp.column]
			if !e.observed {
				// Single-dataset run: group over the already-transformed
				// output, which is exactly what the statistics pass would
				// have seen.
				view, err := projectColumns(out, kp.quasiIdentifiers)
				if err != nil {
					return 0, configError(kp.column, kp.method.String(), "%v", err)
				}
				if err := groups.observe(view); err != nil {
					return 0, configError(kp.column, kp.method.String(), "%v", err)
				}
			}
			depths, got, solved := groups.solve(kp.k, kp.maxDepth)
			if !solved {
				return 0, &Error{
					Kind:      ThresholdUnreachableError,
					Column:    kp.column,
					Method:    kp.method.String(),
					AchievedK: got,
					Err: fmt.Errorf("smallest group holds %d rows after exhausting generalization depth %d, need %d",
						got, kp.maxDepth, kp.k),
				}
			}
			sol = &kanonSolution{depths: depths, achieved: got}
			e.solutions[kp.column] = sol
		}
		if err := applyWidening(out, kp.quasiIdentifiers, sol.depths); err != nil {
			return 0, configError(kp.column, kp.method.String(), "%v", err)
		}
		if achieved == 0 || sol.achieved < achieved {
			achieved = sol.achieved
		}
	}
	return achieved, nil
}

// projectColumns returns a dataset view holding only the named columns.
func projectColumns(d *dataset.Dataset, names []string) (*dataset.Dataset, error) {
	cols := make([]*dataset.Column, 0, len(names))
	for _, name := range names {
		if c, ok := d.Column(name); ok {
			cols = append(cols, c)
		}
	}
	return dataset.New(cols...)
}
