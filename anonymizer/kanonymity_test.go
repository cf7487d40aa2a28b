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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hanialnaber/data-anonymizer/dataset"
)

func kanonConfig(k int, qi ...string) MethodSpec {
	fields := make([]any, len(qi))
	for i, f := range qi {
		fields[i] = f
	}
	return MethodSpec{Method: "k_anonymity", Options: map[string]any{
		"quasi_identifiers": fields, "k": k,
	}}
}

func TestKAnonymityWidensNumericField(t *testing.T) {
	d, _ := dataset.New(numberColumn("Age", 21, 22, 23, 28, 29, 35))
	out, report := mustRun(t, Config{"Age": kanonConfig(3, "Age")}, d)
	// Width-10 bins leave 35 alone in 30-39; width 20 merges everyone.
	want := []string{"20-39", "20-39", "20-39", "20-39", "20-39", "20-39"}
	if diff := cmp.Diff(want, texts(t, out, "Age")); diff != "" {
		t.Errorf("widened ages (-want +got):\n%s", diff)
	}
	if report.AchievedK != 6 {
		t.Errorf("achieved k: got %d, want 6", report.AchievedK)
	}
}

func TestKAnonymityLeavesSatisfiedGroupsAlone(t *testing.T) {
	d, _ := dataset.New(stringColumn("City", "Boston", "Boston", "Munich", "Munich"))
	out, report := mustRun(t, Config{"City": kanonConfig(2, "City")}, d)
	want := []string{"Boston", "Boston", "Munich", "Munich"}
	if diff := cmp.Diff(want, texts(t, out, "City")); diff != "" {
		t.Errorf("already k-anonymous data was widened (-want +got):\n%s", diff)
	}
	if report.AchievedK != 2 {
		t.Errorf("achieved k: got %d, want 2", report.AchievedK)
	}
}

func TestKAnonymityUnreachable(t *testing.T) {
	d, _ := dataset.New(numberColumn("Age", 21, 35))
	_, _, err := mustEngine(t, Config{"Age": kanonConfig(3, "Age")}).Run(d)
	kind, ok := KindOf(err)
	if !ok || kind != ThresholdUnreachableError {
		t.Fatalf("k above dataset size: got %v, want ThresholdUnreachableError", err)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error type: got %T", err)
	}
	if e.AchievedK != 2 {
		t.Errorf("achieved k in error: got %d, want 2", e.AchievedK)
	}
}

func TestKAnonymityEmptyDataset(t *testing.T) {
	d, _ := dataset.New(numberColumn("Age"))
	out, report, err := mustEngine(t, Config{"Age": kanonConfig(3, "Age")}).Run(d)
	if err != nil {
		t.Fatalf("empty dataset should satisfy k-anonymity vacuously: %v", err)
	}
	if out.Rows() != 0 {
		t.Errorf("rows: got %d, want 0", out.Rows())
	}
	if report.AchievedK != 0 {
		t.Errorf("achieved k over zero rows: got %d, want 0", report.AchievedK)
	}
}

func TestKAnonymityOverTransformedValues(t *testing.T) {
	// The quasi-identifier is generalized first; grouping and widening both
	// operate on the bin labels, not the raw ages.
	d, _ := dataset.New(
		numberColumn("Age", 21, 25, 33, 38),
		stringColumn("Name", "a", "b", "c", "d"),
	)
	out, report := mustRun(t, Config{
		"Age":  {Method: "generalize_numeric", Options: map[string]any{"bin_size": 10}},
		"Name": kanonConfig(2, "Age"),
	}, d)
	want := []string{"20-29", "20-29", "30-39", "30-39"}
	if diff := cmp.Diff(want, texts(t, out, "Age")); diff != "" {
		t.Errorf("grouped bins (-want +got):\n%s", diff)
	}
	if report.AchievedK != 2 {
		t.Errorf("achieved k: got %d, want 2", report.AchievedK)
	}
}

func TestKAnonymityStringLadder(t *testing.T) {
	d, _ := dataset.New(stringColumn("City", "Boston", "Boise", "Berlin", "Munich"))
	out, _ := mustRun(t, Config{"City": kanonConfig(2, "City")}, d)
	// Prefixes never merge Munich with the B cities, so the ladder bottoms
	// out at full suppression.
	want := []string{"*", "*", "*", "*"}
	if diff := cmp.Diff(want, texts(t, out, "City")); diff != "" {
		t.Errorf("suppressed cities (-want +got):\n%s", diff)
	}
}

func TestChunkedRunMatchesSinglePass(t *testing.T) {
	full, _ := dataset.New(
		stringColumn("Name", "Alice", "Bob", "Carol", "Dave"),
		numberColumn("Age", 21, 22, 35, 36),
	)
	chunk1, _ := dataset.New(
		stringColumn("Name", "Alice", "Bob"),
		numberColumn("Age", 21, 22),
	)
	chunk2, _ := dataset.New(
		stringColumn("Name", "Carol", "Dave"),
		numberColumn("Age", 35, 36),
	)
	cfg := Config{
		"Name": {Method: "hash"},
		"Age":  kanonConfig(2, "Age"),
	}

	single, _ := mustRun(t, cfg, full)

	chunked := mustEngine(t, cfg)
	for _, chunk := range []*dataset.Dataset{chunk1, chunk2} {
		if err := chunked.Observe(chunk); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}
	var got []string
	for _, chunk := range []*dataset.Dataset{chunk1, chunk2} {
		out, _, err := chunked.Run(chunk)
		if err != nil {
			t.Fatalf("Run chunk: %v", err)
		}
		got = append(got, texts(t, out, "Age")...)
	}
	if diff := cmp.Diff(texts(t, single, "Age"), got); diff != "" {
		t.Errorf("chunked widening differs from single pass (-want +got):\n%s", diff)
	}
}

func TestChunkedAggregateReleasedOnce(t *testing.T) {
	chunk1, _ := dataset.New(numberColumn("Salary", 1000, 2000))
	chunk2, _ := dataset.New(numberColumn("Salary", 3000))
	cfg := Config{"Salary": {
		Method:  "differential_privacy",
		Options: map[string]any{"epsilon": 1000.0, "sensitivity": 1.0, "mode": "aggregate"},
	}}
	e := mustEngine(t, cfg)
	for _, chunk := range []*dataset.Dataset{chunk1, chunk2} {
		if err := e.Observe(chunk); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}
	var values []float64
	for _, chunk := range []*dataset.Dataset{chunk1, chunk2} {
		out, report, err := e.Run(chunk)
		if err != nil {
			t.Fatalf("Run chunk: %v", err)
		}
		c, _ := out.Column("Salary")
		for i, v := range c.Values {
			if !v.IsNull() {
				t.Errorf("chunk row %d not nulled", i)
			}
		}
		if len(report.Aggregates) != 1 {
			t.Fatalf("aggregates per chunk report: got %d, want 1", len(report.Aggregates))
		}
		values = append(values, report.Aggregates[0].Value)
	}
	// The privacy budget is spent once: both chunk reports carry the same
	// noised release, drawn from the whole-dataset sum.
	if values[0] != values[1] {
		t.Errorf("aggregate re-released per chunk: %v vs %v", values[0], values[1])
	}
}
