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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hanialnaber/data-anonymizer/dataset"
)

func TestInferKind(t *testing.T) {
	for _, tc := range []struct {
		desc  string
		cells []string
		want  dataset.Kind
	}{
		{"all numbers", []string{"1", "2.5", "-3"}, dataset.NumericKind},
		{"numbers with nulls", []string{"1", "", "3"}, dataset.NumericKind},
		{"dates", []string{"2021-07-14", "1999-01-01"}, dataset.DateKind},
		{"mixed", []string{"1", "abc"}, dataset.StringKind},
		{"all empty", []string{"", ""}, dataset.StringKind},
		{"text", []string{"Alice", "Bob"}, dataset.StringKind},
	} {
		if got := inferKind(tc.cells); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.desc, got, tc.want)
		}
	}
}

func TestReadWriteCSV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	content := "Name,Age,HireDate\nAlice,30,2020-01-15\nBob,,1999-12-31\n"
	if err := os.WriteFile(in, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := readCSV(in)
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	age, _ := d.Column("Age")
	if age.Kind != dataset.NumericKind {
		t.Errorf("Age kind: got %v, want numeric", age.Kind)
	}
	if !age.Values[1].IsNull() {
		t.Errorf("empty cell should be null, got %q", age.Values[1].Text())
	}
	hire, _ := d.Column("HireDate")
	if hire.Kind != dataset.DateKind {
		t.Errorf("HireDate kind: got %v, want date", hire.Kind)
	}

	out := filepath.Join(dir, "out.csv")
	if err := writeCSV(out, d); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(content, string(raw)); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}
