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

package dataset

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New(
		NewColumn("a", StringKind, []Value{String("x")}),
		NewColumn("a", StringKind, []Value{String("y")}),
	)
	if err == nil {
		t.Errorf("New with duplicate column names: got nil error, want error")
	}
}

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := New(
		NewColumn("a", StringKind, []Value{String("x"), String("y")}),
		NewColumn("b", StringKind, []Value{String("z")}),
	)
	if err == nil {
		t.Errorf("New with ragged columns: got nil error, want error")
	}
}

func TestValueText(t *testing.T) {
	for _, tc := range []struct {
		desc string
		v    Value
		want string
	}{
		{"null", Null(), ""},
		{"string", String("hello"), "hello"},
		{"integer-valued number", Number(42), "42"},
		{"fractional number", Number(2.5), "2.5"},
		{"date", Time(time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)), "2023-06-15"},
	} {
		if got := tc.v.Text(); got != tc.want {
			t.Errorf("%s: Text() = %q, want %q", tc.desc, got, tc.want)
		}
	}
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	if !v.IsNull() {
		t.Errorf("zero Value: IsNull() = false, want true")
	}
	if _, ok := v.Float(); ok {
		t.Errorf("zero Value: Float() ok = true, want false")
	}
	if _, ok := v.Date(); ok {
		t.Errorf("zero Value: Date() ok = true, want false")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig, err := New(NewColumn("a", NumericKind, []Value{Number(1), Number(2)}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	clone := orig.Clone()
	c, _ := clone.Column("a")
	c.Values[0] = Null()

	origCol, _ := orig.Column("a")
	if origCol.Values[0].IsNull() {
		t.Errorf("mutating a clone changed the original dataset")
	}
}

func TestNamesPreserveOrder(t *testing.T) {
	d, err := New(
		NewColumn("zip", StringKind, nil),
		NewColumn("age", NumericKind, nil),
		NewColumn("name", StringKind, nil),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	want := []string{"zip", "age", "name"}
	if diff := cmp.Diff(want, d.Names()); diff != "" {
		t.Errorf("Names() returned unexpected order (-want +got):\n%s", diff)
	}
}

func TestSampleShape(t *testing.T) {
	d := Sample(25)
	if got := d.Rows(); got != 25 {
		t.Errorf("Sample(25).Rows() = %d, want 25", got)
	}
	for _, name := range []string{"Name", "Age", "Email", "Phone", "SSN", "HireDate"} {
		c, ok := d.Column(name)
		if !ok {
			t.Fatalf("Sample dataset is missing column %q", name)
		}
		for i, v := range c.Values {
			if v.IsNull() {
				t.Errorf("Sample column %q row %d is null", name, i)
			}
		}
	}
}
