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
	"math"
	"strconv"
	"time"
)

// DateLayout is the canonical string form of date values.
const DateLayout = "2006-01-02"

type valueKind uint8

const (
	nullValue valueKind = iota
	stringValue
	numberValue
	timeValue
)

// Value is a single cell of a column: a string, a number, a date, or the null
// marker. The zero Value is null. A cell's representation may differ from the
// column's declared Kind after transformation, e.g. a numeric column holds
// range labels like "20-29" once generalized.
type Value struct {
	kind valueKind
	str  string
	num  float64
	t    time.Time
}

// Null returns the null marker.
func Null() Value {
	return Value{}
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: stringValue, str: s}
}

// Number returns a numeric Value. NaN is treated as null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Null()
	}
	return Value{kind: numberValue, num: f}
}

// Time returns a date Value.
func Time(t time.Time) Value {
	return Value{kind: timeValue, t: t}
}

// IsNull reports whether v is the null marker.
func (v Value) IsNull() bool {
	return v.kind == nullValue
}

// Text returns the canonical string form of v. Null renders as the empty
// string, numbers in their shortest exact form, dates as DateLayout.
func (v Value) Text() string {
	switch v.kind {
	case stringValue:
		return v.str
	case numberValue:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case timeValue:
		return v.t.Format(DateLayout)
	}
	return ""
}

// Float returns the numeric content of v. ok is false if v is not a number.
func (v Value) Float() (f float64, ok bool) {
	if v.kind != numberValue {
		return 0, false
	}
	return v.num, true
}

// Date returns the date content of v. ok is false if v is not a date.
func (v Value) Date() (t time.Time, ok bool) {
	if v.kind != timeValue {
		return time.Time{}, false
	}
	return v.t, true
}

// IsString reports whether v holds a string.
func (v Value) IsString() bool {
	return v.kind == stringValue
}
