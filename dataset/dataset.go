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

// Package dataset defines the in-memory column-oriented representation that
// the anonymization engine consumes and produces.
package dataset

import (
	"fmt"
)

// Kind is the declared logical type of a column.
type Kind int

// Column kinds.
const (
	StringKind Kind = iota
	NumericKind
	DateKind
	CategoricalKind
)

// ParseKind converts a type name into a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "string":
		return StringKind, nil
	case "numeric":
		return NumericKind, nil
	case "date":
		return DateKind, nil
	case "categorical":
		return CategoricalKind, nil
	}
	return StringKind, fmt.Errorf("unknown column type %q", name)
}

// String returns the configuration name of the Kind.
func (k Kind) String() string {
	switch k {
	case StringKind:
		return "string"
	case NumericKind:
		return "numeric"
	case DateKind:
		return "date"
	case CategoricalKind:
		return "categorical"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Column is a named, typed, ordered sequence of values.
type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

// NewColumn returns a column with the given name, kind and values.
func NewColumn(name string, kind Kind, values []Value) *Column {
	return &Column{Name: name, Kind: kind, Values: values}
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	return len(c.Values)
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Kind: c.Kind, Values: values}
}

// Dataset is an ordered collection of equally long named columns. Row order is
// significant and is preserved by every transformation that does not
// explicitly reorder.
type Dataset struct {
	columns []*Column
	byName  map[string]*Column
}

// New builds a Dataset from the given columns. It fails if column names repeat
// or row counts disagree.
func New(columns ...*Column) (*Dataset, error) {
	d := &Dataset{byName: make(map[string]*Column, len(columns))}
	for _, c := range columns {
		if err := d.Append(c); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Append adds a column to the dataset.
func (d *Dataset) Append(c *Column) error {
	if _, ok := d.byName[c.Name]; ok {
		return fmt.Errorf("duplicate column name %q", c.Name)
	}
	if len(d.columns) > 0 && c.Len() != d.Rows() {
		return fmt.Errorf("column %q has %d rows, dataset has %d", c.Name, c.Len(), d.Rows())
	}
	d.columns = append(d.columns, c)
	d.byName[c.Name] = c
	return nil
}

// Rows returns the shared row count N.
func (d *Dataset) Rows() int {
	if len(d.columns) == 0 {
		return 0
	}
	return d.columns[0].Len()
}

// Columns returns the columns in declaration order.
func (d *Dataset) Columns() []*Column {
	return d.columns
}

// Column returns the column with the given name.
func (d *Dataset) Column(name string) (*Column, bool) {
	c, ok := d.byName[name]
	return c, ok
}

// Names returns the column names in declaration order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	clone := &Dataset{byName: make(map[string]*Column, len(d.columns))}
	for _, c := range d.columns {
		cc := c.Clone()
		clone.columns = append(clone.columns, cc)
		clone.byName[cc.Name] = cc
	}
	return clone
}
