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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/hanialnaber/data-anonymizer/dataset"
)

// readCSV loads a headered CSV file into a dataset. Column kinds are inferred
// from the data: a column whose every non-empty cell parses as a number is
// numeric, as a date is a date column, anything else is a string column.
// Empty cells become nulls.
func readCSV(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}
	header, rows := records[0], records[1:]

	columns := make([]*dataset.Column, len(header))
	for col, name := range header {
		cells := make([]string, len(rows))
		for row := range rows {
			cells[row] = rows[row][col]
		}
		columns[col] = inferColumn(name, cells)
	}
	return dataset.New(columns...)
}

func inferColumn(name string, cells []string) *dataset.Column {
	kind := inferKind(cells)
	values := make([]dataset.Value, len(cells))
	for i, cell := range cells {
		values[i] = parseCell(cell, kind)
	}
	return dataset.NewColumn(name, kind, values)
}

func inferKind(cells []string) dataset.Kind {
	numeric, date, nonEmpty := true, true, 0
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		nonEmpty++
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			numeric = false
		}
		if _, err := time.Parse(dataset.DateLayout, cell); err != nil {
			date = false
		}
	}
	switch {
	case nonEmpty == 0:
		return dataset.StringKind
	case numeric:
		return dataset.NumericKind
	case date:
		return dataset.DateKind
	}
	return dataset.StringKind
}

func parseCell(cell string, kind dataset.Kind) dataset.Value {
	if cell == "" {
		return dataset.Null()
	}
	switch kind {
	case dataset.NumericKind:
		f, _ := strconv.ParseFloat(cell, 64)
		return dataset.Number(f)
	case dataset.DateKind:
		t, _ := time.Parse(dataset.DateLayout, cell)
		return dataset.Time(t)
	}
	return dataset.String(cell)
}

// writeCSV writes the dataset as headered CSV, nulls as empty cells. An empty
// path writes to stdout.
func writeCSV(path string, d *dataset.Dataset) error {
	var out io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		defer f.Close()
		out = f
	}
	w := csv.NewWriter(out)
	if err := w.Write(d.Names()); err != nil {
		return err
	}
	columns := d.Columns()
	record := make([]string, len(columns))
	for row := 0; row < d.Rows(); row++ {
		for col, c := range columns {
			record[col] = c.Values[row].Text()
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
