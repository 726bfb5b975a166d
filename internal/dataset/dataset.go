package dataset

import (
	"fmt"
	"strings"
)

// DataFormatError reports a dataset that is not a well-formed table.
type DataFormatError struct {
	Reason string
	Row    int // 1-based data row, 0 when not row specific
	Column string
}

func (e *DataFormatError) Error() string {
	var b strings.Builder
	b.WriteString("malformed dataset: ")
	b.WriteString(e.Reason)
	if e.Column != "" {
		fmt.Fprintf(&b, " (column %q)", e.Column)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " (row %d)", e.Row)
	}
	return b.String()
}

// Column is a named sequence of cells.
type Column struct {
	Name   string
	Values []Value
}

// Dataset is an immutable column-major table. Analyzers only read it.
type Dataset struct {
	Columns []Column
	index   map[string]int
}

// New builds a dataset from row-major values.
func New(names []string, rows [][]Value) (*Dataset, error) {
	if err := validateNames(names); err != nil {
		return nil, err
	}

	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name, Values: make([]Value, 0, len(rows))}
	}

	for r, row := range rows {
		if len(row) != len(names) {
			return nil, &DataFormatError{
				Reason: fmt.Sprintf("row has %d fields, header has %d", len(row), len(names)),
				Row:    r + 1,
			}
		}
		for i, v := range row {
			cols[i].Values = append(cols[i].Values, v)
		}
	}

	return FromColumns(cols)
}

// FromRecords parses text records, as read from a CSV file, into a dataset.
func FromRecords(header []string, records [][]string, nulls NullSet) (*Dataset, error) {
	rows := make([][]Value, len(records))
	for r, rec := range records {
		row := make([]Value, len(rec))
		for i, raw := range rec {
			row[i] = ParseCell(raw, nulls)
		}
		rows[r] = row
	}
	return New(header, rows)
}

// FromColumns builds a dataset from already assembled columns.
func FromColumns(cols []Column) (*Dataset, error) {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	if err := validateNames(names); err != nil {
		return nil, err
	}

	ds := &Dataset{Columns: cols}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	ds.buildIndex()
	return ds, nil
}

// Validate checks that the dataset is rectangular with unique names.
func (d *Dataset) Validate() error {
	if d == nil {
		return &DataFormatError{Reason: "dataset is nil"}
	}
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	if err := validateNames(names); err != nil {
		return err
	}
	if len(d.Columns) == 0 {
		return nil
	}
	n := len(d.Columns[0].Values)
	for _, c := range d.Columns[1:] {
		if len(c.Values) != n {
			return &DataFormatError{
				Reason: fmt.Sprintf("column has %d values, expected %d", len(c.Values), n),
				Column: c.Name,
			}
		}
	}
	return nil
}

// NRows returns the number of rows.
func (d *Dataset) NRows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Values)
}

// NCols returns the number of columns.
func (d *Dataset) NCols() int {
	return len(d.Columns)
}

// Names returns column names in source order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (*Column, bool) {
	if d.index == nil {
		for i := range d.Columns {
			if d.Columns[i].Name == name {
				return &d.Columns[i], true
			}
		}
		return nil, false
	}
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return &d.Columns[i], true
}

func (d *Dataset) buildIndex() {
	d.index = make(map[string]int, len(d.Columns))
	for i, c := range d.Columns {
		d.index[c.Name] = i
	}
}

func validateNames(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return &DataFormatError{Reason: fmt.Sprintf("column %d has an empty name", i+1)}
		}
		if _, dup := seen[name]; dup {
			return &DataFormatError{Reason: "duplicate column name", Column: name}
		}
		seen[name] = struct{}{}
	}
	return nil
}
