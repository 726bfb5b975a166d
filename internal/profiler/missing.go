package profiler

import (
	"github.com/peekknuf/edaqa/internal/dataset"
)

// MissingRow holds the missing-value counts of one column.
type MissingRow struct {
	Column       string  `json:"column" yaml:"column"`
	MissingCount int     `json:"missing_count" yaml:"missing_count"`
	MissingShare float64 `json:"missing_share" yaml:"missing_share"`
}

// MissingnessTable is keyed by column name and keeps source order.
type MissingnessTable struct {
	NRows int          `json:"n_rows" yaml:"n_rows"`
	Rows  []MissingRow `json:"rows" yaml:"rows"`
	index map[string]int
}

// NewMissingnessTable builds a table from precomputed rows.
func NewMissingnessTable(nRows int, rows []MissingRow) *MissingnessTable {
	t := &MissingnessTable{NRows: nRows, Rows: rows}
	t.index = make(map[string]int, len(rows))
	for i, r := range rows {
		t.index[r.Column] = i
	}
	return t
}

// Row returns the row for a column.
func (t *MissingnessTable) Row(name string) (MissingRow, bool) {
	if t.index == nil {
		for _, r := range t.Rows {
			if r.Column == name {
				return r, true
			}
		}
		return MissingRow{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return MissingRow{}, false
	}
	return t.Rows[i], true
}

// Len returns the number of rows.
func (t *MissingnessTable) Len() int { return len(t.Rows) }

// MeanShare is the average missing share across columns.
func (t *MissingnessTable) MeanShare() float64 {
	if len(t.Rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range t.Rows {
		sum += r.MissingShare
	}
	return sum / float64(len(t.Rows))
}

// MaxShare is the largest missing share of any column.
func (t *MissingnessTable) MaxShare() float64 {
	var m float64
	for _, r := range t.Rows {
		if r.MissingShare > m {
			m = r.MissingShare
		}
	}
	return m
}

// MissingTable counts missing values per column.
func MissingTable(ds *dataset.Dataset) (*MissingnessTable, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	nRows := ds.NRows()
	denom := nRows
	if denom < 1 {
		denom = 1
	}

	rows := make([]MissingRow, len(ds.Columns))
	for i, col := range ds.Columns {
		missing := 0
		for _, v := range col.Values {
			if v.Missing {
				missing++
			}
		}
		rows[i] = MissingRow{
			Column:       col.Name,
			MissingCount: missing,
			MissingShare: float64(missing) / float64(denom),
		}
	}

	return NewMissingnessTable(nRows, rows), nil
}
