package profiler

import (
	"github.com/peekknuf/edaqa/internal/dataset"
)

// DatasetSummary is the shape of a dataset plus one profile per column.
type DatasetSummary struct {
	NRows   int             `json:"n_rows" yaml:"n_rows"`
	NCols   int             `json:"n_cols" yaml:"n_cols"`
	Columns []ColumnProfile `json:"columns" yaml:"columns"`
}

// Column looks up a column profile by name.
func (s *DatasetSummary) Column(name string) (*ColumnProfile, bool) {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return &s.Columns[i], true
		}
	}
	return nil, false
}

// Names returns the profiled column names in source order.
func (s *DatasetSummary) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Summarize profiles every column of ds.
func Summarize(ds *dataset.Dataset) (*DatasetSummary, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	nRows := ds.NRows()
	summary := &DatasetSummary{
		NRows:   nRows,
		NCols:   ds.NCols(),
		Columns: make([]ColumnProfile, 0, ds.NCols()),
	}

	for _, col := range ds.Columns {
		p := newColumnProcessor(col.Name, nRows, inferType(col) == TypeString)
		for _, v := range col.Values {
			p.processValue(v)
		}
		summary.Columns = append(summary.Columns, p.stats(nRows))
	}

	return summary, nil
}
