package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/peekknuf/edaqa/internal/profiler"
)

// SummaryRow is one column profile flattened for tables and exports.
// Undefined statistics are nil.
type SummaryRow struct {
	Name         string   `json:"name" yaml:"name"`
	Kind         string   `json:"kind" yaml:"kind"`
	Type         string   `json:"type" yaml:"type"`
	NonNull      int      `json:"non_null" yaml:"non_null"`
	Missing      int      `json:"missing" yaml:"missing"`
	MissingShare float64  `json:"missing_share" yaml:"missing_share"`
	Unique       int      `json:"unique" yaml:"unique"`
	Examples     []string `json:"examples" yaml:"examples"`
	IsNumeric    bool     `json:"is_numeric" yaml:"is_numeric"`
	Min          *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max          *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Mean         *float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	Std          *float64 `json:"std,omitempty" yaml:"std,omitempty"`
	Q25          *float64 `json:"q25,omitempty" yaml:"q25,omitempty"`
	Q50          *float64 `json:"q50,omitempty" yaml:"q50,omitempty"`
	Q75          *float64 `json:"q75,omitempty" yaml:"q75,omitempty"`
	Top          string   `json:"top,omitempty" yaml:"top,omitempty"`
	Freq         int      `json:"freq,omitempty" yaml:"freq,omitempty"`
}

// SummaryHeader names the fields of SummaryRow.Record in order.
var SummaryHeader = []string{
	"name", "kind", "type", "non_null", "missing", "missing_share", "unique",
	"examples", "is_numeric", "min", "max", "mean", "std", "q25", "q50", "q75",
	"top", "freq",
}

// FlattenSummary returns one row per column in source order.
func FlattenSummary(summary *profiler.DatasetSummary) []SummaryRow {
	if summary == nil {
		return nil
	}

	rows := make([]SummaryRow, len(summary.Columns))
	for i := range summary.Columns {
		c := &summary.Columns[i]
		row := SummaryRow{
			Name:         c.Name,
			Kind:         c.Kind.String(),
			Type:         c.Type,
			NonNull:      c.NonNull,
			Missing:      c.Missing,
			MissingShare: c.MissingShare,
			Unique:       c.Unique,
			Examples:     c.Examples,
			IsNumeric:    c.IsNumeric(),
			Top:          c.Top,
			Freq:         c.Freq,
		}
		if c.IsNumeric() {
			row.Min = finite(c.Min)
			row.Max = finite(c.Max)
			row.Mean = finite(c.Mean)
			row.Std = finite(c.Std)
			row.Q25 = finite(c.Q25)
			row.Q50 = finite(c.Q50)
			row.Q75 = finite(c.Q75)
		}
		rows[i] = row
	}
	return rows
}

// Record renders the row as strings in SummaryHeader order.
func (r SummaryRow) Record() []string {
	freq := ""
	if r.Freq > 0 {
		freq = strconv.Itoa(r.Freq)
	}
	return []string{
		r.Name,
		r.Kind,
		r.Type,
		strconv.Itoa(r.NonNull),
		strconv.Itoa(r.Missing),
		formatFloat(r.MissingShare),
		strconv.Itoa(r.Unique),
		strings.Join(r.Examples, "; "),
		strconv.FormatBool(r.IsNumeric),
		formatOptional(r.Min),
		formatOptional(r.Max),
		formatOptional(r.Mean),
		formatOptional(r.Std),
		formatOptional(r.Q25),
		formatOptional(r.Q50),
		formatOptional(r.Q75),
		r.Top,
		freq,
	}
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}

func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}
