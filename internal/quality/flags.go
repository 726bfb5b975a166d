package quality

import (
	"fmt"

	"github.com/peekknuf/edaqa/internal/profiler"
)

// MismatchedInputError reports a summary and missingness table that do not
// describe the same dataset.
type MismatchedInputError struct {
	Column string
	Reason string
}

func (e *MismatchedInputError) Error() string {
	if e.Column == "" {
		return "mismatched quality inputs: " + e.Reason
	}
	return fmt.Sprintf("mismatched quality inputs: column %q: %s", e.Column, e.Reason)
}

// Flags is the outcome of a quality check.
type Flags struct {
	HasConstantColumns             bool    `json:"has_constant_columns" yaml:"has_constant_columns"`
	HasHighCardinalityCategoricals bool    `json:"has_high_cardinality_categoricals" yaml:"has_high_cardinality_categoricals"`
	HasSuspiciousIDDuplicates      bool    `json:"has_suspicious_id_duplicates" yaml:"has_suspicious_id_duplicates"`
	TooFewRows                     bool    `json:"too_few_rows" yaml:"too_few_rows"`
	TooManyColumns                 bool    `json:"too_many_columns" yaml:"too_many_columns"`
	TooManyMissing                 bool    `json:"too_many_missing" yaml:"too_many_missing"`
	MaxMissingShare                float64 `json:"max_missing_share" yaml:"max_missing_share"`
	MeanMissingShare               float64 `json:"mean_missing_share" yaml:"mean_missing_share"`
	QualityScore                   float64 `json:"quality_score" yaml:"quality_score"`

	ConstantColumns        []string `json:"constant_columns" yaml:"constant_columns"`
	HighCardinalityColumns []string `json:"high_cardinality_columns" yaml:"high_cardinality_columns"`
	DuplicateIDColumns     []string `json:"duplicate_id_columns" yaml:"duplicate_id_columns"`
}

// AsMap returns the flags keyed by their report names.
func (f *Flags) AsMap() map[string]any {
	return map[string]any{
		"has_constant_columns":              f.HasConstantColumns,
		"has_high_cardinality_categoricals": f.HasHighCardinalityCategoricals,
		"has_suspicious_id_duplicates":      f.HasSuspiciousIDDuplicates,
		"too_few_rows":                      f.TooFewRows,
		"too_many_columns":                  f.TooManyColumns,
		"too_many_missing":                  f.TooManyMissing,
		"max_missing_share":                 f.MaxMissingShare,
		"mean_missing_share":                f.MeanMissingShare,
		"quality_score":                     f.QualityScore,
	}
}

// Issues lists the names of the boolean flags that are set.
func (f *Flags) Issues() []string {
	var out []string
	for _, it := range []struct {
		name string
		set  bool
	}{
		{"has_constant_columns", f.HasConstantColumns},
		{"has_high_cardinality_categoricals", f.HasHighCardinalityCategoricals},
		{"has_suspicious_id_duplicates", f.HasSuspiciousIDDuplicates},
		{"too_few_rows", f.TooFewRows},
		{"too_many_columns", f.TooManyColumns},
		{"too_many_missing", f.TooManyMissing},
	} {
		if it.set {
			out = append(out, it.name)
		}
	}
	return out
}

// ComputeFlags derives quality flags and a score in [0, 1] from a summary
// and the missingness table of the same dataset.
func ComputeFlags(summary *profiler.DatasetSummary, missing *profiler.MissingnessTable, policy Policy) (*Flags, error) {
	if summary == nil {
		return nil, &MismatchedInputError{Reason: "summary is nil"}
	}
	if missing == nil {
		return nil, &MismatchedInputError{Reason: "missingness table is nil"}
	}
	if err := checkAlignment(summary, missing); err != nil {
		return nil, err
	}

	f := &Flags{
		MeanMissingShare: missing.MeanShare(),
		MaxMissingShare:  missing.MaxShare(),
	}

	for i := range summary.Columns {
		c := &summary.Columns[i]

		if c.Unique <= 1 {
			f.ConstantColumns = append(f.ConstantColumns, c.Name)
		}
		if isHighCardinality(c, summary.NRows, policy) {
			f.HighCardinalityColumns = append(f.HighCardinalityColumns, c.Name)
		}
		if IsIDLike(c, policy) && c.Unique < c.NonNull {
			f.DuplicateIDColumns = append(f.DuplicateIDColumns, c.Name)
		}
	}

	f.HasConstantColumns = len(f.ConstantColumns) > 0
	f.HasHighCardinalityCategoricals = len(f.HighCardinalityColumns) > 0
	f.HasSuspiciousIDDuplicates = len(f.DuplicateIDColumns) > 0
	f.TooFewRows = summary.NRows < policy.MinRows
	f.TooManyColumns = summary.NCols > policy.MaxColumns
	f.TooManyMissing = f.MaxMissingShare > policy.MaxMissingShare

	f.QualityScore = score(f, policy)
	return f, nil
}

func isHighCardinality(c *profiler.ColumnProfile, nRows int, p Policy) bool {
	if !c.IsCategorical() || c.Unique <= 1 || nRows == 0 {
		return false
	}
	return float64(c.Unique)/float64(nRows) > p.HighCardinalityRatio
}

func score(f *Flags, p Policy) float64 {
	s := 1.0 - p.MissingWeight*f.MeanMissingShare

	penalties := []struct {
		set     bool
		penalty float64
	}{
		{f.TooFewRows, p.TooFewRowsPenalty},
		{f.TooManyColumns, p.TooManyColumnsPenalty},
		{f.TooManyMissing, p.TooManyMissingPenalty},
		{f.HasConstantColumns, p.ConstantPenalty},
		{f.HasHighCardinalityCategoricals, p.HighCardinalityPenalty},
		{f.HasSuspiciousIDDuplicates, p.IDDuplicatePenalty},
	}
	for _, pen := range penalties {
		if pen.set {
			s -= pen.penalty
		}
	}

	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// checkAlignment verifies that both inputs cover the same columns.
func checkAlignment(summary *profiler.DatasetSummary, missing *profiler.MissingnessTable) error {
	if summary.NCols != len(summary.Columns) {
		return &MismatchedInputError{
			Reason: fmt.Sprintf("summary reports %d columns but profiles %d", summary.NCols, len(summary.Columns)),
		}
	}

	known := make(map[string]struct{}, len(summary.Columns))
	for _, c := range summary.Columns {
		known[c.Name] = struct{}{}
		row, ok := missing.Row(c.Name)
		if !ok {
			return &MismatchedInputError{Column: c.Name, Reason: "no missingness row"}
		}
		if row.MissingCount < 0 || row.MissingCount > summary.NRows {
			return &MismatchedInputError{
				Column: c.Name,
				Reason: fmt.Sprintf("missing count %d outside [0, %d]", row.MissingCount, summary.NRows),
			}
		}
	}

	for _, r := range missing.Rows {
		if _, ok := known[r.Column]; !ok {
			return &MismatchedInputError{Column: r.Column, Reason: "not in summary"}
		}
	}
	return nil
}
