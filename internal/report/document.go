package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/peekknuf/edaqa/internal/engine"
	"github.com/peekknuf/edaqa/internal/profiler"
	"github.com/peekknuf/edaqa/internal/quality"
)

// CategoryTable is the top-categories table of one column.
type CategoryTable struct {
	Column string                   `json:"column" yaml:"column"`
	Values []profiler.CategoryCount `json:"values" yaml:"values"`
}

// Document is the serializable form of an analysis result.
type Document struct {
	RunID         string                `json:"run_id" yaml:"run_id"`
	Source        string                `json:"source,omitempty" yaml:"source,omitempty"`
	NRows         int                   `json:"n_rows" yaml:"n_rows"`
	NCols         int                   `json:"n_cols" yaml:"n_cols"`
	Columns       []SummaryRow          `json:"columns" yaml:"columns"`
	Missing       []profiler.MissingRow `json:"missing" yaml:"missing"`
	Correlations  []profiler.PairCorr   `json:"correlations" yaml:"correlations"`
	TopCategories []CategoryTable       `json:"top_categories" yaml:"top_categories"`
	Quality       *quality.Flags        `json:"quality" yaml:"quality"`
	Issues        []string              `json:"issues" yaml:"issues"`
}

// NewDocument flattens res. NaN correlations are left out.
func NewDocument(res *engine.Result) Document {
	doc := Document{
		RunID:   res.RunID,
		Source:  res.Source,
		Quality: res.Flags,
	}
	if res.Summary != nil {
		doc.NRows = res.Summary.NRows
		doc.NCols = res.Summary.NCols
		doc.Columns = FlattenSummary(res.Summary)
	}
	if res.Missing != nil {
		doc.Missing = res.Missing.Rows
	}
	if res.Correlation != nil {
		doc.Correlations = res.Correlation.Pairs()
	}
	if res.TopCategories != nil {
		for _, name := range res.TopCategories.Columns {
			values, _ := res.TopCategories.Table(name)
			doc.TopCategories = append(doc.TopCategories, CategoryTable{Column: name, Values: values})
		}
	}
	if res.Flags != nil {
		doc.Issues = res.Flags.Issues()
	}
	return doc
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return encoder.Close()
}
