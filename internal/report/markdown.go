package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/peekknuf/edaqa/internal/engine"
	"github.com/peekknuf/edaqa/internal/profiler"
)

// MarkdownOptions controls WriteMarkdown.
type MarkdownOptions struct {
	Title           string
	MinMissingShare float64 // columns at or above this share are listed
	MaxCorrelations int     // strongest pairs shown; 0 means 5
}

// WriteMarkdown renders res as a Markdown report.
func WriteMarkdown(w io.Writer, res *engine.Result, opts MarkdownOptions) error {
	title := opts.Title
	if title == "" {
		title = "EDA report"
	}
	maxPairs := opts.MaxCorrelations
	if maxPairs <= 0 {
		maxPairs = 5
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if res.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", res.Source)
	}
	fmt.Fprintf(&b, "Rows: **%d**, columns: **%d**\n\n", res.Summary.NRows, res.Summary.NCols)

	b.WriteString("## Quality\n\n")
	if f := res.Flags; f != nil {
		fmt.Fprintf(&b, "- Quality score: **%.2f**\n", f.QualityScore)
		fmt.Fprintf(&b, "- Mean missing share: %.2f%%\n", f.MeanMissingShare*100)
		fmt.Fprintf(&b, "- Max missing share: %.2f%%\n", f.MaxMissingShare*100)
		fmt.Fprintf(&b, "- Too few rows: %t\n", f.TooFewRows)
		fmt.Fprintf(&b, "- Too many columns: %t\n", f.TooManyColumns)
		fmt.Fprintf(&b, "- Too many missing: %t\n", f.TooManyMissing)
		fmt.Fprintf(&b, "- Constant columns: %s\n", listOrNone(f.ConstantColumns))
		fmt.Fprintf(&b, "- High-cardinality categoricals: %s\n", listOrNone(f.HighCardinalityColumns))
		fmt.Fprintf(&b, "- Suspicious id duplicates: %s\n", listOrNone(f.DuplicateIDColumns))
	}
	b.WriteString("\n")

	b.WriteString("## Columns\n\n")
	b.WriteString("| name | kind | type | non_null | missing_share | unique | mean | std | top |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, row := range FlattenSummary(res.Summary) {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %.2f%% | %d | %s | %s | %s |\n",
			escapeCell(row.Name), row.Kind, row.Type, row.NonNull, row.MissingShare*100,
			row.Unique, formatOptional(row.Mean), formatOptional(row.Std), escapeCell(row.Top))
	}
	b.WriteString("\n")

	b.WriteString("## Missing values\n\n")
	var listed int
	if res.Missing != nil {
		for _, r := range res.Missing.Rows {
			if r.MissingCount == 0 || r.MissingShare < opts.MinMissingShare {
				continue
			}
			fmt.Fprintf(&b, "- `%s`: %d (%.2f%%)\n", r.Column, r.MissingCount, r.MissingShare*100)
			listed++
		}
	}
	if listed == 0 {
		fmt.Fprintf(&b, "No columns with a missing share of %.0f%% or more.\n", opts.MinMissingShare*100)
	}
	b.WriteString("\n")

	b.WriteString("## Top categories\n\n")
	if res.TopCategories == nil || len(res.TopCategories.Columns) == 0 {
		b.WriteString("No categorical columns.\n\n")
	} else {
		for _, name := range res.TopCategories.Columns {
			table, _ := res.TopCategories.Table(name)
			fmt.Fprintf(&b, "### %s\n\n", name)
			if len(table) == 0 {
				b.WriteString("All values are missing.\n\n")
				continue
			}
			b.WriteString("| value | count | share |\n|---|---|---|\n")
			for _, c := range table {
				fmt.Fprintf(&b, "| %s | %d | %.2f%% |\n", escapeCell(c.Value), c.Count, c.Share*100)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Correlations\n\n")
	pairs := strongestPairs(res.Correlation, maxPairs)
	switch {
	case res.Correlation == nil || res.Correlation.Empty():
		b.WriteString("Not enough numeric columns for correlation.\n")
	case len(pairs) == 0:
		b.WriteString("No defined correlations; every pair lacks overlap or variance.\n")
	}
	for _, pc := range pairs {
		fmt.Fprintf(&b, "- `%s` / `%s`: %.3f\n", pc.A, pc.B, pc.R)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// strongestPairs orders defined pairs by |r|, descending.
func strongestPairs(m *profiler.CorrelationMatrix, n int) []profiler.PairCorr {
	if m == nil {
		return nil
	}
	pairs := m.Pairs()
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].R) > math.Abs(pairs[j].R)
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

func listOrNone(cols []string) string {
	if len(cols) == 0 {
		return "none"
	}
	return "`" + strings.Join(cols, "`, `") + "`"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
