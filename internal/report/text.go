package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/peekknuf/edaqa/internal/engine"
)

// TextOptions controls console rendering.
type TextOptions struct {
	Color bool
}

type palette struct {
	header func(a ...interface{}) string
	good   func(a ...interface{}) string
	warn   func(a ...interface{}) string
	bad    func(a ...interface{}) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		header: mk(color.FgCyan, color.Bold),
		good:   mk(color.FgGreen),
		warn:   mk(color.FgYellow),
		bad:    mk(color.FgRed),
	}
}

// grade buckets a quality score the way the scan table reports it.
func grade(score float64) string {
	switch {
	case score >= 0.8:
		return "Good"
	case score >= 0.5:
		return "Fair"
	default:
		return "Poor"
	}
}

func (p palette) score(score float64) string {
	s := fmt.Sprintf("%.2f (%s)", score, grade(score))
	switch grade(score) {
	case "Good":
		return p.good(s)
	case "Fair":
		return p.warn(s)
	default:
		return p.bad(s)
	}
}

// WriteText renders an overview of res for a terminal.
func WriteText(w io.Writer, res *engine.Result, opts TextOptions) error {
	p := newPalette(opts.Color)
	var out strings.Builder

	out.WriteString(p.header("=== DATASET ===") + "\n")
	if res.Source != "" {
		out.WriteString(fmt.Sprintf("Source: %s\n", res.Source))
	}
	out.WriteString(fmt.Sprintf("Rows: %s | Columns: %d\n",
		humanize.Comma(int64(res.Summary.NRows)), res.Summary.NCols))
	out.WriteString(fmt.Sprintf("Analyzed in %v\n\n", res.Duration.Round(time.Millisecond)))

	out.WriteString(p.header("=== COLUMNS ===") + "\n")
	out.WriteString(fmt.Sprintf("%-24s %-12s %-7s %10s %10s %8s %12s %12s\n",
		"Name", "Kind", "Type", "Non-null", "Missing", "Unique", "Mean", "Top"))
	out.WriteString(strings.Repeat("-", 100) + "\n")
	for _, row := range FlattenSummary(res.Summary) {
		out.WriteString(fmt.Sprintf("%-24s %-12s %-7s %10s %9.1f%% %8d %12s %12s\n",
			truncate(row.Name, 24), row.Kind, row.Type,
			humanize.Comma(int64(row.NonNull)), row.MissingShare*100, row.Unique,
			formatOptional(row.Mean), truncate(row.Top, 12)))
	}
	out.WriteString("\n")

	if res.Missing != nil && res.Missing.MaxShare() > 0 {
		out.WriteString(p.header("=== MISSING VALUES ===") + "\n")
		for _, r := range res.Missing.Rows {
			if r.MissingCount == 0 {
				continue
			}
			out.WriteString(fmt.Sprintf("  %-24s %10s %9.1f%%\n",
				truncate(r.Column, 24), humanize.Comma(int64(r.MissingCount)), r.MissingShare*100))
		}
		out.WriteString("\n")
	}

	if res.Flags != nil {
		f := res.Flags
		out.WriteString(p.header("=== QUALITY ===") + "\n")
		out.WriteString(fmt.Sprintf("Score: %s\n", p.score(f.QualityScore)))
		out.WriteString(fmt.Sprintf("Mean missing share: %.1f%% | Max missing share: %.1f%%\n",
			f.MeanMissingShare*100, f.MaxMissingShare*100))
		issues := f.Issues()
		if len(issues) == 0 {
			out.WriteString(p.good("No issues found") + "\n")
		}
		for _, issue := range issues {
			out.WriteString(p.warn("  ! "+issue) + issueDetail(res, issue) + "\n")
		}
	}

	_, err := io.WriteString(w, out.String())
	return err
}

func issueDetail(res *engine.Result, issue string) string {
	var cols []string
	switch issue {
	case "has_constant_columns":
		cols = res.Flags.ConstantColumns
	case "has_high_cardinality_categoricals":
		cols = res.Flags.HighCardinalityColumns
	case "has_suspicious_id_duplicates":
		cols = res.Flags.DuplicateIDColumns
	}
	if len(cols) == 0 {
		return ""
	}
	return ": " + strings.Join(cols, ", ")
}

// WriteScanTable renders one line per analyzed file.
func WriteScanTable(w io.Writer, results []engine.FileResult, totalTime time.Duration, opts TextOptions) error {
	p := newPalette(opts.Color)
	var out strings.Builder

	var ok, failed int
	var totalRows int
	var totalBytes int64
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		ok++
		totalRows += r.Result.Summary.NRows
		totalBytes += r.File.Size
	}

	out.WriteString(p.header("=== SCAN SUMMARY ===") + "\n")
	out.WriteString(fmt.Sprintf("Files analyzed: %d, failed: %d\n", ok, failed))
	out.WriteString(fmt.Sprintf("Total rows: %s (%s)\n", humanize.Comma(int64(totalRows)), humanize.Bytes(uint64(totalBytes))))
	out.WriteString(fmt.Sprintf("Total processing time: %v\n\n", totalTime.Round(time.Millisecond)))

	out.WriteString(fmt.Sprintf("%-40s %10s %8s %10s %8s %12s  %s\n",
		"File", "Rows", "Columns", "Missing", "Size", "Time", "Quality"))
	out.WriteString(strings.Repeat("-", 110) + "\n")
	for _, r := range results {
		name := truncate(filepath.Base(r.File.Path), 40)
		if r.Err != nil {
			out.WriteString(fmt.Sprintf("%-40s %s\n", name, p.bad("error: "+r.Err.Error())))
			continue
		}
		res := r.Result
		out.WriteString(fmt.Sprintf("%-40s %10s %8d %9.1f%% %8s %12s  %s\n",
			name,
			humanize.Comma(int64(res.Summary.NRows)),
			res.Summary.NCols,
			res.Flags.MeanMissingShare*100,
			humanize.Bytes(uint64(r.File.Size)),
			res.Duration.Round(time.Millisecond),
			p.score(res.Flags.QualityScore)))
	}

	_, err := io.WriteString(w, out.String())
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
