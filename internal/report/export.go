package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/peekknuf/edaqa/internal/engine"
)

// ArtifactOptions controls WriteArtifacts.
type ArtifactOptions struct {
	Markdown MarkdownOptions
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// WriteArtifacts writes the CSV tables, quality.json and report.md of res
// into dir and returns the paths written.
func WriteArtifacts(dir string, res *engine.Result, opts ArtifactOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		if err := writeFile(path, fn); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if err := write("summary.csv", func(w io.Writer) error { return writeSummaryCSV(w, res) }); err != nil {
		return written, err
	}
	if err := write("missing.csv", func(w io.Writer) error { return writeMissingCSV(w, res) }); err != nil {
		return written, err
	}
	if err := write("correlation.csv", func(w io.Writer) error { return writeCorrelationCSV(w, res) }); err != nil {
		return written, err
	}

	if res.TopCategories != nil && len(res.TopCategories.Columns) > 0 {
		if err := os.MkdirAll(filepath.Join(dir, "top_categories"), 0o755); err != nil {
			return written, fmt.Errorf("failed to create output directory: %w", err)
		}
		names := categoryFileNames(res.TopCategories.Columns)
		for i, name := range res.TopCategories.Columns {
			file := filepath.Join("top_categories", names[i])
			if err := write(file, func(w io.Writer) error { return writeCategoryCSV(w, res, name) }); err != nil {
				return written, err
			}
		}
	}

	if err := write("quality.json", func(w io.Writer) error {
		return WriteJSON(w, struct {
			RunID  string `json:"run_id"`
			Flags  any    `json:"flags"`
			Issues any    `json:"issues"`
		}{res.RunID, res.Flags, res.Flags.Issues()})
	}); err != nil {
		return written, err
	}

	if err := write("report.md", func(w io.Writer) error { return WriteMarkdown(w, res, opts.Markdown) }); err != nil {
		return written, err
	}

	return written, nil
}

// categoryFileNames returns one distinct file name per column. A name taken
// by an earlier column gets the first free numeric suffix.
func categoryFileNames(columns []string) []string {
	used := make(map[string]bool, len(columns))
	out := make([]string, len(columns))
	for i, column := range columns {
		name := CategoryFileName(column)
		stem := strings.TrimSuffix(name, ".csv")
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d.csv", stem, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// CategoryFileName maps a column name to a safe CSV file name.
func CategoryFileName(column string) string {
	safe := unsafeFileChars.ReplaceAllString(column, "_")
	if safe == "" || safe == "." || safe == ".." {
		safe = "column"
	}
	return safe + ".csv"
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func writeSummaryCSV(w io.Writer, res *engine.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return err
	}
	for _, row := range FlattenSummary(res.Summary) {
		if err := cw.Write(row.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeMissingCSV(w io.Writer, res *engine.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"column", "missing_count", "missing_share"}); err != nil {
		return err
	}
	for _, r := range res.Missing.Rows {
		if err := cw.Write([]string{r.Column, strconv.Itoa(r.MissingCount), formatFloat(r.MissingShare)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeCorrelationCSV writes the square matrix; undefined entries are blank.
func writeCorrelationCSV(w io.Writer, res *engine.Result) error {
	cw := csv.NewWriter(w)
	m := res.Correlation
	if err := cw.Write(append([]string{""}, m.Columns...)); err != nil {
		return err
	}
	for i, name := range m.Columns {
		record := make([]string, 0, len(m.Columns)+1)
		record = append(record, name)
		for j := range m.Columns {
			record = append(record, formatFloat(m.Values[i][j]))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeCategoryCSV(w io.Writer, res *engine.Result, column string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"value", "count", "share"}); err != nil {
		return err
	}
	table, _ := res.TopCategories.Table(column)
	for _, c := range table {
		if err := cw.Write([]string{c.Value, strconv.Itoa(c.Count), formatFloat(c.Share)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
