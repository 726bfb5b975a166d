package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peekknuf/edaqa/internal/report"
)

var outDir string

var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Write CSV tables and a Markdown report",
	Long: `Analyze a dataset and write summary.csv, missing.csv, correlation.csv,
top_categories/<column>.csv, quality.json and report.md into --out-dir.

Examples:
  edaqa report data.csv --out-dir reports/
  edaqa report data.csv --out-dir reports/ --top-k 10 --title "Orders"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if outDir == "" {
			return errors.New("--out-dir is required")
		}

		res, err := analyzeSource(cmd.Context(), args)
		if err != nil {
			return err
		}

		written, err := report.WriteArtifacts(outDir, res, report.ArtifactOptions{
			Markdown: report.MarkdownOptions{
				Title:           cfg.Report.Title,
				MinMissingShare: cfg.Report.MinMissingShare,
			},
		})
		if err != nil {
			return err
		}

		appLog.Info().
			Str("run_id", res.RunID).
			Int("files", len(written)).
			Float64("quality_score", res.Flags.QualityScore).
			Msg("report written")
		for _, path := range written {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	flags := reportCmd.Flags()
	flags.StringVar(&outDir, "out-dir", "", "Directory to write the report into (required)")
	flags.String("title", "EDA report", "Report title")
	flags.Int("top-k", 5, "Values kept per categorical column")
	flags.Int("max-cat-columns", 5, "Categorical columns to rank")
	flags.Float64("min-missing-share", 0.1, "List columns with at least this missing share")

	bindFlags(flags, map[string]string{
		"report.title":                "title",
		"report.top_k":                "top-k",
		"report.max_category_columns": "max-cat-columns",
		"report.min_missing_share":    "min-missing-share",
	})
}
