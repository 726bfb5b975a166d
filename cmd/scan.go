package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/peekknuf/edaqa/internal/connectors"
	"github.com/peekknuf/edaqa/internal/engine"
	"github.com/peekknuf/edaqa/internal/report"
)

var (
	dirPath    string
	extensions []string
	recursive  bool
	verbose    bool
	minSize    int64
	maxSize    int64
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan directory for data files",
	Long: `Scan a directory and analyze every CSV file in parallel
for quality metrics and statistics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dirPath == "" {
			return errors.New("you must specify a directory with --dir")
		}

		files, err := connectors.DiscoverFiles(dirPath, connectors.DiscoveryOptions{
			Recursive:  recursive,
			Extensions: extensions,
			MinSize:    minSize,
			MaxSize:    maxSize,
		})
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		if len(files) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No matching files found in %s\n", dirPath)
			return nil
		}

		var totalSize int64
		for _, f := range files {
			totalSize += f.Size
		}
		eng := engine.New(engine.OptionsFromConfig(cfg), appLog)
		appLog.Info().
			Int("files", len(files)).
			Str("size", humanize.Bytes(uint64(totalSize))).
			Int("workers", eng.Workers()).
			Msg("scanning")

		bar := progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetDescription("[cyan][reset] Processing files..."),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		)

		start := time.Now()
		results := eng.AnalyzeFiles(cmd.Context(), files, func(engine.FileResult) {
			_ = bar.Add(1)
		})
		_ = bar.Finish()

		out := cmd.OutOrStdout()
		opts := report.TextOptions{Color: !color.NoColor}
		if err := report.WriteScanTable(out, results, time.Since(start), opts); err != nil {
			return err
		}

		if verbose {
			for _, r := range results {
				if r.Err != nil {
					continue
				}
				fmt.Fprintln(out)
				if err := report.WriteText(out, r.Result, opts); err != nil {
					return err
				}
			}
		}
		return cmd.Context().Err()
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&dirPath, "dir", "d", "",
		"Directory to scan (required)")
	scanCmd.Flags().StringSliceVarP(&extensions, "ext", "e", []string{"csv"},
		"File extensions to analyze")
	scanCmd.Flags().BoolVarP(&recursive, "recursive", "r", false,
		"Search directories recursively")
	scanCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Display the full overview of every file")
	scanCmd.Flags().Int64Var(&minSize, "min-size", 0,
		"Minimum file size in bytes")
	scanCmd.Flags().Int64Var(&maxSize, "max-size", 0,
		"Maximum file size in bytes")
	scanCmd.Flags().Int("workers", 0,
		"Number of parallel workers (default: CPU count)")

	bindFlags(scanCmd.Flags(), map[string]string{
		"engine.workers": "workers",
	})
}
