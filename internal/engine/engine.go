package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/peekknuf/edaqa/internal/config"
	"github.com/peekknuf/edaqa/internal/connectors"
	"github.com/peekknuf/edaqa/internal/dataset"
	"github.com/peekknuf/edaqa/internal/parser"
	"github.com/peekknuf/edaqa/internal/profiler"
	"github.com/peekknuf/edaqa/internal/quality"
)

// Options controls a single Engine.
type Options struct {
	Parser             parser.ParserConfig
	Policy             quality.Policy
	TopK               int
	MaxCategoryColumns int
	Workers            int // 0 picks a value from the CPU count
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Parser:             parser.DefaultParserConfig(),
		Policy:             quality.DefaultPolicy(),
		TopK:               5,
		MaxCategoryColumns: 5,
	}
}

// OptionsFromConfig maps the loaded configuration onto engine options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Parser: parser.ParserConfig{
			Delimiter:  cfg.Delimiter(),
			TrimSpace:  cfg.Parser.TrimSpace,
			NullValues: cfg.Parser.NullValues,
			MaxRows:    cfg.Parser.MaxRows,
		},
		Policy:             cfg.Quality,
		TopK:               cfg.Report.TopK,
		MaxCategoryColumns: cfg.Report.MaxCategoryColumns,
		Workers:            cfg.Engine.Workers,
	}
}

// Result bundles every analysis of one dataset.
type Result struct {
	RunID         string                        `json:"run_id" yaml:"run_id"`
	Source        string                        `json:"source" yaml:"source"`
	StartedAt     time.Time                     `json:"started_at" yaml:"started_at"`
	Duration      time.Duration                 `json:"duration" yaml:"duration"`
	Summary       *profiler.DatasetSummary      `json:"summary" yaml:"summary"`
	Missing       *profiler.MissingnessTable    `json:"missing" yaml:"missing"`
	Correlation   *profiler.CorrelationMatrix   `json:"-" yaml:"-"`
	TopCategories *profiler.TopCategoriesResult `json:"top_categories" yaml:"top_categories"`
	Flags         *quality.Flags                `json:"quality" yaml:"quality"`
}

// Engine runs the analyzers over datasets and files.
type Engine struct {
	opts Options
	log  zerolog.Logger
}

func New(opts Options, log zerolog.Logger) *Engine {
	return &Engine{opts: opts, log: log}
}

// Workers returns the effective file concurrency.
func (e *Engine) Workers() int {
	if e.opts.Workers > 0 {
		return e.opts.Workers
	}
	workers := runtime.NumCPU()
	if workers > 32 {
		workers = 32
	}
	return workers
}

// Analyze runs summary, missingness, correlation and top categories
// concurrently, then scores the dataset. The first failure aborts the run.
func (e *Engine) Analyze(ctx context.Context, ds *dataset.Dataset) (*Result, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := profiler.Summarize(ds)
		res.Summary = s
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, err := profiler.MissingTable(ds)
		res.Missing = m
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := profiler.Correlate(ds)
		res.Correlation = c
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		t, err := profiler.TopCategories(ds, e.opts.MaxCategoryColumns, e.opts.TopK)
		res.TopCategories = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	flags, err := quality.ComputeFlags(res.Summary, res.Missing, e.opts.Policy)
	if err != nil {
		return nil, err
	}
	res.Flags = flags
	res.Duration = time.Since(res.StartedAt)

	e.log.Debug().
		Str("run_id", res.RunID).
		Int("rows", ds.NRows()).
		Int("cols", ds.NCols()).
		Float64("quality_score", flags.QualityScore).
		Dur("took", res.Duration).
		Msg("analysis complete")

	return res, nil
}

// AnalyzeFile parses a CSV file and analyzes it.
func (e *Engine) AnalyzeFile(ctx context.Context, path string) (*Result, error) {
	ds, err := parser.ReadFile(path, e.opts.Parser)
	if err != nil {
		return nil, err
	}
	res, err := e.Analyze(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.Source = path
	return res, nil
}

// FileResult is the outcome for one file of AnalyzeFiles.
type FileResult struct {
	File   connectors.FileMeta
	Result *Result
	Err    error
}

// AnalyzeFiles analyzes files with a bounded number of workers. Results are
// returned in the order of files; per-file failures are recorded, not
// returned. done, if set, is called once per file and may be called from
// several goroutines at once.
func (e *Engine) AnalyzeFiles(ctx context.Context, files []connectors.FileMeta, done func(FileResult)) []FileResult {
	results := make([]FileResult, len(files))
	semaphore := make(chan struct{}, e.Workers())

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, f connectors.FileMeta) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fr := FileResult{File: f}
			if err := ctx.Err(); err != nil {
				fr.Err = err
			} else {
				fr.Result, fr.Err = e.AnalyzeFile(ctx, f.Path)
			}
			if fr.Err != nil {
				e.log.Warn().Err(fr.Err).Str("file", f.Path).Msg("failed to analyze file")
			}

			results[i] = fr
			if done != nil {
				done(fr)
			}
		}(i, file)
	}
	wg.Wait()

	return results
}
