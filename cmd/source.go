package cmd

import (
	"context"
	"errors"

	"github.com/spf13/pflag"

	"github.com/peekknuf/edaqa/internal/connectors"
	"github.com/peekknuf/edaqa/internal/dataset"
	"github.com/peekknuf/edaqa/internal/engine"
	"github.com/peekknuf/edaqa/internal/parser"
)

func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// loadDataset reads the CSV named by args or, with --dsn, the query result.
// The returned label identifies the source without exposing credentials.
func loadDataset(ctx context.Context, args []string) (*dataset.Dataset, string, error) {
	opts := engine.OptionsFromConfig(cfg)

	if cfg.Source.DSN != "" {
		if len(args) > 0 {
			return nil, "", errors.New("pass either a file path or --dsn, not both")
		}
		src := connectors.SQLSource{
			Driver:     cfg.Source.Driver,
			DSN:        cfg.Source.DSN,
			Query:      cfg.Source.Query,
			NullValues: opts.Parser.NullValues,
			MaxRows:    opts.Parser.MaxRows,
		}
		driver := src.Driver
		if driver == "" {
			driver = connectors.DetectDriver(src.DSN)
		}
		appLog.Info().Str("driver", driver).Msg("loading query result")

		ds, err := src.Load(ctx)
		return ds, driver + " query", err
	}

	if len(args) == 0 {
		return nil, "", errors.New("a CSV file path or --dsn is required")
	}
	appLog.Info().Str("file", args[0]).Msg("loading file")
	ds, err := parser.ReadFile(args[0], opts.Parser)
	return ds, args[0], err
}

func analyzeSource(ctx context.Context, args []string) (*engine.Result, error) {
	ds, source, err := loadDataset(ctx, args)
	if err != nil {
		return nil, err
	}

	res, err := engine.New(engine.OptionsFromConfig(cfg), appLog).Analyze(ctx, ds)
	if err != nil {
		return nil, err
	}
	res.Source = source
	return res, nil
}
