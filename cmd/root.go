package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/peekknuf/edaqa/internal/config"
	"github.com/peekknuf/edaqa/internal/logger"
)

var (
	cfgFile string
	v       = viper.New()
	cfg     *config.Config
	appLog  = logger.New(logger.Options{Level: "info", Format: "console"})
)

var rootCmd = &cobra.Command{
	Use:   "edaqa",
	Short: "Exploratory data analysis and quality checks",
	Long: `Profile tabular data from CSV files or SQL queries:
per-column statistics, missing values, correlations,
top categories and a composite quality score.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional
		_ = godotenv.Load()

		config.Init(v, cfgFile)
		if err := config.Read(v); err != nil {
			return err
		}
		c, err := config.FromViper(v)
		if err != nil {
			return err
		}
		cfg = c

		appLog = logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if f := v.ConfigFileUsed(); f != "" {
			appLog.Debug().Str("file", f).Msg("loaded config")
		}
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		appLog.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "",
		"config file (default is edaqa.yaml next to the binary or in the working directory)")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error, disabled)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("sep", ",", "CSV field delimiter")
	flags.String("dsn", "", "read from a database instead of a file")
	flags.String("query", "", "SQL query to run against --dsn")
	flags.String("driver", "", "database driver (postgres, mysql, sqlserver, oracle); detected from --dsn when empty")

	bindFlags(flags, map[string]string{
		"log.level":        "log-level",
		"log.format":       "log-format",
		"parser.delimiter": "sep",
		"source.dsn":       "dsn",
		"source.query":     "query",
		"source.driver":    "driver",
	})
}
