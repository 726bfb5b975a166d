package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/peekknuf/edaqa/internal/dataset"
	"github.com/peekknuf/edaqa/internal/quality"
)

// AutoDelimiter asks the parser to detect the delimiter.
const AutoDelimiter = "auto"

// EnvPrefix is the prefix of environment overrides, e.g. EDAQA_LOG_LEVEL.
const EnvPrefix = "EDAQA"

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ParserConfig struct {
	Delimiter  string   `mapstructure:"delimiter"`
	TrimSpace  bool     `mapstructure:"trim_space"`
	NullValues []string `mapstructure:"null_values"`
	MaxRows    int      `mapstructure:"max_rows"`
}

type ReportConfig struct {
	Title              string  `mapstructure:"title"`
	TopK               int     `mapstructure:"top_k"`
	MaxCategoryColumns int     `mapstructure:"max_category_columns"`
	MinMissingShare    float64 `mapstructure:"min_missing_share"`
}

type EngineConfig struct {
	Workers int `mapstructure:"workers"`
}

type SourceConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Query  string `mapstructure:"query"`
}

// Config is the full tool configuration.
type Config struct {
	Log     LogConfig      `mapstructure:"log"`
	Parser  ParserConfig   `mapstructure:"parser"`
	Report  ReportConfig   `mapstructure:"report"`
	Engine  EngineConfig   `mapstructure:"engine"`
	Source  SourceConfig   `mapstructure:"source"`
	Quality quality.Policy `mapstructure:"quality"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("parser.delimiter", ",")
	v.SetDefault("parser.trim_space", true)
	v.SetDefault("parser.null_values", dataset.DefaultNullValues)
	v.SetDefault("parser.max_rows", 0)

	v.SetDefault("report.title", "EDA report")
	v.SetDefault("report.top_k", 5)
	v.SetDefault("report.max_category_columns", 5)
	v.SetDefault("report.min_missing_share", 0.1)

	v.SetDefault("engine.workers", 0)

	v.SetDefault("source.driver", "")
	v.SetDefault("source.dsn", "")
	v.SetDefault("source.query", "")

	p := quality.DefaultPolicy()
	v.SetDefault("quality.high_cardinality_ratio", p.HighCardinalityRatio)
	v.SetDefault("quality.near_unique_ratio", p.NearUniqueRatio)
	v.SetDefault("quality.near_unique_min_rows", p.NearUniqueMinRows)
	v.SetDefault("quality.min_rows", p.MinRows)
	v.SetDefault("quality.max_columns", p.MaxColumns)
	v.SetDefault("quality.max_missing_share", p.MaxMissingShare)
	v.SetDefault("quality.missing_weight", p.MissingWeight)
	v.SetDefault("quality.too_few_rows_penalty", p.TooFewRowsPenalty)
	v.SetDefault("quality.too_many_columns_penalty", p.TooManyColumnsPenalty)
	v.SetDefault("quality.too_many_missing_penalty", p.TooManyMissingPenalty)
	v.SetDefault("quality.constant_penalty", p.ConstantPenalty)
	v.SetDefault("quality.high_cardinality_penalty", p.HighCardinalityPenalty)
	v.SetDefault("quality.id_duplicate_penalty", p.IDDuplicatePenalty)
}

// Init prepares v to read cfgFile, or edaqa.yaml next to the executable or
// in the working directory, plus EDAQA_* environment variables.
func Init(v *viper.Viper, cfgFile string) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
		v.AddConfigPath(".")
		v.SetConfigName("edaqa")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Read loads the config file if one is present. A missing default file is
// not an error; a missing explicit file is.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is Init, Read and FromViper on a fresh viper instance.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	Init(v, cfgFile)
	if err := Read(v); err != nil {
		return nil, err
	}
	return FromViper(v)
}

// Validate rejects settings the analyzers cannot run with.
func (c *Config) Validate() error {
	if r := []rune(c.Parser.Delimiter); c.Parser.Delimiter != AutoDelimiter && len(r) != 1 {
		return fmt.Errorf("parser.delimiter must be a single character or %q, got %q", AutoDelimiter, c.Parser.Delimiter)
	}
	if c.Parser.MaxRows < 0 {
		return fmt.Errorf("parser.max_rows must be >= 0, got %d", c.Parser.MaxRows)
	}
	if c.Report.TopK < 1 {
		return fmt.Errorf("report.top_k must be >= 1, got %d", c.Report.TopK)
	}
	if c.Report.MaxCategoryColumns < 1 {
		return fmt.Errorf("report.max_category_columns must be >= 1, got %d", c.Report.MaxCategoryColumns)
	}
	if c.Report.MinMissingShare < 0 || c.Report.MinMissingShare > 1 {
		return fmt.Errorf("report.min_missing_share must be in [0, 1], got %g", c.Report.MinMissingShare)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must be >= 0, got %d", c.Engine.Workers)
	}

	q := c.Quality
	for name, ratio := range map[string]float64{
		"quality.high_cardinality_ratio": q.HighCardinalityRatio,
		"quality.near_unique_ratio":      q.NearUniqueRatio,
		"quality.max_missing_share":      q.MaxMissingShare,
	} {
		if ratio < 0 || ratio > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %g", name, ratio)
		}
	}
	for name, pen := range map[string]float64{
		"quality.missing_weight":           q.MissingWeight,
		"quality.too_few_rows_penalty":     q.TooFewRowsPenalty,
		"quality.too_many_columns_penalty": q.TooManyColumnsPenalty,
		"quality.too_many_missing_penalty": q.TooManyMissingPenalty,
		"quality.constant_penalty":         q.ConstantPenalty,
		"quality.high_cardinality_penalty": q.HighCardinalityPenalty,
		"quality.id_duplicate_penalty":     q.IDDuplicatePenalty,
	} {
		// every raised flag must lower the score
		if pen <= 0 {
			return fmt.Errorf("%s must be > 0, got %g", name, pen)
		}
	}
	return nil
}

// Delimiter returns the parser delimiter as a rune, 0 for auto-detection.
func (c *Config) Delimiter() rune {
	if c.Parser.Delimiter == AutoDelimiter {
		return 0
	}
	return []rune(c.Parser.Delimiter)[0]
}
