package quality

// Policy holds the thresholds and penalties used by ComputeFlags.
type Policy struct {
	// A categorical column with distinct/rows above this ratio is high cardinality.
	HighCardinalityRatio float64 `mapstructure:"high_cardinality_ratio" yaml:"high_cardinality_ratio"`
	// Distinct/non-null at or above this ratio makes a column id-like.
	NearUniqueRatio float64 `mapstructure:"near_unique_ratio" yaml:"near_unique_ratio"`
	// Near-uniqueness is ignored below this many present values.
	NearUniqueMinRows int `mapstructure:"near_unique_min_rows" yaml:"near_unique_min_rows"`

	MinRows         int     `mapstructure:"min_rows" yaml:"min_rows"`
	MaxColumns      int     `mapstructure:"max_columns" yaml:"max_columns"`
	MaxMissingShare float64 `mapstructure:"max_missing_share" yaml:"max_missing_share"`

	MissingWeight          float64 `mapstructure:"missing_weight" yaml:"missing_weight"`
	TooFewRowsPenalty      float64 `mapstructure:"too_few_rows_penalty" yaml:"too_few_rows_penalty"`
	TooManyColumnsPenalty  float64 `mapstructure:"too_many_columns_penalty" yaml:"too_many_columns_penalty"`
	TooManyMissingPenalty  float64 `mapstructure:"too_many_missing_penalty" yaml:"too_many_missing_penalty"`
	ConstantPenalty        float64 `mapstructure:"constant_penalty" yaml:"constant_penalty"`
	HighCardinalityPenalty float64 `mapstructure:"high_cardinality_penalty" yaml:"high_cardinality_penalty"`
	IDDuplicatePenalty     float64 `mapstructure:"id_duplicate_penalty" yaml:"id_duplicate_penalty"`
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		HighCardinalityRatio: 0.5,
		NearUniqueRatio:      0.95,
		NearUniqueMinRows:    20,

		MinRows:         100,
		MaxColumns:      100,
		MaxMissingShare: 0.5,

		MissingWeight:          1.0,
		TooFewRowsPenalty:      0.2,
		TooManyColumnsPenalty:  0.1,
		TooManyMissingPenalty:  0.1,
		ConstantPenalty:        0.1,
		HighCardinalityPenalty: 0.1,
		IDDuplicatePenalty:     0.15,
	}
}
