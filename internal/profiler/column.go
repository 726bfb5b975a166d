package profiler

import (
	"math"
	"sort"

	"github.com/peekknuf/edaqa/internal/dataset"
)

// Kind is the semantic type of a column, computed once during profiling.
type Kind int

const (
	KindOther Kind = iota
	KindNumeric
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "other"
	}
}

// MarshalText lets encoders print the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Physical column types.
const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeBool   = "bool"
	TypeString = "string"
	TypeEmpty  = "empty"
)

const maxExamples = 3

// ValueCount is one entry of a value-frequency distribution.
type ValueCount struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// ColumnProfile represents describe() style statistics for a column
type ColumnProfile struct {
	Name         string   `json:"name" yaml:"name"`
	Kind         Kind     `json:"kind" yaml:"kind"`
	Type         string   `json:"type" yaml:"type"`
	NonNull      int      `json:"non_null" yaml:"non_null"`
	Missing      int      `json:"missing" yaml:"missing"`
	MissingShare float64  `json:"missing_share" yaml:"missing_share"`
	Unique       int      `json:"unique" yaml:"unique"`
	Examples     []string `json:"examples" yaml:"examples"`

	// Numeric statistics, NaN when undefined
	Min  float64 `json:"-" yaml:"-"`
	Max  float64 `json:"-" yaml:"-"`
	Mean float64 `json:"-" yaml:"-"`
	Std  float64 `json:"-" yaml:"-"`
	Q25  float64 `json:"-" yaml:"-"`
	Q50  float64 `json:"-" yaml:"-"`
	Q75  float64 `json:"-" yaml:"-"`

	// Categorical statistics
	Top         string       `json:"top,omitempty" yaml:"top,omitempty"`
	Freq        int          `json:"freq,omitempty" yaml:"freq,omitempty"`
	Frequencies []ValueCount `json:"-" yaml:"-"`
}

// IsNumeric reports whether the column is numeric.
func (c *ColumnProfile) IsNumeric() bool { return c.Kind == KindNumeric }

// IsCategorical reports whether the column is categorical.
func (c *ColumnProfile) IsCategorical() bool { return c.Kind == KindCategorical }

// IsIntegral reports whether the column holds only whole numbers.
func (c *ColumnProfile) IsIntegral() bool { return c.Type == TypeInt }

// columnProcessor accumulates statistics for a single column.
type columnProcessor struct {
	name string

	count     int
	nullCount int

	// Numeric statistics
	sum  float64
	vals []float64

	// Distinct values in first-seen order. Text columns count distinct
	// cell text, so 007 and 7 stay apart.
	textual bool
	counts  map[string]int
	order   []string
	labels  map[string]string

	types typeDetector
}

// typeDetector tracks which value kinds a column has seen.
type typeDetector struct {
	seen      bool
	hasInt    bool
	hasFloat  bool
	hasBool   bool
	hasString bool
}

func (t *typeDetector) observe(v dataset.Value) {
	if v.Missing {
		return
	}
	t.seen = true
	switch {
	case v.Numeric:
		if v.IsIntegral() {
			t.hasInt = true
		} else {
			t.hasFloat = true
		}
	case v.IsBool():
		t.hasBool = true
	default:
		t.hasString = true
	}
}

func (t *typeDetector) columnType() string {
	switch {
	case !t.seen:
		return TypeEmpty
	case t.hasString:
		return TypeString
	case t.hasBool && (t.hasInt || t.hasFloat):
		return TypeString
	case t.hasBool:
		return TypeBool
	case t.hasFloat:
		return TypeFloat
	default:
		return TypeInt
	}
}

func kindOf(columnType string) Kind {
	switch columnType {
	case TypeInt, TypeFloat:
		return KindNumeric
	case TypeString:
		return KindCategorical
	default:
		return KindOther
	}
}

// inferType applies the profiler's type rules to a raw column.
func inferType(col dataset.Column) string {
	var t typeDetector
	for _, v := range col.Values {
		t.observe(v)
	}
	return t.columnType()
}

func inferKind(col dataset.Column) Kind {
	return kindOf(inferType(col))
}

func newColumnProcessor(name string, sizeHint int, textual bool) *columnProcessor {
	return &columnProcessor{
		name:    name,
		vals:    make([]float64, 0, sizeHint),
		textual: textual,
		counts:  make(map[string]int),
		labels:  make(map[string]string),
	}
}

func (p *columnProcessor) processValue(v dataset.Value) {
	p.count++

	if v.Missing {
		p.nullCount++
		return
	}

	p.types.observe(v)
	if v.Numeric {
		p.sum += v.Num
		p.vals = append(p.vals, v.Num)
	}

	key := v.Key()
	if p.textual {
		key = v.TextKey()
	}
	if _, seen := p.counts[key]; !seen {
		p.order = append(p.order, key)
		p.labels[key] = v.Str
	}
	p.counts[key]++
}

func (p *columnProcessor) stats(nRows int) ColumnProfile {
	nonNull := p.count - p.nullCount
	prof := ColumnProfile{
		Name:    p.name,
		Type:    p.types.columnType(),
		NonNull: nonNull,
		Missing: p.nullCount,
		Unique:  len(p.order),
		Min:     math.NaN(),
		Max:     math.NaN(),
		Mean:    math.NaN(),
		Std:     math.NaN(),
		Q25:     math.NaN(),
		Q50:     math.NaN(),
		Q75:     math.NaN(),
	}
	if nRows > 0 {
		prof.MissingShare = float64(p.nullCount) / float64(nRows)
	}

	prof.Kind = kindOf(prof.Type)

	for _, key := range p.order {
		if len(prof.Examples) == maxExamples {
			break
		}
		prof.Examples = append(prof.Examples, p.labels[key])
	}

	if prof.Kind == KindNumeric {
		p.numericStats(&prof)
	} else if nonNull > 0 {
		p.frequencyStats(&prof)
	}

	return prof
}

func (p *columnProcessor) numericStats(prof *ColumnProfile) {
	n := len(p.vals)
	if n == 0 {
		return
	}

	prof.Mean = p.sum / float64(n)

	// two-pass sample variance
	if n > 1 {
		var ss float64
		for _, v := range p.vals {
			d := v - prof.Mean
			ss += d * d
		}
		prof.Std = math.Sqrt(ss / float64(n-1))
	}

	sorted := make([]float64, n)
	copy(sorted, p.vals)
	sort.Float64s(sorted)

	prof.Min = sorted[0]
	prof.Max = sorted[n-1]
	prof.Q25 = calculateQuantile(sorted, 0.25)
	prof.Q50 = calculateQuantile(sorted, 0.50)
	prof.Q75 = calculateQuantile(sorted, 0.75)
}

func (p *columnProcessor) frequencyStats(prof *ColumnProfile) {
	prof.Frequencies = make([]ValueCount, len(p.order))
	for i, key := range p.order {
		c := p.counts[key]
		prof.Frequencies[i] = ValueCount{Value: p.labels[key], Count: c}
		// Strictly greater keeps the first-seen value on ties.
		if c > prof.Freq {
			prof.Freq = c
			prof.Top = p.labels[key]
		}
	}
}

// calculateQuantile calculates the quantile from sorted values
func calculateQuantile(sortedVals []float64, quantile float64) float64 {
	if len(sortedVals) == 0 {
		return math.NaN()
	}

	if len(sortedVals) == 1 {
		return sortedVals[0]
	}

	index := quantile * float64(len(sortedVals)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sortedVals[lower]
	}

	weight := index - float64(lower)
	return sortedVals[lower]*(1-weight) + sortedVals[upper]*weight
}
