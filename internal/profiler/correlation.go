package profiler

import (
	"math"

	"github.com/peekknuf/edaqa/internal/dataset"
)

// CorrelationMatrix holds a symmetric Pearson correlation matrix across
// numeric columns. Undefined entries are NaN.
type CorrelationMatrix struct {
	Columns []string    `json:"columns" yaml:"columns"`
	Values  [][]float64 `json:"-" yaml:"-"` // row-major, Values[i][j]
	index   map[string]int
}

// Empty reports whether the matrix has no columns.
func (m *CorrelationMatrix) Empty() bool { return len(m.Columns) == 0 }

// Get returns the correlation between two columns.
func (m *CorrelationMatrix) Get(a, b string) (float64, bool) {
	i, ok := m.index[a]
	if !ok {
		return 0, false
	}
	j, ok := m.index[b]
	if !ok {
		return 0, false
	}
	return m.Values[i][j], true
}

// PairCorr is a single off-diagonal entry.
type PairCorr struct {
	A string  `json:"a" yaml:"a"`
	B string  `json:"b" yaml:"b"`
	R float64 `json:"r" yaml:"r"`
}

// Pairs lists the defined upper-triangle entries in column order.
func (m *CorrelationMatrix) Pairs() []PairCorr {
	var out []PairCorr
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			out = append(out, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	return out
}

// Correlate computes pairwise-complete Pearson correlation among the
// numeric columns of ds.
func Correlate(ds *dataset.Dataset) (*CorrelationMatrix, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	var numeric []dataset.Column
	for _, col := range ds.Columns {
		if inferKind(col) == KindNumeric {
			numeric = append(numeric, col)
		}
	}

	m := &CorrelationMatrix{index: map[string]int{}}
	if len(numeric) < 2 {
		return m, nil
	}

	n := len(numeric)
	m.Columns = make([]string, n)
	m.Values = make([][]float64, n)
	for i, col := range numeric {
		m.Columns[i] = col.Name
		m.index[col.Name] = i
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1.0
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(numeric[i].Values, numeric[j].Values)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}

	return m, nil
}

// pearson uses only rows where both cells are present.
func pearson(xs, ys []dataset.Value) float64 {
	var n int
	var sx, sy float64
	constX, constY := true, true
	var firstX, firstY float64
	for k := range xs {
		if xs[k].Missing || ys[k].Missing {
			continue
		}
		if n == 0 {
			firstX, firstY = xs[k].Num, ys[k].Num
		}
		constX = constX && xs[k].Num == firstX
		constY = constY && ys[k].Num == firstY
		n++
		sx += xs[k].Num
		sy += ys[k].Num
	}
	// zero variance within the complete rows
	if n < 2 || constX || constY {
		return math.NaN()
	}

	mx := sx / float64(n)
	my := sy / float64(n)

	var cov, vx, vy float64
	for k := range xs {
		if xs[k].Missing || ys[k].Missing {
			continue
		}
		dx := xs[k].Num - mx
		dy := ys[k].Num - my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return math.NaN()
	}

	r := cov / math.Sqrt(vx*vy)
	// clamp rounding drift
	return math.Max(-1, math.Min(1, r))
}
