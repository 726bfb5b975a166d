package profiler

import (
	"errors"
	"fmt"
	"sort"

	"github.com/peekknuf/edaqa/internal/dataset"
)

// ErrInvalidArgument is returned for out-of-range analyzer parameters.
var ErrInvalidArgument = errors.New("invalid argument")

// CategoryCount is one row of a top-categories table.
type CategoryCount struct {
	Value string  `json:"value" yaml:"value"`
	Count int     `json:"count" yaml:"count"`
	Share float64 `json:"share" yaml:"share"`
}

// TopCategoriesResult maps categorical column names to their most frequent
// values. Columns keeps selection order.
type TopCategoriesResult struct {
	Columns []string                   `json:"columns" yaml:"columns"`
	Tables  map[string][]CategoryCount `json:"tables" yaml:"tables"`
}

// Table returns the rows for one column.
func (r *TopCategoriesResult) Table(name string) ([]CategoryCount, bool) {
	t, ok := r.Tables[name]
	return t, ok
}

// TopCategories ranks the values of the first maxColumns categorical
// columns and keeps the topK most frequent of each. A column without any
// present value gets an empty table.
func TopCategories(ds *dataset.Dataset, maxColumns, topK int) (*TopCategoriesResult, error) {
	if maxColumns < 1 {
		return nil, fmt.Errorf("max columns must be >= 1, got %d: %w", maxColumns, ErrInvalidArgument)
	}
	if topK < 1 {
		return nil, fmt.Errorf("top k must be >= 1, got %d: %w", topK, ErrInvalidArgument)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	result := &TopCategoriesResult{Tables: make(map[string][]CategoryCount)}
	for _, col := range ds.Columns {
		if len(result.Columns) >= maxColumns {
			break
		}
		switch inferType(col) {
		case TypeString, TypeEmpty:
		default:
			continue
		}
		result.Columns = append(result.Columns, col.Name)
		result.Tables[col.Name] = rankValues(col.Values, topK)
	}

	return result, nil
}

func rankValues(values []dataset.Value, topK int) []CategoryCount {
	counts := make(map[string]int)
	var order []string
	labels := make(map[string]string)
	total := 0

	for _, v := range values {
		if v.Missing {
			continue
		}
		total++
		key := v.TextKey()
		if _, seen := counts[key]; !seen {
			order = append(order, key)
			labels[key] = v.Str
		}
		counts[key]++
	}

	rows := make([]CategoryCount, len(order))
	for i, key := range order {
		rows[i] = CategoryCount{Value: labels[key], Count: counts[key]}
	}

	// order is first-seen, so a stable sort breaks ties by first occurrence
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})

	if len(rows) > topK {
		rows = rows[:topK]
	}
	for i := range rows {
		rows[i].Share = float64(rows[i].Count) / float64(total)
	}
	return rows
}
