package quality

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/edaqa/internal/dataset"
	"github.com/peekknuf/edaqa/internal/profiler"
)

type col struct {
	name string
	vals []any
}

func frame(t *testing.T, cols ...col) *dataset.Dataset {
	t.Helper()
	nulls := dataset.NewNullSet(dataset.DefaultNullValues)
	out := make([]dataset.Column, len(cols))
	for i, c := range cols {
		values := make([]dataset.Value, len(c.vals))
		for j, v := range c.vals {
			values[j] = dataset.FromAny(v, nulls)
		}
		out[i] = dataset.Column{Name: c.name, Values: values}
	}
	ds, err := dataset.FromColumns(out)
	require.NoError(t, err)
	return ds
}

func flagsFor(t *testing.T, ds *dataset.Dataset) *Flags {
	t.Helper()
	summary, err := profiler.Summarize(ds)
	require.NoError(t, err)
	missing, err := profiler.MissingTable(ds)
	require.NoError(t, err)
	flags, err := ComputeFlags(summary, missing, DefaultPolicy())
	require.NoError(t, err)
	require.GreaterOrEqual(t, flags.QualityScore, 0.0)
	require.LessOrEqual(t, flags.QualityScore, 1.0)
	return flags
}

func ints(from, to int) []any {
	out := make([]any, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

func repeat(vals []any, times int) []any {
	out := make([]any, 0, len(vals)*times)
	for i := 0; i < times; i++ {
		out = append(out, vals...)
	}
	return out
}

func TestHasConstantColumns(t *testing.T) {
	flags := flagsFor(t, frame(t,
		col{"constant_col", []any{"A", "A", "A", "A"}},
		col{"varying_col", []any{1, 2, 3, 4}},
	))
	assert.True(t, flags.HasConstantColumns)
	assert.Equal(t, []string{"constant_col"}, flags.ConstantColumns)

	flags = flagsFor(t, frame(t,
		col{"col1", []any{1, 2, 3, 4}},
		col{"col2", []any{"A", "B", "C", "D"}},
	))
	assert.False(t, flags.HasConstantColumns)
}

func TestAllMissingColumnIsConstant(t *testing.T) {
	flags := flagsFor(t, frame(t,
		col{"x", []any{1, 2, 3}},
		col{"gone", []any{nil, nil, nil}},
	))
	assert.True(t, flags.HasConstantColumns)
	assert.True(t, flags.TooManyMissing)
	assert.InDelta(t, 1.0, flags.MaxMissingShare, 1e-12)
}

func TestHasHighCardinalityCategoricals(t *testing.T) {
	countries := make([]any, 20)
	for i := range countries {
		countries[i] = fmt.Sprintf("Country_%d", i)
	}

	flags := flagsFor(t, frame(t,
		col{"user_id", ints(0, 20)},
		col{"country", countries},
		col{"age", repeat([]any{25, 30, 35, 40}, 5)},
	))
	assert.True(t, flags.HasHighCardinalityCategoricals)
	assert.Equal(t, []string{"country"}, flags.HighCardinalityColumns)

	flags = flagsFor(t, frame(t,
		col{"country", repeat([]any{"USA", "UK", "USA", "UK", "Canada"}, 4)},
		col{"age", repeat([]any{25, 30, 35, 40}, 5)},
	))
	assert.False(t, flags.HasHighCardinalityCategoricals)
}

func TestHighCardinalityIsRatioBased(t *testing.T) {
	// 40 distinct labels would trip an absolute threshold, but they repeat
	// across 1000 rows.
	labels := make([]any, 40)
	for i := range labels {
		labels[i] = fmt.Sprintf("L%d", i)
	}
	flags := flagsFor(t, frame(t, col{"label", repeat(labels, 25)}))
	assert.False(t, flags.HasHighCardinalityCategoricals)
}

func TestHasSuspiciousIDDuplicates(t *testing.T) {
	flags := flagsFor(t, frame(t,
		col{"user_id", []any{1, 2, 2, 3, 3, 4}},
		col{"name", []any{"Alice", "Bob", "Bob", "Charlie", "Charlie", "David"}},
		col{"age", []any{25, 30, 30, 35, 35, 40}},
	))
	assert.True(t, flags.HasSuspiciousIDDuplicates)
	assert.Equal(t, []string{"user_id"}, flags.DuplicateIDColumns)

	flags = flagsFor(t, frame(t,
		col{"user_id", []any{1, 2, 3, 4, 5, 6}},
		col{"name", []any{"Alice", "Bob", "Charlie", "David", "Eve", "Frank"}},
		col{"age", []any{25, 30, 35, 40, 45, 50}},
	))
	assert.False(t, flags.HasSuspiciousIDDuplicates)

	flags = flagsFor(t, frame(t,
		col{"name", []any{"Alice", "Bob", "Charlie"}},
		col{"age", []any{25, 30, 35}},
	))
	assert.False(t, flags.HasSuspiciousIDDuplicates)

	// repeats without any id-like column
	flags = flagsFor(t, frame(t,
		col{"name", []any{"Alice", "Bob", "Bob", "Charlie"}},
		col{"age", []any{25, 30, 30, 35}},
	))
	assert.False(t, flags.HasSuspiciousIDDuplicates)
}

func TestLargeIntegerIDs(t *testing.T) {
	flags := flagsFor(t, frame(t,
		col{"user_id", []any{"9007199254740992", "9007199254740993", "1234567890123456789", "1234567890123456790"}},
	))
	assert.False(t, flags.HasSuspiciousIDDuplicates)

	flags = flagsFor(t, frame(t,
		col{"user_id", []any{"9007199254740993", "9007199254740993", "1234567890123456789", "1234567890123456790"}},
	))
	assert.True(t, flags.HasSuspiciousIDDuplicates)
}

func TestNearUniqueColumnWithDuplicates(t *testing.T) {
	codes := ints(1000, 1039)
	codes = append(codes, 1000) // one repeat among 40
	flags := flagsFor(t, frame(t,
		col{"code", codes},
		col{"reading", repeat([]any{1.5, 2.5}, 20)},
	))
	assert.True(t, flags.HasSuspiciousIDDuplicates)
	assert.Equal(t, []string{"code"}, flags.DuplicateIDColumns)
}

func TestNearUniqueFloatsAreNotIDs(t *testing.T) {
	faker := gofakeit.New(7)
	vals := make([]any, 60)
	for i := range vals {
		vals[i] = faker.Float64Range(0, 10)
	}
	vals[59] = vals[0]

	flags := flagsFor(t, frame(t, col{"measurement", vals}))
	assert.False(t, flags.HasSuspiciousIDDuplicates)
}

func TestQualityScoreConsidersFlags(t *testing.T) {
	problematic := flagsFor(t, frame(t,
		col{"user_id", []any{1, 1, 2, 2}},
		col{"constant", []any{"A", "A", "A", "A"}},
		col{"high_card", []any{"val1", "val2", "val3", "val4"}},
	))
	assert.True(t, problematic.HasSuspiciousIDDuplicates)
	assert.True(t, problematic.HasConstantColumns)
	assert.True(t, problematic.HasHighCardinalityCategoricals)

	category := repeat([]any{"A", "B", "C"}, 33)
	category = append(category, "A")
	good := flagsFor(t, frame(t,
		col{"user_id", ints(1, 101)},
		col{"category", category},
		col{"value", ints(0, 100)},
	))
	assert.Empty(t, good.Issues())
	assert.Equal(t, 1.0, good.QualityScore)

	assert.Less(t, problematic.QualityScore, good.QualityScore)
}

func TestQualityScoreMissingnessLowersScore(t *testing.T) {
	clean := flagsFor(t, frame(t,
		col{"id", ints(0, 4)},
		col{"v", []any{1, 2, 3, 4}},
	))
	holes := flagsFor(t, frame(t,
		col{"id", ints(0, 4)},
		col{"v", []any{1, nil, 3, 4}},
	))
	assert.Less(t, holes.QualityScore, clean.QualityScore)
	assert.InDelta(t, 0.125, holes.MeanMissingShare, 1e-12)
}

func TestQualityScoreClampsAtZero(t *testing.T) {
	policy := DefaultPolicy()
	policy.TooFewRowsPenalty = 5

	ds := frame(t, col{"a", []any{1, 2}})
	summary, err := profiler.Summarize(ds)
	require.NoError(t, err)
	missing, err := profiler.MissingTable(ds)
	require.NoError(t, err)

	flags, err := ComputeFlags(summary, missing, policy)
	require.NoError(t, err)
	assert.Equal(t, 0.0, flags.QualityScore)
}

func TestComputeFlagsMismatchedInputs(t *testing.T) {
	left := frame(t, col{"a", []any{1, 2}}, col{"b", []any{"x", "y"}})
	right := frame(t, col{"a", []any{1, 2}}, col{"c", []any{"x", "y"}})

	summary, err := profiler.Summarize(left)
	require.NoError(t, err)
	missing, err := profiler.MissingTable(right)
	require.NoError(t, err)

	_, err = ComputeFlags(summary, missing, DefaultPolicy())
	var mie *MismatchedInputError
	require.ErrorAs(t, err, &mie)
	assert.Equal(t, "b", mie.Column)

	extra := profiler.NewMissingnessTable(2, append(missing.Rows, profiler.MissingRow{Column: "b"}))
	_, err = ComputeFlags(summary, extra, DefaultPolicy())
	require.ErrorAs(t, err, &mie)
	assert.Equal(t, "c", mie.Column)

	tooMany := profiler.NewMissingnessTable(2, []profiler.MissingRow{
		{Column: "a", MissingCount: 3},
		{Column: "b"},
	})
	_, err = ComputeFlags(summary, tooMany, DefaultPolicy())
	require.ErrorAs(t, err, &mie)

	_, err = ComputeFlags(nil, missing, DefaultPolicy())
	require.ErrorAs(t, err, &mie)
	_, err = ComputeFlags(summary, nil, DefaultPolicy())
	require.ErrorAs(t, err, &mie)
}

func TestFlagsAsMap(t *testing.T) {
	flags := flagsFor(t, frame(t, col{"a", []any{"x", "x"}}))
	m := flags.AsMap()

	assert.Equal(t, true, m["has_constant_columns"])
	assert.Equal(t, flags.QualityScore, m["quality_score"])
	assert.Contains(t, flags.Issues(), "has_constant_columns")
	assert.Contains(t, flags.Issues(), "too_few_rows")
}

func TestEmptyDatasetFlags(t *testing.T) {
	ds, err := dataset.New([]string{"a"}, nil)
	require.NoError(t, err)

	flags := flagsFor(t, ds)
	assert.True(t, flags.HasConstantColumns)
	assert.False(t, flags.HasHighCardinalityCategoricals)
	assert.False(t, flags.HasSuspiciousIDDuplicates)
}

func TestNameTokens(t *testing.T) {
	tests := []struct {
		name string
		want []string
		isID bool
	}{
		{name: "user_id", want: []string{"user", "id"}, isID: true},
		{name: "userId", want: []string{"user", "id"}, isID: true},
		{name: "UserID", want: []string{"user", "id"}, isID: true},
		{name: "ID", want: []string{"id"}, isID: true},
		{name: "order-uuid", want: []string{"order", "uuid"}, isID: true},
		{name: "paid", want: []string{"paid"}},
		{name: "width", want: []string{"width"}},
		{name: "HTTPStatus", want: []string{"http", "status"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nameTokens(tt.name))
			assert.Equal(t, tt.isID, hasIDName(tt.name))
		})
	}
}
