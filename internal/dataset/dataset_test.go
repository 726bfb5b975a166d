package dataset

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCell(t *testing.T) {
	nulls := NewNullSet(DefaultNullValues)

	tests := []struct {
		raw         string
		wantMissing bool
		wantNumeric bool
		wantNum     float64
	}{
		{raw: "", wantMissing: true},
		{raw: "NA", wantMissing: true},
		{raw: "NaN", wantMissing: true},
		{raw: "42", wantNumeric: true, wantNum: 42},
		{raw: "-3.5", wantNumeric: true, wantNum: -3.5},
		{raw: "1e3", wantNumeric: true, wantNum: 1000},
		{raw: "2.5E-2", wantNumeric: true, wantNum: 0.025},
		{raw: "Inf"},
		{raw: "0x10"},
		{raw: "1.2.3"},
		{raw: "e5"},
		{raw: "abc"},
		{raw: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := ParseCell(tt.raw, nulls)
			assert.Equal(t, tt.wantMissing, v.Missing)
			assert.Equal(t, tt.wantNumeric, v.Numeric)
			if tt.wantNumeric {
				assert.InDelta(t, tt.wantNum, v.Num, 1e-12)
			}
		})
	}
}

func TestFromAny(t *testing.T) {
	nulls := NewNullSet(DefaultNullValues)

	assert.True(t, FromAny(nil, nulls).Missing)
	assert.True(t, FromAny(int64(7), nulls).Numeric)
	assert.True(t, FromAny([]byte("3.25"), nulls).Numeric)
	assert.True(t, FromAny(math.NaN(), nulls).Missing)

	b := FromAny(true, nulls)
	assert.False(t, b.Numeric)
	assert.True(t, b.IsBool())

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01T12:00:00Z", FromAny(ts, nulls).Str)
	assert.Equal(t, "x", FromAny("x", nulls).Str)
}

func TestValueKeyCollapsesNumericForms(t *testing.T) {
	nulls := NewNullSet(nil)
	assert.Equal(t, ParseCell("1", nulls).Key(), ParseCell("1.0", nulls).Key())
	assert.NotEqual(t, ParseCell("1", nulls).Key(), TextValue("1").Key())
	assert.Equal(t, ParseCell("-0", nulls).Key(), ParseCell("0", nulls).Key())
	assert.Equal(t, ParseCell("-0.0", nulls).Key(), ParseCell("0", nulls).Key())
	assert.Equal(t, ParseCell("007", nulls).Key(), ParseCell("+7", nulls).Key())
	assert.Equal(t, ParseCell("1e2", nulls).Key(), ParseCell("100", nulls).Key())
}

func TestValueKeyKeepsLargeIntegersExact(t *testing.T) {
	nulls := NewNullSet(nil)
	a := ParseCell("9007199254740992", nulls)
	b := ParseCell("9007199254740993", nulls)
	require.Equal(t, a.Num, b.Num)
	assert.NotEqual(t, a.Key(), b.Key())

	assert.Equal(t, "i:1234567890123456789", FromAny(int64(1234567890123456789), nulls).Key())
	assert.Equal(t, "i:18446744073709551615", FromAny(uint64(18446744073709551615), nulls).Key())
	assert.Equal(t, ParseCell("1234567890123456789", nulls).Key(), FromAny(int64(1234567890123456789), nulls).Key())
}

func TestIntegerDigits(t *testing.T) {
	tests := map[string]string{
		"42":   "42",
		"+42":  "42",
		"-042": "-42",
		"000":  "0",
		"-0":   "0",
		"1.0":  "",
		"1e3":  "",
		"-":    "",
		"12a":  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, integerDigits(in), in)
	}
}

func TestFromRecords(t *testing.T) {
	ds, err := FromRecords(
		[]string{"age", "city"},
		[][]string{{"10", "A"}, {"", "B"}},
		NewNullSet(DefaultNullValues),
	)
	require.NoError(t, err)

	assert.Equal(t, 2, ds.NRows())
	assert.Equal(t, 2, ds.NCols())
	assert.Equal(t, []string{"age", "city"}, ds.Names())

	col, ok := ds.Column("age")
	require.True(t, ok)
	assert.True(t, col.Values[1].Missing)

	_, ok = ds.Column("missing")
	assert.False(t, ok)
}

func TestNewRejectsMalformedTables(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		rows  [][]Value
	}{
		{name: "ragged row", names: []string{"a", "b"}, rows: [][]Value{{TextValue("x")}}},
		{name: "duplicate name", names: []string{"a", "a"}},
		{name: "empty name", names: []string{"a", " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.names, tt.rows)
			var dfe *DataFormatError
			require.True(t, errors.As(err, &dfe), "got %v", err)
		})
	}
}

func TestValidateUnequalColumns(t *testing.T) {
	ds := &Dataset{Columns: []Column{
		{Name: "a", Values: []Value{NumberValue(1)}},
		{Name: "b"},
	}}

	var dfe *DataFormatError
	require.ErrorAs(t, ds.Validate(), &dfe)
	assert.Equal(t, "b", dfe.Column)

	var nilDS *Dataset
	require.ErrorAs(t, nilDS.Validate(), &dfe)
}

func TestEmptyDatasetIsValid(t *testing.T) {
	ds, err := New([]string{"a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.NRows())
	assert.Equal(t, 1, ds.NCols())
}
