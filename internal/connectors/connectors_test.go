package connectors

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/edaqa/internal/dataset"
)

type fakeRows struct {
	names []string
	data  [][]any
	pos   int
	err   error
}

func (f *fakeRows) Columns() ([]string, error) { return f.names, nil }

func (f *fakeRows) Next() bool {
	if f.pos >= len(f.data) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	row := f.data[f.pos-1]
	for i := range dest {
		*(dest[i].(*any)) = row[i]
	}
	return nil
}

func (f *fakeRows) Err() error { return f.err }

func TestScanRows(t *testing.T) {
	rows := &fakeRows{
		names: []string{"id", "amount", "city"},
		data: [][]any{
			{int64(1), 10.5, []byte("Oslo")},
			{int64(2), nil, "NA"},
			{int64(3), []byte("7"), "Bergen"},
		},
	}

	ds, err := ScanRows(rows, dataset.NewNullSet(dataset.DefaultNullValues), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.NRows())
	assert.Equal(t, []string{"id", "amount", "city"}, ds.Names())

	amount, _ := ds.Column("amount")
	assert.True(t, amount.Values[1].Missing)
	assert.True(t, amount.Values[2].Numeric)
	assert.Equal(t, 7.0, amount.Values[2].Num)

	city, _ := ds.Column("city")
	assert.Equal(t, "Oslo", city.Values[0].Str)
	assert.True(t, city.Values[1].Missing)
}

func TestScanRowsMaxRows(t *testing.T) {
	rows := &fakeRows{
		names: []string{"a"},
		data:  [][]any{{int64(1)}, {int64(2)}, {int64(3)}},
	}

	ds, err := ScanRows(rows, dataset.NewNullSet(nil), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NRows())
}

func TestScanRowsError(t *testing.T) {
	rows := &fakeRows{names: []string{"a"}, err: errors.New("connection reset")}

	_, err := ScanRows(rows, dataset.NewNullSet(nil), 0)
	assert.ErrorContains(t, err, "connection reset")
}

func TestDetectDriver(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{dsn: "postgres://u:p@localhost:5432/db", want: DriverPostgres},
		{dsn: "host=localhost dbname=x sslmode=disable", want: DriverPostgres},
		{dsn: "sqlserver://sa:pw@localhost:1433?database=x", want: DriverSQLServer},
		{dsn: "oracle://u:p@localhost:1521/XE", want: DriverOracle},
		{dsn: "u:p@tcp(localhost:3306)/db", want: DriverMySQL},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectDriver(tt.dsn), tt.dsn)
	}
}

func TestSQLSourceValidation(t *testing.T) {
	_, err := SQLSource{Query: "select 1"}.Load(context.Background())
	assert.ErrorContains(t, err, "dsn")

	_, err = SQLSource{DSN: "postgres://localhost/db"}.Load(context.Background())
	assert.ErrorContains(t, err, "query")
}

func TestDiscoverFiles(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "nested")
	require.NoError(t, os.Mkdir(nested, 0o755))

	for _, p := range []string{
		filepath.Join(root, "b.csv"),
		filepath.Join(root, "a.CSV"),
		filepath.Join(root, "notes.txt"),
		filepath.Join(root, "c.tsv"),
		filepath.Join(nested, "d.csv"),
	} {
		require.NoError(t, os.WriteFile(p, []byte("x\n1\n"), 0o644))
	}

	files, err := DiscoverFiles(root, DiscoveryOptions{})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(root, "a.CSV"), files[0].Path)
	assert.Equal(t, filepath.Join(root, "b.csv"), files[1].Path)

	files, err = DiscoverFiles(root, DiscoveryOptions{Recursive: true, Extensions: []string{"csv", ".tsv"}})
	require.NoError(t, err)
	assert.Len(t, files, 4)
}

func TestDiscoverFilesErrors(t *testing.T) {
	_, err := DiscoverFiles("", DiscoveryOptions{})
	assert.Error(t, err)

	_, err = DiscoverFiles(filepath.Join(t.TempDir(), "absent"), DiscoveryOptions{})
	assert.ErrorContains(t, err, "does not exist")

	file := filepath.Join(t.TempDir(), "f.csv")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = DiscoverFiles(file, DiscoveryOptions{})
	assert.ErrorContains(t, err, "not a directory")
}
