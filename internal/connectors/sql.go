package connectors

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	_ "github.com/sijms/go-ora/v2"

	"github.com/peekknuf/edaqa/internal/dataset"
)

// Driver names registered by the imported database/sql drivers.
const (
	DriverPostgres  = "postgres"
	DriverMySQL     = "mysql"
	DriverSQLServer = "sqlserver"
	DriverOracle    = "oracle"
)

// DetectDriver guesses the driver from a DSN when none is configured.
func DetectDriver(dsn string) string {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"),
		strings.Contains(lower, "sslmode"):
		return DriverPostgres
	case strings.HasPrefix(lower, "sqlserver://"):
		return DriverSQLServer
	case strings.HasPrefix(lower, "oracle://"):
		return DriverOracle
	default:
		return DriverMySQL
	}
}

// SQLSource loads a dataset from the result of a query.
type SQLSource struct {
	Driver     string
	DSN        string
	Query      string
	NullValues []string
	MaxRows    int
}

// Load opens the database, runs the query and converts the result set.
func (s SQLSource) Load(ctx context.Context) (*dataset.Dataset, error) {
	if s.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	if strings.TrimSpace(s.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	driver := s.Driver
	if driver == "" {
		driver = DetectDriver(s.DSN)
	}

	db, err := sql.Open(driver, s.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	rows, err := db.QueryContext(ctx, s.Query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return ScanRows(rows, dataset.NewNullSet(s.NullValues), s.MaxRows)
}

// RowScanner is the subset of *sql.Rows used by ScanRows.
type RowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// ScanRows converts a result set into a dataset, stopping after maxRows
// rows when maxRows > 0.
func ScanRows(rows RowScanner, nulls dataset.NullSet, maxRows int) (*dataset.Dataset, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out [][]dataset.Value
	for rows.Next() {
		if maxRows > 0 && len(out) >= maxRows {
			break
		}

		raw := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(out)+1, err)
		}

		row := make([]dataset.Value, len(names))
		for i, v := range raw {
			row[i] = dataset.FromAny(v, nulls)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return dataset.New(names, out)
}
