// Package fetch holds the external data collaborators. Each source hands the
// pipeline an in-memory table; nothing downstream knows where rows came from.
package fetch

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/joho/godotenv"

	"github.com/emrekoca/zscout/internal/table"
)

// Dataset is a fetched table plus ingest diagnostics.
type Dataset struct {
	Table *table.Table
	// Collapsed counts duplicate column names collapsed to their first
	// occurrence during ingest.
	Collapsed int
}

// Source produces the raw table a run operates on.
type Source interface {
	Fetch(ctx context.Context) (*Dataset, error)
}

// LoadEnv loads a .env file from the working directory when present.
// A missing file is not an error; shell environment still applies.
func LoadEnv() {
	_ = godotenv.Load()
}

// DBSource fetches rows from a relational database with a configured query.
type DBSource struct {
	Driver string
	DSN    string
	Query  string
}

// NewDBSource builds a DBSource from DB_DRIVER/DB_DSN environment variables
// (load .env first via LoadEnv). DB_DRIVER defaults to pgx.
func NewDBSource(query string) (*DBSource, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN must be set (in the environment or .env)")
	}
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "pgx"
	}
	if query == "" {
		return nil, fmt.Errorf("sql_query is required for a database fetch")
	}
	return &DBSource{Driver: driver, DSN: dsn, Query: query}, nil
}

// Fetch runs the query and materializes the full result set.
func (s *DBSource) Fetch(ctx context.Context) (*Dataset, error) {
	db, err := sql.Open(s.Driver, s.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	rows, err := db.QueryContext(ctx, s.Query)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	var records [][]any
	for rows.Next() {
		vals := make([]any, len(header))
		ptrs := make([]any, len(header))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(records)+1, err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		records = append(records, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	t, collapsed := table.FromRecords(header, records)
	return &Dataset{Table: t, Collapsed: collapsed}, nil
}
