package storage

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the users, incomes and expenses tables when they are
// missing. It never drops or alters an existing table, so it is safe to call on
// every start, including on a seed database that predates a table.
func EnsureSchema(ctx context.Context, db *DB) error {
	if _, err := db.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
