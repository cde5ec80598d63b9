package postgres

import (
	"context"
	_ "embed"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

// EnsureSchema creates any missing tables and indexes. Statements are
// idempotent so it is safe to run on every start.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return MapError("ensure schema", err)
		}
	}
	return nil
}
