// This file wires the embedded goose migrations that define the stockpile
// schema: materials, recipe_components (cascading from materials) and the
// append-only audit_log.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// tableAuditLog is also the key of its row in sqlite_sequence.
const tableAuditLog = "audit_log"

// migrate brings the schema up to the latest embedded version. Already
// applied migrations are skipped, so reattaching an existing file is safe.
func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("opening migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
