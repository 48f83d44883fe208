// Package sqlite implements the SQLite storage backend for stockpile.
// A Backend owns one database file inside the configured data directory,
// migrates its schema on Attach, and exposes reads plus a transactional
// Update for every mutation.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// DatabaseFile is the name of the SQLite file inside the data directory.
const DatabaseFile = "stockpile.db"

// connPragmas are applied to every connection the driver opens. Foreign keys
// are off by default in SQLite and the recipe cascade depends on them.
const connPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Compile-time interface check.
var _ types.Backend = (*Backend)(nil)

// Backend implements types.Store on a local SQLite database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	// now stamps audit entries; tests replace it.
	now func() time.Time
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Attach opens (creating if needed) the database in config.DataDir, applies
// pending migrations and, when configured, seeds sample materials into an
// empty materials table.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(config.DataDir, DatabaseFile)
	db, err := sql.Open("sqlite", dbPath+connPragmas)
	if err != nil {
		return storeFailure("opening database", err)
	}
	// A single connection keeps the pragmas and the writer lock in one place.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return storeFailure("opening database", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return storeFailure("migrating schema", err)
	}
	if config.SeedSamples {
		if err := seedSampleMaterials(ctx, db); err != nil {
			db.Close()
			return fmt.Errorf("seeding sample materials: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database handle. After Detach every operation returns
// ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	db := b.db
	b.db = nil
	if err := db.Close(); err != nil {
		return storeFailure("closing database", err)
	}
	return nil
}

// Path returns the database file path, or "" when detached.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return ""
	}
	return filepath.Join(b.config.DataDir, DatabaseFile)
}

// Update runs fn inside one transaction. The deferred rollback releases the
// transaction on every exit path, including a panic inside fn.
func (b *Backend) Update(ctx context.Context, fn func(tx types.StoreTx) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return storeFailure("beginning transaction", err)
	}
	defer tx.Rollback()

	if err := fn(&storeTx{tx: tx, now: b.now}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeFailure("committing transaction", err)
	}
	return nil
}

// reader returns the handle for read queries, or ErrDetached.
// The caller must hold b.mu for reading.
func (b *Backend) reader() (querier, error) {
	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.db, nil
}
