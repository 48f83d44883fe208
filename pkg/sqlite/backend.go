// Package sqlite provides the public API for the SQLite stockpile backend.
// It exposes the factory function while keeping the implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/stockpile/internal/sqlite"
	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: "/var/lib/stockpile",
//	})
//	defer backend.Detach()
func NewBackend() types.Backend {
	return sqlite.NewBackend()
}
