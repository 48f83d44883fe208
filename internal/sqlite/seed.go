// This file implements sample-material seeding on first attach.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// sampleMaterial describes a material to seed into an empty database.
type sampleMaterial struct {
	name      string
	quantity  decimal.Decimal
	threshold int64
}

// sampleMaterials are inserted only when the materials table is empty.
var sampleMaterials = []sampleMaterial{
	{"White Fabric (metre)", decimal.NewFromInt(100), 20},
	{"Button Set (piece)", decimal.NewFromInt(50), 15},
	{"Coloured Thread (spool)", decimal.NewFromInt(30), 5},
	{"Zipper (piece)", decimal.NewFromInt(10), 5},
}

// seedSampleMaterials only writes into an empty materials table, so running
// it on every attach is safe.
func seedSampleMaterials(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM materials").Scan(&count); err != nil {
		return storeFailure("counting materials", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return storeFailure("beginning seed transaction", err)
	}
	defer tx.Rollback()

	for _, sm := range sampleMaterials {
		if _, err := insertMaterial(ctx, tx, sm.name, sm.quantity, sm.threshold); err != nil {
			return fmt.Errorf("seeding material %s: %w", sm.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeFailure("committing seed transaction", err)
	}
	return nil
}
