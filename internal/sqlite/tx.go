package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// querier is satisfied by both *sql.DB and *sql.Tx so that read helpers
// serve Backend reads and in-transaction reads alike.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Compile-time interface check.
var _ types.StoreTx = (*storeTx)(nil)

// storeTx implements types.StoreTx on one open *sql.Tx.
type storeTx struct {
	tx  *sql.Tx
	now func() time.Time
}

func (s *storeTx) GetMaterial(ctx context.Context, id int64) (*types.Material, error) {
	return getMaterial(ctx, s.tx, id)
}

func (s *storeTx) InsertMaterial(ctx context.Context, name string, quantity decimal.Decimal, threshold int64) (int64, error) {
	return insertMaterial(ctx, s.tx, name, quantity, threshold)
}

func (s *storeTx) DeleteMaterial(ctx context.Context, id int64) error {
	return deleteMaterial(ctx, s.tx, id)
}

func (s *storeTx) SetQuantity(ctx context.Context, id int64, quantity decimal.Decimal) error {
	return setQuantity(ctx, s.tx, id, quantity)
}

func (s *storeTx) GetRecipe(ctx context.Context, product string) ([]types.RecipeLine, error) {
	return getRecipe(ctx, s.tx, product)
}

func (s *storeTx) UpsertComponent(ctx context.Context, c types.RecipeComponent) error {
	return upsertComponent(ctx, s.tx, c)
}

func (s *storeTx) DeleteComponent(ctx context.Context, product string, materialID int64) (bool, error) {
	return deleteComponent(ctx, s.tx, product, materialID)
}

func (s *storeTx) DeleteRecipe(ctx context.Context, product string) (int64, error) {
	return deleteRecipe(ctx, s.tx, product)
}

func (s *storeTx) AppendAudit(ctx context.Context, kind types.ActionKind, description string, delta decimal.Decimal) (int64, error) {
	return appendAudit(ctx, s.tx, s.now(), kind, description, delta)
}

func (s *storeTx) ClearAudit(ctx context.Context) error {
	return clearAudit(ctx, s.tx)
}
