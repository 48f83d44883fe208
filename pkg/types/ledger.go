package types

import (
	"context"

	"github.com/shopspring/decimal"
)

// Ledger is the operation set a presentation layer (CLI, HTTP, GUI) calls.
// Every method returns one of this package's sentinel errors, an
// *InsufficientStockError, or an error wrapping ErrStoreFailure.
type Ledger interface {
	ListMaterials(ctx context.Context) ([]Material, error)
	SearchMaterials(ctx context.Context, query string) ([]Material, error)
	GetMaterial(ctx context.Context, id int64) (*Material, error)
	AddMaterial(ctx context.Context, name string, quantity decimal.Decimal, threshold int64) (*Material, error)
	RemoveMaterial(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, id int64, delta decimal.Decimal) (*Material, error)
	CountCritical(ctx context.Context) (int, error)

	ListRecipeNames(ctx context.Context) ([]string, error)
	GetRecipe(ctx context.Context, product string) ([]RecipeLine, error)
	SetComponent(ctx context.Context, product string, materialID int64, amountPerUnit decimal.Decimal) error
	RemoveComponent(ctx context.Context, product string, materialID int64) error
	DeleteRecipe(ctx context.Context, product string) error

	FulfillOrder(ctx context.Context, product string, quantity decimal.Decimal) (*OrderReceipt, error)

	ListHistory(ctx context.Context, limit int) ([]AuditEntry, error)
	ClearHistory(ctx context.Context) error
}
