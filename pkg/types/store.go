package types

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store is durable storage for materials, recipe components and audit
// entries. Reads run directly against the store; every mutation goes through
// Update so that multi-row changes are applied as one unit.
type Store interface {
	// ListMaterials returns every material, critical ones first and
	// alphabetical by name within each group.
	ListMaterials(ctx context.Context) ([]Material, error)

	// SearchMaterials returns the materials whose name contains query,
	// with Unicode case folding, in ListMaterials order.
	SearchMaterials(ctx context.Context, query string) ([]Material, error)

	// GetMaterial returns ErrNotFound if no material has the given id.
	GetMaterial(ctx context.Context, id int64) (*Material, error)

	// CountCritical counts materials with quantity <= critical threshold.
	CountCritical(ctx context.Context) (int, error)

	// ListRecipeNames returns distinct product names, alphabetical.
	ListRecipeNames(ctx context.Context) ([]string, error)

	// GetRecipe returns the components of product ordered by material name.
	// An unknown product yields an empty slice, not an error.
	GetRecipe(ctx context.Context, product string) ([]RecipeLine, error)

	// ListAudit returns the newest limit entries, newest first. A limit of
	// zero or less uses the configured default.
	ListAudit(ctx context.Context, limit int) ([]AuditEntry, error)

	// Update runs fn inside a single transaction. If fn returns an error, or
	// the commit fails, nothing fn did is persisted.
	Update(ctx context.Context, fn func(tx StoreTx) error) error
}

// StoreTx is the write side of a Store, valid only inside Update.
type StoreTx interface {
	GetMaterial(ctx context.Context, id int64) (*Material, error)

	// InsertMaterial returns ErrDuplicateName if the name is taken.
	InsertMaterial(ctx context.Context, name string, quantity decimal.Decimal, threshold int64) (int64, error)

	// DeleteMaterial removes the material and every recipe component that
	// references it. Returns ErrNotFound if absent.
	DeleteMaterial(ctx context.Context, id int64) error

	// SetQuantity overwrites a material's stock. Returns ErrNotFound if the
	// material is absent and ErrNegativeStock if quantity < 0.
	SetQuantity(ctx context.Context, id int64, quantity decimal.Decimal) error

	GetRecipe(ctx context.Context, product string) ([]RecipeLine, error)

	// UpsertComponent inserts or replaces the (product, material) row.
	// Returns ErrUnknownMaterial if the material does not exist.
	UpsertComponent(ctx context.Context, c RecipeComponent) error

	// DeleteComponent reports whether a row was removed.
	DeleteComponent(ctx context.Context, product string, materialID int64) (bool, error)

	// DeleteRecipe returns the number of component rows removed.
	DeleteRecipe(ctx context.Context, product string) (int64, error)

	// AppendAudit appends one entry and returns its id.
	AppendAudit(ctx context.Context, kind ActionKind, description string, delta decimal.Decimal) (int64, error)

	// ClearAudit deletes every entry and resets the id sequence.
	ClearAudit(ctx context.Context) error
}

// Backend is a Store with an explicit lifecycle. Attach opens the store
// described by Config; Detach releases it. A detached Backend returns
// ErrDetached from every Store method.
type Backend interface {
	Store
	Attach(config Config) error
	Detach() error
}
