package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActionKind classifies an audit entry.
type ActionKind string

// Audit action kinds.
const (
	ActionMaterialAdded   ActionKind = "MATERIAL_ADDED"
	ActionMaterialRemoved ActionKind = "MATERIAL_REMOVED"
	ActionStockAdjusted   ActionKind = "STOCK_ADJUSTED"
	ActionOrderFulfilled  ActionKind = "ORDER_FULFILLED"
	ActionRecipeUpdated   ActionKind = "RECIPE_UPDATED"
	ActionRecipeDeleted   ActionKind = "RECIPE_DELETED"
)

// AuditEntry records one mutating action. Entries are append-only.
type AuditEntry struct {
	ID            int64           `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	Kind          ActionKind      `json:"action_kind"`
	Description   string          `json:"description"`
	QuantityDelta decimal.Decimal `json:"quantity_delta"`
}
