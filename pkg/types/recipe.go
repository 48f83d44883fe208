package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RecipeComponent states how much of one material a single unit of a product
// consumes. A recipe is the set of components sharing a ProductName; there is
// no separate recipe entity.
type RecipeComponent struct {
	ProductName   string          `json:"product_name"`
	MaterialID    int64           `json:"material_id"`
	AmountPerUnit decimal.Decimal `json:"amount_per_unit"`
}

// NewRecipeComponent creates a validated RecipeComponent. It does not check
// that the material exists; the ledger does that inside its transaction.
func NewRecipeComponent(productName string, materialID int64, amountPerUnit decimal.Decimal) (*RecipeComponent, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, ErrInvalidName
	}
	if !amountPerUnit.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return &RecipeComponent{
		ProductName:   productName,
		MaterialID:    materialID,
		AmountPerUnit: amountPerUnit,
	}, nil
}

// RecipeLine is one component of a recipe joined with its material name.
type RecipeLine struct {
	MaterialID    int64           `json:"material_id"`
	MaterialName  string          `json:"material_name"`
	AmountPerUnit decimal.Decimal `json:"amount_per_unit"`
}
