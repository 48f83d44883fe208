package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// ListRecipeNames returns the products that have a recipe, alphabetically.
func (e *Engine) ListRecipeNames(ctx context.Context) ([]string, error) {
	return e.store.ListRecipeNames(ctx)
}

// GetRecipe returns the components of product. An unknown product has an
// empty recipe.
func (e *Engine) GetRecipe(ctx context.Context, product string) ([]types.RecipeLine, error) {
	return e.store.GetRecipe(ctx, strings.TrimSpace(product))
}

// SetComponent sets how much of a material one unit of product consumes,
// replacing any previous amount for the same pair.
func (e *Engine) SetComponent(ctx context.Context, product string, materialID int64, amountPerUnit decimal.Decimal) error {
	c, err := types.NewRecipeComponent(product, materialID, amountPerUnit)
	if err != nil {
		return err
	}

	var materialName string
	err = e.store.Update(ctx, func(tx types.StoreTx) error {
		m, err := tx.GetMaterial(ctx, materialID)
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("material %d: %w", materialID, types.ErrUnknownMaterial)
		}
		if err != nil {
			return err
		}
		materialName = m.Name
		return tx.UpsertComponent(ctx, *c)
	})
	if err != nil {
		return err
	}

	e.log.DebugContext(ctx, "recipe component set", "product", c.ProductName, "material_id", materialID, "amount_per_unit", amountPerUnit)
	e.trail.Record(ctx, types.ActionRecipeUpdated,
		fmt.Sprintf("'%s' uses %s of '%s' per unit", c.ProductName, amountPerUnit, materialName), decimal.Zero)
	return nil
}

// RemoveComponent drops one material from a recipe. Removing a component
// that does not exist is not an error.
func (e *Engine) RemoveComponent(ctx context.Context, product string, materialID int64) error {
	product = strings.TrimSpace(product)
	var removed bool
	err := e.store.Update(ctx, func(tx types.StoreTx) error {
		var err error
		removed, err = tx.DeleteComponent(ctx, product, materialID)
		return err
	})
	if err != nil || !removed {
		return err
	}

	e.log.DebugContext(ctx, "recipe component removed", "product", product, "material_id", materialID)
	e.trail.Record(ctx, types.ActionRecipeUpdated,
		fmt.Sprintf("'%s' no longer uses material %d", product, materialID), decimal.Zero)
	return nil
}

// DeleteRecipe removes every component of product. Deleting an unknown
// recipe is not an error and is not recorded.
func (e *Engine) DeleteRecipe(ctx context.Context, product string) error {
	product = strings.TrimSpace(product)
	var n int64
	err := e.store.Update(ctx, func(tx types.StoreTx) error {
		var err error
		n, err = tx.DeleteRecipe(ctx, product)
		return err
	})
	if err != nil || n == 0 {
		return err
	}

	e.log.DebugContext(ctx, "recipe deleted", "product", product, "components", n)
	e.trail.Record(ctx, types.ActionRecipeDeleted, fmt.Sprintf("'%s' recipe deleted", product), decimal.Zero)
	return nil
}
