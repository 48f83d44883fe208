// This file implements recipe component reads and writes. A recipe is the
// group of recipe_components rows sharing a product_name.
package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// ListRecipeNames returns the distinct product names, alphabetical.
func (b *Backend) ListRecipeNames(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	q, err := b.reader()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx,
		"SELECT DISTINCT product_name FROM recipe_components ORDER BY product_name",
	)
	if err != nil {
		return nil, storeFailure("querying recipe names", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storeFailure("scanning recipe name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("iterating recipe names", err)
	}
	return names, nil
}

// GetRecipe returns the components of product ordered by material name.
func (b *Backend) GetRecipe(ctx context.Context, product string) ([]types.RecipeLine, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	q, err := b.reader()
	if err != nil {
		return nil, err
	}
	return getRecipe(ctx, q, product)
}

func getRecipe(ctx context.Context, q querier, product string) ([]types.RecipeLine, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT rc.material_id, m.name, rc.amount_per_unit
		FROM recipe_components rc
		INNER JOIN materials m ON m.id = rc.material_id
		WHERE rc.product_name = ?
		ORDER BY m.name
	`, product)
	if err != nil {
		return nil, storeFailure(fmt.Sprintf("querying recipe %q", product), err)
	}
	defer rows.Close()

	lines := []types.RecipeLine{}
	for rows.Next() {
		var l types.RecipeLine
		if err := rows.Scan(&l.MaterialID, &l.MaterialName, &l.AmountPerUnit); err != nil {
			return nil, storeFailure("scanning recipe line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("iterating recipe lines", err)
	}
	return lines, nil
}

// upsertComponent inserts the row or replaces the amount of an existing
// (product_name, material_id) row.
func upsertComponent(ctx context.Context, q querier, c types.RecipeComponent) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO recipe_components (product_name, material_id, amount_per_unit)
		VALUES (?, ?, ?)
		ON CONFLICT (product_name, material_id)
		DO UPDATE SET amount_per_unit = excluded.amount_per_unit
	`, c.ProductName, c.MaterialID, c.AmountPerUnit.String())
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return fmt.Errorf("material %d: %w", c.MaterialID, types.ErrUnknownMaterial)
		case isCheckViolation(err):
			return types.ErrInvalidAmount
		}
		return storeFailure("upserting recipe component", err)
	}
	return nil
}

func deleteComponent(ctx context.Context, q querier, product string, materialID int64) (bool, error) {
	res, err := q.ExecContext(ctx,
		"DELETE FROM recipe_components WHERE product_name = ? AND material_id = ?",
		product, materialID,
	)
	if err != nil {
		return false, storeFailure("deleting recipe component", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeFailure("reading affected rows", err)
	}
	return n > 0, nil
}

func deleteRecipe(ctx context.Context, q querier, product string) (int64, error) {
	res, err := q.ExecContext(ctx, "DELETE FROM recipe_components WHERE product_name = ?", product)
	if err != nil {
		return 0, storeFailure(fmt.Sprintf("deleting recipe %q", product), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeFailure("reading affected rows", err)
	}
	return n, nil
}
