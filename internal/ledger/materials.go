package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// ListMaterials returns every material, critical ones first.
func (e *Engine) ListMaterials(ctx context.Context) ([]types.Material, error) {
	return e.store.ListMaterials(ctx)
}

// SearchMaterials filters ListMaterials by a case-insensitive name substring.
func (e *Engine) SearchMaterials(ctx context.Context, query string) ([]types.Material, error) {
	return e.store.SearchMaterials(ctx, query)
}

// GetMaterial returns types.ErrNotFound for an unknown id.
func (e *Engine) GetMaterial(ctx context.Context, id int64) (*types.Material, error) {
	return e.store.GetMaterial(ctx, id)
}

// CountCritical counts materials at or below their threshold.
func (e *Engine) CountCritical(ctx context.Context) (int, error) {
	return e.store.CountCritical(ctx)
}

// AddMaterial creates a material with an initial stock level. The name is
// trimmed and must be unique.
func (e *Engine) AddMaterial(ctx context.Context, name string, quantity decimal.Decimal, threshold int64) (*types.Material, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.ErrInvalidName
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("quantity %s: %w", quantity, types.ErrInvalidQuantity)
	}
	if threshold < 0 {
		return nil, fmt.Errorf("critical threshold %d: %w", threshold, types.ErrInvalidQuantity)
	}

	var m *types.Material
	err := e.store.Update(ctx, func(tx types.StoreTx) error {
		id, err := tx.InsertMaterial(ctx, name, quantity, threshold)
		if err != nil {
			return err
		}
		m, err = tx.GetMaterial(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.log.DebugContext(ctx, "material added", "material_id", m.ID, "name", m.Name, "quantity", m.Quantity)
	e.trail.Record(ctx, types.ActionMaterialAdded, fmt.Sprintf("'%s' added", m.Name), quantity)
	e.refreshCritical(ctx)
	return m, nil
}

// RemoveMaterial deletes a material together with every recipe component
// that references it.
func (e *Engine) RemoveMaterial(ctx context.Context, id int64) error {
	var name string
	err := e.store.Update(ctx, func(tx types.StoreTx) error {
		m, err := tx.GetMaterial(ctx, id)
		if err != nil {
			return err
		}
		name = m.Name
		return tx.DeleteMaterial(ctx, id)
	})
	if err != nil {
		return err
	}

	e.log.DebugContext(ctx, "material removed", "material_id", id, "name", name)
	e.trail.Record(ctx, types.ActionMaterialRemoved, fmt.Sprintf("'%s' removed", name), decimal.Zero)
	e.refreshCritical(ctx)
	return nil
}

// AdjustStock adds delta (which may be negative) to a material's stock.
// A result below zero is rejected and nothing changes.
func (e *Engine) AdjustStock(ctx context.Context, id int64, delta decimal.Decimal) (*types.Material, error) {
	var m *types.Material
	err := e.store.Update(ctx, func(tx types.StoreTx) error {
		var err error
		m, err = tx.GetMaterial(ctx, id)
		if err != nil {
			return err
		}
		next := m.Quantity.Add(delta)
		if next.IsNegative() {
			return fmt.Errorf("'%s' has %s, cannot apply %s: %w", m.Name, m.Quantity, delta, types.ErrNegativeStock)
		}
		if err := tx.SetQuantity(ctx, id, next); err != nil {
			return err
		}
		m.Quantity = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.DebugContext(ctx, "stock adjusted", "material_id", id, "delta", delta, "quantity", m.Quantity)
	e.trail.Record(ctx, types.ActionStockAdjusted, fmt.Sprintf("'%s' stock adjusted", m.Name), delta)
	e.metrics.StockAdjusted()
	e.refreshCritical(ctx)
	return m, nil
}
