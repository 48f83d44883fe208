package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/stockpile/internal/metrics"
	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// FulfillOrder consumes the materials needed to produce quantity units of
// product. Either every component is decremented and one ORDER_FULFILLED
// entry is appended, all in a single transaction, or nothing changes.
//
// Stock is checked for every component before any write, so a rejection
// lists every shortage, not just the first.
func (e *Engine) FulfillOrder(ctx context.Context, product string, quantity decimal.Decimal) (*types.OrderReceipt, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return nil, types.ErrInvalidName
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("order quantity %s: %w", quantity, types.ErrInvalidQuantity)
	}

	orderID, err := e.newOrderID()
	if err != nil {
		return nil, fmt.Errorf("generating order id: %w", err)
	}
	receipt := &types.OrderReceipt{
		OrderID:       orderID.String(),
		ProductName:   product,
		OrderQuantity: quantity,
	}

	err = e.store.Update(ctx, func(tx types.StoreTx) error {
		lines, err := tx.GetRecipe(ctx, product)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return fmt.Errorf("%q: %w", product, types.ErrNoRecipe)
		}

		// Check phase.
		stock := make([]*types.Material, len(lines))
		var shortages []types.Shortage
		for i, l := range lines {
			m, err := tx.GetMaterial(ctx, l.MaterialID)
			if err != nil {
				return err
			}
			stock[i] = m
			required := l.AmountPerUnit.Mul(quantity)
			if m.Quantity.LessThan(required) {
				shortages = append(shortages, types.Shortage{
					MaterialID:   m.ID,
					MaterialName: m.Name,
					Stock:        m.Quantity,
					Required:     required,
				})
			}
		}
		if len(shortages) > 0 {
			return &types.InsufficientStockError{Product: product, Shortages: shortages}
		}

		// Apply phase.
		consumed := make([]types.Consumption, 0, len(lines))
		for i, l := range lines {
			m := stock[i]
			required := l.AmountPerUnit.Mul(quantity)
			remaining := m.Quantity.Sub(required)
			if err := tx.SetQuantity(ctx, m.ID, remaining); err != nil {
				return err
			}
			consumed = append(consumed, types.Consumption{
				MaterialID:   m.ID,
				MaterialName: m.Name,
				Amount:       required,
				Remaining:    remaining,
			})
		}
		desc := fmt.Sprintf("order %s: '%s' x%s fulfilled", receipt.OrderID, product, quantity)
		if err := e.trail.AppendTx(ctx, tx, types.ActionOrderFulfilled, desc, decimal.Zero); err != nil {
			return err
		}
		receipt.Consumed = consumed
		return nil
	})
	if err != nil {
		e.orderRejected(ctx, product, quantity, err)
		return nil, err
	}

	e.log.InfoContext(ctx, "order fulfilled", "order_id", receipt.OrderID, "product", product, "quantity", quantity.String())
	e.metrics.OrderFulfilled(product)
	e.refreshCritical(ctx)
	return receipt, nil
}

func (e *Engine) orderRejected(ctx context.Context, product string, quantity decimal.Decimal, err error) {
	var reason string
	switch {
	case errors.Is(err, types.ErrNoRecipe):
		reason = metrics.ReasonNoRecipe
	case errors.Is(err, types.ErrInsufficientStock):
		reason = metrics.ReasonInsufficientStock
	default:
		e.log.ErrorContext(ctx, "order failed", "product", product, "quantity", quantity.String(), "error", err)
		return
	}
	e.log.InfoContext(ctx, "order rejected", "product", product, "quantity", quantity.String(), "reason", reason)
	e.metrics.OrderRejected(reason)
}
