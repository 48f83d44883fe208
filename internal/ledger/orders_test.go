package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stockpile/internal/metrics"
	"github.com/mesh-intelligence/stockpile/pkg/types"
)

const fixedOrderID = "01928f3c-7a1e-7cc2-9d4b-3f2a1b0c9d8e"

// shirtFixture builds recipe {Fabric: 2/unit, Thread: 1/unit} with the
// given stock levels.
func shirtFixture(t *testing.T, e *Engine, fabricStock, threadStock string) (fabric, thread *types.Material) {
	t.Helper()
	ctx := context.Background()
	fabric = mustAdd(t, e, "Fabric", fabricStock, 2)
	thread = mustAdd(t, e, "Thread", threadStock, 2)
	require.NoError(t, e.SetComponent(ctx, "Shirt", fabric.ID, dec("2")))
	require.NoError(t, e.SetComponent(ctx, "Shirt", thread.ID, dec("1")))
	return fabric, thread
}

func TestFulfillOrder(t *testing.T) {
	e := setupEngine(t)
	e.newOrderID = func() (uuid.UUID, error) { return uuid.MustParse(fixedOrderID), nil }
	fabric, thread := shirtFixture(t, e, "10", "10")
	before := len(history(t, e))

	receipt, err := e.FulfillOrder(context.Background(), "Shirt", dec("3"))
	require.NoError(t, err)

	assertStock(t, e, fabric.ID, "4")
	assertStock(t, e, thread.ID, "7")

	assert.Equal(t, fixedOrderID, receipt.OrderID)
	assert.Equal(t, "Shirt", receipt.ProductName)
	assert.True(t, dec("3").Equal(receipt.OrderQuantity))
	require.Len(t, receipt.Consumed, 2)
	assert.Equal(t, "Fabric", receipt.Consumed[0].MaterialName)
	assert.True(t, dec("6").Equal(receipt.Consumed[0].Amount))
	assert.True(t, dec("4").Equal(receipt.Consumed[0].Remaining))
	assert.True(t, dec("3").Equal(receipt.Consumed[1].Amount))

	entries := history(t, e)
	require.Len(t, entries, before+1)
	assert.Equal(t, types.ActionOrderFulfilled, entries[0].Kind)
	assert.True(t, entries[0].QuantityDelta.IsZero())
	assert.Equal(t, "order "+fixedOrderID+": 'Shirt' x3 fulfilled", entries[0].Description)
}

func TestFulfillOrder_FractionalQuantity(t *testing.T) {
	e := setupEngine(t)
	e.newOrderID = func() (uuid.UUID, error) { return uuid.MustParse(fixedOrderID), nil }
	fabric, thread := shirtFixture(t, e, "10", "10")

	receipt, err := e.FulfillOrder(context.Background(), "Shirt", dec("2.5"))
	require.NoError(t, err)

	assertStock(t, e, fabric.ID, "5")
	assertStock(t, e, thread.ID, "7.5")
	assert.True(t, dec("2.5").Equal(receipt.OrderQuantity))
	assert.Equal(t, "order "+fixedOrderID+": 'Shirt' x2.5 fulfilled", history(t, e)[0].Description)
}

func TestFulfillOrder_ExactStock(t *testing.T) {
	e := setupEngine(t)
	fabric, thread := shirtFixture(t, e, "6", "3")

	_, err := e.FulfillOrder(context.Background(), "Shirt", dec("3"))
	require.NoError(t, err)
	assertStock(t, e, fabric.ID, "0")
	assertStock(t, e, thread.ID, "0")
}

func TestFulfillOrder_AllOrNothing(t *testing.T) {
	e := setupEngine(t)
	fabric, thread := shirtFixture(t, e, "10", "2")
	before := history(t, e)

	_, err := e.FulfillOrder(context.Background(), "Shirt", dec("3"))
	require.ErrorIs(t, err, types.ErrInsufficientStock)

	var shortage *types.InsufficientStockError
	require.True(t, errors.As(err, &shortage))
	assert.Equal(t, "Shirt", shortage.Product)
	require.Len(t, shortage.Shortages, 1)
	assert.Equal(t, thread.ID, shortage.Shortages[0].MaterialID)
	assert.True(t, dec("2").Equal(shortage.Shortages[0].Stock))
	assert.True(t, dec("3").Equal(shortage.Shortages[0].Required))

	assertStock(t, e, fabric.ID, "10")
	assertStock(t, e, thread.ID, "2")
	assert.Equal(t, before, history(t, e))
}

func TestFulfillOrder_ReportsEveryShortage(t *testing.T) {
	e := setupEngine(t)
	shirtFixture(t, e, "1", "0")

	_, err := e.FulfillOrder(context.Background(), "Shirt", dec("3"))
	var shortage *types.InsufficientStockError
	require.True(t, errors.As(err, &shortage))
	require.Len(t, shortage.Shortages, 2)
	assert.Equal(t, "Fabric", shortage.Shortages[0].MaterialName)
	assert.Equal(t, "Thread", shortage.Shortages[1].MaterialName)
	assert.Contains(t, err.Error(), "Fabric (have 1, need 6)")
	assert.Contains(t, err.Error(), "Thread (have 0, need 3)")
}

func TestFulfillOrder_NoRecipe(t *testing.T) {
	e := setupEngine(t)
	m := mustAdd(t, e, "Fabric", "10", 2)
	before := history(t, e)

	_, err := e.FulfillOrder(context.Background(), "Unknown Product", dec("1"))
	require.ErrorIs(t, err, types.ErrNoRecipe)
	assertStock(t, e, m.ID, "10")
	assert.Equal(t, before, history(t, e))
}

func TestFulfillOrder_InvalidInput(t *testing.T) {
	e := setupEngine(t)
	shirtFixture(t, e, "10", "10")
	ctx := context.Background()

	_, err := e.FulfillOrder(ctx, "Shirt", dec("0"))
	assert.ErrorIs(t, err, types.ErrInvalidQuantity)
	_, err = e.FulfillOrder(ctx, "Shirt", dec("-2"))
	assert.ErrorIs(t, err, types.ErrInvalidQuantity)
	_, err = e.FulfillOrder(ctx, "Shirt", dec("-0.5"))
	assert.ErrorIs(t, err, types.ErrInvalidQuantity)
	_, err = e.FulfillOrder(ctx, " ", dec("1"))
	assert.ErrorIs(t, err, types.ErrInvalidName)
}

func TestFulfillOrder_AuditFailureRollsBack(t *testing.T) {
	store := setupStore(t)
	setup := New(store)
	fabric, thread := shirtFixture(t, setup, "10", "10")

	e := New(faultyStore{store})
	_, err := e.FulfillOrder(context.Background(), "Shirt", dec("3"))
	require.ErrorIs(t, err, errInjected)
	assert.False(t, types.IsBusinessError(err))

	assertStock(t, setup, fabric.ID, "10")
	assertStock(t, setup, thread.ID, "10")
}

func TestFulfillOrder_NeverNegative(t *testing.T) {
	e := setupEngine(t)
	fabric, thread := shirtFixture(t, e, "9", "9")
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, _ = e.FulfillOrder(ctx, "Shirt", dec("2"))
	}
	for _, id := range []int64{fabric.ID, thread.ID} {
		m, err := e.GetMaterial(ctx, id)
		require.NoError(t, err)
		assert.False(t, m.Quantity.IsNegative())
	}
	assertStock(t, e, fabric.ID, "1")
	assertStock(t, e, thread.ID, "5")
}

func TestFulfillOrder_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	e := setupEngine(t, WithMetrics(m))
	shirtFixture(t, e, "10", "10")
	ctx := context.Background()

	_, err = e.FulfillOrder(ctx, "Shirt", dec("3"))
	require.NoError(t, err)
	_, err = e.FulfillOrder(ctx, "Shirt", dec("3"))
	require.ErrorIs(t, err, types.ErrInsufficientStock)
	_, err = e.FulfillOrder(ctx, "Hat", dec("1"))
	require.ErrorIs(t, err, types.ErrNoRecipe)

	const want = `
# HELP stockpile_orders_fulfilled_total Orders fulfilled, by product.
# TYPE stockpile_orders_fulfilled_total counter
stockpile_orders_fulfilled_total{product="Shirt"} 1
# HELP stockpile_order_rejections_total Orders rejected without mutation, by reason.
# TYPE stockpile_order_rejections_total counter
stockpile_order_rejections_total{reason="insufficient_stock"} 1
stockpile_order_rejections_total{reason="no_recipe"} 1
# HELP stockpile_critical_materials Materials at or below their critical threshold.
# TYPE stockpile_critical_materials gauge
stockpile_critical_materials 0
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want),
		"stockpile_orders_fulfilled_total",
		"stockpile_order_rejections_total",
		"stockpile_critical_materials",
	))
}
