package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stockpile/internal/sqlite"
	"github.com/mesh-intelligence/stockpile/pkg/types"
)

func setupStore(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func setupEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return New(setupStore(t), opts...)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustAdd(t *testing.T, e *Engine, name, quantity string, threshold int64) *types.Material {
	t.Helper()
	m, err := e.AddMaterial(context.Background(), name, dec(quantity), threshold)
	require.NoError(t, err)
	return m
}

func assertStock(t *testing.T, e *Engine, id int64, want string) {
	t.Helper()
	m, err := e.GetMaterial(context.Background(), id)
	require.NoError(t, err)
	assert.Truef(t, dec(want).Equal(m.Quantity), "material %d: expected %s, got %s", id, want, m.Quantity)
}

func history(t *testing.T, e *Engine) []types.AuditEntry {
	t.Helper()
	entries, err := e.ListHistory(context.Background(), 0)
	require.NoError(t, err)
	return entries
}

// faultyStore wraps a real store so that every AppendAudit inside a
// transaction fails with errInjected.
type faultyStore struct {
	*sqlite.Backend
}

var errInjected = errors.New("injected audit failure")

func (s faultyStore) Update(ctx context.Context, fn func(types.StoreTx) error) error {
	return s.Backend.Update(ctx, func(tx types.StoreTx) error {
		return fn(faultyTx{tx})
	})
}

type faultyTx struct {
	types.StoreTx
}

func (faultyTx) AppendAudit(context.Context, types.ActionKind, string, decimal.Decimal) (int64, error) {
	return 0, errInjected
}

func TestEngine_ClearHistory(t *testing.T) {
	e := setupEngine(t)
	mustAdd(t, e, "Fabric", "10", 2)
	require.Len(t, history(t, e), 1)

	require.NoError(t, e.ClearHistory(context.Background()))
	assert.Empty(t, history(t, e))

	mustAdd(t, e, "Thread", "10", 2)
	entries := history(t, e)
	require.Len(t, entries, 1)
	assert.EqualValues(t, 1, entries[0].ID)
}

func TestEngine_ListHistoryLimit(t *testing.T) {
	e := setupEngine(t)
	for _, name := range []string{"A", "B", "C"} {
		mustAdd(t, e, name, "1", 0)
	}

	entries, err := e.ListHistory(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "'C' added", entries[0].Description)
}
