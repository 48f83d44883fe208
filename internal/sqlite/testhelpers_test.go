package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// setupBackend attaches a Backend to a fresh temp directory without sample
// data. Detach runs on test cleanup.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })
	return b
}

// addMaterial inserts a material in its own transaction and returns its id.
func addMaterial(t *testing.T, b *Backend, name, quantity string, threshold int64) int64 {
	t.Helper()
	var id int64
	err := b.Update(context.Background(), func(tx types.StoreTx) error {
		var err error
		id, err = tx.InsertMaterial(context.Background(), name, decimal.RequireFromString(quantity), threshold)
		return err
	})
	require.NoError(t, err)
	return id
}

// assertQuantity compares decimals by value so that "4" equals "4.0".
func assertQuantity(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "expected quantity %s, got %s", want, got)
}

func materialNames(ms []types.Material) []string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name
	}
	return names
}

func errorsIsStoreFailure(err error) bool {
	return errors.Is(err, types.ErrStoreFailure)
}
