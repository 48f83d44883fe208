// This file implements material reads and writes for the SQLite backend.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/stockpile/pkg/types"
)

const selectMaterials = "SELECT id, name, quantity, critical_threshold FROM materials"

// byName is the SQL ordering; critical-first grouping happens in Go because
// quantities are compared as decimals, not as text.
const byName = " ORDER BY name ASC"

// ListMaterials returns all materials, critical ones first.
func (b *Backend) ListMaterials(ctx context.Context) ([]types.Material, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	q, err := b.reader()
	if err != nil {
		return nil, err
	}
	ms, err := queryMaterials(ctx, q, selectMaterials+byName)
	if err != nil {
		return nil, err
	}
	return criticalFirst(ms), nil
}

// SearchMaterials returns materials whose name contains query, ignoring
// case (Unicode-aware, so "ütü" matches "Ütü Bezi"). An empty query matches
// every material.
func (b *Backend) SearchMaterials(ctx context.Context, query string) ([]types.Material, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	q, err := b.reader()
	if err != nil {
		return nil, err
	}
	ms, err := queryMaterials(ctx, q, selectMaterials+byName)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle != "" {
		matched := ms[:0]
		for _, m := range ms {
			if strings.Contains(strings.ToLower(m.Name), needle) {
				matched = append(matched, m)
			}
		}
		ms = matched
	}
	return criticalFirst(ms), nil
}

// GetMaterial returns the material with the given id.
func (b *Backend) GetMaterial(ctx context.Context, id int64) (*types.Material, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	q, err := b.reader()
	if err != nil {
		return nil, err
	}
	return getMaterial(ctx, q, id)
}

// CountCritical counts materials at or below their threshold.
func (b *Backend) CountCritical(ctx context.Context) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	q, err := b.reader()
	if err != nil {
		return 0, err
	}
	ms, err := queryMaterials(ctx, q, selectMaterials)
	if err != nil {
		return 0, err
	}
	var n int
	for _, m := range ms {
		if m.IsCritical() {
			n++
		}
	}
	return n, nil
}

// criticalFirst moves critical materials ahead of the rest, keeping the
// name order inside each group.
func criticalFirst(ms []types.Material) []types.Material {
	sorted := make([]types.Material, 0, len(ms))
	for _, m := range ms {
		if m.IsCritical() {
			sorted = append(sorted, m)
		}
	}
	for _, m := range ms {
		if !m.IsCritical() {
			sorted = append(sorted, m)
		}
	}
	return sorted
}

func queryMaterials(ctx context.Context, q querier, query string, args ...any) ([]types.Material, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeFailure("querying materials", err)
	}
	defer rows.Close()

	materials := []types.Material{}
	for rows.Next() {
		var m types.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Quantity, &m.CriticalThreshold); err != nil {
			return nil, storeFailure("scanning material", err)
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("iterating materials", err)
	}
	return materials, nil
}

func getMaterial(ctx context.Context, q querier, id int64) (*types.Material, error) {
	var m types.Material
	err := q.QueryRowContext(ctx, selectMaterials+" WHERE id = ?", id).
		Scan(&m.ID, &m.Name, &m.Quantity, &m.CriticalThreshold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("material %d: %w", id, types.ErrNotFound)
		}
		return nil, storeFailure(fmt.Sprintf("getting material %d", id), err)
	}
	return &m, nil
}

func insertMaterial(ctx context.Context, q querier, name string, quantity decimal.Decimal, threshold int64) (int64, error) {
	res, err := q.ExecContext(ctx,
		"INSERT INTO materials (name, quantity, critical_threshold) VALUES (?, ?, ?)",
		name, quantity.String(), threshold,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return 0, fmt.Errorf("%q: %w", name, types.ErrDuplicateName)
		case isCheckViolation(err):
			return 0, fmt.Errorf("%q: %w", name, types.ErrInvalidQuantity)
		}
		return 0, storeFailure("inserting material", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeFailure("reading material id", err)
	}
	return id, nil
}

// deleteMaterial removes the material; the foreign key cascade removes its
// recipe components in the same statement.
func deleteMaterial(ctx context.Context, q querier, id int64) error {
	res, err := q.ExecContext(ctx, "DELETE FROM materials WHERE id = ?", id)
	if err != nil {
		return storeFailure(fmt.Sprintf("deleting material %d", id), err)
	}
	return requireAffected(res, id)
}

func setQuantity(ctx context.Context, q querier, id int64, quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return fmt.Errorf("material %d: %w", id, types.ErrNegativeStock)
	}
	res, err := q.ExecContext(ctx,
		"UPDATE materials SET quantity = ? WHERE id = ?",
		quantity.String(), id,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("material %d: %w", id, types.ErrNegativeStock)
		}
		return storeFailure(fmt.Sprintf("updating material %d", id), err)
	}
	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeFailure("reading affected rows", err)
	}
	if n == 0 {
		return fmt.Errorf("material %d: %w", id, types.ErrNotFound)
	}
	return nil
}
