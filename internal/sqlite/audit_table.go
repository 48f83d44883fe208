// This file implements the append-only audit_log table.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// auditTimeLayout is fixed-width so that created_at sorts lexically.
const auditTimeLayout = "2006-01-02T15:04:05.000Z"

// ListAudit returns the newest limit entries, newest first.
func (b *Backend) ListAudit(ctx context.Context, limit int) ([]types.AuditEntry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	q, err := b.reader()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = b.config.EffectiveHistoryLimit()
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, created_at, action_kind, description, quantity_delta
		FROM audit_log
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, storeFailure("querying audit log", err)
	}
	defer rows.Close()

	entries := []types.AuditEntry{}
	for rows.Next() {
		var (
			e         types.AuditEntry
			createdAt string
			kind      string
		)
		if err := rows.Scan(&e.ID, &createdAt, &kind, &e.Description, &e.QuantityDelta); err != nil {
			return nil, storeFailure("scanning audit entry", err)
		}
		e.Kind = types.ActionKind(kind)
		e.Timestamp, err = time.Parse(auditTimeLayout, createdAt)
		if err != nil {
			return nil, storeFailure(fmt.Sprintf("parsing audit timestamp %q", createdAt), err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("iterating audit log", err)
	}
	return entries, nil
}

func appendAudit(ctx context.Context, q querier, at time.Time, kind types.ActionKind, description string, delta decimal.Decimal) (int64, error) {
	res, err := q.ExecContext(ctx,
		"INSERT INTO audit_log (created_at, action_kind, description, quantity_delta) VALUES (?, ?, ?, ?)",
		at.UTC().Format(auditTimeLayout), string(kind), description, delta.String(),
	)
	if err != nil {
		return 0, storeFailure("appending audit entry", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeFailure("reading audit entry id", err)
	}
	return id, nil
}

// clearAudit empties the log and resets its AUTOINCREMENT counter so the
// next entry gets id 1.
func clearAudit(ctx context.Context, q querier) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM audit_log"); err != nil {
		return storeFailure("clearing audit log", err)
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = ?", tableAuditLog); err != nil {
		return storeFailure("resetting audit sequence", err)
	}
	return nil
}
