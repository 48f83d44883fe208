// Package audit records the history of mutating ledger actions.
//
// A Trail writes entries through the Store. Record is best-effort: a failed
// write is logged and counted but never surfaces to the caller, because the
// action it describes has already been committed. AppendTx is the strict
// variant used when the entry must commit or roll back with the action.
package audit

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/stockpile/internal/logging"
	"github.com/mesh-intelligence/stockpile/internal/metrics"
	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// Trail appends and reads audit entries.
type Trail struct {
	store   types.Store
	log     *slog.Logger
	metrics *metrics.Collector
}

// Option configures a Trail.
type Option func(*Trail)

// WithLogger sets the logger used to report failed writes.
func WithLogger(log *slog.Logger) Option {
	return func(t *Trail) {
		if log != nil {
			t.log = log
		}
	}
}

// WithMetrics counts failed writes in m.
func WithMetrics(m *metrics.Collector) Option {
	return func(t *Trail) { t.metrics = m }
}

// New creates a Trail over store.
func New(store types.Store, opts ...Option) *Trail {
	t := &Trail{store: store, log: logging.Discard()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record appends one entry in its own transaction. Failures are logged at
// error level and counted; they are not returned.
func (t *Trail) Record(ctx context.Context, kind types.ActionKind, description string, delta decimal.Decimal) {
	err := t.store.Update(ctx, func(tx types.StoreTx) error {
		_, err := tx.AppendAudit(ctx, kind, description, delta)
		return err
	})
	if err != nil {
		t.log.ErrorContext(ctx, "audit write failed",
			"action_kind", kind,
			"description", description,
			"error", err,
		)
		t.metrics.AuditWriteFailed()
	}
}

// AppendTx appends one entry inside the caller's transaction and returns
// any error so the caller can roll back.
func (t *Trail) AppendTx(ctx context.Context, tx types.StoreTx, kind types.ActionKind, description string, delta decimal.Decimal) error {
	_, err := tx.AppendAudit(ctx, kind, description, delta)
	return err
}

// List returns the newest limit entries, newest first. A limit of zero or
// less uses the store's configured default.
func (t *Trail) List(ctx context.Context, limit int) ([]types.AuditEntry, error) {
	return t.store.ListAudit(ctx, limit)
}

// Clear deletes every entry. Clearing is not itself recorded.
func (t *Trail) Clear(ctx context.Context) error {
	return t.store.Update(ctx, func(tx types.StoreTx) error {
		return tx.ClearAudit(ctx)
	})
}
