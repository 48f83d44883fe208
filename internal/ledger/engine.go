// Package ledger implements the stockpile business rules on top of a
// types.Store: material lifecycle, recipe management and atomic order
// fulfillment. Every mutation is audited.
package ledger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/stockpile/internal/audit"
	"github.com/mesh-intelligence/stockpile/internal/logging"
	"github.com/mesh-intelligence/stockpile/internal/metrics"
	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// Compile-time interface check.
var _ types.Ledger = (*Engine)(nil)

// Engine implements types.Ledger. It holds no state besides its handles;
// the store is the single source of truth.
type Engine struct {
	store   types.Store
	trail   *audit.Trail
	log     *slog.Logger
	metrics *metrics.Collector

	// newOrderID generates order references; tests replace it.
	newOrderID func() (uuid.UUID, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMetrics records engine activity in m.
func WithMetrics(m *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an Engine over an attached store.
func New(store types.Store, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		log:        logging.Discard(),
		newOrderID: uuid.NewV7,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.trail = audit.New(store, audit.WithLogger(e.log), audit.WithMetrics(e.metrics))
	return e
}

// ListHistory returns the newest limit audit entries, newest first.
func (e *Engine) ListHistory(ctx context.Context, limit int) ([]types.AuditEntry, error) {
	return e.trail.List(ctx, limit)
}

// ClearHistory deletes every audit entry.
func (e *Engine) ClearHistory(ctx context.Context) error {
	if err := e.trail.Clear(ctx); err != nil {
		return err
	}
	e.log.InfoContext(ctx, "history cleared")
	return nil
}

// refreshCritical updates the critical-materials gauge after a mutation.
func (e *Engine) refreshCritical(ctx context.Context) {
	if e.metrics == nil {
		return
	}
	n, err := e.store.CountCritical(ctx)
	if err != nil {
		e.log.WarnContext(ctx, "counting critical materials", "error", err)
		return
	}
	e.metrics.SetCritical(n)
}
