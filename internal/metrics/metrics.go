// Package metrics exposes Prometheus counters and gauges for ledger
// operations. A nil *Collector is valid and records nothing, so the engine
// runs the same with or without metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "stockpile"

// Order rejection reasons used as the "reason" label.
const (
	ReasonNoRecipe          = "no_recipe"
	ReasonInsufficientStock = "insufficient_stock"
)

// Collector holds the ledger's metric vectors.
type Collector struct {
	ordersFulfilled    *prometheus.CounterVec
	orderRejections    *prometheus.CounterVec
	stockAdjustments   prometheus.Counter
	auditWriteFailures prometheus.Counter
	criticalMaterials  prometheus.Gauge
}

// New creates the collector and registers it with reg. Pass a
// prometheus.NewRegistry() in tests to keep them isolated.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		ordersFulfilled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_fulfilled_total",
			Help:      "Orders fulfilled, by product.",
		}, []string{"product"}),
		orderRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_rejections_total",
			Help:      "Orders rejected without mutation, by reason.",
		}, []string{"reason"}),
		stockAdjustments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_adjustments_total",
			Help:      "Manual stock adjustments applied.",
		}),
		auditWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_failures_total",
			Help:      "Audit entries that could not be written.",
		}),
		criticalMaterials: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "critical_materials",
			Help:      "Materials at or below their critical threshold.",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.ordersFulfilled,
		c.orderRejections,
		c.stockAdjustments,
		c.auditWriteFailures,
		c.criticalMaterials,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// OrderFulfilled counts a fulfilled order for product.
func (c *Collector) OrderFulfilled(product string) {
	if c == nil {
		return
	}
	c.ordersFulfilled.WithLabelValues(product).Inc()
}

// OrderRejected counts an order rejected for reason.
func (c *Collector) OrderRejected(reason string) {
	if c == nil {
		return
	}
	c.orderRejections.WithLabelValues(reason).Inc()
}

// StockAdjusted counts a manual stock adjustment.
func (c *Collector) StockAdjusted() {
	if c == nil {
		return
	}
	c.stockAdjustments.Inc()
}

// AuditWriteFailed counts an audit entry that could not be written.
func (c *Collector) AuditWriteFailed() {
	if c == nil {
		return
	}
	c.auditWriteFailures.Inc()
}

// SetCritical records the current number of critical materials.
func (c *Collector) SetCritical(n int) {
	if c == nil {
		return
	}
	c.criticalMaterials.Set(float64(n))
}
