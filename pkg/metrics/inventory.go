package metrics

import "github.com/prometheus/client_golang/prometheus"

// InventoryMetrics counts stock movements.
type InventoryMetrics struct {
	purchases      *prometheus.CounterVec
	unitsSold      prometheus.Counter
	unitsRestocked prometheus.Counter
}

// NewInventoryMetrics registers the stock movement metrics on the provided registerer.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	purchases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sweetshop_purchases_total",
		Help: "Purchase attempts by outcome.",
	}, []string{"outcome"})
	unitsSold := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sweetshop_units_sold_total",
		Help: "Units removed from stock by purchases.",
	})
	unitsRestocked := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sweetshop_units_restocked_total",
		Help: "Units added to stock by restocks.",
	})
	reg.MustRegister(purchases, unitsSold, unitsRestocked)
	return &InventoryMetrics{
		purchases:      purchases,
		unitsSold:      unitsSold,
		unitsRestocked: unitsRestocked,
	}
}

// PurchaseSucceeded records a completed purchase of quantity units.
func (m *InventoryMetrics) PurchaseSucceeded(quantity int) {
	if m == nil || m.purchases == nil {
		return
	}
	m.purchases.WithLabelValues("success").Inc()
	m.unitsSold.Add(float64(quantity))
}

// PurchaseRejected records a purchase refused for the given reason.
func (m *InventoryMetrics) PurchaseRejected(reason string) {
	if m == nil || m.purchases == nil {
		return
	}
	m.purchases.WithLabelValues(normalizeLabel(reason)).Inc()
}

// Restocked records quantity units added to stock.
func (m *InventoryMetrics) Restocked(quantity int) {
	if m == nil || m.unitsRestocked == nil {
		return
	}
	m.unitsRestocked.Add(float64(quantity))
}
