package storefront

import (
	"github.com/prometheus/client_golang/prometheus"

	"Halwa/internal/cart"
)

// CartMetrics is the observability rendition of a subscribed presentation
// surface: it re-renders mutation broadcasts into counters.
type CartMetrics struct {
	Updates  prometheus.Counter
	Items    prometheus.Histogram
	Sessions prometheus.Gauge
}

func NewCartMetrics(reg *prometheus.Registry) *CartMetrics {
	m := &CartMetrics{
		Updates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cart_updates_total",
			Help: "Cart mutations broadcast to presentation surfaces",
		}),
		Items: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cart_items",
			Help:    "Item count per cart snapshot",
			Buckets: prometheus.LinearBuckets(0, 5, 8),
		}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cart_active_sessions",
			Help: "Cart stores live in this process",
		}),
	}

	reg.MustRegister(m.Updates, m.Items, m.Sessions)
	return m
}

// Observe hooks a store; wire it through Manager.OnCreate.
func (m *CartMetrics) Observe(st *cart.Store) {
	m.Sessions.Inc()
	st.Subscribe(func(snap cart.Snapshot) {
		m.Updates.Inc()
		m.Items.Observe(float64(snap.Totals.ItemCount))
	})
}
