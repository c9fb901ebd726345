package colguide

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics counts surface churn for every adornment of a Library.
type metrics struct {
	added   prometheus.Counter
	removed prometheus.Counter
	live    prometheus.Gauge
	events  *prometheus.CounterVec
}

// newMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		added: factory.NewCounter(prometheus.CounterOpts{
			Name: "colguide_primitives_added_total",
			Help: "Guide lines registered with a surface.",
		}),
		removed: factory.NewCounter(prometheus.CounterOpts{
			Name: "colguide_primitives_removed_total",
			Help: "Guide lines unregistered from a surface.",
		}),
		live: factory.NewGauge(prometheus.GaugeOpts{
			Name: "colguide_primitives_live",
			Help: "Guide lines currently registered across all surfaces.",
		}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "colguide_events_total",
			Help: "Options model events handled, per adornment.",
		}, []string{"kind"}),
	}
}

func (m *metrics) lineAdded() {
	m.added.Inc()
	m.live.Inc()
}

func (m *metrics) linesRemoved(n int) {
	if n <= 0 {
		return
	}
	m.removed.Add(float64(n))
	m.live.Sub(float64(n))
}

func (m *metrics) event(kind EventKind) {
	m.events.WithLabelValues(kind.String()).Inc()
}
