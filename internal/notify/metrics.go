package notify

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts delivery outcomes. A nil *Metrics is valid and counts
// nothing, so wiring metrics stays optional in tests.
type Metrics struct {
	delivered prometheus.Counter
	failed    prometheus.Counter
}

// NewMetrics registers delivery counters with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tindahan_notifications_delivered_total",
			Help: "Notification records persisted successfully.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tindahan_notifications_failed_total",
			Help: "Notification writes that failed and were dropped.",
		}),
	}
	reg.MustRegister(m.delivered, m.failed)
	return m
}

func (m *Metrics) countDelivered(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.delivered.Add(float64(n))
}

func (m *Metrics) countFailed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.failed.Add(float64(n))
}
