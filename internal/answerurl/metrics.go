package answerurl

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts answered requests. A nil *Metrics is valid and records nothing.
type Metrics struct {
	bridges       *prometheus.CounterVec
	sipNormalized prometheus.Counter
}

// NewMetrics registers the answer URL counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		bridges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "answerurl",
			Name:      "bridges_total",
			Help:      "Bridge directives returned, by the query key the destination came from.",
		}, []string{"source"}),
		sipNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "answerurl",
			Name:      "sip_normalized_total",
			Help:      "Destinations reduced from a SIP URI to its user part.",
		}),
	}
	reg.MustRegister(m.bridges, m.sipNormalized)
	return m
}

func (m *Metrics) observe(res Resolution) {
	if m == nil {
		return
	}
	m.bridges.WithLabelValues(res.Source).Inc()
	if res.Normalized {
		m.sipNormalized.Inc()
	}
}
