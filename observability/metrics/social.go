package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// SocialMetrics aggregates the counters the social engine reports on every
// call boundary.
type SocialMetrics struct {
	calls        *prometheus.CounterVec
	mintOutcomes *prometheus.CounterVec
	footprint    prometheus.Gauge
}

var (
	socialOnce     sync.Once
	socialRegistry *SocialMetrics
)

func Social() *SocialMetrics {
	socialOnce.Do(func() {
		socialRegistry = &SocialMetrics{
			calls: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "social_calls_total",
				Help: "Count of mutating calls by operation and outcome.",
			}, []string{"op", "outcome"}),
			mintOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "social_mint_confirmations_total",
				Help: "Count of mint confirmations by outcome.",
			}, []string{"outcome"}),
			footprint: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "social_state_footprint_bytes",
				Help: "Total byte footprint of committed social state.",
			}),
		}
		prometheus.MustRegister(
			socialRegistry.calls,
			socialRegistry.mintOutcomes,
			socialRegistry.footprint,
		)
	})
	return socialRegistry
}

// ObserveCall records the outcome of one mutating call.
func (m *SocialMetrics) ObserveCall(op, outcome string) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(op, outcome).Inc()
}

// ObserveMint records the outcome of one mint confirmation.
func (m *SocialMetrics) ObserveMint(outcome string) {
	if m == nil {
		return
	}
	m.mintOutcomes.WithLabelValues(outcome).Inc()
}

// SetFootprint publishes the committed state footprint.
func (m *SocialMetrics) SetFootprint(bytes uint64) {
	if m == nil {
		return
	}
	m.footprint.Set(float64(bytes))
}
