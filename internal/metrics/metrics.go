// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "exsplitter"

// Metrics groups the server's collectors. A nil *Metrics is valid and
// records nothing, so callers and tests can leave it out.
type Metrics struct {
	classifications *prometheus.CounterVec
	rpcDuration     *prometheus.HistogramVec
	watchStreams    prometheus.Gauge
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		classifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "split_classifications_total",
			Help:      "Expense splits classified, by shape.",
		}, []string{"shape"}),
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling latency, by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
		watchStreams: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watch_streams",
			Help:      "Open WatchTrip streams.",
		}),
	}
}

// ObserveClassification counts one classified split.
func (m *Metrics) ObserveClassification(shape string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(shape).Inc()
}

// ObserveRPC records the duration of one RPC.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(elapsed.Seconds())
}

// StreamOpened increments the open stream gauge and returns a func that
// decrements it.
func (m *Metrics) StreamOpened() func() {
	if m == nil {
		return func() {}
	}
	m.watchStreams.Inc()
	return m.watchStreams.Dec
}
