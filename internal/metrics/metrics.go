// Package metrics holds the Prometheus collectors for operation and store calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "alchemy"

// Outcome labels
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics records operation calls and store queries. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	queryDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them with registerer
func New(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "operations_total",
			Help:      "Total number of operation calls by key and outcome",
		}, []string{"operation", "outcome"}),

		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "operation_duration_seconds",
			Help:      "Operation call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),

		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "query_duration_seconds",
			Help:      "Store query latency in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"collection", "outcome"}),
	}

	for _, c := range []prometheus.Collector{m.operationsTotal, m.operationDuration, m.queryDuration} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveOperation records one operation call
func (m *Metrics) ObserveOperation(key string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(key, outcome(err)).Inc()
	m.operationDuration.WithLabelValues(key).Observe(elapsed.Seconds())
}

// ObserveQuery records one store round trip
func (m *Metrics) ObserveQuery(collection string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(collection, outcome(err)).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
