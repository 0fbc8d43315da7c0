package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification lifecycle.
type Metrics struct {
	PersistenceFailures *prometheus.CounterVec
	Transitions         *prometheus.CounterVec
	OperationDuration   *prometheus.HistogramVec
}

// New registers the lifecycle metrics on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PersistenceFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "charterline_verification_persistence_failures_total",
			Help: "Lifecycle persistence errors that were logged and degraded instead of returned",
		}, []string{"operation"}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "charterline_verification_transitions_total",
			Help: "Lifecycle state transitions by target state",
		}, []string{"to"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "charterline_verification_operation_duration_seconds",
			Help:    "Duration of lifecycle operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// IncPersistenceFailure records a swallowed storage error.
func (m *Metrics) IncPersistenceFailure(operation string) {
	if m == nil {
		return
	}
	m.PersistenceFailures.WithLabelValues(operation).Inc()
}

// IncTransition records an entity entering state to.
func (m *Metrics) IncTransition(to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to).Inc()
}

// ObserveOperation records the duration of an operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
