package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"charterline/internal/compliance/models"
)

// Metrics counts screening outcomes.
type Metrics struct {
	FlagsDetected   *prometheus.CounterVec
	Assessments     *prometheus.CounterVec
	ScreeningsTotal prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FlagsDetected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "charterline_flags_detected_total",
			Help: "Compliance flags raised, by rule",
		}, []string{"flag"}),
		Assessments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "charterline_risk_assessments_total",
			Help: "Risk assessments produced, by tier",
		}, []string{"tier"}),
		ScreeningsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "charterline_screenings_total",
			Help: "Intake records screened",
		}),
	}
}

// ObserveScreening records one screened intake with its flags and tier.
func (m *Metrics) ObserveScreening(flags []models.ComplianceFlag, tier models.RiskTier) {
	if m == nil {
		return
	}
	m.ScreeningsTotal.Inc()
	for _, f := range flags {
		m.FlagsDetected.WithLabelValues(string(f.ID)).Inc()
	}
	m.Assessments.WithLabelValues(string(tier)).Inc()
}
