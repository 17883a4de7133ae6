package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// All methods are nil-safe so components can run without metrics in tests.
type Metrics struct {
	// Bulk learner import rows by outcome ("imported") or error kind
	LearnerRows *prometheus.CounterVec

	// Learners registered one at a time through the API
	LearnersRegistered prometheus.Counter

	// Reference citizens upserted, and whether the fallback seed was used
	ReferenceUpserts  prometheus.Counter
	ReferenceFallback prometheus.Counter

	// Reconciliation outcomes by validation status
	ReconOutcomes *prometheus.CounterVec

	// Reconciliation job duration by terminal state
	JobDuration *prometheus.HistogramVec
	ActiveJobs  prometheus.Gauge
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		LearnerRows: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "idrecon_learner_import_rows_total",
			Help: "Bulk import rows by outcome; failed rows are labeled with their error kind",
		}, []string{"outcome"}),
		LearnersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "idrecon_learners_registered_total",
			Help: "Total number of learners registered individually",
		}),
		ReferenceUpserts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "idrecon_reference_citizens_upserted_total",
			Help: "Total number of reference citizen records upserted",
		}),
		ReferenceFallback: promauto.NewCounter(prometheus.CounterOpts{
			Name: "idrecon_reference_fallback_seed_total",
			Help: "Number of reference imports that fell back to the seed dataset",
		}),
		ReconOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "idrecon_reconciliation_outcomes_total",
			Help: "Reconciliation outcomes by validation status",
		}, []string{"status"}),
		JobDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "idrecon_reconciliation_job_duration_seconds",
			Help:    "Duration of reconciliation jobs by terminal state",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"state"}),
		ActiveJobs: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "idrecon_reconciliation_jobs_active",
			Help: "Reconciliation jobs currently running",
		}),
	}
}

// ObserveLearnerRows adds n rows under the given outcome label.
func (m *Metrics) ObserveLearnerRows(outcome string, n int) {
	if m != nil && n > 0 {
		m.LearnerRows.WithLabelValues(outcome).Add(float64(n))
	}
}

// IncrementLearnersRegistered records a single registration.
func (m *Metrics) IncrementLearnersRegistered() {
	if m != nil {
		m.LearnersRegistered.Inc()
	}
}

// ObserveReferenceImport records upserted records and fallback use.
func (m *Metrics) ObserveReferenceImport(upserted int, fallback bool) {
	if m == nil {
		return
	}
	m.ReferenceUpserts.Add(float64(upserted))
	if fallback {
		m.ReferenceFallback.Inc()
	}
}

// ObserveReconOutcome adds n outcomes for a status.
func (m *Metrics) ObserveReconOutcome(status string, n int) {
	if m != nil && n > 0 {
		m.ReconOutcomes.WithLabelValues(status).Add(float64(n))
	}
}

// JobStarted increments the active jobs gauge.
func (m *Metrics) JobStarted() {
	if m != nil {
		m.ActiveJobs.Inc()
	}
}

// JobFinished decrements the active jobs gauge and records the duration.
func (m *Metrics) JobFinished(state string, d time.Duration) {
	if m == nil {
		return
	}
	m.ActiveJobs.Dec()
	m.JobDuration.WithLabelValues(state).Observe(d.Seconds())
}
