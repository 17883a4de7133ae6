package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLearnerRows("imported", 3)
		m.IncrementLearnersRegistered()
		m.ObserveReferenceImport(4, true)
		m.ObserveReconOutcome("Valid", 1)
		m.JobStarted()
		m.JobFinished("completed", time.Second)
	})
}

func TestMetricsRecord(t *testing.T) {
	m := New()

	m.ObserveLearnerRows("imported", 3)
	m.ObserveLearnerRows("invalid_id", 1)
	m.ObserveLearnerRows("invalid_id", 0)
	m.ObserveReferenceImport(5, true)
	m.ObserveReconOutcome("NotFound", 2)
	m.JobStarted()
	m.JobStarted()
	m.JobFinished("completed", 2*time.Second)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.LearnerRows.WithLabelValues("imported")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LearnerRows.WithLabelValues("invalid_id")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.ReferenceUpserts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReferenceFallback))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReconOutcomes.WithLabelValues("NotFound")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveJobs))
}
