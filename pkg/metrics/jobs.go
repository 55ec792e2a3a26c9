package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// JobMetrics records background job outcomes and durations.
type JobMetrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewJobMetrics registers the job metrics on the provided registerer.
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return &JobMetrics{}
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "background_job_runs_total",
		Help: "Background job executions by job and result.",
	}, []string{"job", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "background_job_duration_seconds",
		Help:    "Background job run duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	reg.MustRegister(runs, duration)
	return &JobMetrics{runs: runs, duration: duration}
}

// ObserveRun records one completed job execution.
func (m *JobMetrics) ObserveRun(job string, succeeded bool, elapsed time.Duration) {
	if m == nil || m.runs == nil {
		return
	}
	result := "success"
	if !succeeded {
		result = "failure"
	}
	m.runs.WithLabelValues(normalizeLabel(job), result).Inc()
	m.duration.WithLabelValues(normalizeLabel(job)).Observe(elapsed.Seconds())
}
