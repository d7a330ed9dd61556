// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// Assistant pipeline metrics

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_stage_duration_seconds",
			Help: "Duration of each assistant pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	StageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_stage_failures_total",
			Help: "Total failures per assistant pipeline stage",
		},
		[]string{"stage", "error_code"},
	)

	RetrievalFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_retrieval_fallback_total",
			Help: "Catalog searches that fell back to the broadened query",
		},
		[]string{"reason"},
	)

	ContextDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_context_degraded_total",
			Help: "Context blocks assembled without live catalog data",
		},
	)
)
