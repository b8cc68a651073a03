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
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: prometheus.DefBuckets,
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

	PortfolioItemsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_items_scored_total",
			Help: "Portfolio items scored, by recommendation",
		},
		[]string{"recommendation"},
	)

	PortfolioFitScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_fit_score",
			Help:    "Distribution of item fit scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	LeadsRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_leads_routed_total",
			Help: "Partner leads routed, by priority",
		},
		[]string{"priority"},
	)
)

func JobCompleted(taskType string) {
	WorkerJobsCompleted.WithLabelValues(taskType).Inc()
}

func JobFailed(taskType, errorCode string) {
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}

// ItemScored records one scored item.
func ItemScored(recommendation string, fitScore int) {
	PortfolioItemsScored.WithLabelValues(recommendation).Inc()
	PortfolioFitScore.Observe(float64(fitScore))
}

func LeadRouted(priority string) {
	LeadsRouted.WithLabelValues(priority).Inc()
}
