// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"portfolio-scoring-workers/internal/common/config"
	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/common/metrics"
	"portfolio-scoring-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Registrar opens job workers and closes them together on shutdown.
type Registrar struct {
	client  zbc.Client
	obs     *observability.Observability
	logger  logger.Logger
	workers []worker.JobWorker
	started []string
}

func NewRegistrar(client zbc.Client, obs *observability.Observability, log logger.Logger) *Registrar {
	return &Registrar{client: client, obs: obs, logger: log}
}

// Register opens a worker for taskType unless it is disabled. It reports
// whether a worker was opened.
func (r *Registrar) Register(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) bool {
	if !wcfg.Enabled {
		r.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	jobWorker := r.client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, r.obs)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	r.workers = append(r.workers, jobWorker)
	r.started = append(r.started, taskType)

	r.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// Started lists the task types with an open worker, in registration order.
func (r *Registrar) Started() []string {
	return append([]string(nil), r.started...)
}

// Close stops polling and waits for in-flight jobs.
func (r *Registrar) Close() {
	for _, w := range r.workers {
		w.Close()
		w.AwaitClose()
	}
}

// Instrument wraps handler with the active-jobs gauge and duration metrics.
func Instrument(taskType string, handler worker.JobHandler, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		start := time.Now()
		defer func() {
			active.Dec()
			elapsed := time.Since(start)
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
			obs.RecordJob(context.Background(), taskType, elapsed)
		}()

		handler(client, job)
	}
}
