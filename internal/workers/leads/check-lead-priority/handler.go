// internal/workers/leads/check-lead-priority/handler.go
package checkleadpriority

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "portfolio-scoring-workers/internal/common/errors"
	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/common/metrics"
	"portfolio-scoring-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "check-lead-priority"
)

type Handler struct {
	config *Config
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		errors: apperrors.NewErrorHandler(l),
		logger: l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, apperrors.NewParseError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, apperrors.NewInternalError(err))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	priority, reason := h.determinePriority(input.PortfolioSummary)
	metrics.LeadRouted(priority)

	h.logger.Info("lead priority determined", map[string]interface{}{
		"partnerId":       input.PartnerID,
		"priority":        priority,
		"execBootcamp":    input.PortfolioSummary.ExecBootcampCount,
		"literacySprint":  input.PortfolioSummary.LiteracySprintCount,
		"averageFitScore": input.PortfolioSummary.AverageFitScore,
	})

	return &Output{
		LeadPriority:     priority,
		RequiresFollowUp: priority != PriorityLow,
		PriorityReason:   reason,
	}, nil
}

func (h *Handler) determinePriority(s scoring.PortfolioSummary) (string, string) {
	if s.ExecBootcampCount >= h.config.HighPriorityMinBootcamps &&
		s.AverageFitScore >= h.config.HighPriorityMinAverage {
		return PriorityHigh, fmt.Sprintf("%d Exec Bootcamp candidate(s) with average fit %d",
			s.ExecBootcampCount, s.AverageFitScore)
	}
	if s.ExecBootcampCount+s.LiteracySprintCount >= 1 {
		return PriorityMedium, fmt.Sprintf("%d engagement candidate(s) with average fit %d",
			s.ExecBootcampCount+s.LiteracySprintCount, s.AverageFitScore)
	}
	if s.TotalItems == 0 {
		return PriorityLow, "empty portfolio"
	}
	return PriorityLow, fmt.Sprintf("no engagement candidates among %d item(s)", s.TotalItems)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.JobCompleted(TaskType)
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, stdErr *apperrors.StandardError) {
	metrics.JobFailed(TaskType, string(stdErr.Code))
	h.errors.HandleJobError(context.Background(), client, job, stdErr)
}
