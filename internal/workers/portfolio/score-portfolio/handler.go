// internal/workers/portfolio/score-portfolio/handler.go
package scoreportfolio

import (
	"context"
	"encoding/json"

	apperrors "portfolio-scoring-workers/internal/common/errors"
	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/common/metrics"
	"portfolio-scoring-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-portfolio"
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scored := scoring.ScorePortfolio(input.PortfolioItems)
	summary := scoring.GetPortfolioSummary(scored)

	for _, item := range scored {
		metrics.ItemScored(string(item.Recommendation), item.FitScore)
	}

	output := &Output{
		ScoredItems:      scored,
		PortfolioSummary: summary,
		NotNowCount:      summary.NotNowCount(),
	}
	if h.config.IncludeBreakdown {
		output.Breakdowns = make([]scoring.Breakdown, len(input.PortfolioItems))
		for i, item := range input.PortfolioItems {
			output.Breakdowns[i] = scoring.DimensionBreakdown(item)
		}
	}

	h.logger.Info("portfolio scored", map[string]interface{}{
		"partnerId":       input.PartnerID,
		"totalItems":      summary.TotalItems,
		"execBootcamp":    summary.ExecBootcampCount,
		"literacySprint":  summary.LiteracySprintCount,
		"diagnostic":      summary.DiagnosticCount,
		"averageFitScore": summary.AverageFitScore,
	})

	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		return
	}
	metrics.JobCompleted(TaskType)
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, stdErr *apperrors.StandardError) {
	metrics.JobFailed(TaskType, string(stdErr.Code))
	h.errors.HandleJobError(context.Background(), client, job, stdErr)
}
