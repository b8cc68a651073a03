// internal/workers/portfolio/validate-portfolio-items/handler.go
package validateportfolioitems

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "portfolio-scoring-workers/internal/common/errors"
	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/common/metrics"
	"portfolio-scoring-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "validate-portfolio-items"
)

var (
	ErrPortfolioValidationFailed = errors.New("PORTFOLIO_VALIDATION_FAILED")
)

type Handler struct {
	config *Config
	schema gojsonschema.JSONLoader
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		schema: gojsonschema.NewGoLoader(BuildSchema(config)),
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
		h.failJob(client, job, apperrors.NewPortfolioValidationFailedError(err.Error()).
			WithMetadata("partnerId", input.PartnerID))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	items := input.PortfolioItems
	if items == nil {
		items = []map[string]interface{}{}
	}

	result, err := gojsonschema.Validate(h.schema, gojsonschema.NewGoLoader(items))
	if err != nil {
		return nil, fmt.Errorf("%w: schema evaluation: %v", ErrPortfolioValidationFailed, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrPortfolioValidationFailed, strings.Join(errs, "; "))
	}

	warnings := collectWarnings(items)

	h.logger.Info("portfolio validated", map[string]interface{}{
		"partnerId": input.PartnerID,
		"itemCount": len(items),
		"warnings":  len(warnings),
	})

	return &Output{
		PortfolioValid:     true,
		ItemCount:          len(items),
		ValidationWarnings: warnings,
	}, nil
}

// collectWarnings flags input that passes validation but scores oddly.
func collectWarnings(items []map[string]interface{}) []string {
	warnings := []string{}
	seen := make(map[string]int, len(items))

	for i, item := range items {
		name, _ := item["name"].(string)
		if first, dup := seen[name]; dup {
			warnings = append(warnings, fmt.Sprintf("items[%d]: duplicate name %q (first at items[%d])", i, name, first))
		} else {
			seen[name] = i
		}

		if vp, ok := item["value_pressure"].(string); ok && !scoring.ValuePressure(vp).Valid() {
			warnings = append(warnings, fmt.Sprintf("items[%d]: value_pressure %q is not a scoring level and scores 0", i, vp))
		}
	}
	return warnings
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
