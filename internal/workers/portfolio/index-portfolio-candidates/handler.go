// internal/workers/portfolio/index-portfolio-candidates/handler.go
package indexportfoliocandidates

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "portfolio-scoring-workers/internal/common/errors"
	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	TaskType = "index-portfolio-candidates"
)

var (
	ErrSearchIndexFailed = errors.New("SEARCH_INDEX_FAILED")
	ErrRunIDRequired     = errors.New("runId is required")
)

type Handler struct {
	config   *Config
	esClient *elasticsearch.Client
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, esClient *elasticsearch.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		esClient: esClient,
		errors:   apperrors.NewErrorHandler(l),
		logger:   l,
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
		h.failJob(client, job, h.toStandardError(err, &input))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	// document ids are derived from the run id; without it runs would collide
	if input.RunID == "" {
		return nil, fmt.Errorf("%w: %w", ErrSearchIndexFailed, ErrRunIDRequired)
	}

	candidates := input.PortfolioSummary.TopCandidates
	if len(candidates) == 0 {
		h.logger.Info("no candidates to index", map[string]interface{}{"runId": input.RunID})
		return &Output{IndexedCount: 0, DocumentIDs: []string{}}, nil
	}

	indexedAt := time.Now().UTC().Format(time.RFC3339)
	ids := make([]string, 0, len(candidates))

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for i, c := range candidates {
		// ids are run-scoped so a retried job overwrites its own documents
		id := fmt.Sprintf("%s-%d", input.RunID, i+1)
		ids = append(ids, id)

		flags := c.RiskFlags
		if flags == nil {
			flags = []string{}
		}
		meta := map[string]interface{}{"index": map[string]interface{}{"_id": id}}
		doc := CandidateDocument{
			PartnerID:      input.PartnerID,
			RunID:          input.RunID,
			Rank:           i + 1,
			Name:           c.Name,
			Sector:         c.Sector,
			Stage:          c.Stage,
			FitScore:       c.FitScore,
			Recommendation: string(c.Recommendation),
			RiskFlags:      flags,
			IndexedAt:      indexedAt,
		}
		if err := enc.Encode(meta); err != nil {
			return nil, fmt.Errorf("%w: encode action: %v", ErrSearchIndexFailed, err)
		}
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("%w: encode document: %v", ErrSearchIndexFailed, err)
		}
	}

	req := esapi.BulkRequest{
		Index: h.config.Index,
		Body:  &body,
	}
	if h.config.Refresh {
		req.Refresh = "true"
	}

	res, err := req.Do(ctx, h.esClient)
	if err != nil {
		return nil, fmt.Errorf("%w: bulk request: %v", ErrSearchIndexFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: bulk response: %s", ErrSearchIndexFailed, res.Status())
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchIndexFailed, err)
	}
	if br.Errors {
		return nil, fmt.Errorf("%w: %s", ErrSearchIndexFailed, firstItemError(br))
	}

	h.logger.Info("candidates indexed", map[string]interface{}{
		"partnerId": input.PartnerID,
		"runId":     input.RunID,
		"index":     h.config.Index,
		"count":     len(ids),
	})

	return &Output{IndexedCount: len(ids), DocumentIDs: ids}, nil
}

func (h *Handler) toStandardError(err error, input *Input) *apperrors.StandardError {
	stdErr := apperrors.FromSentinel(ErrSearchIndexFailed, err).
		WithMetadata("index", h.config.Index).
		WithMetadata("runId", input.RunID)
	if errors.Is(err, ErrRunIDRequired) {
		stdErr.Retryable = false
	}
	return stdErr
}

func firstItemError(br bulkResponse) string {
	for _, item := range br.Items {
		for _, result := range item {
			if result.Error != nil {
				return fmt.Sprintf("document %s: %s: %s", result.ID, result.Error.Type, result.Error.Reason)
			}
		}
	}
	return "bulk request reported errors"
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
