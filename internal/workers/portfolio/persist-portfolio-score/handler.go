// internal/workers/portfolio/persist-portfolio-score/handler.go
package persistportfolioscore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portfolio-scoring-workers/internal/common/database"
	apperrors "portfolio-scoring-workers/internal/common/errors"
	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "persist-portfolio-score"
)

var (
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrPartnerIDRequired    = errors.New("PORTFOLIO_VALIDATION_FAILED")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
		redis:  redisClient,
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
		sentinel := ErrDatabaseInsertFailed
		if errors.Is(err, ErrPartnerIDRequired) {
			sentinel = ErrPartnerIDRequired
		}
		h.failJob(client, job, apperrors.FromSentinel(sentinel, err).
			WithMetadata("partnerId", input.PartnerID))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.PartnerID == "" {
		return nil, fmt.Errorf("%w: partnerId is required", ErrPartnerIDRequired)
	}

	runID := uuid.New().String()
	now := time.Now().UTC()

	if err := h.insertRun(ctx, runID, now, input); err != nil {
		return nil, err
	}

	persistedAt := now.Format(time.RFC3339)
	cached := h.cacheSummary(ctx, runID, persistedAt, input)

	h.logger.Info("portfolio score persisted", map[string]interface{}{
		"runId":     runID,
		"partnerId": input.PartnerID,
		"itemCount": len(input.ScoredItems),
		"cached":    cached,
	})

	return &Output{
		RunID:         runID,
		PersistedAt:   persistedAt,
		SummaryCached: cached,
	}, nil
}

// insertRun writes the run header and one row per scored item in a single
// transaction.
func (h *Handler) insertRun(ctx context.Context, runID string, now time.Time, input *Input) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", ErrDatabaseInsertFailed, err)
	}
	defer func() { _ = tx.Rollback() }()

	summary := input.PortfolioSummary
	_, err = tx.ExecContext(ctx, `
		INSERT INTO portfolio_runs (
			id, partner_id, item_count, exec_bootcamp_count,
			literacy_sprint_count, diagnostic_count, average_fit_score, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		runID,
		input.PartnerID,
		len(input.ScoredItems),
		summary.ExecBootcampCount,
		summary.LiteracySprintCount,
		summary.DiagnosticCount,
		summary.AverageFitScore,
		now,
	)
	if err != nil {
		return fmt.Errorf("%w: insert run: %v", ErrDatabaseInsertFailed, err)
	}

	for i, item := range input.ScoredItems {
		position := i + 1
		flags := item.RiskFlags
		if flags == nil {
			flags = []string{}
		}
		flagsJSON, err := json.Marshal(flags)
		if err != nil {
			return fmt.Errorf("%w: marshal risk flags: %v", ErrDatabaseInsertFailed, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO portfolio_scores (
				run_id, position, name, sector, stage,
				fit_score, recommendation, risk_flags, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			runID,
			position,
			item.Name,
			item.Sector,
			item.Stage,
			item.FitScore,
			string(item.Recommendation),
			flagsJSON,
			now,
		)
		if err != nil {
			return fmt.Errorf("%w: insert item %d: %v", ErrDatabaseInsertFailed, position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrDatabaseInsertFailed, err)
	}
	return nil
}

// cacheSummary is best effort; the database row is the record of truth.
func (h *Handler) cacheSummary(ctx context.Context, runID, persistedAt string, input *Input) bool {
	if h.redis == nil {
		return false
	}

	key := h.config.CacheKeyPrefix + input.PartnerID
	err := database.SetJSON(ctx, h.redis, key, CachedSummary{
		RunID:   runID,
		Summary: input.PortfolioSummary,
		NotNow:  input.PortfolioSummary.NotNowCount(),
		At:      persistedAt,
	}, h.config.SummaryCacheTTL)
	if err != nil {
		h.logger.Warn("summary cache write failed", map[string]interface{}{
			"error": apperrors.NewCacheWriteFailedError(key, err),
			"runId": runID,
		})
		return false
	}
	return true
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
