// internal/workers/leads/crm-lead-sync/service.go
package crmleadsync

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"portfolio-scoring-workers/internal/common/errors"
	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/common/validation"
	"portfolio-scoring-workers/internal/common/zoho"

	"github.com/redis/go-redis/v9"
)

const leadCachePrefix = "crm:lead:"

type Service struct {
	config     *Config
	logger     logger.Logger
	zohoClient *zoho.CRMClient
	redis      *redis.Client
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:     config,
		logger:     deps.Logger,
		zohoClient: deps.Zoho,
		redis:      deps.Redis,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Executing CRM lead sync", map[string]interface{}{
		"partnerId": input.PartnerID,
		"email":     input.Email,
		"priority":  input.LeadPriority,
	})

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !validation.ValidateEmail(email) {
		return nil, errors.NewPortfolioValidationFailedError(fmt.Sprintf("invalid email address %q", input.Email))
	}

	if !s.zohoClient.Configured() {
		return nil, errors.NewCRMNotConfiguredError()
	}

	lead := s.buildLead(input, email)

	leadID, cached, err := s.findLead(ctx, email)
	if err != nil {
		return nil, errors.NewCRMSyncFailedError(err)
	}

	action, leadID, err := s.upsert(ctx, leadID, lead)
	if err != nil && cached {
		// The cached lead may have been deleted or merged in Zoho.
		s.logger.Warn("Update with cached CRM lead id failed, searching Zoho", map[string]interface{}{
			"leadId": leadID,
			"error":  err.Error(),
		})
		s.evictLeadID(ctx, email)
		if leadID, err = s.searchLead(ctx, email); err != nil {
			return nil, errors.NewCRMSyncFailedError(err)
		}
		action, leadID, err = s.upsert(ctx, leadID, lead)
	}
	if err != nil {
		return nil, errors.NewCRMSyncFailedError(err).WithMetadata("action", action)
	}

	s.cacheLeadID(ctx, email, leadID)

	s.logger.Info("CRM lead synced", map[string]interface{}{
		"partnerId": input.PartnerID,
		"leadId":    leadID,
		"action":    action,
	})

	return &Output{
		CRMLeadID:   leadID,
		CRMAction:   action,
		CRMProvider: "zoho",
		SyncedAt:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// findLead returns the id of the lead for email, or "" when none exists.
// cached reports whether the id came from Redis.
func (s *Service) findLead(ctx context.Context, email string) (leadID string, cached bool, err error) {
	if s.redis != nil {
		id, err := s.redis.Get(ctx, leadCachePrefix+email).Result()
		switch {
		case err == nil && id != "":
			return id, true, nil
		case err != nil && !stderrors.Is(err, redis.Nil):
			s.logger.Warn("CRM lead cache lookup failed, searching Zoho", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	leadID, err = s.searchLead(ctx, email)
	return leadID, false, err
}

func (s *Service) searchLead(ctx context.Context, email string) (string, error) {
	existing, err := s.zohoClient.SearchLeadByEmail(ctx, email)
	if stderrors.Is(err, zoho.ErrLeadNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lead search failed: %w", err)
	}
	return existing.ID, nil
}

// upsert updates leadID, or creates the lead when leadID is empty.
func (s *Service) upsert(ctx context.Context, leadID string, lead *zoho.Lead) (string, string, error) {
	if leadID != "" {
		return ActionUpdated, leadID, s.zohoClient.UpdateLead(ctx, leadID, lead)
	}
	id, err := s.zohoClient.CreateLead(ctx, lead)
	return ActionCreated, id, err
}

func (s *Service) evictLeadID(ctx context.Context, email string) {
	if err := s.redis.Del(ctx, leadCachePrefix+email).Err(); err != nil {
		s.logger.Warn("Failed to evict CRM lead id", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Service) cacheLeadID(ctx context.Context, email, leadID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, leadCachePrefix+email, leadID, s.config.LeadCacheTTL).Err(); err != nil {
		s.logger.Warn("Failed to cache CRM lead id", map[string]interface{}{
			"error": errors.NewCacheWriteFailedError(leadCachePrefix+email, err),
		})
	}
}

func (s *Service) buildLead(input *Input, email string) *zoho.Lead {
	summary := input.PortfolioSummary

	lastName := input.ContactName
	if lastName == "" {
		lastName = input.CompanyName
	}

	return &zoho.Lead{
		Company:       input.CompanyName,
		LastName:      lastName,
		Email:         email,
		Phone:         input.Phone,
		LeadSource:    s.config.LeadSource,
		LeadStatus:    "Portfolio Scored",
		Rating:        ratingFor(input.LeadPriority),
		Description:   describe(input),
		AvgFitScore:   summary.AverageFitScore,
		BootcampCount: summary.ExecBootcampCount,
		SprintCount:   summary.LiteracySprintCount,
	}
}

func ratingFor(priority string) string {
	switch priority {
	case "high":
		return "Hot"
	case "medium":
		return "Warm"
	default:
		return "Cold"
	}
}

func describe(input *Input) string {
	s := input.PortfolioSummary

	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio of %d scored for partner %s. Average fit %d.\n",
		s.TotalItems, input.PartnerID, s.AverageFitScore)
	fmt.Fprintf(&b, "Exec Bootcamp: %d, Literacy Sprint: %d, Diagnostic: %d, Not now: %d.\n",
		s.ExecBootcampCount, s.LiteracySprintCount, s.DiagnosticCount, s.NotNowCount())

	if len(s.TopCandidates) > 0 {
		b.WriteString("Top candidates:\n")
		for i, c := range s.TopCandidates {
			fmt.Fprintf(&b, "%d. %s (%d, %s)", i+1, c.Name, c.FitScore, c.Recommendation)
			if len(c.RiskFlags) > 0 {
				fmt.Fprintf(&b, " risks: %s", strings.Join(c.RiskFlags, ", "))
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// TestConnection checks that the CRM token is accepted.
func (s *Service) TestConnection(ctx context.Context) error {
	if !s.zohoClient.Configured() {
		return fmt.Errorf("zoho CRM client not configured")
	}

	_, err := s.zohoClient.SearchLeadByEmail(ctx, "healthcheck@portfolio.invalid")
	if err == nil || stderrors.Is(err, zoho.ErrLeadNotFound) {
		return nil
	}
	if strings.Contains(err.Error(), "401") || strings.Contains(err.Error(), "403") {
		return fmt.Errorf("zoho CRM authentication failed: %w", err)
	}
	return nil
}
