// internal/workers/leads/crm-lead-sync/models.go
package crmleadsync

import (
	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/common/zoho"
	"portfolio-scoring-workers/internal/scoring"

	"github.com/redis/go-redis/v9"
)

type Input struct {
	PartnerID        string                   `json:"partnerId"`
	CompanyName      string                   `json:"companyName"`
	ContactName      string                   `json:"contactName"`
	Email            string                   `json:"email"`
	Phone            string                   `json:"phone,omitempty"`
	LeadPriority     string                   `json:"leadPriority"`
	PortfolioSummary scoring.PortfolioSummary `json:"portfolioSummary"`
}

type Output struct {
	CRMLeadID   string `json:"crmLeadId"`
	CRMAction   string `json:"crmAction"`
	CRMProvider string `json:"crmProvider"`
	SyncedAt    string `json:"syncedAt"`
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

type ServiceDependencies struct {
	Zoho   *zoho.CRMClient
	Redis  *redis.Client
	Logger logger.Logger
}
