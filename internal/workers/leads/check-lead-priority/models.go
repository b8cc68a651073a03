// internal/workers/leads/check-lead-priority/models.go
package checkleadpriority

import "portfolio-scoring-workers/internal/scoring"

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Input struct {
	PartnerID        string                   `json:"partnerId"`
	PortfolioSummary scoring.PortfolioSummary `json:"portfolioSummary"`
}

type Output struct {
	LeadPriority     string `json:"leadPriority"`
	RequiresFollowUp bool   `json:"requiresFollowUp"`
	PriorityReason   string `json:"priorityReason"`
}
