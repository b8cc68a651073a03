// internal/workers/portfolio/persist-portfolio-score/models.go
package persistportfolioscore

import "portfolio-scoring-workers/internal/scoring"

type Input struct {
	PartnerID        string                        `json:"partnerId"`
	ScoredItems      []scoring.ScoredPortfolioItem `json:"scoredItems"`
	PortfolioSummary scoring.PortfolioSummary      `json:"portfolioSummary"`
}

type Output struct {
	RunID         string `json:"runId"`
	PersistedAt   string `json:"persistedAt"` // ISO 8601
	SummaryCached bool   `json:"summaryCached"`
}

// CachedSummary is the value stored under the partner's summary key.
type CachedSummary struct {
	RunID   string                   `json:"runId"`
	Summary scoring.PortfolioSummary `json:"summary"`
	NotNow  int                      `json:"notNowCount"`
	At      string                   `json:"persistedAt"`
}
