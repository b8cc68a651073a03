// internal/workers/portfolio/score-portfolio/models.go
package scoreportfolio

import "portfolio-scoring-workers/internal/scoring"

type Input struct {
	PartnerID      string                  `json:"partnerId"`
	PortfolioItems []scoring.PortfolioItem `json:"portfolioItems"`
}

type Output struct {
	ScoredItems      []scoring.ScoredPortfolioItem `json:"scoredItems"`
	PortfolioSummary scoring.PortfolioSummary      `json:"portfolioSummary"`
	NotNowCount      int                           `json:"notNowCount"`
	Breakdowns       []scoring.Breakdown           `json:"breakdowns,omitempty"`
}
