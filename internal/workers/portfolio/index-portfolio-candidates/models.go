// internal/workers/portfolio/index-portfolio-candidates/models.go
package indexportfoliocandidates

import "portfolio-scoring-workers/internal/scoring"

type Input struct {
	PartnerID        string                   `json:"partnerId"`
	RunID            string                   `json:"runId"`
	PortfolioSummary scoring.PortfolioSummary `json:"portfolioSummary"`
}

type Output struct {
	IndexedCount int      `json:"indexedCount"`
	DocumentIDs  []string `json:"documentIds"`
}

// CandidateDocument is one top candidate in the search index.
type CandidateDocument struct {
	PartnerID      string   `json:"partnerId"`
	RunID          string   `json:"runId"`
	Rank           int      `json:"rank"`
	Name           string   `json:"name"`
	Sector         string   `json:"sector,omitempty"`
	Stage          string   `json:"stage,omitempty"`
	FitScore       int      `json:"fitScore"`
	Recommendation string   `json:"recommendation"`
	RiskFlags      []string `json:"riskFlags"`
	IndexedAt      string   `json:"indexedAt"`
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}
