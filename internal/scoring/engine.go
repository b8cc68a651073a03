// internal/scoring/engine.go

// Package scoring maps the qualitative profile of a portfolio company to a
// 0-100 fit score, a recommendation and risk flags, and aggregates scored
// items into a portfolio summary. Every function is pure and safe for
// concurrent use; inputs are never mutated.
package scoring

import (
	"math"
	"sort"
	"strings"
)

const (
	MinFitScore = 0
	MaxFitScore = 100

	ExecBootcampThreshold   = 70
	LiteracySprintThreshold = 55

	MaxTopCandidates = 3
)

// DimensionBreakdown returns the sub-score of each of the six dimensions.
func DimensionBreakdown(item PortfolioItem) Breakdown {
	return Breakdown{
		AIPosture:       item.AIPosture.Points(),
		DataPosture:     item.DataPosture.Points(),
		ValuePressure:   item.ValuePressure.Points(),
		DecisionCadence: item.DecisionCadence.Points(),
		SponsorStrength: item.SponsorStrength.Points(),
		Willingness60d:  item.Willingness60d.Points(),
	}
}

// CalculateFitScore sums the six dimension scores and clamps to [0, 100].
func CalculateFitScore(item PortfolioItem) int {
	return clamp(DimensionBreakdown(item).Total(), MinFitScore, MaxFitScore)
}

// GetRecommendation applies the rules in order; the first match wins.
// Missing sponsor or disconnected data vetoes the score-based path.
func GetRecommendation(item PortfolioItem, fitScore int) Recommendation {
	if item.SponsorStrength == SponsorStrengthNone || item.DataPosture == DataPostureDisconnected {
		return RecommendationDiagnostic
	}
	if fitScore >= ExecBootcampThreshold &&
		(item.Willingness60d == WillingnessMedium || item.Willingness60d == WillingnessHigh) {
		return RecommendationExecBootcamp
	}
	if fitScore >= LiteracySprintThreshold && fitScore < ExecBootcampThreshold {
		return RecommendationLiteracySprint
	}
	return RecommendationNotNow
}

// GetRiskFlags returns one flag per matching condition in a fixed order.
// The result is never nil.
func GetRiskFlags(item PortfolioItem) []string {
	flags := []string{}

	if item.SponsorStrength == SponsorStrengthNone {
		flags = append(flags, RiskNoExecSponsor)
	}
	if item.DataPosture == DataPostureDisconnected {
		flags = append(flags, RiskDataNotAccessible)
	}
	// value_pressure may hold free text from imports
	if strings.Contains(strings.ToLower(string(item.ValuePressure)), "compliance") {
		flags = append(flags, RiskComplianceSensitivity)
	}

	return flags
}

// ScoreItem scores a single portfolio item.
func ScoreItem(item PortfolioItem) ScoredPortfolioItem {
	fitScore := CalculateFitScore(item)
	return ScoredPortfolioItem{
		PortfolioItem:  item,
		FitScore:       fitScore,
		Recommendation: GetRecommendation(item, fitScore),
		RiskFlags:      GetRiskFlags(item),
	}
}

// ScorePortfolio scores every item, preserving input order. The result is
// never nil.
func ScorePortfolio(items []PortfolioItem) []ScoredPortfolioItem {
	scored := make([]ScoredPortfolioItem, 0, len(items))
	for _, item := range items {
		scored = append(scored, ScoreItem(item))
	}
	return scored
}

// GetPortfolioSummary counts recommendations, averages fit scores and picks
// the top Exec Bootcamp / Literacy Sprint candidates.
func GetPortfolioSummary(scored []ScoredPortfolioItem) PortfolioSummary {
	summary := PortfolioSummary{
		TotalItems:    len(scored),
		TopCandidates: []ScoredPortfolioItem{},
	}
	if len(scored) == 0 {
		return summary
	}

	total := 0
	for _, item := range scored {
		total += item.FitScore
		switch item.Recommendation {
		case RecommendationExecBootcamp:
			summary.ExecBootcampCount++
			summary.TopCandidates = append(summary.TopCandidates, item)
		case RecommendationLiteracySprint:
			summary.LiteracySprintCount++
			summary.TopCandidates = append(summary.TopCandidates, item)
		case RecommendationDiagnostic:
			summary.DiagnosticCount++
		}
	}
	summary.AverageFitScore = int(math.Round(float64(total) / float64(len(scored))))

	sort.SliceStable(summary.TopCandidates, func(i, j int) bool {
		return summary.TopCandidates[i].FitScore > summary.TopCandidates[j].FitScore
	})
	if len(summary.TopCandidates) > MaxTopCandidates {
		summary.TopCandidates = summary.TopCandidates[:MaxTopCandidates]
	}

	return summary
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
