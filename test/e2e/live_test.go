//go:build e2e

// test/e2e/live_test.go
package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-scoring-workers/internal/common/config"
	"portfolio-scoring-workers/internal/common/database"
	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/scoring"

	ipc "portfolio-scoring-workers/internal/workers/portfolio/index-portfolio-candidates"
	pps "portfolio-scoring-workers/internal/workers/portfolio/persist-portfolio-score"
)

// TestLiveStorage runs the storage workers against the Postgres, Redis and
// Elasticsearch named in configs/config.yaml.
func TestLiveStorage(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)
	log := logger.NewTestLogger(t)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	require.NoError(t, pg.Ping(ctx), "postgres unreachable")
	require.NoError(t, pg.EnsureSchema(ctx))

	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx), "redis unreachable")

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)
	require.NoError(t, es.Ping(ctx), "elasticsearch unreachable")
	index := cfg.Scoring.CandidateIndex + "-e2e"
	require.NoError(t, es.EnsureIndex(ctx, index, database.CandidateIndexMapping))

	scored := scoring.ScorePortfolio([]scoring.PortfolioItem{
		{
			Name: "Acme Health", AIPosture: scoring.AIPostureLeading, DataPosture: scoring.DataPostureOptimized,
			ValuePressure: scoring.ValuePressureCritical, DecisionCadence: scoring.DecisionCadenceUrgent,
			SponsorStrength: scoring.SponsorStrengthStrong, Willingness60d: scoring.WillingnessHigh,
		},
		{
			Name: "Beta Logistics", AIPosture: scoring.AIPostureNone, DataPosture: scoring.DataPostureDisconnected,
			ValuePressure: scoring.ValuePressureLow, DecisionCadence: scoring.DecisionCadenceSlow,
			SponsorStrength: scoring.SponsorStrengthNone, Willingness60d: scoring.WillingnessLow,
		},
	})
	summary := scoring.GetPortfolioSummary(scored)
	partnerID := "e2e-" + time.Now().UTC().Format("20060102150405")

	persistOut, err := pps.NewHandler(&pps.Config{
		SummaryCacheTTL: time.Minute,
		CacheKeyPrefix:  "portfolio:summary:",
		Timeout:         30 * time.Second,
	}, pg.DB, rdb.Client, log).Execute(ctx, &pps.Input{
		PartnerID:        partnerID,
		ScoredItems:      scored,
		PortfolioSummary: summary,
	})
	require.NoError(t, err)
	assert.True(t, persistOut.SummaryCached)

	var rows int
	require.NoError(t, pg.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM portfolio_scores WHERE run_id = $1`, persistOut.RunID).Scan(&rows))
	assert.Equal(t, 2, rows)

	ttl, err := rdb.Client.TTL(ctx, "portfolio:summary:"+partnerID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	var cached pps.CachedSummary
	found, err := database.GetJSON(ctx, rdb.Client, "portfolio:summary:"+partnerID, &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, persistOut.RunID, cached.RunID)
	assert.Equal(t, summary.AverageFitScore, cached.Summary.AverageFitScore)

	indexOut, err := ipc.NewHandler(&ipc.Config{
		Index:   index,
		Refresh: true,
		Timeout: 30 * time.Second,
	}, es.Client, log).Execute(ctx, &ipc.Input{
		PartnerID:        partnerID,
		RunID:            persistOut.RunID,
		PortfolioSummary: summary,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, indexOut.IndexedCount)

	res, err := es.Client.Get(index, indexOut.DocumentIDs[0], es.Client.Get.WithContext(ctx))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.False(t, res.IsError(), res.String())
}
