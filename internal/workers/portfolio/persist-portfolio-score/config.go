// internal/workers/portfolio/persist-portfolio-score/config.go
package persistportfolioscore

import (
	"time"

	"portfolio-scoring-workers/internal/common/config"
)

type Config struct {
	SummaryCacheTTL time.Duration
	CacheKeyPrefix  string
	Timeout         time.Duration
}

func LoadConfig(appConfig *config.Config) *Config {
	cfg := &Config{
		SummaryCacheTTL: 24 * time.Hour,
		CacheKeyPrefix:  "portfolio:summary:",
		Timeout:         30 * time.Second,
	}
	if appConfig != nil {
		if appConfig.Scoring.SummaryCacheTTL > 0 {
			cfg.SummaryCacheTTL = time.Duration(appConfig.Scoring.SummaryCacheTTL) * time.Second
		}
		cfg.Timeout = workerTimeout(appConfig, cfg.Timeout)
	}
	return cfg
}

func workerTimeout(appConfig *config.Config, fallback time.Duration) time.Duration {
	if wc, ok := appConfig.Workers[TaskType]; ok && wc.Timeout > 0 {
		return config.GetDuration(wc.Timeout)
	}
	return fallback
}
