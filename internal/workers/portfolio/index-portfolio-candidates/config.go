// internal/workers/portfolio/index-portfolio-candidates/config.go
package indexportfoliocandidates

import (
	"time"

	"portfolio-scoring-workers/internal/common/config"
)

type Config struct {
	Index   string
	Refresh bool
	Timeout time.Duration
}

func LoadConfig(appConfig *config.Config) *Config {
	cfg := &Config{
		Index:   "portfolio-candidates",
		Refresh: false,
		Timeout: 10 * time.Second,
	}
	if appConfig != nil {
		if appConfig.Scoring.CandidateIndex != "" {
			cfg.Index = appConfig.Scoring.CandidateIndex
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
