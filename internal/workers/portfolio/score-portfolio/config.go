// internal/workers/portfolio/score-portfolio/config.go
package scoreportfolio

import (
	"time"

	"portfolio-scoring-workers/internal/common/config"
)

type Config struct {
	IncludeBreakdown bool
	Timeout          time.Duration
}

// LoadConfig returns the worker defaults with overrides from appConfig, which may be nil.
func LoadConfig(appConfig *config.Config) *Config {
	cfg := &Config{
		IncludeBreakdown: false,
		Timeout:          5 * time.Second,
	}
	if appConfig != nil {
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
