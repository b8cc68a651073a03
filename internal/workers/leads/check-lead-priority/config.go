// internal/workers/leads/check-lead-priority/config.go
package checkleadpriority

import (
	"time"

	"portfolio-scoring-workers/internal/common/config"
)

type Config struct {
	HighPriorityMinBootcamps int
	HighPriorityMinAverage   int
	Timeout                  time.Duration
}

func LoadConfig(appConfig *config.Config) *Config {
	cfg := &Config{
		HighPriorityMinBootcamps: 1,
		HighPriorityMinAverage:   60,
		Timeout:                  5 * time.Second,
	}
	if appConfig != nil {
		if appConfig.Scoring.HighPriorityMinBootcamps > 0 {
			cfg.HighPriorityMinBootcamps = appConfig.Scoring.HighPriorityMinBootcamps
		}
		if appConfig.Scoring.HighPriorityMinAverage > 0 {
			cfg.HighPriorityMinAverage = appConfig.Scoring.HighPriorityMinAverage
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
