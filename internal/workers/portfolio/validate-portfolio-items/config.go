// internal/workers/portfolio/validate-portfolio-items/config.go
package validateportfolioitems

import (
	"time"

	"portfolio-scoring-workers/internal/common/config"
)

type Config struct {
	MaxItems int
	// AllowFreeTextValuePressure accepts value_pressure strings outside the
	// scoring domain so imported notes such as "compliance" reach the risk detector.
	AllowFreeTextValuePressure bool
	Timeout                    time.Duration
}

func LoadConfig(appConfig *config.Config) *Config {
	cfg := &Config{
		MaxItems:                   500,
		AllowFreeTextValuePressure: true,
		Timeout:                    5 * time.Second,
	}
	if appConfig != nil {
		if appConfig.Scoring.MaxItemsPerJob > 0 {
			cfg.MaxItems = appConfig.Scoring.MaxItemsPerJob
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
