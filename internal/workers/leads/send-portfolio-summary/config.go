// internal/workers/leads/send-portfolio-summary/config.go
package sendportfoliosummary

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled              bool          `mapstructure:"enabled"`
	MaxJobsActive        int           `mapstructure:"max_jobs_active"`
	Timeout              time.Duration `mapstructure:"timeout"`
	EmailEnabled         bool          `mapstructure:"email_enabled"`
	SMSEnabled           bool          `mapstructure:"sms_enabled"`
	SMSPriorityThreshold string        `mapstructure:"sms_priority_threshold"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:              true,
		MaxJobsActive:        5,
		Timeout:              30 * time.Second,
		EmailEnabled:         true,
		SMSEnabled:           false,
		SMSPriorityThreshold: "high",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if _, ok := priorityRank[c.SMSPriorityThreshold]; !ok {
		return fmt.Errorf("sms_priority_threshold must be one of high, medium, low")
	}
	return nil
}
