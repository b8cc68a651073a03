// pkg/registry/schema.go
package registry

import (
	"fmt"
	"time"
)

// Status tracks how far a worker is from production.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusVerified   Status = "verified"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusVerified:
		return true
	default:
		return false
	}
}

// ActivityRegistry is the catalogue of job workers the BPMN models may reference.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one task type: the process variables it reads and
// writes, the BPMN error codes it can throw and its job timeout.
type Activity struct {
	ID                   string   `json:"id"`
	DisplayName          string   `json:"displayName"`
	Description          string   `json:"description"`
	Category             string   `json:"category"`
	Version              string   `json:"version"`
	TaskType             string   `json:"taskType"`
	ImplementationStatus Status   `json:"implementationStatus"`
	Inputs               []string `json:"inputs"`
	Outputs              []string `json:"outputs"`
	ErrorCodes           []string `json:"errorCodes"`
	Timeout              string   `json:"timeout"`
	Retries              int      `json:"retries"`
	Workflows            []string `json:"workflows"`
	Tags                 []string `json:"tags"`
}

// TimeoutDuration parses Timeout. An empty timeout is zero.
func (a Activity) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0, fmt.Errorf("activity %s has invalid timeout %q", a.ID, a.Timeout)
	}
	return d, nil
}
