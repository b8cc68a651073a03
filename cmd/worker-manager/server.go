// cmd/worker-manager/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	cls "portfolio-scoring-workers/internal/workers/leads/crm-lead-sync"
)

// readinessChecks maps a dependency name to its ping.
type readinessChecks map[string]func(context.Context) error

type crmHealthChecker interface {
	HealthCheck(ctx context.Context) error
}

const readinessTimeout = 3 * time.Second

func newServeMux(checks readinessChecks, crm *cls.Handler, workers []string) *http.ServeMux {
	var crmCheck crmHealthChecker
	if crm != nil {
		crmCheck = crm
	}
	return buildServeMux(checks, crmCheck, workers)
}

func buildServeMux(checks readinessChecks, crm crmHealthChecker, workers []string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"workers": workers,
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		names := make([]string, 0, len(checks))
		for name := range checks {
			names = append(names, name)
		}
		sort.Strings(names)

		status := http.StatusOK
		deps := make(map[string]string, len(checks)+1)
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				deps[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}

		// CRM outages degrade lead sync only; they never take the pod out of rotation.
		if crm != nil {
			if err := crm.HealthCheck(ctx); err != nil {
				deps["crm"] = "degraded: " + err.Error()
			} else {
				deps["crm"] = "ok"
			}
		}

		body := map[string]interface{}{"status": "ready", "dependencies": deps}
		if status != http.StatusOK {
			body["status"] = "not ready"
		}
		writeJSON(w, status, body)
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
