// cmd/worker-manager/server_test.go
package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCRM struct{ err error }

func (s stubCRM) HealthCheck(context.Context) error { return s.err }

func ok(context.Context) error { return nil }

func get(t *testing.T, mux *http.ServeMux, path string) (int, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestHealth(t *testing.T) {
	mux := buildServeMux(readinessChecks{}, nil, []string{"score-portfolio"})

	code, body := get(t, mux, "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, []interface{}{"score-portfolio"}, body["workers"])
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		checks     readinessChecks
		crm        crmHealthChecker
		wantCode   int
		wantStatus string
		wantDeps   map[string]interface{}
	}{
		{
			name:       "all dependencies up",
			checks:     readinessChecks{"postgres": ok, "redis": ok},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
			wantDeps:   map[string]interface{}{"postgres": "ok", "redis": "ok"},
		},
		{
			name: "postgres down",
			checks: readinessChecks{
				"postgres": func(context.Context) error { return stderrors.New("connection refused") },
				"redis":    ok,
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "not ready",
			wantDeps:   map[string]interface{}{"postgres": "connection refused", "redis": "ok"},
		},
		{
			name:       "crm down stays ready",
			checks:     readinessChecks{"redis": ok},
			crm:        stubCRM{err: stderrors.New("zoho CRM authentication failed")},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
			wantDeps:   map[string]interface{}{"redis": "ok", "crm": "degraded: zoho CRM authentication failed"},
		},
		{
			name:       "crm up",
			checks:     readinessChecks{},
			crm:        stubCRM{},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
			wantDeps:   map[string]interface{}{"crm": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := get(t, buildServeMux(tt.checks, tt.crm, nil), "/ready")

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, body["status"])
			assert.Equal(t, tt.wantDeps, body["dependencies"])
		})
	}
}

func TestNewServeMux_NilCRMHandler(t *testing.T) {
	code, body := get(t, newServeMux(readinessChecks{"redis": ok}, nil, nil), "/ready")

	assert.Equal(t, http.StatusOK, code)
	assert.NotContains(t, body["dependencies"], "crm")
}

func TestMetricsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	buildServeMux(readinessChecks{}, nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
