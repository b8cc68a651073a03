// internal/workers/portfolio/validate-portfolio-items/handler_test.go
package validateportfolioitems

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio-scoring-workers/internal/common/config"
	"portfolio-scoring-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	cfg := LoadConfig(nil)
	cfg.MaxItems = 10
	return cfg
}

func createTestItem(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":             name,
		"sector":           "Healthcare",
		"stage":            "Growth",
		"ai_posture":       "Active",
		"data_posture":     "Connected",
		"value_pressure":   "High",
		"decision_cadence": "Fast",
		"sponsor_strength": "Strong",
		"willingness_60d":  "High",
	}
}

func createTestInput(items ...map[string]interface{}) *Input {
	return &Input{
		PartnerID:      "partner-001",
		PortfolioItems: items,
	}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput(
		createTestItem("Acme Health"),
		createTestItem("Beta Logistics"),
	))

	require.NoError(t, err)
	assert.True(t, output.PortfolioValid)
	assert.Equal(t, 2, output.ItemCount)
	assert.Empty(t, output.ValidationWarnings)
}

func TestHandler_Execute_EmptyPortfolio(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	tests := []struct {
		name  string
		input *Input
	}{
		{"nil items", &Input{PartnerID: "partner-001"}},
		{"empty items", createTestInput()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.True(t, output.PortfolioValid)
			assert.Equal(t, 0, output.ItemCount)
			assert.NotNil(t, output.ValidationWarnings)
		})
	}
}

func TestHandler_Execute_OptionalFieldsOmitted(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	item := createTestItem("Acme Health")
	delete(item, "sector")
	delete(item, "stage")

	output, err := handler.Execute(context.Background(), createTestInput(item))

	require.NoError(t, err)
	assert.True(t, output.PortfolioValid)
}

// ==========================
// Validation Failure Tests
// ==========================

func TestHandler_Execute_InvalidItems(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	tests := []struct {
		name     string
		mutate   func(item map[string]interface{})
		contains string
	}{
		{
			name:     "missing name",
			mutate:   func(item map[string]interface{}) { delete(item, "name") },
			contains: "name",
		},
		{
			name:     "empty name",
			mutate:   func(item map[string]interface{}) { item["name"] = "" },
			contains: "name",
		},
		{
			name:     "missing sponsor strength",
			mutate:   func(item map[string]interface{}) { delete(item, "sponsor_strength") },
			contains: "sponsor_strength",
		},
		{
			name:     "unknown ai posture",
			mutate:   func(item map[string]interface{}) { item["ai_posture"] = "Visionary" },
			contains: "ai_posture",
		},
		{
			name:     "lowercase data posture",
			mutate:   func(item map[string]interface{}) { item["data_posture"] = "connected" },
			contains: "data_posture",
		},
		{
			name:     "numeric willingness",
			mutate:   func(item map[string]interface{}) { item["willingness_60d"] = 3 },
			contains: "willingness_60d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := createTestItem("Acme Health")
			tt.mutate(item)

			output, err := handler.Execute(context.Background(), createTestInput(item))

			require.Error(t, err)
			assert.Nil(t, output)
			assert.True(t, errors.Is(err, ErrPortfolioValidationFailed))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestHandler_Execute_TooManyItems(t *testing.T) {
	cfg := createTestConfig()
	cfg.MaxItems = 2
	handler := NewHandler(cfg, newTestLogger(t))

	_, err := handler.Execute(context.Background(), createTestInput(
		createTestItem("A"), createTestItem("B"), createTestItem("C"),
	))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPortfolioValidationFailed))
}

func TestHandler_Execute_StrictValuePressure(t *testing.T) {
	cfg := createTestConfig()
	cfg.AllowFreeTextValuePressure = false
	handler := NewHandler(cfg, newTestLogger(t))

	item := createTestItem("Acme Health")
	item["value_pressure"] = "Compliance-driven"

	_, err := handler.Execute(context.Background(), createTestInput(item))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "value_pressure")
}

// ==========================
// Warning Tests
// ==========================

func TestHandler_Execute_FreeTextValuePressureWarns(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	item := createTestItem("Acme Health")
	item["value_pressure"] = "Compliance-driven"

	output, err := handler.Execute(context.Background(), createTestInput(item))

	require.NoError(t, err)
	assert.True(t, output.PortfolioValid)
	require.Len(t, output.ValidationWarnings, 1)
	assert.Contains(t, output.ValidationWarnings[0], "items[0]")
	assert.Contains(t, output.ValidationWarnings[0], "Compliance-driven")
}

func TestHandler_Execute_DuplicateNamesWarn(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput(
		createTestItem("Acme Health"),
		createTestItem("Beta Logistics"),
		createTestItem("Acme Health"),
	))

	require.NoError(t, err)
	assert.Equal(t, 3, output.ItemCount)
	assert.Equal(t, []string{`items[2]: duplicate name "Acme Health" (first at items[0])`}, output.ValidationWarnings)
}

// ==========================
// Schema Tests
// ==========================

func TestBuildSchema(t *testing.T) {
	schema := BuildSchema(&Config{MaxItems: 25})

	assert.Equal(t, "array", schema["type"])
	assert.Equal(t, 25, schema["maxItems"])

	items := schema["items"].(map[string]interface{})
	required := items["required"].([]string)
	assert.ElementsMatch(t, []string{
		"name", "ai_posture", "data_posture", "value_pressure",
		"decision_cadence", "sponsor_strength", "willingness_60d",
	}, required)

	props := items["properties"].(map[string]interface{})
	aiPosture := props["ai_posture"].(map[string]interface{})
	assert.Equal(t, []string{"None", "Exploring", "Active", "Leading"}, aiPosture["enum"])
}

func TestBuildSchema_NoLimit(t *testing.T) {
	schema := BuildSchema(&Config{})
	_, ok := schema["maxItems"]
	assert.False(t, ok)
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(nil)
	assert.Equal(t, 500, cfg.MaxItems)
	assert.True(t, cfg.AllowFreeTextValuePressure)

	appConfig := &config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: true, Timeout: 8000},
	}}
	appConfig.Scoring.MaxItemsPerJob = 50

	cfg = LoadConfig(appConfig)
	assert.Equal(t, 50, cfg.MaxItems)
	assert.Equal(t, 8*time.Second, cfg.Timeout)
}
