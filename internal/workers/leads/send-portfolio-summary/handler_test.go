// internal/workers/leads/send-portfolio-summary/handler_test.go
package sendportfoliosummary

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"portfolio-scoring-workers/internal/common/aws"
	"portfolio-scoring-workers/internal/common/config"
	"portfolio-scoring-workers/internal/common/errors"
	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeEmail struct {
	sent []aws.Email
	err  error
}

func (f *fakeEmail) Send(_ context.Context, email aws.Email) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, email)
	return "ses-msg-1", nil
}

type fakeSMS struct {
	phones   []string
	messages []string
	err      error
}

func (f *fakeSMS) SendSMS(_ context.Context, phone, message string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.phones = append(f.phones, phone)
	f.messages = append(f.messages, message)
	return "sns-msg-1", nil
}

func createTestConfig() *Config {
	cfg := DefaultConfig()
	cfg.SMSEnabled = true
	return cfg
}

func createTestInput() *Input {
	return &Input{
		PartnerID:    "partner-001",
		RunID:        "run-123",
		CompanyName:  "Northwind Capital",
		Email:        "ops@northwind.example",
		Phone:        "+14155550123",
		LeadPriority: "high",
		PortfolioSummary: scoring.PortfolioSummary{
			TotalItems:          4,
			ExecBootcampCount:   1,
			LiteracySprintCount: 1,
			DiagnosticCount:     1,
			AverageFitScore:     64,
			TopCandidates: []scoring.ScoredPortfolioItem{
				{PortfolioItem: scoring.PortfolioItem{Name: "Acme & Sons"}, FitScore: 85, Recommendation: scoring.RecommendationExecBootcamp},
				{PortfolioItem: scoring.PortfolioItem{Name: "Beta Logistics"}, FitScore: 59, Recommendation: scoring.RecommendationLiteracySprint},
			},
		},
	}
}

func newTestHandler(t *testing.T, cfg *Config, email EmailSender, sms SMSSender) *Handler {
	h, err := NewHandler(HandlerOptions{
		CustomConfig: cfg,
		Email:        email,
		SMS:          sms,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_HighPrioritySendsEmailAndSMS(t *testing.T) {
	email := &fakeEmail{}
	sms := &fakeSMS{}
	handler := newTestHandler(t, createTestConfig(), email, sms)

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, []string{ChannelEmail, ChannelSMS}, output.Channels)
	assert.Equal(t, "ses-msg-1", output.EmailMessageID)
	assert.Equal(t, "sns-msg-1", output.SMSMessageID)
	assert.NotEmpty(t, output.NotificationID)

	require.Len(t, email.sent, 1)
	msg := email.sent[0]
	assert.Equal(t, []string{"ops@northwind.example"}, msg.To)
	assert.Equal(t, "Portfolio readiness summary for Northwind Capital", msg.Subject)
	assert.Contains(t, msg.TextBody, "We scored 4 portfolio companies. Average fit score: 64.")
	assert.Contains(t, msg.TextBody, "Not now: 1")
	assert.Contains(t, msg.TextBody, "1. Acme & Sons: 85 (Exec Bootcamp)")
	assert.Contains(t, msg.TextBody, "Reference: run-123")
	assert.NotContains(t, msg.TextBody, "{{")
	assert.Contains(t, msg.HTMLBody, "<li>Acme &amp; Sons: 85 (Exec Bootcamp)</li>")

	require.Len(t, sms.messages, 1)
	assert.Equal(t, "+14155550123", sms.phones[0])
	assert.Equal(t, "Northwind Capital: 1 Exec Bootcamp candidate(s), avg fit 64. Summary sent to ops@northwind.example.", sms.messages[0])
}

func TestHandler_Execute_SMSThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold string
		priority  string
		expectSMS bool
	}{
		{"high meets high", "high", "high", true},
		{"medium below high", "high", "medium", false},
		{"low below high", "high", "low", false},
		{"medium meets medium", "medium", "medium", true},
		{"high above medium", "medium", "high", true},
		{"low meets low", "low", "low", true},
		{"unknown priority", "low", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			cfg.SMSPriorityThreshold = tt.threshold
			sms := &fakeSMS{}
			handler := newTestHandler(t, cfg, &fakeEmail{}, sms)

			input := createTestInput()
			input.LeadPriority = tt.priority
			_, err := handler.Execute(context.Background(), input)

			require.NoError(t, err)
			assert.Equal(t, tt.expectSMS, len(sms.messages) == 1)
		})
	}
}

func TestHandler_Execute_SkipsSMS(t *testing.T) {
	tests := []struct {
		name   string
		cfg    func(cfg *Config)
		mutate func(input *Input)
	}{
		{"sms disabled", func(cfg *Config) { cfg.SMSEnabled = false }, nil},
		{"no phone", nil, func(input *Input) { input.Phone = "" }},
		{"non e164 phone", nil, func(input *Input) { input.Phone = "415-555-0123" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			if tt.cfg != nil {
				tt.cfg(cfg)
			}
			input := createTestInput()
			if tt.mutate != nil {
				tt.mutate(input)
			}
			sms := &fakeSMS{}
			handler := newTestHandler(t, cfg, &fakeEmail{}, sms)

			output, err := handler.Execute(context.Background(), input)

			require.NoError(t, err)
			assert.Equal(t, StatusSent, output.Status)
			assert.Equal(t, []string{ChannelEmail}, output.Channels)
			assert.Empty(t, sms.messages)
		})
	}
}

func TestHandler_Execute_AllChannelsDisabled(t *testing.T) {
	cfg := createTestConfig()
	cfg.EmailEnabled = false
	cfg.SMSEnabled = false
	handler := newTestHandler(t, cfg, &fakeEmail{}, &fakeSMS{})

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.NotNil(t, output.Channels)
	assert.Empty(t, output.Channels)
}

func TestHandler_Execute_EmptyPortfolio(t *testing.T) {
	email := &fakeEmail{}
	handler := newTestHandler(t, createTestConfig(), email, &fakeSMS{})

	input := createTestInput()
	input.LeadPriority = "low"
	input.RunID = ""
	input.PortfolioSummary = scoring.GetPortfolioSummary(nil)

	_, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, email.sent, 1)
	assert.Contains(t, email.sent[0].TextBody, "We scored 0 portfolio companies")
	assert.NotContains(t, email.sent[0].TextBody, "Top candidates")
	assert.NotContains(t, email.sent[0].HTMLBody, "<ol>")
}

// ==========================
// Failure Tests
// ==========================

func TestHandler_Execute_EmailFailure(t *testing.T) {
	sms := &fakeSMS{}
	handler := newTestHandler(t, createTestConfig(), &fakeEmail{err: stderrors.New("throttled")}, sms)

	output, err := handler.Execute(context.Background(), createTestInput())

	require.Error(t, err)
	assert.Nil(t, output)
	stdErr := errors.AsStandardError(err)
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Empty(t, sms.messages)
}

func TestHandler_Execute_SMSFailureIsPartial(t *testing.T) {
	handler := newTestHandler(t, createTestConfig(), &fakeEmail{}, &fakeSMS{err: stderrors.New("opted out")})

	output, err := handler.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusPartial, output.Status)
	assert.Equal(t, []string{ChannelEmail}, output.Channels)
	assert.Empty(t, output.SMSMessageID)
}

func TestHandler_Execute_InvalidEmail(t *testing.T) {
	handler := newTestHandler(t, createTestConfig(), &fakeEmail{}, &fakeSMS{})

	input := createTestInput()
	input.Email = "ops@northwind"
	_, err := handler.Execute(context.Background(), input)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePortfolioValidationFailed, errors.AsStandardError(err).Code)
}

// ==========================
// Template & Config Tests
// ==========================

func TestRenderTemplate(t *testing.T) {
	out := renderTemplate("Hi {{name}}, score {{score}}{{missing}}.", map[string]interface{}{
		"name":  "Acme",
		"score": 72,
	})
	assert.Equal(t, "Hi Acme, score 72.", out)
}

func TestRenderTemplate_ValuesAreNotRescanned(t *testing.T) {
	data := map[string]interface{}{
		"companyName": "Acme {{email}}",
		"email":       "ops@acme.example",
	}
	for i := 0; i < 50; i++ {
		assert.Equal(t, "Portfolio readiness summary for Acme {{email}}", renderTemplate(subjectTemplate, data))
	}

	out := renderTemplate("Hello {{companyName}} team, {{unknown}}done{{", map[string]interface{}{
		"companyName": "Partners {{2024}} Fund",
	})
	assert.Equal(t, "Hello Partners {{2024}} Fund team, done{{", out)
}

func TestHandler_Execute_CompanyNameWithBraces(t *testing.T) {
	email := &fakeEmail{}
	handler := newTestHandler(t, createTestConfig(), email, &fakeSMS{})

	input := createTestInput()
	input.CompanyName = "Partners {{2024}} Fund"
	_, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, email.sent, 1)
	assert.Equal(t, "Portfolio readiness summary for Partners {{2024}} Fund", email.sent[0].Subject)
	assert.Contains(t, email.sent[0].TextBody, "Hello Partners {{2024}} Fund team,")
	assert.Contains(t, email.sent[0].HTMLBody, "Hello Partners {{2024}} Fund team,")
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appConfig := &config.Config{Workers: map[string]config.WorkerConfig{}}
	appConfig.Notifications.Email.Enabled = true
	appConfig.Notifications.SMS.Enabled = true
	appConfig.Notifications.SMS.PriorityThreshold = "medium"
	appConfig.Integrations.AWS.SES.Enabled = true
	appConfig.Integrations.AWS.SNS.Enabled = false

	cfg := createConfigFromAppConfig(appConfig, nil)

	assert.True(t, cfg.EmailEnabled)
	assert.False(t, cfg.SMSEnabled)
	assert.Equal(t, "medium", cfg.SMSPriorityThreshold)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.SMSPriorityThreshold = "urgent"
	assert.Error(t, cfg.Validate())
}
