// internal/workers/leads/send-portfolio-summary/service.go
package sendportfoliosummary

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"portfolio-scoring-workers/internal/common/aws"
	"portfolio-scoring-workers/internal/common/errors"
	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/common/validation"

	"github.com/google/uuid"
)

var priorityRank = map[string]int{
	"low":    1,
	"medium": 2,
	"high":   3,
}

const (
	subjectTemplate = "Portfolio readiness summary for {{companyName}}"

	bodyTemplate = `Hello {{companyName}} team,

We scored {{totalItems}} portfolio companies. Average fit score: {{averageFitScore}}.

Exec Bootcamp: {{execBootcampCount}}
Literacy Sprint: {{literacySprintCount}}
Diagnostic: {{diagnosticCount}}
Not now: {{notNowCount}}

{{candidates}}
Reference: {{runId}}`

	smsTemplate = "{{companyName}}: {{execBootcampCount}} Exec Bootcamp candidate(s), avg fit {{averageFitScore}}. Summary sent to {{email}}."
)

type Service struct {
	config *Config
	logger logger.Logger
	email  EmailSender
	sms    SMSSender
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		email:  deps.Email,
		sms:    deps.SMS,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Executing portfolio summary notification", map[string]interface{}{
		"partnerId": input.PartnerID,
		"priority":  input.LeadPriority,
	})

	to := strings.TrimSpace(input.Email)
	if !validation.ValidateEmail(to) {
		return nil, errors.NewPortfolioValidationFailedError(fmt.Sprintf("invalid email address %q", input.Email))
	}

	data := templateData(input)
	output := &Output{
		NotificationID: uuid.New().String(),
		Channels:       []string{},
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	if s.config.EmailEnabled && s.email != nil {
		messageID, err := s.email.Send(ctx, aws.Email{
			To:       []string{to},
			Subject:  renderTemplate(subjectTemplate, data),
			TextBody: renderTemplate(bodyTemplate, data),
			HTMLBody: renderHTML(input, data),
		})
		if err != nil {
			return nil, errors.NewNotificationSendFailedError(ChannelEmail, err)
		}
		output.EmailMessageID = messageID
		output.Channels = append(output.Channels, ChannelEmail)
	}

	// SMS failure only downgrades the status; a job retry would resend the email
	smsFailed := false
	if s.shouldSendSMS(input) {
		messageID, err := s.sms.SendSMS(ctx, input.Phone, renderTemplate(smsTemplate, data))
		if err != nil {
			smsFailed = true
			s.logger.Warn("SMS send failed", map[string]interface{}{
				"error":     errors.NewNotificationSendFailedError(ChannelSMS, err),
				"partnerId": input.PartnerID,
			})
		} else {
			output.SMSMessageID = messageID
			output.Channels = append(output.Channels, ChannelSMS)
		}
	}

	switch {
	case len(output.Channels) == 0 && !smsFailed:
		output.Status = StatusDisabled
	case smsFailed:
		output.Status = StatusPartial
	default:
		output.Status = StatusSent
	}

	s.logger.Info("Portfolio summary notification processed", map[string]interface{}{
		"notificationId": output.NotificationID,
		"status":         output.Status,
		"channels":       output.Channels,
	})

	return output, nil
}

func (s *Service) shouldSendSMS(input *Input) bool {
	if !s.config.SMSEnabled || s.sms == nil || input.Phone == "" {
		return false
	}
	if !validation.ValidatePhone(input.Phone) {
		s.logger.Warn("Skipping SMS for non E.164 phone number", map[string]interface{}{
			"partnerId": input.PartnerID,
		})
		return false
	}
	return priorityRank[input.LeadPriority] >= priorityRank[s.config.SMSPriorityThreshold]
}

func templateData(input *Input) map[string]interface{} {
	s := input.PortfolioSummary

	var candidates strings.Builder
	if len(s.TopCandidates) > 0 {
		candidates.WriteString("Top candidates:\n")
		for i, c := range s.TopCandidates {
			fmt.Fprintf(&candidates, "  %d. %s: %d (%s)\n", i+1, c.Name, c.FitScore, c.Recommendation)
		}
	}

	return map[string]interface{}{
		"companyName":         input.CompanyName,
		"email":               strings.TrimSpace(input.Email),
		"runId":               input.RunID,
		"totalItems":          s.TotalItems,
		"averageFitScore":     s.AverageFitScore,
		"execBootcampCount":   s.ExecBootcampCount,
		"literacySprintCount": s.LiteracySprintCount,
		"diagnosticCount":     s.DiagnosticCount,
		"notNowCount":         s.NotNowCount(),
		"candidates":          candidates.String(),
	}
}

func renderHTML(input *Input, data map[string]interface{}) string {
	escaped := make(map[string]interface{}, len(data))
	for k, v := range data {
		escaped[k] = html.EscapeString(fmt.Sprintf("%v", v))
	}
	escaped["candidates"] = ""

	body := renderTemplate(bodyTemplate, escaped)

	var b strings.Builder
	b.WriteString("<html><body><p>")
	b.WriteString(strings.ReplaceAll(strings.TrimSpace(body), "\n", "<br>"))
	b.WriteString("</p>")
	if len(input.PortfolioSummary.TopCandidates) > 0 {
		b.WriteString("<h3>Top candidates</h3><ol>")
		for _, c := range input.PortfolioSummary.TopCandidates {
			fmt.Fprintf(&b, "<li>%s: %d (%s)</li>", html.EscapeString(c.Name), c.FitScore, html.EscapeString(string(c.Recommendation)))
		}
		b.WriteString("</ol>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

// renderTemplate replaces {{key}} placeholders and drops unknown ones.
// Substituted values are copied as-is and never scanned for placeholders.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	var b strings.Builder
	b.Grow(len(tmpl))

	rest := tmpl
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(rest[start+2:], "}}")
		if end == -1 {
			break
		}
		b.WriteString(rest[:start])
		if v, ok := data[rest[start+2:start+2+end]]; ok && v != nil {
			fmt.Fprintf(&b, "%v", v)
		}
		rest = rest[start+2+end+2:]
	}
	b.WriteString(rest)
	return b.String()
}
