// internal/workers/leads/send-portfolio-summary/models.go
package sendportfoliosummary

import (
	"context"

	"portfolio-scoring-workers/internal/common/aws"
	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/scoring"
)

type Input struct {
	PartnerID        string                   `json:"partnerId"`
	RunID            string                   `json:"runId,omitempty"`
	CompanyName      string                   `json:"companyName"`
	Email            string                   `json:"email"`
	Phone            string                   `json:"phone,omitempty"`
	LeadPriority     string                   `json:"leadPriority"`
	PortfolioSummary scoring.PortfolioSummary `json:"portfolioSummary"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"notificationStatus"`
	Channels       []string `json:"notificationChannels"`
	EmailMessageID string   `json:"emailMessageId,omitempty"`
	SMSMessageID   string   `json:"smsMessageId,omitempty"`
	SentAt         string   `json:"sentAt"` // ISO 8601
}

const (
	StatusSent     = "sent"
	StatusPartial  = "partial"
	StatusDisabled = "disabled"

	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	Send(ctx context.Context, email aws.Email) (string, error)
}

// SMSSender is satisfied by aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type ServiceDependencies struct {
	Email  EmailSender
	SMS    SMSSender
	Logger logger.Logger
}
