// internal/workers/leads/send-portfolio-summary/validation.go
package sendportfoliosummary

import "portfolio-scoring-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"partnerId", "companyName", "email", "leadPriority", "portfolioSummary"},
		Properties: map[string]validation.Property{
			"partnerId": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
			},
			"runId": {
				Type: "string",
			},
			"companyName": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
				MaxLength: validation.IntPtr(200),
			},
			"email": {
				Type:        "string",
				Description: "Summary recipient",
				MinLength:   validation.IntPtr(5),
				MaxLength:   validation.IntPtr(255),
			},
			"phone": {
				Type:        "string",
				Description: "E.164 number for the high-priority SMS",
				MaxLength:   validation.IntPtr(16),
			},
			"leadPriority": {
				Type: "string",
				Enum: []string{"high", "medium", "low"},
			},
			"portfolioSummary": {
				Type:     "object",
				Required: []string{"totalItems", "averageFitScore"},
			},
		},
		AdditionalProperties: true,
	}
}
