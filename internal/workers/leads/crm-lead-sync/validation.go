// internal/workers/leads/crm-lead-sync/validation.go
package crmleadsync

import "portfolio-scoring-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"partnerId", "companyName", "email", "leadPriority", "portfolioSummary"},
		Properties: map[string]validation.Property{
			"partnerId": {
				Type:        "string",
				Description: "Partner identifier",
				MinLength:   validation.IntPtr(1),
			},
			"companyName": {
				Type:        "string",
				Description: "Partner firm name, written to the lead Company field",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(200),
			},
			"contactName": {
				Type:        "string",
				Description: "Primary contact, written to Last_Name",
				MaxLength:   validation.IntPtr(80),
			},
			"email": {
				Type:        "string",
				Description: "Contact email, used to find an existing lead",
				MinLength:   validation.IntPtr(5),
				MaxLength:   validation.IntPtr(255),
			},
			"phone": {
				Type:        "string",
				Description: "Contact phone",
				MaxLength:   validation.IntPtr(50),
			},
			"leadPriority": {
				Type:        "string",
				Description: "Output of check-lead-priority",
				Enum:        []string{"high", "medium", "low"},
			},
			"portfolioSummary": {
				Type:        "object",
				Description: "Output of score-portfolio",
				Required:    []string{"totalItems", "averageFitScore"},
			},
		},
		AdditionalProperties: true,
	}
}
