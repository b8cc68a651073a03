// internal/workers/portfolio/validate-portfolio-items/schema.go
package validateportfolioitems

import (
	"portfolio-scoring-workers/internal/scoring"
)

var categoricalFields = []string{
	"ai_posture",
	"data_posture",
	"value_pressure",
	"decision_cadence",
	"sponsor_strength",
	"willingness_60d",
}

// BuildSchema returns the JSON schema for the portfolioItems array. Enum
// values come from the scoring package.
func BuildSchema(cfg *Config) map[string]interface{} {
	domains := scoring.Domains()

	properties := map[string]interface{}{
		"name":   map[string]interface{}{"type": "string", "minLength": 1},
		"sector": map[string]interface{}{"type": "string"},
		"stage":  map[string]interface{}{"type": "string"},
	}
	for _, field := range categoricalFields {
		if field == "value_pressure" && cfg.AllowFreeTextValuePressure {
			properties[field] = map[string]interface{}{"type": "string", "minLength": 1}
			continue
		}
		properties[field] = map[string]interface{}{"type": "string", "enum": domains[field]}
	}

	required := append([]string{"name"}, categoricalFields...)

	schema := map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "array",
		"items": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
	if cfg.MaxItems > 0 {
		schema["maxItems"] = cfg.MaxItems
	}
	return schema
}
