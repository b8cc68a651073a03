// internal/scoring/dimensions.go
package scoring

// Maximum points per dimension. They sum to MaxFitScore.
const (
	MaxAIPosturePoints       = 20
	MaxDataPosturePoints     = 20
	MaxValuePressurePoints   = 20
	MaxDecisionCadencePoints = 15
	MaxSponsorStrengthPoints = 15
	MaxWillingnessPoints     = 10
)

// Each scorer falls through to 0 for values outside its domain.

func (p AIPosture) Points() int {
	switch p {
	case AIPostureNone:
		return 0
	case AIPostureExploring:
		return 8
	case AIPostureActive:
		return 15
	case AIPostureLeading:
		return 20
	default:
		return 0
	}
}

func (p DataPosture) Points() int {
	switch p {
	case DataPostureDisconnected:
		return 0
	case DataPostureScattered:
		return 8
	case DataPostureConnected:
		return 15
	case DataPostureOptimized:
		return 20
	default:
		return 0
	}
}

func (v ValuePressure) Points() int {
	switch v {
	case ValuePressureLow:
		return 5
	case ValuePressureMedium:
		return 12
	case ValuePressureHigh:
		return 18
	case ValuePressureCritical:
		return 20
	default:
		return 0
	}
}

func (c DecisionCadence) Points() int {
	switch c {
	case DecisionCadenceSlow:
		return 3
	case DecisionCadenceModerate:
		return 8
	case DecisionCadenceFast:
		return 12
	case DecisionCadenceUrgent:
		return 15
	default:
		return 0
	}
}

func (s SponsorStrength) Points() int {
	switch s {
	case SponsorStrengthNone:
		return 0
	case SponsorStrengthWeak:
		return 5
	case SponsorStrengthModerate:
		return 10
	case SponsorStrengthStrong:
		return 15
	default:
		return 0
	}
}

func (w Willingness) Points() int {
	switch w {
	case WillingnessLow:
		return 0
	case WillingnessMedium:
		return 6
	case WillingnessHigh:
		return 10
	default:
		return 0
	}
}

// Valid reports membership in the declared domain. Scoring never calls these;
// they exist for boundary validation.

func (p AIPosture) Valid() bool {
	switch p {
	case AIPostureNone, AIPostureExploring, AIPostureActive, AIPostureLeading:
		return true
	}
	return false
}

func (p DataPosture) Valid() bool {
	switch p {
	case DataPostureDisconnected, DataPostureScattered, DataPostureConnected, DataPostureOptimized:
		return true
	}
	return false
}

func (v ValuePressure) Valid() bool {
	switch v {
	case ValuePressureLow, ValuePressureMedium, ValuePressureHigh, ValuePressureCritical:
		return true
	}
	return false
}

func (c DecisionCadence) Valid() bool {
	switch c {
	case DecisionCadenceSlow, DecisionCadenceModerate, DecisionCadenceFast, DecisionCadenceUrgent:
		return true
	}
	return false
}

func (s SponsorStrength) Valid() bool {
	switch s {
	case SponsorStrengthNone, SponsorStrengthWeak, SponsorStrengthModerate, SponsorStrengthStrong:
		return true
	}
	return false
}

func (w Willingness) Valid() bool {
	switch w {
	case WillingnessLow, WillingnessMedium, WillingnessHigh:
		return true
	}
	return false
}

// Domains lists the accepted values per JSON field, in declaration order.
// Validation schemas are built from it so they cannot drift from the scorers.
func Domains() map[string][]string {
	return map[string][]string{
		"ai_posture":       {string(AIPostureNone), string(AIPostureExploring), string(AIPostureActive), string(AIPostureLeading)},
		"data_posture":     {string(DataPostureDisconnected), string(DataPostureScattered), string(DataPostureConnected), string(DataPostureOptimized)},
		"value_pressure":   {string(ValuePressureLow), string(ValuePressureMedium), string(ValuePressureHigh), string(ValuePressureCritical)},
		"decision_cadence": {string(DecisionCadenceSlow), string(DecisionCadenceModerate), string(DecisionCadenceFast), string(DecisionCadenceUrgent)},
		"sponsor_strength": {string(SponsorStrengthNone), string(SponsorStrengthWeak), string(SponsorStrengthModerate), string(SponsorStrengthStrong)},
		"willingness_60d":  {string(WillingnessLow), string(WillingnessMedium), string(WillingnessHigh)},
	}
}
