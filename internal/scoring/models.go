// internal/scoring/models.go
package scoring

type AIPosture string

const (
	AIPostureNone      AIPosture = "None"
	AIPostureExploring AIPosture = "Exploring"
	AIPostureActive    AIPosture = "Active"
	AIPostureLeading   AIPosture = "Leading"
)

type DataPosture string

const (
	DataPostureDisconnected DataPosture = "Disconnected"
	DataPostureScattered    DataPosture = "Scattered"
	DataPostureConnected    DataPosture = "Connected"
	DataPostureOptimized    DataPosture = "Optimized"
)

// ValuePressure is also allowed to carry free text from spreadsheet imports,
// which is why the risk detector inspects it as a string.
type ValuePressure string

const (
	ValuePressureLow      ValuePressure = "Low"
	ValuePressureMedium   ValuePressure = "Medium"
	ValuePressureHigh     ValuePressure = "High"
	ValuePressureCritical ValuePressure = "Critical"
)

type DecisionCadence string

const (
	DecisionCadenceSlow     DecisionCadence = "Slow"
	DecisionCadenceModerate DecisionCadence = "Moderate"
	DecisionCadenceFast     DecisionCadence = "Fast"
	DecisionCadenceUrgent   DecisionCadence = "Urgent"
)

type SponsorStrength string

const (
	SponsorStrengthNone     SponsorStrength = "None"
	SponsorStrengthWeak     SponsorStrength = "Weak"
	SponsorStrengthModerate SponsorStrength = "Moderate"
	SponsorStrengthStrong   SponsorStrength = "Strong"
)

type Willingness string

const (
	WillingnessLow    Willingness = "Low"
	WillingnessMedium Willingness = "Medium"
	WillingnessHigh   Willingness = "High"
)

// Recommendation is the next-step label assigned to a portfolio company.
type Recommendation string

const (
	RecommendationExecBootcamp   Recommendation = "Exec Bootcamp"
	RecommendationLiteracySprint Recommendation = "Literacy Sprint"
	RecommendationDiagnostic     Recommendation = "Diagnostic"
	RecommendationNotNow         Recommendation = "Not now"
)

// Risk flag labels, emitted in this order.
const (
	RiskNoExecSponsor         = "No exec sponsor"
	RiskDataNotAccessible     = "Data not accessible"
	RiskComplianceSensitivity = "Compliance sensitivity"
)

// PortfolioItem is the qualitative profile of one portfolio company.
type PortfolioItem struct {
	Name            string          `json:"name"`
	Sector          string          `json:"sector,omitempty"`
	Stage           string          `json:"stage,omitempty"`
	AIPosture       AIPosture       `json:"ai_posture"`
	DataPosture     DataPosture     `json:"data_posture"`
	ValuePressure   ValuePressure   `json:"value_pressure"`
	DecisionCadence DecisionCadence `json:"decision_cadence"`
	SponsorStrength SponsorStrength `json:"sponsor_strength"`
	Willingness60d  Willingness     `json:"willingness_60d"`
}

type ScoredPortfolioItem struct {
	PortfolioItem
	FitScore       int            `json:"fit_score"`
	Recommendation Recommendation `json:"recommendation"`
	RiskFlags      []string       `json:"risk_flags"`
}

type PortfolioSummary struct {
	TotalItems          int                   `json:"totalItems"`
	ExecBootcampCount   int                   `json:"execBootcampCount"`
	LiteracySprintCount int                   `json:"literacySprintCount"`
	DiagnosticCount     int                   `json:"diagnosticCount"`
	AverageFitScore     int                   `json:"averageFitScore"`
	TopCandidates       []ScoredPortfolioItem `json:"topCandidates"`
}

// NotNowCount is derived, "Not now" items are not tracked separately.
func (s PortfolioSummary) NotNowCount() int {
	return s.TotalItems - s.ExecBootcampCount - s.LiteracySprintCount - s.DiagnosticCount
}

// Breakdown holds the per-dimension sub-scores of one item.
type Breakdown struct {
	AIPosture       int `json:"aiPosture"`
	DataPosture     int `json:"dataPosture"`
	ValuePressure   int `json:"valuePressure"`
	DecisionCadence int `json:"decisionCadence"`
	SponsorStrength int `json:"sponsorStrength"`
	Willingness60d  int `json:"willingness60d"`
}

func (b Breakdown) Total() int {
	return b.AIPosture + b.DataPosture + b.ValuePressure + b.DecisionCadence + b.SponsorStrength + b.Willingness60d
}
