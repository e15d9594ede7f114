package domain

import "time"

// ConcernSeverity grades a flagged concern.
type ConcernSeverity string

const (
	SeverityInfo     ConcernSeverity = "info"
	SeverityWarning  ConcernSeverity = "warning"
	SeverityCritical ConcernSeverity = "critical"
)

// ProposalType tags the variant carried by an ActionableRecommendation.
type ProposalType string

const (
	ProposalNutritionAdjust ProposalType = "nutrition_adjust"
	ProposalSupplementAdd   ProposalType = "supplement_add"
)

// AnalysisResult is the validated output of one model analysis run.
// The raw model response is never exposed downstream; everything here has
// passed schema validation, with untrusted entries flagged rather than dropped.
type AnalysisResult struct {
	ID      string `json:"id"` // UUID, assigned by the generator
	Summary string `json:"summary"`

	ComplianceAnalysis ComplianceAnalysis `json:"complianceAnalysis"`
	ProgressAnalysis   string             `json:"progressAnalysis,omitempty"`

	FlaggedConcerns           []FlaggedConcern           `json:"flaggedConcerns,omitempty"`
	Recommendations           []Recommendation           `json:"recommendations,omitempty"`
	ActionableRecommendations []ActionableRecommendation `json:"actionableRecommendations,omitempty"`

	// Provenance metadata, preserved even when recommendation entries fail
	// validation.
	Model         string    `json:"model"`
	TokensUsed    int       `json:"tokensUsed"`
	RetrievalUsed bool      `json:"retrievalUsed"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

// ComplianceAnalysis holds the per-area narrative breakdown.
type ComplianceAnalysis struct {
	Training  string `json:"training,omitempty"`
	Nutrition string `json:"nutrition,omitempty"`
	CheckIns  string `json:"checkIns,omitempty"`
}

// FlaggedConcern is something the model thinks the coach should look at.
type FlaggedConcern struct {
	Area        string          `json:"area"`
	Severity    ConcernSeverity `json:"severity"`
	Description string          `json:"description"`
}

// Recommendation is an informational suggestion. It is never applied
// automatically; the coach reads it and acts (or not) by hand.
type Recommendation struct {
	Area      string `json:"area"`
	Action    string `json:"action"`
	Rationale string `json:"rationale"`
}

// ActionableRecommendation is a model-proposed change with enough structure
// to be mechanically applied. Exactly one proposal field is set, matching
// ProposalType. CanApply is false when the proposal failed schema validation;
// such entries are kept in the result for coach transparency but the Applier
// refuses them.
type ActionableRecommendation struct {
	ProposalType ProposalType `json:"proposalType"`
	Area         string       `json:"area"`
	Action       string       `json:"action"` // Human-readable label
	Rationale    string       `json:"rationale"`
	CanApply     bool         `json:"canApply"`

	NutritionProposal  *NutritionProposal  `json:"nutritionProposal,omitempty"`
	SupplementProposal *SupplementProposal `json:"supplementProposal,omitempty"`
}

// NutritionProposal carries the full replacement macro targets plus the
// signed calorie delta versus the client's current target (nil when the
// client had no current target to diff against).
type NutritionProposal struct {
	Calories     int  `json:"calories"`
	ProteinG     int  `json:"proteinG"`
	CarbsG       int  `json:"carbsG"`
	FatsG        int  `json:"fatsG"`
	CalorieDelta *int `json:"calorieDelta,omitempty"`
}

// SupplementProposal carries a supplement to add for the client.
type SupplementProposal struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
	Timing string `json:"timing,omitempty"`
}

// AppliedEffect describes what one successful apply changed: the audit event
// that was written plus the domain record it touched.
type AppliedEffect struct {
	Event            *CoachingEvent    `json:"event"`
	NutritionTargets *NutritionTargets `json:"nutritionTargets,omitempty"`
	Supplement       *Supplement       `json:"supplement,omitempty"`
}
