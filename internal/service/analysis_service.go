package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"evotion/coaching-engine/internal/domain"
	"evotion/coaching-engine/internal/llm"
	"evotion/coaching-engine/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	// ErrGenerationFailed means no answer was obtained from the provider:
	// unreachable, timed out, or the response was not usable at all. No
	// AnalysisResult exists in this case and retrying is always safe.
	ErrGenerationFailed = errors.New("generation failed")
	ErrUnknownTask      = errors.New("unknown analysis task")
)

// AnalysisTask selects the instruction set for a generation run.
type AnalysisTask string

const (
	TaskWeeklyAnalysis AnalysisTask = "weekly_analysis"
	TaskProgressReview AnalysisTask = "progress_review"
)

// AnalysisService produces candidate analyses. It never applies anything:
// every actionable recommendation requires an explicit downstream apply.
type AnalysisService interface {
	Generate(ctx context.Context, clientID primitive.ObjectID, task AnalysisTask) (*domain.AnalysisResult, error)

	// TranscriptURL returns a temporary download URL for the archived raw
	// prompt/response transcript of a previous analysis.
	TranscriptURL(ctx context.Context, analysisID string) (string, error)
}

// analysisService implements the AnalysisService interface.
type analysisService struct {
	contextService ContextService
	provider       llm.CompletionProvider
	archive        storage.ArchiveStorage // optional; nil disables transcripts
}

// NewAnalysisService creates a new instance of analysisService.
func NewAnalysisService(contextService ContextService, provider llm.CompletionProvider, archive storage.ArchiveStorage) AnalysisService {
	return &analysisService{
		contextService: contextService,
		provider:       provider,
		archive:        archive,
	}
}

const responseSchemaInstructions = `Respond with a single JSON object and nothing else. Schema:
{
  "summary": string,
  "complianceAnalysis": {"training": string?, "nutrition": string?, "checkIns": string?},
  "progressAnalysis": string?,
  "flaggedConcerns": [{"area": string, "severity": "info"|"warning"|"critical", "description": string}],
  "recommendations": [{"area": string, "action": string, "rationale": string}],
  "actionableRecommendations": [{
    "proposalType": "nutrition_adjust"|"supplement_add",
    "area": string,
    "action": string,
    "rationale": string,
    "proposal": object
  }]
}
For "nutrition_adjust" the proposal is {"calories": int, "proteinG": int, "carbsG": int, "fatsG": int}.
For "supplement_add" the proposal is {"name": string, "dosage": string, "timing": string}.
Only emit an actionable recommendation when the client data clearly supports it.`

var taskInstructions = map[AnalysisTask]string{
	TaskWeeklyAnalysis: `You are an experienced fitness and nutrition coach reviewing one client's recent history.
Assess compliance with training, nutrition, and check-in habits; flag concerns; and propose concrete adjustments where the data supports them.`,
	TaskProgressReview: `You are an experienced fitness and nutrition coach writing a longer-horizon progress review for one client.
Focus on trend lines across the whole window: weight trajectory versus goal, training consistency, and whether the current targets still fit. Flag stalls and propose adjustments only when the trend is clear.`,
}

// Generate runs one full aggregate-serialize-complete-validate cycle.
func (s *analysisService) Generate(ctx context.Context, clientID primitive.ObjectID, task AnalysisTask) (*domain.AnalysisResult, error) {
	instructions, ok := taskInstructions[task]
	if !ok {
		return nil, ErrUnknownTask
	}
	instructions = instructions + "\n\n" + responseSchemaInstructions

	snapshot, err := s.contextService.BuildContext(ctx, clientID)
	if err != nil {
		return nil, err
	}
	prompt := FormatForPrompt(snapshot)

	completion, err := s.provider.Complete(ctx, instructions, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	result, err := parseAnalysis(completion.Text, snapshot)
	if err != nil {
		// The provider answered but the payload is not an analysis at all.
		// No partial result is surfaced; the caller can retry safely.
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	result.ID = uuid.NewString()
	result.Model = s.provider.ModelName()
	result.TokensUsed = completion.TokensUsed
	result.RetrievalUsed = completion.RetrievalUsed
	result.GeneratedAt = time.Now().UTC()

	s.archiveTranscript(ctx, result.ID, clientID, task, instructions, prompt, completion.Text)

	return result, nil
}

// TranscriptURL generates a temporary URL for the archived transcript.
func (s *analysisService) TranscriptURL(ctx context.Context, analysisID string) (string, error) {
	if s.archive == nil {
		return "", errors.New("transcript archive is not configured")
	}
	return s.archive.GeneratePresignedDownloadURL(ctx, transcriptKey(analysisID), storage.DefaultPresignedURLExpiry)
}

// analysisTranscript is the archived record of one generation exchange.
type analysisTranscript struct {
	AnalysisID   string       `json:"analysisId"`
	ClientID     string       `json:"clientId"`
	Task         AnalysisTask `json:"task"`
	Instructions string       `json:"instructions"`
	Prompt       string       `json:"prompt"`
	RawResponse  string       `json:"rawResponse"`
	ArchivedAt   time.Time    `json:"archivedAt"`
}

// archiveTranscript stores the raw exchange for later review. Best effort:
// a storage failure is logged and never fails the analysis that produced it.
func (s *analysisService) archiveTranscript(ctx context.Context, analysisID string, clientID primitive.ObjectID, task AnalysisTask, instructions, prompt, rawResponse string) {
	if s.archive == nil {
		return
	}
	transcript := analysisTranscript{
		AnalysisID:   analysisID,
		ClientID:     clientID.Hex(),
		Task:         task,
		Instructions: instructions,
		Prompt:       prompt,
		RawResponse:  rawResponse,
		ArchivedAt:   time.Now().UTC(),
	}
	body, err := json.Marshal(transcript)
	if err != nil {
		log.Printf("WARN: Failed to marshal transcript for analysis %s: %v", analysisID, err)
		return
	}
	if err := s.archive.SaveTranscript(ctx, transcriptKey(analysisID), body); err != nil {
		log.Printf("WARN: Failed to archive transcript for analysis %s: %v", analysisID, err)
	}
}

func transcriptKey(analysisID string) string {
	return path.Join("analyses", analysisID+".json")
}

// --- Response parsing and validation ---

// rawAnalysis mirrors the JSON shape the model is instructed to emit.
// Proposals stay raw until validated per proposalType.
type rawAnalysis struct {
	Summary            string `json:"summary"`
	ComplianceAnalysis struct {
		Training  string `json:"training"`
		Nutrition string `json:"nutrition"`
		CheckIns  string `json:"checkIns"`
	} `json:"complianceAnalysis"`
	ProgressAnalysis string `json:"progressAnalysis"`
	FlaggedConcerns  []struct {
		Area        string `json:"area"`
		Severity    string `json:"severity"`
		Description string `json:"description"`
	} `json:"flaggedConcerns"`
	Recommendations           []domain.Recommendation `json:"recommendations"`
	ActionableRecommendations []rawActionable         `json:"actionableRecommendations"`
}

type rawActionable struct {
	ProposalType string          `json:"proposalType"`
	Area         string          `json:"area"`
	Action       string          `json:"action"`
	Rationale    string          `json:"rationale"`
	Proposal     json.RawMessage `json:"proposal"`
}

// rawNutritionProposal uses pointers so a missing macro field is
// distinguishable from an explicit zero.
type rawNutritionProposal struct {
	Calories *int `json:"calories"`
	ProteinG *int `json:"proteinG"`
	CarbsG   *int `json:"carbsG"`
	FatsG    *int `json:"fatsG"`
}

// parseAnalysis decodes the model response and validates it structurally.
// The model is treated as an unreliable producer: entries that fail their
// proposal schema are retained with CanApply=false, never dropped silently,
// so the coach can still see what the model wanted to do.
func parseAnalysis(text string, snapshot *domain.ClientContext) (*domain.AnalysisResult, error) {
	var raw rawAnalysis
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &raw); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if raw.Summary == "" {
		return nil, errors.New("response has no summary")
	}

	result := &domain.AnalysisResult{
		Summary: raw.Summary,
		ComplianceAnalysis: domain.ComplianceAnalysis{
			Training:  raw.ComplianceAnalysis.Training,
			Nutrition: raw.ComplianceAnalysis.Nutrition,
			CheckIns:  raw.ComplianceAnalysis.CheckIns,
		},
		ProgressAnalysis: raw.ProgressAnalysis,
		Recommendations:  raw.Recommendations,
	}

	for _, c := range raw.FlaggedConcerns {
		result.FlaggedConcerns = append(result.FlaggedConcerns, domain.FlaggedConcern{
			Area:        c.Area,
			Severity:    normalizeSeverity(c.Severity),
			Description: c.Description,
		})
	}

	for _, a := range raw.ActionableRecommendations {
		result.ActionableRecommendations = append(result.ActionableRecommendations, validateActionable(a, snapshot))
	}

	return result, nil
}

// validateActionable checks one entry against its proposalType's field set.
func validateActionable(raw rawActionable, snapshot *domain.ClientContext) domain.ActionableRecommendation {
	rec := domain.ActionableRecommendation{
		ProposalType: domain.ProposalType(raw.ProposalType),
		Area:         raw.Area,
		Action:       raw.Action,
		Rationale:    raw.Rationale,
	}

	switch rec.ProposalType {
	case domain.ProposalNutritionAdjust:
		var p rawNutritionProposal
		if len(raw.Proposal) == 0 || json.Unmarshal(raw.Proposal, &p) != nil {
			return rec
		}
		// All four macro fields must be present for the proposal to be
		// mechanically applicable.
		if p.Calories == nil || p.ProteinG == nil || p.CarbsG == nil || p.FatsG == nil {
			return rec
		}
		if *p.Calories <= 0 || *p.ProteinG < 0 || *p.CarbsG < 0 || *p.FatsG < 0 {
			return rec
		}
		proposal := &domain.NutritionProposal{
			Calories: *p.Calories,
			ProteinG: *p.ProteinG,
			CarbsG:   *p.CarbsG,
			FatsG:    *p.FatsG,
		}
		// The delta is computed here, not taken from the model; model
		// arithmetic is not trusted. Nil when there is no current target.
		if snapshot != nil && snapshot.NutritionTargets != nil {
			delta := proposal.Calories - snapshot.NutritionTargets.Calories
			proposal.CalorieDelta = &delta
		}
		rec.NutritionProposal = proposal
		rec.CanApply = true

	case domain.ProposalSupplementAdd:
		var p domain.SupplementProposal
		if len(raw.Proposal) == 0 || json.Unmarshal(raw.Proposal, &p) != nil {
			return rec
		}
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Dosage) == "" {
			return rec
		}
		rec.SupplementProposal = &p
		rec.CanApply = true
	}
	// Unknown proposal types fall through with CanApply=false.

	return rec
}

func normalizeSeverity(s string) domain.ConcernSeverity {
	switch domain.ConcernSeverity(strings.ToLower(s)) {
	case domain.SeverityWarning:
		return domain.SeverityWarning
	case domain.SeverityCritical:
		return domain.SeverityCritical
	default:
		return domain.SeverityInfo
	}
}

// stripCodeFences removes a surrounding markdown code fence if the model
// wrapped its JSON in one despite instructions.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
