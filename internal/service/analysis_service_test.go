package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"evotion/coaching-engine/internal/domain"
	"evotion/coaching-engine/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const validAnalysisJSON = `{
  "summary": "Solid week overall with a small nutrition slip midweek.",
  "complianceAnalysis": {
    "training": "3 of 4 sessions completed.",
    "nutrition": "Calories roughly on target.",
    "checkIns": "All daily check-ins submitted."
  },
  "progressAnalysis": "Weight trending down at a sustainable rate.",
  "flaggedConcerns": [
    {"area": "sleep", "severity": "warning", "description": "Sleep below 6h on three days."}
  ],
  "recommendations": [
    {"area": "sleep", "action": "Move training earlier", "rationale": "Late sessions correlate with short sleep."}
  ],
  "actionableRecommendations": [
    {
      "proposalType": "nutrition_adjust",
      "area": "nutrition",
      "action": "Reduce calories slightly",
      "rationale": "Weight loss has stalled for two weeks.",
      "proposal": {"calories": 2100, "proteinG": 165, "carbsG": 200, "fatsG": 65}
    }
  ]
}`

func staticProvider(text string) *fakeProvider {
	return &fakeProvider{
		CompleteFn: func(ctx context.Context, instructions, prompt string) (*llm.Completion, error) {
			return &llm.Completion{Text: text, TokensUsed: 1234, RetrievalUsed: true}, nil
		},
	}
}

func TestGenerateValidResponse(t *testing.T) {
	provider := staticProvider(validAnalysisJSON)
	snapshot := &domain.ClientContext{
		ClientName:       "Carol",
		NutritionTargets: &domain.NutritionTargets{Calories: 2300, ProteinG: 160, CarbsG: 230, FatsG: 70},
	}
	svc := NewAnalysisService(&fakeContextService{
		BuildContextFn: func(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientContext, error) {
			return snapshot, nil
		},
	}, provider, nil)

	result, err := svc.Generate(context.Background(), primitive.NewObjectID(), TaskWeeklyAnalysis)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "Solid week overall with a small nutrition slip midweek.", result.Summary)
	assert.Equal(t, "3 of 4 sessions completed.", result.ComplianceAnalysis.Training)
	require.Len(t, result.FlaggedConcerns, 1)
	assert.Equal(t, domain.SeverityWarning, result.FlaggedConcerns[0].Severity)
	require.Len(t, result.Recommendations, 1)

	require.Len(t, result.ActionableRecommendations, 1)
	rec := result.ActionableRecommendations[0]
	assert.True(t, rec.CanApply)
	assert.Equal(t, domain.ProposalNutritionAdjust, rec.ProposalType)
	require.NotNil(t, rec.NutritionProposal)
	assert.Equal(t, 2100, rec.NutritionProposal.Calories)
	// Delta computed against the snapshot, not taken from the model.
	require.NotNil(t, rec.NutritionProposal.CalorieDelta)
	assert.Equal(t, -200, *rec.NutritionProposal.CalorieDelta)

	// Provenance.
	assert.Equal(t, "test-model", result.Model)
	assert.Equal(t, 1234, result.TokensUsed)
	assert.True(t, result.RetrievalUsed)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestGenerateSendsSerializedContext(t *testing.T) {
	provider := staticProvider(validAnalysisJSON)
	svc := NewAnalysisService(&fakeContextService{
		BuildContextFn: func(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientContext, error) {
			return &domain.ClientContext{ClientName: "Dave"}, nil
		},
	}, provider, nil)

	_, err := svc.Generate(context.Background(), primitive.NewObjectID(), TaskWeeklyAnalysis)
	require.NoError(t, err)

	require.Len(t, provider.Prompts, 1)
	assert.Contains(t, provider.Prompts[0], "CLIENT CONTEXT")
	assert.Contains(t, provider.Prompts[0], "Name: Dave")
}

func TestGenerateUnknownTask(t *testing.T) {
	svc := NewAnalysisService(&fakeContextService{}, staticProvider(validAnalysisJSON), nil)

	result, err := svc.Generate(context.Background(), primitive.NewObjectID(), AnalysisTask("quarterly_magic"))
	assert.ErrorIs(t, err, ErrUnknownTask)
	assert.Nil(t, result)
}

func TestGenerateProviderError(t *testing.T) {
	provider := &fakeProvider{
		CompleteFn: func(ctx context.Context, instructions, prompt string) (*llm.Completion, error) {
			return nil, errors.New("upstream timeout")
		},
	}
	svc := NewAnalysisService(&fakeContextService{}, provider, nil)

	result, err := svc.Generate(context.Background(), primitive.NewObjectID(), TaskWeeklyAnalysis)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Nil(t, result)
}

func TestGenerateUnparseableResponse(t *testing.T) {
	for name, text := range map[string]string{
		"prose":      "I think the client is doing great!",
		"empty":      "",
		"no summary": `{"complianceAnalysis": {}}`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewAnalysisService(&fakeContextService{}, staticProvider(text), nil)

			result, err := svc.Generate(context.Background(), primitive.NewObjectID(), TaskWeeklyAnalysis)
			assert.ErrorIs(t, err, ErrGenerationFailed)
			assert.Nil(t, result)
		})
	}
}

func TestGenerateStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validAnalysisJSON + "\n```"
	svc := NewAnalysisService(&fakeContextService{}, staticProvider(fenced), nil)

	result, err := svc.Generate(context.Background(), primitive.NewObjectID(), TaskWeeklyAnalysis)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Summary)
}

func TestGenerateInvalidProposalRetainedNotApplicable(t *testing.T) {
	cases := map[string]string{
		"missing macro field": `{"calories": 2100, "proteinG": 165, "carbsG": 200}`,
		"zero calories":       `{"calories": 0, "proteinG": 165, "carbsG": 200, "fatsG": 65}`,
		"negative protein":    `{"calories": 2100, "proteinG": -5, "carbsG": 200, "fatsG": 65}`,
	}
	for name, proposal := range cases {
		t.Run(name, func(t *testing.T) {
			text := `{
  "summary": "Summary.",
  "actionableRecommendations": [
    {"proposalType": "nutrition_adjust", "area": "nutrition", "action": "Adjust", "rationale": "Stall.", "proposal": ` + proposal + `}
  ]
}`
			svc := NewAnalysisService(&fakeContextService{}, staticProvider(text), nil)

			result, err := svc.Generate(context.Background(), primitive.NewObjectID(), TaskWeeklyAnalysis)
			require.NoError(t, err)

			// The entry stays visible but cannot be applied.
			require.Len(t, result.ActionableRecommendations, 1)
			rec := result.ActionableRecommendations[0]
			assert.False(t, rec.CanApply)
			assert.Nil(t, rec.NutritionProposal)
			assert.Equal(t, "Adjust", rec.Action)
		})
	}
}

func TestGenerateUnknownProposalTypeRetained(t *testing.T) {
	text := `{
  "summary": "Summary.",
  "actionableRecommendations": [
    {"proposalType": "program_swap", "area": "training", "action": "Swap program", "rationale": "Plateau.", "proposal": {"programId": "x"}}
  ]
}`
	svc := NewAnalysisService(&fakeContextService{}, staticProvider(text), nil)

	result, err := svc.Generate(context.Background(), primitive.NewObjectID(), TaskWeeklyAnalysis)
	require.NoError(t, err)
	require.Len(t, result.ActionableRecommendations, 1)
	assert.False(t, result.ActionableRecommendations[0].CanApply)
}

func TestGenerateSupplementProposal(t *testing.T) {
	text := `{
  "summary": "Summary.",
  "actionableRecommendations": [
    {"proposalType": "supplement_add", "area": "supplements", "action": "Add vitamin D", "rationale": "Low sun exposure.", "proposal": {"name": "Vitamin D3", "dosage": "2000 IU", "timing": "morning"}},
    {"proposalType": "supplement_add", "area": "supplements", "action": "Add mystery", "rationale": "Hmm.", "proposal": {"name": "", "dosage": "1 scoop"}}
  ]
}`
	svc := NewAnalysisService(&fakeContextService{}, staticProvider(text), nil)

	result, err := svc.Generate(context.Background(), primitive.NewObjectID(), TaskWeeklyAnalysis)
	require.NoError(t, err)
	require.Len(t, result.ActionableRecommendations, 2)

	valid := result.ActionableRecommendations[0]
	assert.True(t, valid.CanApply)
	require.NotNil(t, valid.SupplementProposal)
	assert.Equal(t, "Vitamin D3", valid.SupplementProposal.Name)

	invalid := result.ActionableRecommendations[1]
	assert.False(t, invalid.CanApply)
	assert.Nil(t, invalid.SupplementProposal)
}

func TestGenerateCalorieDeltaNilWithoutCurrentTargets(t *testing.T) {
	svc := NewAnalysisService(&fakeContextService{
		BuildContextFn: func(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientContext, error) {
			return &domain.ClientContext{ClientName: "No Targets Yet"}, nil
		},
	}, staticProvider(validAnalysisJSON), nil)

	result, err := svc.Generate(context.Background(), primitive.NewObjectID(), TaskWeeklyAnalysis)
	require.NoError(t, err)
	require.Len(t, result.ActionableRecommendations, 1)
	require.NotNil(t, result.ActionableRecommendations[0].NutritionProposal)
	assert.Nil(t, result.ActionableRecommendations[0].NutritionProposal.CalorieDelta)
}

func TestGenerateArchivesTranscript(t *testing.T) {
	archive := &fakeArchive{}
	svc := NewAnalysisService(&fakeContextService{}, staticProvider(validAnalysisJSON), archive)

	result, err := svc.Generate(context.Background(), primitive.NewObjectID(), TaskWeeklyAnalysis)
	require.NoError(t, err)

	require.Len(t, archive.SavedKeys, 1)
	assert.Equal(t, "analyses/"+result.ID+".json", archive.SavedKeys[0])

	var transcript map[string]any
	require.NoError(t, json.Unmarshal(archive.SavedBodies[0], &transcript))
	assert.Equal(t, result.ID, transcript["analysisId"])
	assert.Contains(t, transcript["prompt"], "CLIENT CONTEXT")
}

func TestGenerateArchiveFailureDoesNotFailAnalysis(t *testing.T) {
	archive := &fakeArchive{
		SaveTranscriptFn: func(ctx context.Context, objectKey string, body []byte) error {
			return errors.New("bucket unavailable")
		},
	}
	svc := NewAnalysisService(&fakeContextService{}, staticProvider(validAnalysisJSON), archive)

	result, err := svc.Generate(context.Background(), primitive.NewObjectID(), TaskWeeklyAnalysis)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Summary)
}

func TestTranscriptURL(t *testing.T) {
	svc := NewAnalysisService(&fakeContextService{}, staticProvider(validAnalysisJSON), &fakeArchive{})

	url, err := svc.TranscriptURL(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "https://archive.test/analyses/abc-123.json", url)
}

func TestTranscriptURLWithoutArchive(t *testing.T) {
	svc := NewAnalysisService(&fakeContextService{}, staticProvider(validAnalysisJSON), nil)

	_, err := svc.TranscriptURL(context.Background(), "abc-123")
	assert.Error(t, err)
}
