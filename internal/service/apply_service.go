package service

import (
	"context"
	"errors"
	"fmt"

	"evotion/coaching-engine/internal/domain"
	"evotion/coaching-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	// ErrRecommendationNotApplicable is returned when a recommendation with
	// CanApply=false reaches Apply. That is a caller bug: the recommendation
	// failed validation upstream and must never be applied. Rejected before
	// any persistence call.
	ErrRecommendationNotApplicable = errors.New("recommendation cannot be applied")

	// ErrApplyFailed means the transaction did not commit. Nothing was
	// changed: neither the domain row nor the audit event. Retry is safe.
	ErrApplyFailed = errors.New("apply failed")

	ErrUnknownProposalType = errors.New("unknown proposal type")
)

// ApplyService converts one actionable recommendation into a live data
// mutation plus its audit event. The mutation and the event write are one
// atomic unit: state changed without audit trail (or the reverse) is the
// failure mode this service exists to prevent.
//
// Apply does not deduplicate by content. Two identical recommendations from
// two different analyses are legitimate independent decisions; per-analysis
// applied-state tracking belongs to the caller.
type ApplyService interface {
	Apply(ctx context.Context, clientID primitive.ObjectID, rec domain.ActionableRecommendation, analysisID string) (*domain.AppliedEffect, error)
}

// applyService implements the ApplyService interface.
type applyService struct {
	nutritionRepo repository.NutritionRepository
	eventRepo     repository.EventRepository
	txnManager    repository.TransactionManager
}

// NewApplyService creates a new instance of applyService.
func NewApplyService(
	nutritionRepo repository.NutritionRepository,
	eventRepo repository.EventRepository,
	txnManager repository.TransactionManager,
) ApplyService {
	return &applyService{
		nutritionRepo: nutritionRepo,
		eventRepo:     eventRepo,
		txnManager:    txnManager,
	}
}

// Apply dispatches on the recommendation's proposal type.
func (s *applyService) Apply(ctx context.Context, clientID primitive.ObjectID, rec domain.ActionableRecommendation, analysisID string) (*domain.AppliedEffect, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}
	if !rec.CanApply {
		return nil, ErrRecommendationNotApplicable
	}

	switch rec.ProposalType {
	case domain.ProposalNutritionAdjust:
		return s.applyNutritionAdjust(ctx, clientID, rec, analysisID)
	case domain.ProposalSupplementAdd:
		return s.applySupplementAdd(ctx, clientID, rec, analysisID)
	default:
		return nil, ErrUnknownProposalType
	}
}

// applyNutritionAdjust overwrites the client's current macro targets and
// appends the audit event in one transaction.
func (s *applyService) applyNutritionAdjust(ctx context.Context, clientID primitive.ObjectID, rec domain.ActionableRecommendation, analysisID string) (*domain.AppliedEffect, error) {
	proposal := rec.NutritionProposal
	if proposal == nil {
		return nil, ErrRecommendationNotApplicable
	}

	effect := &domain.AppliedEffect{}
	err := s.txnManager.WithTransaction(ctx, func(txCtx context.Context) error {
		// Current targets read inside the transaction so the before/after
		// description matches what is actually overwritten.
		current, err := s.nutritionRepo.GetTargets(txCtx, clientID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		targets := &domain.NutritionTargets{
			ClientID: clientID,
			Calories: proposal.Calories,
			ProteinG: proposal.ProteinG,
			CarbsG:   proposal.CarbsG,
			FatsG:    proposal.FatsG,
		}
		if err := s.nutritionRepo.SetTargets(txCtx, targets); err != nil {
			return err
		}

		event := &domain.CoachingEvent{
			ClientID:    clientID,
			EventType:   string(domain.ProposalNutritionAdjust),
			Area:        areaOrDefault(rec.Area, "nutrition"),
			Title:       titleOrDefault(rec.Action, "Nutrition targets adjusted"),
			Description: nutritionChangeDescription(current, targets, analysisID),
			Source:      domain.SourceAIApplied,
		}
		stored, err := s.eventRepo.Append(txCtx, event)
		if err != nil {
			return err
		}

		effect.NutritionTargets = targets
		effect.Event = stored
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrApplyFailed, err)
	}
	return effect, nil
}

// applySupplementAdd inserts the supplement record and appends the audit
// event in one transaction.
func (s *applyService) applySupplementAdd(ctx context.Context, clientID primitive.ObjectID, rec domain.ActionableRecommendation, analysisID string) (*domain.AppliedEffect, error) {
	proposal := rec.SupplementProposal
	if proposal == nil {
		return nil, ErrRecommendationNotApplicable
	}

	effect := &domain.AppliedEffect{}
	err := s.txnManager.WithTransaction(ctx, func(txCtx context.Context) error {
		supplement := &domain.Supplement{
			ClientID: clientID,
			Name:     proposal.Name,
			Dosage:   proposal.Dosage,
			Timing:   proposal.Timing,
		}
		if _, err := s.nutritionRepo.InsertSupplement(txCtx, supplement); err != nil {
			return err
		}

		description := fmt.Sprintf("Added %s (%s", proposal.Name, proposal.Dosage)
		if proposal.Timing != "" {
			description += ", " + proposal.Timing
		}
		description += ")"
		event := &domain.CoachingEvent{
			ClientID:    clientID,
			EventType:   string(domain.ProposalSupplementAdd),
			Area:        areaOrDefault(rec.Area, "supplements"),
			Title:       titleOrDefault(rec.Action, "Supplement added"),
			Description: withAnalysisRef(description, analysisID),
			Source:      domain.SourceAIApplied,
		}
		stored, err := s.eventRepo.Append(txCtx, event)
		if err != nil {
			return err
		}

		effect.Supplement = supplement
		effect.Event = stored
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrApplyFailed, err)
	}
	return effect, nil
}

// nutritionChangeDescription summarizes before/after macro values.
func nutritionChangeDescription(before, after *domain.NutritionTargets, analysisID string) string {
	var description string
	if before != nil {
		description = fmt.Sprintf("Calories %d -> %d, protein %dg -> %dg, carbs %dg -> %dg, fats %dg -> %dg",
			before.Calories, after.Calories,
			before.ProteinG, after.ProteinG,
			before.CarbsG, after.CarbsG,
			before.FatsG, after.FatsG)
	} else {
		description = fmt.Sprintf("Initial targets set: %d kcal, protein %dg, carbs %dg, fats %dg",
			after.Calories, after.ProteinG, after.CarbsG, after.FatsG)
	}
	return withAnalysisRef(description, analysisID)
}

func withAnalysisRef(description, analysisID string) string {
	if analysisID == "" {
		return description
	}
	return fmt.Sprintf("%s (analysis %s)", description, analysisID)
}

func areaOrDefault(area, fallback string) string {
	if area == "" {
		return fallback
	}
	return area
}

func titleOrDefault(title, fallback string) string {
	if title == "" {
		return fallback
	}
	return title
}
