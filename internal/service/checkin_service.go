package service

import (
	"context"
	"errors"

	"evotion/coaching-engine/internal/domain"
	"evotion/coaching-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidRating = errors.New("rating must be between 1 and 10")
)

// CheckInService handles client-side data entry: the weekly and daily
// check-ins and workout logs that feed the next analysis cycle.
type CheckInService interface {
	SubmitWeekly(ctx context.Context, checkIn *domain.WeeklyCheckIn) (primitive.ObjectID, error)
	SubmitDaily(ctx context.Context, checkIn *domain.DailyCheckIn) (primitive.ObjectID, error)
	LogWorkout(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error)
	GetNutritionTargets(ctx context.Context, clientID primitive.ObjectID) (*domain.NutritionTargets, error)
	GetSupplements(ctx context.Context, clientID primitive.ObjectID) ([]domain.Supplement, error)
}

// checkInService implements the CheckInService interface.
type checkInService struct {
	checkInRepo   repository.CheckInRepository
	programRepo   repository.ProgramRepository
	nutritionRepo repository.NutritionRepository
}

// NewCheckInService creates a new instance of checkInService.
func NewCheckInService(
	checkInRepo repository.CheckInRepository,
	programRepo repository.ProgramRepository,
	nutritionRepo repository.NutritionRepository,
) CheckInService {
	return &checkInService{
		checkInRepo:   checkInRepo,
		programRepo:   programRepo,
		nutritionRepo: nutritionRepo,
	}
}

// SubmitWeekly validates and stores a weekly check-in.
func (s *checkInService) SubmitWeekly(ctx context.Context, checkIn *domain.WeeklyCheckIn) (primitive.ObjectID, error) {
	if checkIn.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("client ID is required")
	}
	for _, rating := range []*int{checkIn.EnergyLevel, checkIn.SleepRating, checkIn.StressLevel} {
		if rating != nil && (*rating < 1 || *rating > 10) {
			return primitive.NilObjectID, ErrInvalidRating
		}
	}
	return s.checkInRepo.CreateWeekly(ctx, checkIn)
}

// SubmitDaily validates and stores a daily check-in.
func (s *checkInService) SubmitDaily(ctx context.Context, checkIn *domain.DailyCheckIn) (primitive.ObjectID, error) {
	if checkIn.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("client ID is required")
	}
	if checkIn.WeightKg != nil && *checkIn.WeightKg <= 0 {
		return primitive.NilObjectID, errors.New("weight must be positive")
	}
	return s.checkInRepo.CreateDaily(ctx, checkIn)
}

// LogWorkout stores a completed session.
func (s *checkInService) LogWorkout(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error) {
	if log.ClientID == primitive.NilObjectID || log.SessionName == "" {
		return primitive.NilObjectID, errors.New("client ID and session name are required")
	}
	return s.programRepo.CreateWorkoutLog(ctx, log)
}

// GetNutritionTargets returns the client's current targets, or nil when none
// are set yet.
func (s *checkInService) GetNutritionTargets(ctx context.Context, clientID primitive.ObjectID) (*domain.NutritionTargets, error) {
	targets, err := s.nutritionRepo.GetTargets(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return targets, nil
}

// GetSupplements lists the client's supplements.
func (s *checkInService) GetSupplements(ctx context.Context, clientID primitive.ObjectID) ([]domain.Supplement, error) {
	return s.nutritionRepo.GetSupplements(ctx, clientID)
}
