package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"evotion/coaching-engine/internal/domain"
	"evotion/coaching-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// Fixed recency windows for context assembly. Keeping the serialized context
// inside the model's practical window is done here, structurally, not by
// truncating the rendered string later.
const (
	WeeklyCheckInWindow   = 8
	DailyCheckInWindow    = 14
	WorkoutLogWindow      = 15
	CoachingHistoryWindow = 10
)

// ContextService assembles the bounded per-client snapshot used for analysis.
type ContextService interface {
	// BuildContext reads the client's history across all stores and returns
	// a fresh ClientContext. Empty result sets degrade to nil/empty fields;
	// a failing sub-read fails the whole build, because a silently partial
	// context could produce a misleading analysis.
	BuildContext(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientContext, error)
}

// contextService implements the ContextService interface.
type contextService struct {
	userRepo      repository.UserRepository
	profileRepo   repository.ProfileRepository
	checkInRepo   repository.CheckInRepository
	programRepo   repository.ProgramRepository
	nutritionRepo repository.NutritionRepository
	goalRepo      repository.GoalRepository
	eventRepo     repository.EventRepository
}

// NewContextService creates a new instance of contextService.
func NewContextService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	checkInRepo repository.CheckInRepository,
	programRepo repository.ProgramRepository,
	nutritionRepo repository.NutritionRepository,
	goalRepo repository.GoalRepository,
	eventRepo repository.EventRepository,
) ContextService {
	return &contextService{
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		checkInRepo:   checkInRepo,
		programRepo:   programRepo,
		nutritionRepo: nutritionRepo,
		goalRepo:      goalRepo,
		eventRepo:     eventRepo,
	}
}

// BuildContext fans out the sub-reads concurrently and waits for all of them.
// No side effects; safe to call repeatedly and concurrently for different clients.
func (s *contextService) BuildContext(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientContext, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}

	snapshot := &domain.ClientContext{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, err := s.userRepo.GetByID(gctx, clientID)
		if err != nil {
			// The client record itself must exist; everything else may be empty.
			return fmt.Errorf("read client: %w", err)
		}
		snapshot.ClientName = user.Name
		return nil
	})

	g.Go(func() error {
		profile, err := s.profileRepo.GetProfile(gctx, clientID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("read profile: %w", err)
		}
		snapshot.Profile = profile
		return nil
	})

	g.Go(func() error {
		intake, err := s.profileRepo.GetIntake(gctx, clientID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("read intake: %w", err)
		}
		snapshot.Intake = intake
		return nil
	})

	g.Go(func() error {
		weekly, err := s.checkInRepo.RecentWeekly(gctx, clientID, WeeklyCheckInWindow)
		if err != nil {
			return fmt.Errorf("read weekly check-ins: %w", err)
		}
		snapshot.RecentWeeklyCheckIns = weekly
		return nil
	})

	g.Go(func() error {
		daily, err := s.checkInRepo.RecentDaily(gctx, clientID, DailyCheckInWindow)
		if err != nil {
			return fmt.Errorf("read daily check-ins: %w", err)
		}
		snapshot.RecentDailyCheckIns = daily
		return nil
	})

	g.Go(func() error {
		program, err := s.programRepo.GetActiveProgram(gctx, clientID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("read active program: %w", err)
		}
		snapshot.CurrentProgram = program
		return nil
	})

	g.Go(func() error {
		logs, err := s.programRepo.RecentWorkoutLogs(gctx, clientID, WorkoutLogWindow)
		if err != nil {
			return fmt.Errorf("read workout logs: %w", err)
		}
		snapshot.RecentWorkoutLogs = logs
		return nil
	})

	g.Go(func() error {
		targets, err := s.nutritionRepo.GetTargets(gctx, clientID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("read nutrition targets: %w", err)
		}
		snapshot.NutritionTargets = targets
		return nil
	})

	g.Go(func() error {
		goals, err := s.goalRepo.GetActiveGoals(gctx, clientID)
		if err != nil {
			return fmt.Errorf("read goals: %w", err)
		}
		snapshot.Goals = goals
		return nil
	})

	g.Go(func() error {
		events, err := s.eventRepo.Recent(gctx, clientID, CoachingHistoryWindow)
		if err != nil {
			return fmt.Errorf("read coaching history: %w", err)
		}
		snapshot.CoachingHistory = events
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Derived fields, computed from raw rows with explicit null propagation.
	if snapshot.Profile != nil {
		snapshot.Age = ageFromBirthDate(snapshot.Profile.BirthDate, time.Now().UTC())
	}
	snapshot.WeightTrendKg = weightTrend(snapshot.RecentDailyCheckIns)

	return snapshot, nil
}

// ageFromBirthDate returns whole years between birthDate and now, or nil
// when no birth date is known.
func ageFromBirthDate(birthDate *time.Time, now time.Time) *int {
	if birthDate == nil {
		return nil
	}
	age := now.Year() - birthDate.Year()
	if now.Before(birthDate.AddDate(age, 0, 0)) {
		age--
	}
	if age < 0 {
		return nil
	}
	return &age
}

// weightTrend computes latest minus earliest weight over the daily window
// (most-recent-first), rounded to one decimal. Requires at least two weight
// observations; otherwise nil.
func weightTrend(daily []domain.DailyCheckIn) *float64 {
	var weights []float64
	for _, c := range daily {
		if c.WeightKg != nil {
			weights = append(weights, *c.WeightKg)
		}
	}
	if len(weights) < 2 {
		return nil
	}
	trend := math.Round((weights[0]-weights[len(weights)-1])*10) / 10
	return &trend
}
