package repository

import (
	"context"

	"evotion/coaching-engine/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToCoach(ctx context.Context, coachID, clientID primitive.ObjectID) error
	GetClientsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	SetCoachForClient(ctx context.Context, clientID, coachID primitive.ObjectID) error
}

// ProfileRepository reads and writes client profile and intake data.
// GetProfile/GetIntake return ErrNotFound when the client has none yet;
// callers building context treat that as "no data", not a failure.
type ProfileRepository interface {
	GetProfile(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientProfile, error)
	UpsertProfile(ctx context.Context, profile *domain.ClientProfile) error
	GetIntake(ctx context.Context, clientID primitive.ObjectID) (*domain.IntakeForm, error)
	SaveIntake(ctx context.Context, intake *domain.IntakeForm) (primitive.ObjectID, error)
}

// CheckInRepository stores weekly and daily check-ins.
// Recent reads return most-recent-first, capped at limit.
type CheckInRepository interface {
	CreateWeekly(ctx context.Context, checkIn *domain.WeeklyCheckIn) (primitive.ObjectID, error)
	CreateDaily(ctx context.Context, checkIn *domain.DailyCheckIn) (primitive.ObjectID, error)
	RecentWeekly(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.WeeklyCheckIn, error)
	RecentDaily(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.DailyCheckIn, error)
}

// ProgramRepository stores training programs and completed workout logs.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.TrainingProgram) (primitive.ObjectID, error)
	GetActiveProgram(ctx context.Context, clientID primitive.ObjectID) (*domain.TrainingProgram, error)
	CreateWorkoutLog(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error)
	RecentWorkoutLogs(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.WorkoutLog, error)
}

// NutritionRepository stores the client's current macro targets and
// supplement records. SetTargets overwrites the single current row.
type NutritionRepository interface {
	GetTargets(ctx context.Context, clientID primitive.ObjectID) (*domain.NutritionTargets, error)
	SetTargets(ctx context.Context, targets *domain.NutritionTargets) error
	InsertSupplement(ctx context.Context, supplement *domain.Supplement) (primitive.ObjectID, error)
	GetSupplements(ctx context.Context, clientID primitive.ObjectID) ([]domain.Supplement, error)
}

// GoalRepository stores client goals.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error)
	GetActiveGoals(ctx context.Context, clientID primitive.ObjectID) ([]domain.Goal, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.GoalStatus) error
}

// EventRepository is the append-only coaching event log.
// No update or delete is exposed: corrections are recorded as new events.
type EventRepository interface {
	Append(ctx context.Context, event *domain.CoachingEvent) (*domain.CoachingEvent, error)
	Recent(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.CoachingEvent, error)
}

// TransactionManager runs fn inside a single multi-document transaction.
// Repository calls made with the callback's context join that transaction;
// fn returning an error aborts the whole unit with no partial effect.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
