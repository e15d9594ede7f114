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
	ErrClientNotFound    = errors.New("client not found")
	ErrUserNotClientRole = errors.New("user exists but is not a client")
	ErrClientNotManaged  = errors.New("client is not managed by this coach")
)

// CoachService handles the coach's roster and client data entry that the
// coach owns (programs, goals, profile updates).
type CoachService interface {
	AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetManagedClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	VerifyClientManaged(ctx context.Context, coachID, clientID primitive.ObjectID) error
	CreateProgram(ctx context.Context, program *domain.TrainingProgram) (primitive.ObjectID, error)
	CreateGoal(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error)
	UpsertProfile(ctx context.Context, profile *domain.ClientProfile) error
}

// coachService implements the CoachService interface.
type coachService struct {
	userRepo    repository.UserRepository
	programRepo repository.ProgramRepository
	goalRepo    repository.GoalRepository
	profileRepo repository.ProfileRepository
}

// NewCoachService creates a new instance of coachService.
func NewCoachService(
	userRepo repository.UserRepository,
	programRepo repository.ProgramRepository,
	goalRepo repository.GoalRepository,
	profileRepo repository.ProfileRepository,
) CoachService {
	return &coachService{
		userRepo:    userRepo,
		programRepo: programRepo,
		goalRepo:    goalRepo,
		profileRepo: profileRepo,
	}
}

// AddClientByEmail links an existing client account to the coach's roster.
func (s *coachService) AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if clientEmail == "" {
		return nil, errors.New("client email is required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrUserNotClientRole
	}

	if err := s.userRepo.AddClientIDToCoach(ctx, coachID, client.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetCoachForClient(ctx, client.ID, coachID); err != nil {
		return nil, err
	}

	client.PasswordHash = ""
	return client, nil
}

// GetManagedClients lists the coach's clients.
func (s *coachService) GetManagedClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	clients, err := s.userRepo.GetClientsByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}

// VerifyClientManaged checks that clientID belongs to coachID's roster.
// Used by handlers before any per-client coach operation.
func (s *coachService) VerifyClientManaged(ctx context.Context, coachID, clientID primitive.ObjectID) error {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if client.CoachID == nil || *client.CoachID != coachID {
		return ErrClientNotManaged
	}
	return nil
}

// CreateProgram stores a new training program for a client.
func (s *coachService) CreateProgram(ctx context.Context, program *domain.TrainingProgram) (primitive.ObjectID, error) {
	return s.programRepo.Create(ctx, program)
}

// CreateGoal stores a new goal for a client.
func (s *coachService) CreateGoal(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	return s.goalRepo.Create(ctx, goal)
}

// UpsertProfile creates or updates a client's profile.
func (s *coachService) UpsertProfile(ctx context.Context, profile *domain.ClientProfile) error {
	return s.profileRepo.UpsertProfile(ctx, profile)
}
