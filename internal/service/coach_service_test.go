package service

import (
	"context"
	"testing"

	"evotion/coaching-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddClientByEmail(t *testing.T) {
	coachID := primitive.NewObjectID()
	clientID := primitive.NewObjectID()
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{
				ID:           clientID,
				Email:        email,
				Role:         domain.RoleClient,
				PasswordHash: "secret-hash",
			}, nil
		},
	}
	svc := NewCoachService(userRepo, &fakeProgramRepo{}, &fakeGoalRepo{}, &fakeProfileRepo{})

	client, err := svc.AddClientByEmail(context.Background(), coachID, "client@example.com")
	require.NoError(t, err)

	assert.Equal(t, clientID, client.ID)
	assert.Empty(t, client.PasswordHash)
	assert.Equal(t, []primitive.ObjectID{clientID}, userRepo.LinkedToCoach)
	assert.Equal(t, []primitive.ObjectID{clientID}, userRepo.CoachSetForIDs)
}

func TestAddClientByEmailNotFound(t *testing.T) {
	svc := NewCoachService(&fakeUserRepo{}, &fakeProgramRepo{}, &fakeGoalRepo{}, &fakeProfileRepo{})

	_, err := svc.AddClientByEmail(context.Background(), primitive.NewObjectID(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestAddClientByEmailWrongRole(t *testing.T) {
	userRepo := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleCoach}, nil
		},
	}
	svc := NewCoachService(userRepo, &fakeProgramRepo{}, &fakeGoalRepo{}, &fakeProfileRepo{})

	_, err := svc.AddClientByEmail(context.Background(), primitive.NewObjectID(), "othercoach@example.com")
	assert.ErrorIs(t, err, ErrUserNotClientRole)
	assert.Empty(t, userRepo.LinkedToCoach)
}

func TestVerifyClientManaged(t *testing.T) {
	coachID := primitive.NewObjectID()
	otherCoachID := primitive.NewObjectID()
	managedID := primitive.NewObjectID()
	unmanagedID := primitive.NewObjectID()
	orphanID := primitive.NewObjectID()

	userRepo := &fakeUserRepo{
		GetByIDFn: func(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
			switch id {
			case managedID:
				return &domain.User{ID: id, Role: domain.RoleClient, CoachID: &coachID}, nil
			case unmanagedID:
				return &domain.User{ID: id, Role: domain.RoleClient, CoachID: &otherCoachID}, nil
			case orphanID:
				return &domain.User{ID: id, Role: domain.RoleClient}, nil
			default:
				return nil, errNotFoundForTest()
			}
		},
	}
	svc := NewCoachService(userRepo, &fakeProgramRepo{}, &fakeGoalRepo{}, &fakeProfileRepo{})

	assert.NoError(t, svc.VerifyClientManaged(context.Background(), coachID, managedID))
	assert.ErrorIs(t, svc.VerifyClientManaged(context.Background(), coachID, unmanagedID), ErrClientNotManaged)
	assert.ErrorIs(t, svc.VerifyClientManaged(context.Background(), coachID, orphanID), ErrClientNotManaged)
	assert.ErrorIs(t, svc.VerifyClientManaged(context.Background(), coachID, primitive.NewObjectID()), ErrClientNotFound)
}
