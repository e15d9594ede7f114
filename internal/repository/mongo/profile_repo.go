package mongo

import (
	"context"
	"errors"
	"time"

	"evotion/coaching-engine/internal/domain"
	"evotion/coaching-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	profileCollectionName = "client_profiles"
	intakeCollectionName  = "intake_forms"
)

// mongoProfileRepository implements repository.ProfileRepository.
// Profiles and intake forms live in separate collections but share one
// repository: both are one-per-client onboarding data.
type mongoProfileRepository struct {
	profiles *mongo.Collection
	intakes  *mongo.Collection
}

// NewMongoProfileRepository creates a new profile/intake repository.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		profiles: db.Collection(profileCollectionName),
		intakes:  db.Collection(intakeCollectionName),
	}
}

// GetProfile retrieves the client's profile, or ErrNotFound if none exists yet.
func (r *mongoProfileRepository) GetProfile(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientProfile, error) {
	var profile domain.ClientProfile
	filter := bson.M{"clientId": clientID}

	err := r.profiles.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile creates or replaces the client's single profile document.
func (r *mongoProfileRepository) UpsertProfile(ctx context.Context, profile *domain.ClientProfile) error {
	if profile.ClientID == primitive.NilObjectID {
		return errors.New("profile requires clientId")
	}
	profile.UpdatedAt = time.Now().UTC()

	filter := bson.M{"clientId": profile.ClientID}
	update := bson.M{"$set": bson.M{
		"clientId":        profile.ClientID,
		"birthDate":       profile.BirthDate,
		"heightCm":        profile.HeightCm,
		"currentWeightKg": profile.CurrentWeight,
		"goalWeightKg":    profile.GoalWeight,
		"activityLevel":   profile.ActivityLevel,
		"updatedAt":       profile.UpdatedAt,
	}}

	_, err := r.profiles.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetIntake retrieves the client's intake form, or ErrNotFound if the client
// has not completed onboarding.
func (r *mongoProfileRepository) GetIntake(ctx context.Context, clientID primitive.ObjectID) (*domain.IntakeForm, error) {
	var intake domain.IntakeForm
	filter := bson.M{"clientId": clientID}

	err := r.intakes.FindOne(ctx, filter).Decode(&intake)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &intake, nil
}

// SaveIntake inserts the one-time intake form.
func (r *mongoProfileRepository) SaveIntake(ctx context.Context, intake *domain.IntakeForm) (primitive.ObjectID, error) {
	if intake.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("intake requires clientId")
	}
	intake.ID = primitive.NewObjectID()
	intake.SubmittedAt = time.Now().UTC()

	result, err := r.intakes.InsertOne(ctx, intake)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted intake ID")
	}
	return insertedID, nil
}

// EnsureProfileIndexes creates necessary indexes. Call during startup.
func EnsureProfileIndexes(ctx context.Context, profiles, intakes *mongo.Collection) {
	unique := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = profiles.Indexes().CreateMany(ctx, unique)
	_, _ = intakes.Indexes().CreateMany(ctx, unique)
}
