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
	nutritionCollectionName  = "nutrition_targets"
	supplementCollectionName = "supplements"
)

// mongoNutritionRepository implements repository.NutritionRepository.
type mongoNutritionRepository struct {
	targets     *mongo.Collection
	supplements *mongo.Collection
}

// NewMongoNutritionRepository creates a new nutrition repository.
func NewMongoNutritionRepository(db *mongo.Database) repository.NutritionRepository {
	return &mongoNutritionRepository{
		targets:     db.Collection(nutritionCollectionName),
		supplements: db.Collection(supplementCollectionName),
	}
}

// GetTargets retrieves the client's current macro targets, or ErrNotFound
// when no targets have been set yet.
func (r *mongoNutritionRepository) GetTargets(ctx context.Context, clientID primitive.ObjectID) (*domain.NutritionTargets, error) {
	var targets domain.NutritionTargets
	filter := bson.M{"clientId": clientID}

	err := r.targets.FindOne(ctx, filter).Decode(&targets)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &targets, nil
}

// SetTargets overwrites the client's single current targets row (upsert).
// History is not kept here; the coaching event log is the audit trail.
func (r *mongoNutritionRepository) SetTargets(ctx context.Context, targets *domain.NutritionTargets) error {
	if targets.ClientID == primitive.NilObjectID {
		return errors.New("nutrition targets require clientId")
	}
	if targets.Calories <= 0 {
		return errors.New("nutrition targets require positive calories")
	}
	targets.UpdatedAt = time.Now().UTC()

	filter := bson.M{"clientId": targets.ClientID}
	update := bson.M{"$set": bson.M{
		"clientId":  targets.ClientID,
		"calories":  targets.Calories,
		"proteinG":  targets.ProteinG,
		"carbsG":    targets.CarbsG,
		"fatsG":     targets.FatsG,
		"updatedAt": targets.UpdatedAt,
	}}

	result, err := r.targets.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return repository.ErrUpdateFailed
	}
	return nil
}

// InsertSupplement adds a supplement record scoped to the client.
func (r *mongoNutritionRepository) InsertSupplement(ctx context.Context, supplement *domain.Supplement) (primitive.ObjectID, error) {
	if supplement.ClientID == primitive.NilObjectID || supplement.Name == "" {
		return primitive.NilObjectID, errors.New("supplement requires clientId and name")
	}
	supplement.ID = primitive.NewObjectID()
	supplement.AddedAt = time.Now().UTC()

	result, err := r.supplements.InsertOne(ctx, supplement)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted supplement ID")
	}
	return insertedID, nil
}

// GetSupplements lists the client's supplements, newest first.
func (r *mongoNutritionRepository) GetSupplements(ctx context.Context, clientID primitive.ObjectID) ([]domain.Supplement, error) {
	var supplements []domain.Supplement
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}})

	cursor, err := r.supplements.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &supplements); err != nil {
		return nil, err
	}
	return supplements, nil
}

// EnsureNutritionIndexes creates necessary indexes. Call during startup.
func EnsureNutritionIndexes(ctx context.Context, targets, supplements *mongo.Collection) {
	_, _ = targets.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// One current targets row per client
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	_, _ = supplements.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "addedAt", Value: -1}},
			Options: options.Index(),
		},
	})
}
