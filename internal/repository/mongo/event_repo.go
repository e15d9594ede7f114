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

const eventCollectionName = "coaching_events"

// mongoEventRepository implements repository.EventRepository.
// Insert-only: no Update or Delete method exists, so the decision history a
// context read sees is exactly what was written at decision time.
type mongoEventRepository struct {
	collection *mongo.Collection
}

// NewMongoEventRepository creates a new coaching event repository.
func NewMongoEventRepository(db *mongo.Database) repository.EventRepository {
	return &mongoEventRepository{
		collection: db.Collection(eventCollectionName),
	}
}

// Append inserts one coaching event and returns the stored row with its
// server-assigned id and timestamp.
func (r *mongoEventRepository) Append(ctx context.Context, event *domain.CoachingEvent) (*domain.CoachingEvent, error) {
	if event.ClientID == primitive.NilObjectID || event.EventType == "" || event.Source == "" {
		return nil, errors.New("coaching event requires clientId, eventType, and source")
	}

	stored := *event
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, &stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// Recent returns up to limit events for the client, most recent first.
func (r *mongoEventRepository) Recent(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.CoachingEvent, error) {
	var events []domain.CoachingEvent
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// EnsureEventIndexes creates necessary indexes. Call during startup.
func EnsureEventIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
