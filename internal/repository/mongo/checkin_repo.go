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
	weeklyCheckInCollectionName = "weekly_checkins"
	dailyCheckInCollectionName  = "daily_checkins"
)

// mongoCheckInRepository implements repository.CheckInRepository.
type mongoCheckInRepository struct {
	weekly *mongo.Collection
	daily  *mongo.Collection
}

// NewMongoCheckInRepository creates a new check-in repository.
func NewMongoCheckInRepository(db *mongo.Database) repository.CheckInRepository {
	return &mongoCheckInRepository{
		weekly: db.Collection(weeklyCheckInCollectionName),
		daily:  db.Collection(dailyCheckInCollectionName),
	}
}

// CreateWeekly inserts a new weekly check-in.
func (r *mongoCheckInRepository) CreateWeekly(ctx context.Context, checkIn *domain.WeeklyCheckIn) (primitive.ObjectID, error) {
	if checkIn.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("check-in requires clientId")
	}
	checkIn.ID = primitive.NewObjectID()
	if checkIn.CheckedInAt.IsZero() {
		checkIn.CheckedInAt = time.Now().UTC()
	}

	result, err := r.weekly.InsertOne(ctx, checkIn)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted check-in ID")
	}
	return insertedID, nil
}

// CreateDaily inserts a new daily check-in.
func (r *mongoCheckInRepository) CreateDaily(ctx context.Context, checkIn *domain.DailyCheckIn) (primitive.ObjectID, error) {
	if checkIn.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("check-in requires clientId")
	}
	checkIn.ID = primitive.NewObjectID()
	if checkIn.CheckedInAt.IsZero() {
		checkIn.CheckedInAt = time.Now().UTC()
	}

	result, err := r.daily.InsertOne(ctx, checkIn)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted check-in ID")
	}
	return insertedID, nil
}

// RecentWeekly returns up to limit weekly check-ins, most recent first.
func (r *mongoCheckInRepository) RecentWeekly(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.WeeklyCheckIn, error) {
	var checkIns []domain.WeeklyCheckIn
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "checkedInAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.weekly.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &checkIns); err != nil {
		return nil, err
	}
	return checkIns, nil
}

// RecentDaily returns up to limit daily check-ins, most recent first.
func (r *mongoCheckInRepository) RecentDaily(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.DailyCheckIn, error) {
	var checkIns []domain.DailyCheckIn
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "checkedInAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.daily.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &checkIns); err != nil {
		return nil, err
	}
	return checkIns, nil
}

// EnsureCheckInIndexes creates necessary indexes. Call during startup.
func EnsureCheckInIndexes(ctx context.Context, weekly, daily *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Recency reads are always "for one client, newest first"
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "checkedInAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = weekly.Indexes().CreateMany(ctx, indexes)
	_, _ = daily.Indexes().CreateMany(ctx, indexes)
}
