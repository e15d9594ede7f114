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
	programCollectionName    = "training_programs"
	workoutLogCollectionName = "workout_logs"
)

// mongoProgramRepository implements repository.ProgramRepository.
type mongoProgramRepository struct {
	programs    *mongo.Collection
	workoutLogs *mongo.Collection
}

// NewMongoProgramRepository creates a new program/workout-log repository.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		programs:    db.Collection(programCollectionName),
		workoutLogs: db.Collection(workoutLogCollectionName),
	}
}

// Create inserts a new training program.
func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.TrainingProgram) (primitive.ObjectID, error) {
	if program.ClientID == primitive.NilObjectID || program.CoachID == primitive.NilObjectID || program.Name == "" {
		return primitive.NilObjectID, errors.New("program requires clientId, coachId, and name")
	}
	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	if program.Status == "" {
		program.Status = domain.ProgramStatusActive
	}

	result, err := r.programs.InsertOne(ctx, program)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted program ID")
	}
	return insertedID, nil
}

// GetActiveProgram retrieves the client's active program, newest first when
// several are marked active (data entry mistakes happen).
func (r *mongoProgramRepository) GetActiveProgram(ctx context.Context, clientID primitive.ObjectID) (*domain.TrainingProgram, error) {
	var program domain.TrainingProgram
	filter := bson.M{"clientId": clientID, "status": domain.ProgramStatusActive}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	err := r.programs.FindOne(ctx, filter, findOptions).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// CreateWorkoutLog inserts a completed session log.
func (r *mongoProgramRepository) CreateWorkoutLog(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error) {
	if log.ClientID == primitive.NilObjectID || log.SessionName == "" {
		return primitive.NilObjectID, errors.New("workout log requires clientId and sessionName")
	}
	log.ID = primitive.NewObjectID()
	log.CreatedAt = time.Now().UTC()
	if log.PerformedAt.IsZero() {
		log.PerformedAt = log.CreatedAt
	}

	result, err := r.workoutLogs.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout log ID")
	}
	return insertedID, nil
}

// RecentWorkoutLogs returns up to limit completed sessions, most recent first.
func (r *mongoProgramRepository) RecentWorkoutLogs(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.WorkoutLog, error) {
	var logs []domain.WorkoutLog
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "performedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.workoutLogs.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// EnsureProgramIndexes creates necessary indexes. Call during startup.
func EnsureProgramIndexes(ctx context.Context, programs, workoutLogs *mongo.Collection) {
	programIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}},
			Options: options.Index(),
		},
	}
	logIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "performedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = programs.Indexes().CreateMany(ctx, programIndexes)
	_, _ = workoutLogs.Indexes().CreateMany(ctx, logIndexes)
}
