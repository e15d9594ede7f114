package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramStatus type for training program lifecycle
type ProgramStatus string

const (
	ProgramStatusActive    ProgramStatus = "active"
	ProgramStatusPaused    ProgramStatus = "paused"
	ProgramStatusCompleted ProgramStatus = "completed"
)

// TrainingProgram is the structured plan a coach assigns to a client.
type TrainingProgram struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"` // Denormalized for easier query/auth
	Name      string             `bson:"name" json:"name"`
	Status    ProgramStatus      `bson:"status" json:"status"`
	Blocks    []ProgramBlock     `bson:"blocks,omitempty" json:"blocks,omitempty"` // Ordered by Sequence
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProgramBlock is one phase of a program (e.g. "Hypertrophy", 4 weeks).
type ProgramBlock struct {
	Name          string `bson:"name" json:"name"`
	DurationWeeks int    `bson:"durationWeeks" json:"durationWeeks"`
	Sequence      int    `bson:"sequence" json:"sequence"`
}

// WorkoutLog records one completed training session.
type WorkoutLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	ProgramID   *primitive.ObjectID `bson:"programId,omitempty" json:"programId,omitempty"`
	SessionName string             `bson:"sessionName" json:"sessionName"` // e.g. "Day 1: Upper Body"
	Exercises   []ExerciseLog      `bson:"exercises,omitempty" json:"exercises,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	PerformedAt time.Time          `bson:"performedAt" json:"performedAt"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// ExerciseLog groups the set-level entries for one exercise within a session.
type ExerciseLog struct {
	ExerciseName string   `bson:"exerciseName" json:"exerciseName"`
	Sets         []SetLog `bson:"sets,omitempty" json:"sets,omitempty"`
}

// SetLog is a single performed set.
type SetLog struct {
	Reps     int      `bson:"reps" json:"reps"`
	WeightKg *float64 `bson:"weightKg,omitempty" json:"weightKg,omitempty"` // nil for bodyweight work
	RPE      *float64 `bson:"rpe,omitempty" json:"rpe,omitempty"`
}
