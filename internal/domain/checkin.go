package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeeklyCheckIn is the client's self-reported weekly review.
// Subjective 1-10 scales are pointers: a skipped question is nil, not zero,
// so averages can skip it instead of dragging the mean down.
type WeeklyCheckIn struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	WeightKg    *float64           `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	EnergyLevel *int               `bson:"energyLevel,omitempty" json:"energyLevel,omitempty"` // 1-10
	SleepRating *int               `bson:"sleepRating,omitempty" json:"sleepRating,omitempty"` // 1-10
	StressLevel *int               `bson:"stressLevel,omitempty" json:"stressLevel,omitempty"` // 1-10
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CheckedInAt time.Time          `bson:"checkedInAt" json:"checkedInAt"`
}

// DailyCheckIn is the lightweight daily log (weight, habits).
type DailyCheckIn struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	WeightKg    *float64           `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	Steps       *int               `bson:"steps,omitempty" json:"steps,omitempty"`
	SleepHours  *float64           `bson:"sleepHours,omitempty" json:"sleepHours,omitempty"`
	CaloriesEst *int               `bson:"caloriesEst,omitempty" json:"caloriesEst,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CheckedInAt time.Time          `bson:"checkedInAt" json:"checkedInAt"`
}
