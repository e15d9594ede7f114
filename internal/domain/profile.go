package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientProfile holds the coaching-relevant body stats for a client.
// Every measurement is optional: new clients typically fill these in over time,
// so consumers must tolerate nil values on any field.
type ClientProfile struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`
	BirthDate     *time.Time         `bson:"birthDate,omitempty" json:"birthDate,omitempty"`
	HeightCm      *float64           `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	CurrentWeight *float64           `bson:"currentWeightKg,omitempty" json:"currentWeightKg,omitempty"`
	GoalWeight    *float64           `bson:"goalWeightKg,omitempty" json:"goalWeightKg,omitempty"`
	ActivityLevel string             `bson:"activityLevel,omitempty" json:"activityLevel,omitempty"` // e.g. "sedentary", "moderate", "very_active"
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IntakeForm captures the one-time onboarding questionnaire.
// A client may not have completed intake yet; the whole record is nullable.
type IntakeForm struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID            primitive.ObjectID `bson:"clientId" json:"clientId"`
	Goals               string             `bson:"goals,omitempty" json:"goals,omitempty"`
	MedicalFlags        string             `bson:"medicalFlags,omitempty" json:"medicalFlags,omitempty"`
	DietaryRestrictions string             `bson:"dietaryRestrictions,omitempty" json:"dietaryRestrictions,omitempty"`
	WeeklySchedule      string             `bson:"weeklySchedule,omitempty" json:"weeklySchedule,omitempty"`
	SubmittedAt         time.Time          `bson:"submittedAt" json:"submittedAt"`
}
