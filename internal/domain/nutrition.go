package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NutritionTargets holds the client's current daily macro targets.
// There is at most one current row per client; the Applier overwrites it
// in place and the audit trail lives in the coaching event log instead.
type NutritionTargets struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	Calories  int                `bson:"calories" json:"calories"`
	ProteinG  int                `bson:"proteinG" json:"proteinG"`
	CarbsG    int                `bson:"carbsG" json:"carbsG"`
	FatsG     int                `bson:"fatsG" json:"fatsG"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Supplement is one supplement recommendation attached to a client.
type Supplement struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID primitive.ObjectID `bson:"clientId" json:"clientId"`
	Name     string             `bson:"name" json:"name"`
	Dosage   string             `bson:"dosage" json:"dosage"`                     // e.g. "2000 IU"
	Timing   string             `bson:"timing,omitempty" json:"timing,omitempty"` // e.g. "morning"
	AddedAt  time.Time          `bson:"addedAt" json:"addedAt"`
}
