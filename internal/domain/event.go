package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventSource records who (or what) made a coaching decision.
type EventSource string

const (
	SourceManual    EventSource = "manual"     // Coach entered it by hand
	SourceAI        EventSource = "ai"         // AI suggested, not applied
	SourceAIApplied EventSource = "ai_applied" // AI suggestion applied to live data
	SourceSystem    EventSource = "system"
)

// CoachingEvent is one immutable entry in the per-client decision log.
// Rows are append-only: corrections are recorded as new events referencing
// the old one in their description, never as edits or deletes.
type CoachingEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	EventType   string             `bson:"eventType" json:"eventType"` // e.g. "nutrition_adjust", "supplement_add", "note"
	Area        string             `bson:"area" json:"area"`           // e.g. "nutrition", "training"
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Source      EventSource        `bson:"source" json:"source"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
