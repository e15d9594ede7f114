package service

import (
	"context"
	"errors"

	"evotion/coaching-engine/internal/domain"
	"evotion/coaching-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventService exposes the coaching event log to the API layer: manual
// decisions written by the coach and the recent history read for review.
// AI-applied events are written only by the ApplyService, inside its
// transaction; they have no path through here.
type EventService interface {
	AppendManual(ctx context.Context, clientID primitive.ObjectID, area, title, description string) (*domain.CoachingEvent, error)
	Recent(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.CoachingEvent, error)
}

// eventService implements the EventService interface.
type eventService struct {
	eventRepo repository.EventRepository
}

// NewEventService creates a new instance of eventService.
func NewEventService(eventRepo repository.EventRepository) EventService {
	return &eventService{eventRepo: eventRepo}
}

// AppendManual records a decision the coach made by hand.
func (s *eventService) AppendManual(ctx context.Context, clientID primitive.ObjectID, area, title, description string) (*domain.CoachingEvent, error) {
	if title == "" {
		return nil, errors.New("event title is required")
	}
	event := &domain.CoachingEvent{
		ClientID:    clientID,
		EventType:   "note",
		Area:        areaOrDefault(area, "general"),
		Title:       title,
		Description: description,
		Source:      domain.SourceManual,
	}
	return s.eventRepo.Append(ctx, event)
}

// Recent returns the latest events for a client, most recent first.
func (s *eventService) Recent(ctx context.Context, clientID primitive.ObjectID, limit int) ([]domain.CoachingEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = CoachingHistoryWindow
	}
	return s.eventRepo.Recent(ctx, clientID, limit)
}
