package events

import (
	"context"
	"time"

	"github.com/milosz-sonski/training-plans-api/internal/domain"
)

// EventType identifies a plan change
type EventType string

// Plan change event types
const (
	PlanCreated EventType = "training_plan.created"
	PlanUpdated EventType = "training_plan.updated"
	PlanDeleted EventType = "training_plan.deleted"
)

// Event describes a change to the plan collection. Plan is nil for deletions.
type Event struct {
	Type       EventType            `json:"type"`
	PlanID     int64                `json:"planId"`
	Plan       *domain.TrainingPlan `json:"plan,omitempty"`
	OccurredAt time.Time            `json:"occurredAt"`
}

// NewEvent creates an event stamped with the current UTC time
func NewEvent(eventType EventType, planID int64, plan *domain.TrainingPlan) Event {
	return Event{
		Type:       eventType,
		PlanID:     planID,
		Plan:       plan,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers plan change events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher discards every event. It is used when no broker is configured.
type NoopPublisher struct{}

// Publish implements Publisher
func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher
func (NoopPublisher) Close() error { return nil }
