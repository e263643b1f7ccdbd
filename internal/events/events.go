package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReminderDueEvent announces that a memory item's due time has arrived and
// the user should be prompted to recall it.
type ReminderDueEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// ItemID is the memory item whose check is due
	ItemID uuid.UUID `json:"item_id"`

	// DueAt is the due time the reminder was armed for
	DueAt time.Time `json:"due_at"`

	// FiredAt is the timestamp when the reminder actually fired
	FiredAt time.Time `json:"fired_at"`
}

// NewReminderDueEvent creates a ReminderDueEvent for the given item.
func NewReminderDueEvent(itemID uuid.UUID, dueAt, firedAt time.Time) *ReminderDueEvent {
	return &ReminderDueEvent{
		ID:      uuid.New(),
		ItemID:  itemID,
		DueAt:   dueAt,
		FiredAt: firedAt,
	}
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ReminderDueEvent) error
}

// EventHandlerFunc adapts a plain function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *ReminderDueEvent) error

// HandleEvent implements EventHandler.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *ReminderDueEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows the scheduler to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *ReminderDueEvent) error
}
