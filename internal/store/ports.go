package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AxM133/memoryloop/internal/domain"
)

// ReminderScheduler is the port through which the store arms and disarms
// due-time notifications for an item. Implementations may involve I/O to an
// OS notification service; the store treats both calls as best-effort and
// never blocks correctness on their outcome. At-least-once semantics are
// acceptable: the store always cancels before scheduling, so duplicates
// are harmless, and cancelling an already-cancelled reminder is a no-op.
type ReminderScheduler interface {
	// ScheduleReminder arms a single reminder for the item at dueAt,
	// replacing any reminder previously armed for the same item.
	ScheduleReminder(ctx context.Context, itemID uuid.UUID, dueAt time.Time) error

	// CancelReminders disarms every pending reminder for the item.
	// Cancelling an item with no pending reminder is not an error.
	CancelReminders(ctx context.Context, itemID uuid.UUID) error
}

// SnapshotStore is the persistence port. Semantics are whole-collection
// snapshots: the store hands over the full item list and settings after
// every mutating operation and expects the previous snapshot to be
// replaced. There is no partial or incremental persistence contract.
type SnapshotStore interface {
	// LoadAll returns the persisted items (most-recent-first) and settings.
	// A missing settings snapshot is reported with a nil Settings pointer,
	// not an error; the caller falls back to its configured defaults.
	LoadAll(ctx context.Context) ([]domain.MemoryItem, *domain.Settings, error)

	// SaveAll replaces the persisted snapshot with the given items and
	// settings.
	SaveAll(ctx context.Context, items []domain.MemoryItem, settings domain.Settings) error
}
