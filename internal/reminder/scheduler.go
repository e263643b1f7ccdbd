// Package reminder provides an in-process implementation of the store's
// reminder port: one timer per item, armed at the due time, publishing a
// ReminderDueEvent when it fires. It stands in for an OS notification
// service in server deployments.
package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AxM133/memoryloop/internal/events"
)

// minDelay keeps a reminder from firing in the same instant it is armed,
// mirroring the floor applied when a due time is already in the past.
var minDelay = time.Second

// TimerScheduler arms one timer per item id. Scheduling replaces any
// pending timer for the same id; cancelling an id with no pending timer is
// an idempotent no-op.
type TimerScheduler struct {
	mu      sync.Mutex
	timers  map[uuid.UUID]*time.Timer
	dueAt   map[uuid.UUID]time.Time
	emitter events.EventEmitter
	logger  *slog.Logger
	now     func() time.Time
}

// NewTimerScheduler creates a TimerScheduler publishing to the given emitter.
func NewTimerScheduler(emitter events.EventEmitter, logger *slog.Logger) *TimerScheduler {
	return &TimerScheduler{
		timers:  make(map[uuid.UUID]*time.Timer),
		dueAt:   make(map[uuid.UUID]time.Time),
		emitter: emitter,
		logger:  logger.With("component", "timer_scheduler"),
		now:     time.Now,
	}
}

// ScheduleReminder arms a reminder for the item at dueAt, replacing any
// timer already pending for the same id. Due times in the past fire after a
// short floor delay rather than immediately.
func (s *TimerScheduler) ScheduleReminder(ctx context.Context, itemID uuid.UUID, dueAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[itemID]; ok {
		t.Stop()
	}

	delay := dueAt.Sub(s.now())
	if delay < minDelay {
		delay = minDelay
	}

	s.dueAt[itemID] = dueAt
	s.timers[itemID] = time.AfterFunc(delay, func() {
		s.fire(itemID)
	})

	s.logger.Debug("reminder armed",
		"item_id", itemID,
		"due_at", dueAt,
		"delay", delay)

	return nil
}

// CancelReminders disarms the pending reminder for the item, if any.
func (s *TimerScheduler) CancelReminders(ctx context.Context, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[itemID]; ok {
		t.Stop()
		delete(s.timers, itemID)
		delete(s.dueAt, itemID)
		s.logger.Debug("reminder cancelled", "item_id", itemID)
	}

	return nil
}

// Stop disarms every pending reminder. Used on shutdown.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
		delete(s.dueAt, id)
	}
}

// fire publishes the due event for the item and forgets its timer.
func (s *TimerScheduler) fire(itemID uuid.UUID) {
	s.mu.Lock()
	dueAt := s.dueAt[itemID]
	delete(s.timers, itemID)
	delete(s.dueAt, itemID)
	s.mu.Unlock()

	event := events.NewReminderDueEvent(itemID, dueAt, s.now())
	if err := s.emitter.EmitEvent(context.Background(), event); err != nil {
		s.logger.Error("failed to emit reminder event",
			"error", err,
			"item_id", itemID,
			"event_id", event.ID)
		return
	}

	s.logger.Info("reminder fired", "item_id", itemID, "due_at", dueAt)
}
