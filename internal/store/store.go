package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AxM133/memoryloop/internal/domain"
	"github.com/AxM133/memoryloop/internal/domain/match"
	"github.com/AxM133/memoryloop/internal/domain/srs"
)

// EvaluationResult is returned from an answer evaluation. Correct reflects
// the submitted round's own correctness; for an auto-cycling item that has
// just been force-finished by the wrong-count limit, the item's final record
// may still read incorrect even when the triggering round was right.
type EvaluationResult struct {
	Correct    bool   `json:"correct"`
	Expected   string `json:"expected"`
	UserAnswer string `json:"user_answer"`
	Finished   bool   `json:"finished"`
}

// MemoryStore owns the ordered collection of memory items and is its sole
// mutator. All operations are serialized by a single mutex, so a
// read-modify-write on one item never interleaves with another. Reminder
// and persistence side effects are best-effort: the in-memory state stays
// authoritative and consistent even when a port call fails.
type MemoryStore struct {
	mu        sync.Mutex
	items     []domain.MemoryItem
	settings  domain.Settings
	schedule  *srs.Schedule
	reminders ReminderScheduler
	snapshots SnapshotStore
	logger    *slog.Logger
	now       func() time.Time
}

// NewMemoryStore creates a MemoryStore with the given settings and ports.
// It returns an error if the settings are invalid or a required port is nil.
func NewMemoryStore(
	settings domain.Settings,
	reminders ReminderScheduler,
	snapshots SnapshotStore,
	logger *slog.Logger,
) (*MemoryStore, error) {
	if reminders == nil {
		return nil, &StoreError{
			Operation: "create_store",
			Message:   "reminder scheduler cannot be nil",
		}
	}
	if snapshots == nil {
		return nil, &StoreError{
			Operation: "create_store",
			Message:   "snapshot store cannot be nil",
		}
	}

	schedule, err := srs.NewSchedule(settings.Stages)
	if err != nil {
		return nil, NewStoreError("create_store", "invalid stage schedule", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, NewStoreError("create_store", "invalid settings", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &MemoryStore{
		settings:  settings,
		schedule:  schedule,
		reminders: reminders,
		snapshots: snapshots,
		logger:    logger.With("component", "memory_store"),
		now:       time.Now,
	}, nil
}

// Load replaces the in-memory collection and settings with the persisted
// snapshot and re-arms reminders for every unfinished item. A missing
// settings snapshot keeps the settings the store was constructed with.
func (s *MemoryStore) Load(ctx context.Context) error {
	items, settings, err := s.snapshots.LoadAll(ctx)
	if err != nil {
		return NewStoreError("load", "failed to load snapshot", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if settings != nil {
		schedule, err := srs.NewSchedule(settings.Stages)
		if err != nil {
			return NewStoreError("load", "persisted stage schedule is invalid", err)
		}
		if err := settings.Validate(); err != nil {
			return NewStoreError("load", "persisted settings are invalid", err)
		}
		s.settings = *settings
		s.schedule = schedule
	}

	s.items = items

	for _, item := range items {
		if item.IsFinished {
			continue
		}
		s.rearm(ctx, item.ID, item.DueAt, false)
	}

	s.logger.Info("snapshot loaded",
		"item_count", len(items),
		"settings_present", settings != nil)

	return nil
}

// CreateMemo creates a new memory item for the given text, clamping
// stageIndex into schedule bounds and computing the first due time from the
// stage interval. A nil autoCycle falls back to the configured default.
// Blank or whitespace-only text is rejected with domain.ErrEmptyMemoText.
//
// The new item is inserted at the head of the collection; the store keeps
// most-recent-first ordering and never re-sorts elsewhere.
func (s *MemoryStore) CreateMemo(
	ctx context.Context,
	text string,
	stageIndex int,
	autoCycle *bool,
) (*domain.MemoryItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyMemoText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	auto := s.settings.AutoCycleDefault
	if autoCycle != nil {
		auto = *autoCycle
	}

	idx := s.schedule.ClampIndex(stageIndex)
	now := s.now()
	dueAt := now.Add(s.schedule.Interval(idx))

	item, err := domain.NewMemoryItem(text, idx, dueAt, auto)
	if err != nil {
		return nil, NewStoreError("create_memo", "failed to create item", err)
	}

	s.items = append([]domain.MemoryItem{*item}, s.items...)
	s.persist(ctx, "create_memo")

	// Ids are fresh, so the cancel is a defensive no-op before arming.
	s.rearm(ctx, item.ID, dueAt, true)

	s.logger.Info("memo created",
		"item_id", item.ID,
		"stage_index", idx,
		"due_at", dueAt,
		"auto_cycle", auto)

	return item, nil
}

// Evaluate checks the given answer against the item's memo text and applies
// the transition policy selected by the item's AutoCycle flag.
//
// Single-shot items (AutoCycle false) finish immediately after their first
// evaluation regardless of correctness, and no new reminder is armed.
//
// Auto-cycling items follow the streak policy: a correct answer grows the
// streak, a wrong one grows the wrong count and resets the streak (the
// wrong count is never reset). The item finishes successfully once the
// streak reaches srs.CorrectStreakTarget and is force-finished as failed
// once the wrong count reaches srs.WrongCountLimit; the forced-failure
// flag overrides the round's own correctness on the item's final record.
// On any non-finishing round the stage advances forward and the due time is
// recomputed, whether the round was right or wrong: the item gets more time
// either way, until streak or failure cap decides the outcome.
//
// Returns ErrItemNotFound when no item with the given id exists; the
// collection is not mutated in that case and repeated calls report the same
// outcome.
func (s *MemoryStore) Evaluate(
	ctx context.Context,
	id uuid.UUID,
	answer string,
) (*EvaluationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.items {
		if s.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrItemNotFound
	}

	item := &s.items[idx]
	now := s.now()

	correct := match.IsMatch(answer, item.Memo, match.Config{
		Mode:      s.settings.Mode,
		Threshold: s.settings.FuzzyThreshold,
	})
	item.RecordAnswer(now, answer, correct)

	if item.AutoCycle {
		if correct {
			item.CorrectStreak++
		} else {
			item.WrongCount++
			item.CorrectStreak = 0
		}

		if item.CorrectStreak >= srs.CorrectStreakTarget {
			item.IsFinished = true
		}

		if item.WrongCount >= srs.WrongCountLimit {
			item.IsFinished = true
			failed := false
			item.Correct = &failed
		}

		if !item.IsFinished {
			item.StageIndex = s.schedule.Advance(item.StageIndex)
			item.DueAt = now.Add(s.schedule.Interval(item.StageIndex))
		}
	} else {
		item.IsFinished = true
	}

	s.persist(ctx, "evaluate")

	if item.IsFinished {
		s.cancelReminder(ctx, item.ID)
	} else {
		s.rearm(ctx, item.ID, item.DueAt, true)
	}

	s.logger.Info("answer evaluated",
		"item_id", item.ID,
		"correct", correct,
		"finished", item.IsFinished,
		"stage_index", item.StageIndex,
		"correct_streak", item.CorrectStreak,
		"wrong_count", item.WrongCount)

	return &EvaluationResult{
		Correct:    correct,
		Expected:   item.Memo,
		UserAnswer: answer,
		Finished:   item.IsFinished,
	}, nil
}

// HandleExternalAnswer is the single entry point for external glue code
// reacting to a delivered reminder (for example a notification response
// handler). It trims the submitted text, rejects blank input with
// domain.ErrEmptyAnswer and otherwise evaluates it.
func (s *MemoryStore) HandleExternalAnswer(
	ctx context.Context,
	id uuid.UUID,
	text string,
) (*EvaluationResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, domain.ErrEmptyAnswer
	}
	return s.Evaluate(ctx, id, trimmed)
}

// Items returns a copy of the collection, most-recent-first.
func (s *MemoryStore) Items() []domain.MemoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.MemoryItem, len(s.items))
	copy(out, s.items)
	return out
}

// GetByID returns a copy of the item with the given id, or ErrItemNotFound.
func (s *MemoryStore) GetByID(id uuid.UUID) (*domain.MemoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			item := s.items[i]
			return &item, nil
		}
	}
	return nil, ErrItemNotFound
}

// Settings returns the current settings snapshot.
func (s *MemoryStore) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.settings
	out.Stages = make([]domain.SRSStage, len(s.settings.Stages))
	copy(out.Stages, s.settings.Stages)
	return out
}

// UpdateSettings validates and swaps the settings snapshot as a whole, then
// persists. Items keep their current stage indexes; accessors clamp
// defensively if the new schedule is shorter.
func (s *MemoryStore) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	schedule, err := srs.NewSchedule(settings.Stages)
	if err != nil {
		return NewStoreError("update_settings", "invalid stage schedule", err)
	}
	if err := settings.Validate(); err != nil {
		return NewStoreError("update_settings", "invalid settings", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	s.schedule = schedule
	s.persist(ctx, "update_settings")

	s.logger.Info("settings updated",
		"stage_count", len(settings.Stages),
		"mode", settings.Mode,
		"fuzzy_threshold", settings.FuzzyThreshold,
		"auto_cycle_default", settings.AutoCycleDefault)

	return nil
}

// persist hands the whole snapshot to the persistence port. Failures are
// logged and swallowed: the in-memory state stays authoritative and the
// operation that triggered the save has already succeeded.
// Callers must hold s.mu.
func (s *MemoryStore) persist(ctx context.Context, operation string) {
	items := make([]domain.MemoryItem, len(s.items))
	copy(items, s.items)

	if err := s.snapshots.SaveAll(ctx, items, s.settings); err != nil {
		s.logger.Error("failed to persist snapshot",
			"error", err,
			"operation", operation,
			"item_count", len(items))
	}
}

// rearm cancels any pending reminder for the item and arms a new one at
// dueAt. When cancelFirst is false the stale-cancel step is skipped (used on
// startup re-arming, where nothing can be pending yet). Port failures are
// logged, never propagated.
func (s *MemoryStore) rearm(ctx context.Context, id uuid.UUID, dueAt time.Time, cancelFirst bool) {
	if cancelFirst {
		s.cancelReminder(ctx, id)
	}

	if err := s.reminders.ScheduleReminder(ctx, id, dueAt); err != nil {
		s.logger.Error("failed to schedule reminder",
			"error", err,
			"item_id", id,
			"due_at", dueAt)
	}
}

// cancelReminder disarms pending reminders for the item, logging failures.
func (s *MemoryStore) cancelReminder(ctx context.Context, id uuid.UUID) {
	if err := s.reminders.CancelReminders(ctx, id); err != nil {
		s.logger.Error("failed to cancel reminders",
			"error", err,
			"item_id", id)
	}
}
