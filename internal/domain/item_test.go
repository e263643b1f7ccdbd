package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewMemoryItem(t *testing.T) {
	t.Parallel() // Enable parallel execution

	dueAt := time.Now().Add(10 * time.Second)

	item, err := NewMemoryItem("the kernel version", 1, dueAt, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if item.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if item.Memo != "the kernel version" {
		t.Errorf("Expected memo text to be kept, got %q", item.Memo)
	}
	if item.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}
	if !item.DueAt.Equal(dueAt) {
		t.Errorf("Expected due time %v, got %v", dueAt, item.DueAt)
	}

	// Freshly created items are never finished, regardless of AutoCycle.
	if item.IsFinished {
		t.Error("Expected fresh item to not be finished")
	}
	if item.CorrectStreak != 0 || item.WrongCount != 0 {
		t.Error("Expected counters to start at zero")
	}
	if item.AnsweredAt != nil || item.UserAnswer != nil || item.Correct != nil {
		t.Error("Expected no answer record on a fresh item")
	}

	// Blank memo text is a caller error.
	if _, err := NewMemoryItem("   \t\n", 0, dueAt, false); err != ErrEmptyMemoText {
		t.Errorf("Expected ErrEmptyMemoText, got %v", err)
	}

	// Negative stage indexes are rejected; clamping is the store's job.
	if _, err := NewMemoryItem("memo", -1, dueAt, false); err != ErrNegativeStageIndex {
		t.Errorf("Expected ErrNegativeStageIndex, got %v", err)
	}
}

func TestRecordAnswerOverwrites(t *testing.T) {
	t.Parallel() // Enable parallel execution

	item, err := NewMemoryItem("42", 0, time.Now(), true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	first := time.Now()
	item.RecordAnswer(first, "41", false)

	if item.AnsweredAt == nil || !item.AnsweredAt.Equal(first) {
		t.Error("Expected answered time to be recorded")
	}
	if item.UserAnswer == nil || *item.UserAnswer != "41" {
		t.Error("Expected user answer to be recorded")
	}
	if item.Correct == nil || *item.Correct {
		t.Error("Expected incorrect answer to be recorded")
	}

	// The latest-answer record is overwritten, not appended.
	second := first.Add(time.Minute)
	item.RecordAnswer(second, "42", true)

	if !item.AnsweredAt.Equal(second) {
		t.Error("Expected answered time to be overwritten")
	}
	if *item.UserAnswer != "42" || !*item.Correct {
		t.Error("Expected answer record to be overwritten")
	}
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	valid := DefaultSettings()
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected default settings to be valid, got %v", err)
	}

	testCases := []struct {
		name     string
		mutate   func(*Settings)
		expected error
	}{
		{
			name:     "empty schedule",
			mutate:   func(s *Settings) { s.Stages = nil },
			expected: ErrEmptySchedule,
		},
		{
			name:     "zero interval stage",
			mutate:   func(s *Settings) { s.Stages[0].Seconds = 0 },
			expected: ErrInvalidStage,
		},
		{
			name:     "unknown mode",
			mutate:   func(s *Settings) { s.Mode = "sloppy" },
			expected: ErrInvalidMatchMode,
		},
		{
			name:     "threshold above one",
			mutate:   func(s *Settings) { s.FuzzyThreshold = 1.5 },
			expected: ErrInvalidThreshold,
		},
		{
			name:     "negative threshold",
			mutate:   func(s *Settings) { s.FuzzyThreshold = -0.1 },
			expected: ErrInvalidThreshold,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.mutate(&s)
			if err := s.Validate(); err != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, err)
			}
		})
	}
}
