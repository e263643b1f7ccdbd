package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Item-specific validation errors
var (
	// ErrEmptyItemID is returned when a memory item ID is empty or nil.
	ErrEmptyItemID = errors.New("memory item ID cannot be empty")

	// ErrEmptyMemoText is returned when the memo text is empty or
	// whitespace-only. Blank memos are a caller error, not something the
	// store silently accepts.
	ErrEmptyMemoText = errors.New("memo text cannot be empty")

	// ErrEmptyAnswer is returned when a submitted answer is empty after
	// trimming surrounding whitespace.
	ErrEmptyAnswer = errors.New("answer cannot be empty")

	// ErrNegativeStageIndex is returned when a stage index is negative.
	ErrNegativeStageIndex = errors.New("stage index cannot be negative")
)

// MemoryItem represents one memorization attempt lifecycle: the memo text to
// be recalled, its position in the stage schedule, and the latest-answer
// record. ID, Memo and CreatedAt are immutable after creation; the remaining
// fields are mutated only by the store's evaluate transition.
//
// The latest-answer fields (AnsweredAt, UserAnswer, Correct) are nil until
// the first evaluation and overwritten, not appended, on each subsequent one.
// CorrectStreak and WrongCount are meaningful only when AutoCycle is true.
type MemoryItem struct {
	ID        uuid.UUID `json:"id"`
	Memo      string    `json:"memo"`
	CreatedAt time.Time `json:"created_at"`

	StageIndex int       `json:"stage_index"`
	DueAt      time.Time `json:"due_at"`

	AnsweredAt *time.Time `json:"answered_at,omitempty"`
	UserAnswer *string    `json:"user_answer,omitempty"`
	Correct    *bool      `json:"correct,omitempty"`

	AutoCycle     bool `json:"auto_cycle"`
	CorrectStreak int  `json:"correct_streak"`
	WrongCount    int  `json:"wrong_count"`
	IsFinished    bool `json:"is_finished"`
}

// NewMemoryItem creates a new MemoryItem with the given memo text, stage
// index and due time. It generates a new UUID for the item ID and sets the
// creation timestamp. Freshly created items are never finished, regardless
// of AutoCycle; counters start at zero.
// Returns an error if validation fails.
func NewMemoryItem(memo string, stageIndex int, dueAt time.Time, autoCycle bool) (*MemoryItem, error) {
	item := &MemoryItem{
		ID:         uuid.New(),
		Memo:       memo,
		CreatedAt:  time.Now().UTC(),
		StageIndex: stageIndex,
		DueAt:      dueAt,
		AutoCycle:  autoCycle,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the MemoryItem has valid data.
// Returns an error if any field fails validation.
func (i *MemoryItem) Validate() error {
	if i.ID == uuid.Nil {
		return ErrEmptyItemID
	}

	if strings.TrimSpace(i.Memo) == "" {
		return ErrEmptyMemoText
	}

	if i.StageIndex < 0 {
		return ErrNegativeStageIndex
	}

	return nil
}

// RecordAnswer overwrites the latest-answer record with the given answer
// and its correctness at the given time. It does not apply any transition
// policy; that is the store's responsibility.
func (i *MemoryItem) RecordAnswer(answeredAt time.Time, answer string, correct bool) {
	i.AnsweredAt = &answeredAt
	i.UserAnswer = &answer
	i.Correct = &correct
}
