package srs

import (
	"testing"
	"time"

	"github.com/AxM133/memoryloop/internal/domain"
)

func testStages() []domain.SRSStage {
	return []domain.SRSStage{
		{Title: "10 sec", Seconds: 10},
		{Title: "1 min", Seconds: 60},
		{Title: "10 min", Seconds: 600},
	}
}

func TestNewSchedule(t *testing.T) {
	t.Parallel() // Enable parallel execution

	s, err := NewSchedule(testStages())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("Expected 3 stages, got %d", s.Len())
	}

	// An empty schedule is a configuration error, not a runtime condition.
	if _, err := NewSchedule(nil); err != domain.ErrEmptySchedule {
		t.Errorf("Expected ErrEmptySchedule, got %v", err)
	}

	if _, err := NewSchedule([]domain.SRSStage{{Title: "bad", Seconds: 0}}); err != domain.ErrInvalidStage {
		t.Errorf("Expected ErrInvalidStage, got %v", err)
	}
}

func TestScheduleIsDetachedFromInput(t *testing.T) {
	t.Parallel() // Enable parallel execution

	stages := testStages()
	s, err := NewSchedule(stages)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	stages[0].Seconds = 9999
	if got := s.IntervalSeconds(0); got != 10 {
		t.Errorf("Expected schedule to own its stages, got interval %d", got)
	}
}

func TestClampIndex(t *testing.T) {
	t.Parallel() // Enable parallel execution
	s, _ := NewSchedule(testStages())

	testCases := []struct {
		index    int
		expected int
	}{
		{index: -5, expected: 0},
		{index: -1, expected: 0},
		{index: 0, expected: 0},
		{index: 1, expected: 1},
		{index: 2, expected: 2},
		{index: 3, expected: 2},
		{index: 100, expected: 2},
	}

	for _, tc := range testCases {
		if got := s.ClampIndex(tc.index); got != tc.expected {
			t.Errorf("ClampIndex(%d) = %d, want %d", tc.index, got, tc.expected)
		}
	}
}

func TestIntervalAccessorsClamp(t *testing.T) {
	t.Parallel() // Enable parallel execution
	s, _ := NewSchedule(testStages())

	if got := s.IntervalSeconds(-1); got != 10 {
		t.Errorf("IntervalSeconds(-1) = %d, want 10", got)
	}
	if got := s.IntervalSeconds(99); got != 600 {
		t.Errorf("IntervalSeconds(99) = %d, want 600", got)
	}
	if got := s.Interval(1); got != 60*time.Second {
		t.Errorf("Interval(1) = %v, want 1m", got)
	}
}

func TestAdvance(t *testing.T) {
	t.Parallel() // Enable parallel execution
	s, _ := NewSchedule(testStages())

	if got := s.Advance(0); got != 1 {
		t.Errorf("Advance(0) = %d, want 1", got)
	}
	// Saturates at the last stage.
	if got := s.Advance(2); got != 2 {
		t.Errorf("Advance(2) = %d, want 2", got)
	}
}

func TestNextIndex(t *testing.T) {
	t.Parallel() // Enable parallel execution
	s, _ := NewSchedule(testStages())

	testCases := []struct {
		name       string
		current    int
		wasCorrect bool
		autoCycle  bool
		expected   int
	}{
		{name: "no auto-cycle leaves index unchanged on correct", current: 1, wasCorrect: true, autoCycle: false, expected: 1},
		{name: "no auto-cycle leaves index unchanged on wrong", current: 1, wasCorrect: false, autoCycle: false, expected: 1},
		{name: "correct moves forward", current: 0, wasCorrect: true, autoCycle: true, expected: 1},
		{name: "correct saturates at last stage", current: 2, wasCorrect: true, autoCycle: true, expected: 2},
		{name: "wrong moves backward", current: 2, wasCorrect: false, autoCycle: true, expected: 1},
		{name: "wrong saturates at first stage", current: 0, wasCorrect: false, autoCycle: true, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.NextIndex(tc.current, tc.wasCorrect, tc.autoCycle); got != tc.expected {
				t.Errorf("NextIndex(%d, %v, %v) = %d, want %d",
					tc.current, tc.wasCorrect, tc.autoCycle, got, tc.expected)
			}
		})
	}
}
