// Package srs implements the stage schedule: the ordered list of named wait
// intervals that decides how far into the future each check is pushed.
package srs

import (
	"time"

	"github.com/AxM133/memoryloop/internal/domain"
)

// Streak-policy thresholds for auto-cycling items. An auto-cycling item
// finishes successfully after CorrectStreakTarget consecutive correct
// answers, and is force-finished as failed once WrongCountLimit wrong
// answers have accumulated (wrong answers are never forgiven by later
// correct ones).
const (
	CorrectStreakTarget = 3
	WrongCountLimit     = 2
)

// Schedule is an ordered sequence of stages, index 0 being the shortest
// interval. A schedule always contains at least one stage; constructing an
// empty one is a configuration error. Schedules are immutable and safe for
// concurrent readers.
type Schedule struct {
	stages []domain.SRSStage
}

// NewSchedule creates a Schedule from the given stages.
// Returns domain.ErrEmptySchedule if the list is empty and
// domain.ErrInvalidStage if any interval is not positive.
func NewSchedule(stages []domain.SRSStage) (*Schedule, error) {
	if len(stages) == 0 {
		return nil, domain.ErrEmptySchedule
	}

	for _, st := range stages {
		if st.Seconds <= 0 {
			return nil, domain.ErrInvalidStage
		}
	}

	owned := make([]domain.SRSStage, len(stages))
	copy(owned, stages)

	return &Schedule{stages: owned}, nil
}

// Len returns the number of stages.
func (s *Schedule) Len() int {
	return len(s.stages)
}

// Stages returns a copy of the stage list.
func (s *Schedule) Stages() []domain.SRSStage {
	out := make([]domain.SRSStage, len(s.stages))
	copy(out, s.stages)
	return out
}

// Stage returns the stage at index, clamping index into bounds. Callers are
// expected to clamp themselves, but the accessor is defensive and never
// panics for out-of-range input.
func (s *Schedule) Stage(index int) domain.SRSStage {
	return s.stages[s.ClampIndex(index)]
}

// IntervalSeconds returns the wait interval of the stage at index, clamping
// index into bounds.
func (s *Schedule) IntervalSeconds(index int) int {
	return s.Stage(index).Seconds
}

// Interval returns the wait interval of the stage at index as a Duration.
func (s *Schedule) Interval(index int) time.Duration {
	return time.Duration(s.IntervalSeconds(index)) * time.Second
}

// ClampIndex clamps index into [0, Len()-1].
func (s *Schedule) ClampIndex(index int) int {
	if index < 0 {
		return 0
	}
	if index > len(s.stages)-1 {
		return len(s.stages) - 1
	}
	return index
}

// Advance returns the next stage index after a non-finishing round,
// saturating at the last stage.
func (s *Schedule) Advance(index int) int {
	return s.ClampIndex(index + 1)
}

// NextIndex implements the simple forward/backward stage movement variant:
// when autoCycle is false the index is returned unchanged (the item will
// finish rather than advance); otherwise a correct answer moves one stage
// forward and a wrong answer one stage back, saturating at the bounds.
//
// The store's evaluate transition does not use this variant; auto-cycling
// items follow the streak policy instead (see CorrectStreakTarget and
// WrongCountLimit). NextIndex is kept for callers that want plain
// stage-based movement without streak bookkeeping.
func (s *Schedule) NextIndex(current int, wasCorrect, autoCycle bool) int {
	if !autoCycle {
		return current
	}

	if wasCorrect {
		return s.ClampIndex(current + 1)
	}
	return s.ClampIndex(current - 1)
}
