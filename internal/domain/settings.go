package domain

import "errors"

// MatchMode selects how a recalled answer is compared against the memo text.
type MatchMode string

// Possible match modes
const (
	MatchModeStrict MatchMode = "strict"
	MatchModeFuzzy  MatchMode = "fuzzy"
)

// Settings validation errors
var (
	ErrInvalidMatchMode = errors.New("invalid match mode")
	ErrInvalidThreshold = errors.New("fuzzy threshold must be between 0.0 and 1.0")
	ErrEmptySchedule    = errors.New("stage schedule must contain at least one entry")
	ErrInvalidStage     = errors.New("stage interval must be positive")
)

// SRSStage is one entry of the stage schedule: a display title and the wait
// interval in seconds before the next check.
type SRSStage struct {
	Title   string `json:"title"`
	Seconds int    `json:"seconds"`
}

// Settings holds the process-wide trainer configuration: the stage schedule,
// the answer-matching mode and threshold, and the default auto-cycle flag
// applied to new items that do not specify one. The store holds Settings as
// an immutable snapshot that is swapped as a whole on update, never mutated
// field by field.
type Settings struct {
	Stages           []SRSStage `json:"stages"`
	Mode             MatchMode  `json:"mode"`
	FuzzyThreshold   float64    `json:"fuzzy_threshold"`
	AutoCycleDefault bool       `json:"auto_cycle_default"`
}

// DefaultSettings returns the settings a fresh installation starts with.
func DefaultSettings() Settings {
	return Settings{
		Stages: []SRSStage{
			{Title: "10 sec", Seconds: 10},
			{Title: "1 min", Seconds: 60},
			{Title: "10 min", Seconds: 600},
		},
		Mode:             MatchModeFuzzy,
		FuzzyThreshold:   0.82,
		AutoCycleDefault: true,
	}
}

// Validate checks that the settings describe a usable configuration.
// An empty schedule or an out-of-range threshold is a configuration error
// and must be rejected here, never deep inside a transition.
func (s Settings) Validate() error {
	if len(s.Stages) == 0 {
		return ErrEmptySchedule
	}

	for _, st := range s.Stages {
		if st.Seconds <= 0 {
			return ErrInvalidStage
		}
	}

	if !isValidMatchMode(s.Mode) {
		return ErrInvalidMatchMode
	}

	if s.FuzzyThreshold < 0 || s.FuzzyThreshold > 1 {
		return ErrInvalidThreshold
	}

	return nil
}

// isValidMatchMode checks if the given mode is a valid MatchMode.
func isValidMatchMode(mode MatchMode) bool {
	switch mode {
	case MatchModeStrict, MatchModeFuzzy:
		return true
	default:
		return false
	}
}
