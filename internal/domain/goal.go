package domain

import (
	"fmt"
	"regexp"
	"time"
)

// GoalType is the closed set of race distances a goal can target.
type GoalType string

const (
	GoalMarathon     GoalType = "Marathon"
	GoalHalfMarathon GoalType = "Half Marathon"
	Goal10K          GoalType = "10K"
	Goal5K           GoalType = "5K"
	GoalCustom       GoalType = "Custom"
)

// fixedTargets maps every non-custom goal type to its distance in kilometers.
var fixedTargets = map[GoalType]float64{
	GoalMarathon:     42.2,
	GoalHalfMarathon: 21.1,
	Goal10K:          10.0,
	Goal5K:           5.0,
}

// FixedTarget returns the fixed distance for the goal type, or false for Custom
// (and for unknown types).
func (t GoalType) FixedTarget() (float64, bool) {
	km, ok := fixedTargets[t]
	return km, ok
}

// IsValid reports whether t is one of the known goal types.
func (t GoalType) IsValid() bool {
	if t == GoalCustom {
		return true
	}
	_, ok := fixedTargets[t]
	return ok
}

// Goal represents a target race distance with a deadline the athlete is
// training toward. Goals are immutable after creation; an edit is modeled
// as delete + recreate.
type Goal struct {
	ID       string   `json:"id"`
	Type     GoalType `json:"type"`
	Target   float64  `json:"target"`   // kilometers
	GoalTime string   `json:"goalTime"` // HH:MM:SS
	Notes    string   `json:"notes,omitempty"`
	EndDate  string   `json:"endDate"` // ISO date (YYYY-MM-DD)
}

// goalTimePattern matches a clock duration HH:MM:SS with HH in 00-23.
var goalTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$`)

const isoDateLayout = "2006-01-02"

// NewGoal builds a goal with its derived fields applied: non-custom types get
// their fixed target regardless of the submitted value, and a missing end date
// defaults to one month from now.
func NewGoal(id string, goalType GoalType, target float64, goalTime, notes, endDate string, now time.Time) Goal {
	if km, ok := goalType.FixedTarget(); ok {
		target = km
	}
	if endDate == "" {
		endDate = now.AddDate(0, 1, 0).Format(isoDateLayout)
	}
	if goalTime == "" {
		goalTime = "00:00:00"
	}
	return Goal{
		ID:       id,
		Type:     goalType,
		Target:   target,
		GoalTime: goalTime,
		Notes:    notes,
		EndDate:  endDate,
	}
}

// Validate checks the goal's field invariants.
func (g Goal) Validate() error {
	if g.ID == "" {
		return &ValidationError{Field: "id", Message: "goal id is required"}
	}
	if !g.Type.IsValid() {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown goal type %q", g.Type)}
	}
	if km, ok := g.Type.FixedTarget(); ok {
		if g.Target != km {
			return &ValidationError{Field: "target", Message: fmt.Sprintf("target for %s is fixed at %.1f km", g.Type, km)}
		}
	} else if g.Target <= 0 {
		return &ValidationError{Field: "target", Message: "custom goal distance must be greater than zero"}
	}
	if !goalTimePattern.MatchString(g.GoalTime) {
		return &ValidationError{Field: "goalTime", Message: "goal time must be HH:MM:SS"}
	}
	if g.EndDate != "" {
		if _, err := time.Parse(isoDateLayout, g.EndDate); err != nil {
			return &ValidationError{Field: "endDate", Message: "end date must be YYYY-MM-DD"}
		}
	}
	return nil
}
