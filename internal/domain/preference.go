package domain

// ValidationError describes a rejected write with a field-level message.
// Violations are rejected, never silently coerced.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Weekdays lists the recognized weekday tokens, Monday first.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// IsWeekday reports whether day is one of the recognized weekday tokens.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// Preference captures per-goal scheduling constraints used to generate a plan.
// Its ID equals the ID of the goal it belongs to (1:1, no separate identity).
type Preference struct {
	ID                  string   `json:"id"`
	AvailableDays       []string `json:"availableDays"`
	PreferredLongRunDay string   `json:"preferredLongRunDay"`
	StrengthTraining    bool     `json:"strengthTraining"`
}

// Validate enforces the preference invariants:
//   - at least one available day;
//   - every day a recognized weekday token;
//   - the preferred long run day among the available days;
//   - at least 2 distinct days when strength training is selected.
func (p Preference) Validate() error {
	if len(p.AvailableDays) == 0 {
		return &ValidationError{Field: "availableDays", Message: "Please select at least one available day."}
	}
	distinct := make(map[string]struct{}, len(p.AvailableDays))
	for _, day := range p.AvailableDays {
		if !IsWeekday(day) {
			return &ValidationError{Field: "availableDays", Message: "Unknown day: " + day}
		}
		distinct[day] = struct{}{}
	}
	if p.StrengthTraining && len(distinct) < 2 {
		return &ValidationError{
			Field:   "strengthTraining",
			Message: "When strength training is selected, you must choose at least 2 available days.",
		}
	}
	if _, ok := distinct[p.PreferredLongRunDay]; !ok {
		return &ValidationError{
			Field:   "preferredLongRunDay",
			Message: "The preferred long run day must be one of the available days.",
		}
	}
	return nil
}
