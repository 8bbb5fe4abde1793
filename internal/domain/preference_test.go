package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceValidate(t *testing.T) {
	tests := []struct {
		name  string
		pref  Preference
		field string // empty means valid
	}{
		{
			name: "valid single day without strength",
			pref: Preference{ID: "g1", AvailableDays: []string{"Sun"}, PreferredLongRunDay: "Sun"},
		},
		{
			name: "valid strength with two days",
			pref: Preference{ID: "g1", AvailableDays: []string{"Sat", "Sun"}, PreferredLongRunDay: "Sun", StrengthTraining: true},
		},
		{
			name:  "no available days",
			pref:  Preference{ID: "g1", AvailableDays: nil, PreferredLongRunDay: ""},
			field: "availableDays",
		},
		{
			name:  "strength with one day",
			pref:  Preference{ID: "g1", AvailableDays: []string{"Sat"}, PreferredLongRunDay: "Sat", StrengthTraining: true},
			field: "strengthTraining",
		},
		{
			name:  "strength with one distinct day repeated",
			pref:  Preference{ID: "g1", AvailableDays: []string{"Sat", "Sat"}, PreferredLongRunDay: "Sat", StrengthTraining: true},
			field: "strengthTraining",
		},
		{
			name:  "long run day not available",
			pref:  Preference{ID: "g1", AvailableDays: []string{"Mon", "Wed"}, PreferredLongRunDay: "Sun"},
			field: "preferredLongRunDay",
		},
		{
			name:  "empty long run day",
			pref:  Preference{ID: "g1", AvailableDays: []string{"Mon"}, PreferredLongRunDay: ""},
			field: "preferredLongRunDay",
		},
		{
			name:  "unknown weekday token",
			pref:  Preference{ID: "g1", AvailableDays: []string{"Tues"}, PreferredLongRunDay: "Tues"},
			field: "availableDays",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pref.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestIsWeekday(t *testing.T) {
	for _, day := range Weekdays {
		assert.True(t, IsWeekday(day))
	}
	assert.False(t, IsWeekday("Monday"))
	assert.False(t, IsWeekday(""))
}
