package domain

import (
	"fmt"
	"math"
)

// WorkoutData is one synced activity from the athlete's Strava history, in
// display units: distance in kilometers, times in minutes, pace in min/km.
type WorkoutData struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Distance    float64   `json:"distance"`     // kilometers
	MovingTime  float64   `json:"moving_time"`  // minutes
	ElapsedTime float64   `json:"elapsed_time"` // minutes
	Type        string    `json:"type"`         // e.g. "Run", "Ride"
	StartDate   string    `json:"start_date"`   // ISO timestamp
	AveragePace float64   `json:"average_pace"` // min/km, 0 when distance is 0
	StartLatLng []float64 `json:"start_latlng,omitempty"`
	EndLatLng   []float64 `json:"end_latlng,omitempty"`
}

// FormatDistance renders kilometers with two decimals, e.g. "10.55 km".
func FormatDistance(km float64) string {
	return fmt.Sprintf("%.2f km", km)
}

// FormatTime renders a duration in minutes as H:MM:SS.
func FormatTime(minutes float64) string {
	totalSeconds := int(math.Round(minutes * 60))
	hrs := totalSeconds / 3600
	mins := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%d:%02d:%02d", hrs, mins, secs)
}

// FormatPace renders a pace in min/km as M:SS min/km.
func FormatPace(minPerKm float64) string {
	mins := int(minPerKm)
	secs := int(math.Round((minPerKm - float64(mins)) * 60))
	return fmt.Sprintf("%d:%02d min/km", mins, secs)
}
