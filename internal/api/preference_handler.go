package api

import (
	"errors"
	"net/http"

	"stride/running-app/internal/coordinator"
	"stride/running-app/internal/domain"
	"stride/running-app/internal/store"

	"github.com/gin-gonic/gin"
)

// PreferenceHandler serves the per-goal training preferences.
type PreferenceHandler struct {
	entities *store.EntityStore
	coord    *coordinator.Coordinator
}

func NewPreferenceHandler(entities *store.EntityStore, coord *coordinator.Coordinator) *PreferenceHandler {
	return &PreferenceHandler{entities: entities, coord: coord}
}

// UpsertPreferenceRequest defines the expected JSON for saving preferences.
// Validation happens in the domain so violations come back with the
// field-level message, not a binding error.
type UpsertPreferenceRequest struct {
	AvailableDays       []string `json:"availableDays"`
	PreferredLongRunDay string   `json:"preferredLongRunDay"`
	StrengthTraining    bool     `json:"strengthTraining"`
}

// GetPreference returns the preference for the goal id.
func (h *PreferenceHandler) GetPreference(c *gin.Context) {
	pref, err := h.entities.GetPreference(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, "No preferences saved for this goal")
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load preferences: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, pref)
}

// UpsertPreference validates and saves the preference, replacing any prior
// one for the goal. Invariant violations block the save with a field-level
// message; nothing is coerced.
func (h *PreferenceHandler) UpsertPreference(c *gin.Context) {
	var req UpsertPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	pref := domain.Preference{
		ID:                  c.Param("id"),
		AvailableDays:       req.AvailableDays,
		PreferredLongRunDay: req.PreferredLongRunDay,
		StrengthTraining:    req.StrengthTraining,
	}
	if err := h.coord.SubmitPreferences(c.Request.Context(), pref); err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to save preferences: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, pref)
}
