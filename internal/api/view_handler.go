package api

import (
	"errors"
	"net/http"

	"stride/running-app/internal/coordinator"
	"stride/running-app/internal/store"

	"github.com/gin-gonic/gin"
)

// ViewHandler exposes the coordinator's view state.
type ViewHandler struct {
	coord *coordinator.Coordinator
}

func NewViewHandler(coord *coordinator.Coordinator) *ViewHandler {
	return &ViewHandler{coord: coord}
}

// NavigateRequest selects the active view; preferences and plan carry a goal
// id context.
type NavigateRequest struct {
	View   string `json:"view" binding:"required"`
	GoalID string `json:"goalId"`
}

// ViewResponse describes the current view state. Query holds whatever
// remains of the caller's query string after the Strava return parameters
// were consumed.
type ViewResponse struct {
	View            coordinator.View         `json:"view"`
	GoalID          string                   `json:"goalId,omitempty"`
	StravaConnected bool                     `json:"stravaConnected"`
	Notice          string                   `json:"notice,omitempty"`
	Plan            *coordinator.PlanSession `json:"plan,omitempty"`
	Query           string                   `json:"query,omitempty"`
}

// GetView reports the active view. Strava return parameters present on the
// request (strava_connected, strava_error, view) are consumed exactly once
// here and stripped from the echoed query, so a reload does not replay them.
func (h *ViewHandler) GetView(c *gin.Context) {
	_, remaining := h.coord.ConsumeStravaReturn(c.Request.URL.Query())

	view, goalID := h.coord.ActiveView()
	resp := ViewResponse{
		View:            view,
		GoalID:          goalID,
		StravaConnected: h.coord.Connected(),
		Notice:          h.coord.TakeNotice(),
		Query:           remaining.Encode(),
	}
	if view == coordinator.ViewPlan && goalID != "" {
		session := h.coord.Session(c.Request.Context(), goalID)
		resp.Plan = &session
	}
	c.JSON(http.StatusOK, resp)
}

// Navigate switches the active view.
func (h *ViewHandler) Navigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	err := h.coord.Navigate(c.Request.Context(), coordinator.View(req.View), req.GoalID)
	switch {
	case err == nil:
	case errors.Is(err, coordinator.ErrUnknownView), errors.Is(err, coordinator.ErrGoalContextRequired):
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, store.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "Goal not found")
		return
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to switch view: "+err.Error())
		return
	}

	view, goalID := h.coord.ActiveView()
	c.JSON(http.StatusOK, gin.H{"view": view, "goalId": goalID})
}
