package api

import (
	"errors"
	"net/http"
	"time"

	"stride/running-app/internal/coordinator"
	"stride/running-app/internal/domain"
	"stride/running-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GoalHandler serves the goal collection.
type GoalHandler struct {
	entities *store.EntityStore
	coord    *coordinator.Coordinator
}

func NewGoalHandler(entities *store.EntityStore, coord *coordinator.Coordinator) *GoalHandler {
	return &GoalHandler{entities: entities, coord: coord}
}

// --- DTOs ---

// CreateGoalRequest defines the expected JSON for creating a goal. Target is
// ignored for non-custom types (those distances are fixed), and a missing
// endDate defaults to one month ahead.
type CreateGoalRequest struct {
	ID       string  `json:"id"` // optional; assigned when absent
	Type     string  `json:"type" binding:"required"`
	Target   float64 `json:"target"`
	GoalTime string  `json:"goalTime"`
	Notes    string  `json:"notes"`
	EndDate  string  `json:"endDate"`
}

// --- Handler Methods ---

// CreateGoal appends a new goal. Stored and wire format share field names, so
// the domain value doubles as the response body.
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	goal := domain.NewGoal(id, domain.GoalType(req.Type), req.Target, req.GoalTime, req.Notes, req.EndDate, time.Now())

	if err := h.coord.SubmitGoal(c.Request.Context(), goal); err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to save goal: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// ListGoals returns the goals in insertion order.
func (h *GoalHandler) ListGoals(c *gin.Context) {
	goals, err := h.entities.ListGoals(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load goals: "+err.Error())
		return
	}
	if goals == nil {
		goals = []domain.Goal{}
	}
	c.JSON(http.StatusOK, goals)
}

// DeleteGoal removes the goal and cascades to its preference and training
// plan. Deleting an id that is already gone is a no-op.
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	if err := h.coord.DeleteGoal(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to delete goal: "+err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
