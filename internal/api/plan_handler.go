package api

import (
	"errors"
	"net/http"

	"stride/running-app/internal/coordinator"
	"stride/running-app/internal/domain"
	"stride/running-app/internal/plantext"
	"stride/running-app/internal/service"
	"stride/running-app/internal/store"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves training-plan generation, saving and display.
type PlanHandler struct {
	entities *store.EntityStore
	coord    *coordinator.Coordinator
	planner  service.PlannerService
}

func NewPlanHandler(entities *store.EntityStore, coord *coordinator.Coordinator, planner service.PlannerService) *PlanHandler {
	return &PlanHandler{entities: entities, coord: coord, planner: planner}
}

// --- DTOs ---

// TrainingPlanResponse carries the stored plan text alongside its display
// markup. Rendering happens here, at display time only; the stored text is
// never mutated.
type TrainingPlanResponse struct {
	ID       string `json:"id"`
	Text     string `json:"trainingPlans"`
	Rendered string `json:"rendered"`
	Saved    bool   `json:"saved"`
}

// CreatePlanRequest mirrors the generator contract for the passthrough route.
type CreatePlanRequest struct {
	Message     string             `json:"message"`
	Preferences *domain.Preference `json:"preferences"`
	Goals       *domain.Goal       `json:"goals"`
}

// --- Handler Methods ---

// GetPlan returns the goal's current plan with its rendered markup.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	id := c.Param("id")
	plan, err := h.entities.GetTrainingPlan(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, "No training plan saved for this goal")
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load training plan: "+err.Error())
		return
	}

	session := h.coord.Session(c.Request.Context(), id)
	c.JSON(http.StatusOK, TrainingPlanResponse{
		ID:       plan.ID,
		Text:     plan.Text,
		Rendered: plantext.Render(plan.Text),
		Saved:    session.Saved,
	})
}

// GeneratePlan requests fresh plan text from the generator for the goal,
// using its stored preference when one exists. A second request while one is
// in flight is rejected; the guard is the loading flag, not cancellation.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	goal, err := h.entities.GetGoal(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load goal: "+err.Error())
		return
	}
	pref, err := h.entities.GetPreference(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		abortWithError(c, http.StatusInternalServerError, "Failed to load preferences: "+err.Error())
		return
	}

	if err := h.coord.BeginGeneration(id); err != nil {
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}
	text, genErr := h.planner.GeneratePlan(ctx, service.DefaultPlanPrompt, goal, pref)
	h.coord.FinishGeneration(id, text, genErr)
	if genErr != nil {
		abortWithError(c, http.StatusBadGateway, "Failed to fetch plan. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": text})
}

// SavePlan persists the latest generated draft as the goal's plan, replacing
// any prior one.
func (h *PlanHandler) SavePlan(c *gin.Context) {
	id := c.Param("id")
	if err := h.coord.SavePlan(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, coordinator.ErrNoPlanToSave):
			abortWithError(c, http.StatusConflict, "Generate a plan before saving it")
		case errors.Is(err, coordinator.ErrGenerationInFlight):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to save training plan: "+err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// CreatePlan is the stateless passthrough route matching the generator
// contract: the caller supplies the goal and preference bodies directly.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	text, err := h.planner.GeneratePlan(c.Request.Context(), req.Message, req.Goals, req.Preferences)
	if err != nil {
		abortWithError(c, http.StatusBadGateway, "Failed to fetch plan. Please try again.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": text})
}
