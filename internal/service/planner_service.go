package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"stride/running-app/internal/domain"
)

// --- Error Definitions ---
var (
	ErrPlannerUnavailable = errors.New("plan generator request failed")
	ErrEmptyPlan          = errors.New("plan generator returned an empty plan")
)

// DefaultPlanPrompt is the message sent with every generation request.
const DefaultPlanPrompt = "Generate a running training plan"

// PlannerService requests training-plan text from the external generator
// backend. The response body is opaque free text consumed by the renderer.
type PlannerService interface {
	GeneratePlan(ctx context.Context, message string, goal *domain.Goal, pref *domain.Preference) (string, error)
}

// createPlanRequest mirrors the generator's wire contract.
type createPlanRequest struct {
	Message     string             `json:"message"`
	Preferences *domain.Preference `json:"preferences"`
	Goals       *domain.Goal       `json:"goals"`
}

type createPlanResponse struct {
	Response string `json:"response"`
}

type plannerService struct {
	baseURL string
	client  *http.Client
}

// NewPlannerService creates a planner client against the generator base URL.
func NewPlannerService(baseURL string) PlannerService {
	return &plannerService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second}, // generation is slow
	}
}

// GeneratePlan posts {message, preferences, goals} to the generator and
// returns the free-text plan. A missing preference is sent as null; the
// generator then plans from the goal alone.
func (s *plannerService) GeneratePlan(ctx context.Context, message string, goal *domain.Goal, pref *domain.Preference) (string, error) {
	if message == "" {
		message = DefaultPlanPrompt
	}
	body, err := json.Marshal(createPlanRequest{Message: message, Preferences: pref, Goals: goal})
	if err != nil {
		return "", fmt.Errorf("encode createplan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/createplan", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPlannerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status code %d", ErrPlannerUnavailable, resp.StatusCode)
	}

	var out createPlanResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode createplan response: %w", err)
	}
	if out.Response == "" {
		return "", ErrEmptyPlan
	}
	return out.Response, nil
}
