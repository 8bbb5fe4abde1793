package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stride/running-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanner(baseURL string) *plannerService {
	return &plannerService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGeneratePlan(t *testing.T) {
	var got createPlanRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/createplan", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(createPlanResponse{Response: "1. Warm up\n2. Run"})
	}))
	defer srv.Close()

	goal := domain.NewGoal("g1", domain.Goal5K, 0, "00:25:00", "", "2026-10-01", time.Now())
	pref := &domain.Preference{ID: "g1", AvailableDays: []string{"Sat", "Sun"}}

	text, err := newTestPlanner(srv.URL).GeneratePlan(context.Background(), "", &goal, pref)
	require.NoError(t, err)
	assert.Equal(t, "1. Warm up\n2. Run", text)

	// An empty message falls back to the default prompt, and both entities
	// ride along on the request body.
	assert.Equal(t, DefaultPlanPrompt, got.Message)
	require.NotNil(t, got.Goals)
	assert.Equal(t, "g1", got.Goals.ID)
	require.NotNil(t, got.Preferences)
	assert.Equal(t, []string{"Sat", "Sun"}, got.Preferences.AvailableDays)
}

func TestGeneratePlanWithoutPreference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "null", string(req["preferences"]))
		json.NewEncoder(w).Encode(createPlanResponse{Response: "easy week"})
	}))
	defer srv.Close()

	goal := domain.NewGoal("g1", domain.Goal5K, 0, "00:25:00", "", "2026-10-01", time.Now())
	text, err := newTestPlanner(srv.URL).GeneratePlan(context.Background(), "custom prompt", &goal, nil)
	require.NoError(t, err)
	assert.Equal(t, "easy week", text)
}

func TestGeneratePlanErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := newTestPlanner(srv.URL).GeneratePlan(context.Background(), "", nil, nil)
		assert.ErrorIs(t, err, ErrPlannerUnavailable)
	})

	t.Run("empty response text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(createPlanResponse{})
		}))
		defer srv.Close()

		_, err := newTestPlanner(srv.URL).GeneratePlan(context.Background(), "", nil, nil)
		assert.ErrorIs(t, err, ErrEmptyPlan)
	})

	t.Run("unreachable backend", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := newTestPlanner(srv.URL).GeneratePlan(context.Background(), "", nil, nil)
		assert.ErrorIs(t, err, ErrPlannerUnavailable)
	})
}
