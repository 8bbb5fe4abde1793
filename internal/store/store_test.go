package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"stride/running-app/internal/domain"
	"stride/running-app/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*EntityStore, *storage.MemoryStore) {
	t.Helper()
	backend := storage.NewMemoryStore()
	return New(backend), backend
}

func testGoal(id string, goalType domain.GoalType) domain.Goal {
	return domain.NewGoal(id, goalType, 12.0, "01:00:00", "", "2026-10-01", testNow)
}

func TestAddAndListGoals(t *testing.T) {
	ctx := context.Background()
	entities, _ := newTestStore(t)

	require.NoError(t, entities.AddGoal(ctx, testGoal("g1", domain.Goal5K)))
	require.NoError(t, entities.AddGoal(ctx, testGoal("g2", domain.GoalMarathon)))

	goals, err := entities.ListGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "g1", goals[0].ID)
	assert.Equal(t, 5.0, goals[0].Target)
	assert.Equal(t, "g2", goals[1].ID)
	assert.Equal(t, 42.2, goals[1].Target)
}

func TestAddGoalRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	entities, _ := newTestStore(t)

	bad := domain.NewGoal("g1", domain.GoalCustom, -1, "01:00:00", "", "2026-10-01", testNow)
	err := entities.AddGoal(ctx, bad)
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	goals, err := entities.ListGoals(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestUpsertPreferenceValidation(t *testing.T) {
	ctx := context.Background()
	entities, _ := newTestStore(t)
	require.NoError(t, entities.AddGoal(ctx, testGoal("g1", domain.Goal5K)))

	// Strength training with a single day is rejected, not coerced.
	rejected := domain.Preference{ID: "g1", AvailableDays: []string{"Sat"}, PreferredLongRunDay: "Sat", StrengthTraining: true}
	var validationErr *domain.ValidationError
	require.ErrorAs(t, entities.UpsertPreference(ctx, rejected), &validationErr)

	_, err := entities.GetPreference(ctx, "g1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Adding a second day makes it valid.
	accepted := rejected
	accepted.AvailableDays = []string{"Sat", "Sun"}
	require.NoError(t, entities.UpsertPreference(ctx, accepted))

	got, err := entities.GetPreference(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, accepted, *got)
}

func TestUpsertPreferenceReplaces(t *testing.T) {
	ctx := context.Background()
	entities, _ := newTestStore(t)

	first := domain.Preference{ID: "g1", AvailableDays: []string{"Mon"}, PreferredLongRunDay: "Mon"}
	second := domain.Preference{ID: "g1", AvailableDays: []string{"Tue", "Thu"}, PreferredLongRunDay: "Thu"}
	require.NoError(t, entities.UpsertPreference(ctx, first))
	require.NoError(t, entities.UpsertPreference(ctx, second))

	preferences, err := entities.ListPreferences(ctx)
	require.NoError(t, err)
	require.Len(t, preferences, 1)
	assert.Equal(t, second, preferences[0])
}

func TestUpsertTrainingPlanIdempotence(t *testing.T) {
	ctx := context.Background()
	entities, _ := newTestStore(t)

	require.NoError(t, entities.UpsertTrainingPlan(ctx, domain.TrainingPlan{ID: "g1", Text: "first draft"}))
	require.NoError(t, entities.UpsertTrainingPlan(ctx, domain.TrainingPlan{ID: "g1", Text: "second draft"}))

	plans, err := entities.ListTrainingPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "second draft", plans[0].Text)
}

func TestDeleteGoalCascades(t *testing.T) {
	ctx := context.Background()
	entities, _ := newTestStore(t)

	require.NoError(t, entities.AddGoal(ctx, testGoal("g1", domain.Goal10K)))
	require.NoError(t, entities.AddGoal(ctx, testGoal("g2", domain.Goal5K)))
	require.NoError(t, entities.UpsertPreference(ctx, domain.Preference{ID: "g1", AvailableDays: []string{"Sun"}, PreferredLongRunDay: "Sun"}))
	require.NoError(t, entities.UpsertTrainingPlan(ctx, domain.TrainingPlan{ID: "g1", Text: "plan"}))

	require.NoError(t, entities.DeleteGoal(ctx, "g1"))

	goals, err := entities.ListGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "g2", goals[0].ID)

	_, err = entities.GetPreference(ctx, "g1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = entities.GetTrainingPlan(ctx, "g1")
	assert.ErrorIs(t, err, ErrNotFound)
}

// spyBackend records which write methods the store used.
type spyBackend struct {
	storage.Store
	puts    []string
	putAlls [][]string
}

func (s *spyBackend) Put(ctx context.Context, key string, payload []byte) error {
	s.puts = append(s.puts, key)
	return s.Store.Put(ctx, key, payload)
}

func (s *spyBackend) PutAll(ctx context.Context, payloads map[string][]byte) error {
	keys := make([]string, 0, len(payloads))
	for key := range payloads {
		keys = append(keys, key)
	}
	s.putAlls = append(s.putAlls, keys)
	return s.Store.PutAll(ctx, payloads)
}

// The cascade must land as one atomic backend write covering all three
// collections, never as a sequence of per-collection writes.
func TestDeleteGoalWritesAtomically(t *testing.T) {
	ctx := context.Background()
	spy := &spyBackend{Store: storage.NewMemoryStore()}
	entities := New(spy)

	require.NoError(t, entities.AddGoal(ctx, testGoal("g1", domain.Goal5K)))
	require.NoError(t, entities.UpsertPreference(ctx, domain.Preference{ID: "g1", AvailableDays: []string{"Sun"}, PreferredLongRunDay: "Sun"}))
	require.NoError(t, entities.UpsertTrainingPlan(ctx, domain.TrainingPlan{ID: "g1", Text: "plan"}))

	spy.puts = nil
	require.NoError(t, entities.DeleteGoal(ctx, "g1"))

	assert.Empty(t, spy.puts)
	require.Len(t, spy.putAlls, 1)
	assert.ElementsMatch(t, []string{"runningGoals", "trainingPreferences", "trainingPlans"}, spy.putAlls[0])
}

func TestDeleteGoalUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	entities, _ := newTestStore(t)
	require.NoError(t, entities.AddGoal(ctx, testGoal("g1", domain.Goal5K)))

	require.NoError(t, entities.DeleteGoal(ctx, "nope"))

	goals, err := entities.ListGoals(ctx)
	require.NoError(t, err)
	assert.Len(t, goals, 1)
}

// A write must be visible to a store freshly constructed over the same
// backend, i.e. it was persisted synchronously and not cached.
func TestWritesSurviveRestart(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore()
	entities := New(backend)

	goal := testGoal("g1", domain.GoalHalfMarathon)
	require.NoError(t, entities.AddGoal(ctx, goal))
	require.NoError(t, entities.UpsertPreference(ctx, domain.Preference{ID: "g1", AvailableDays: []string{"Sat", "Sun"}, PreferredLongRunDay: "Sun", StrengthTraining: true}))
	require.NoError(t, entities.UpsertTrainingPlan(ctx, domain.TrainingPlan{ID: "g1", Text: "1. run"}))

	reopened := New(backend)
	goals, err := reopened.ListGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, goal, goals[0])

	pref, err := reopened.GetPreference(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sat", "Sun"}, pref.AvailableDays)

	plan, err := reopened.GetTrainingPlan(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "1. run", plan.Text)
}

// failingBackend rejects every write.
type failingBackend struct {
	storage.Store
}

var errDiskFull = errors.New("disk full")

func (f *failingBackend) Put(context.Context, string, []byte) error {
	return errDiskFull
}

func (f *failingBackend) PutAll(context.Context, map[string][]byte) error {
	return errDiskFull
}

func TestStorageFailureIsSurfaced(t *testing.T) {
	ctx := context.Background()
	entities := New(&failingBackend{Store: storage.NewMemoryStore()})

	err := entities.AddGoal(ctx, testGoal("g1", domain.Goal5K))
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, errDiskFull)

	err = entities.DeleteGoal(ctx, "g1")
	require.ErrorAs(t, err, &storageErr)
}
