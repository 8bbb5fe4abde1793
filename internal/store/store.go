// Package store implements the entity store: three keyed collections (goals,
// preferences, training plans) held in durable storage, with the cascade and
// preference invariants enforced at write time. No other component reads or
// writes the backing storage directly.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"stride/running-app/internal/domain"
	"stride/running-app/internal/storage"
)

// Collection keys in the backing storage.
const (
	goalsKey       = "runningGoals"
	preferencesKey = "trainingPreferences"
	plansKey       = "trainingPlans"
)

// ErrNotFound is returned by the Get accessors when no record has the id.
var ErrNotFound = errors.New("store: record not found")

// StorageError wraps a persistence failure so callers can surface it rather
// than silently drop the write.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// EntityStore owns the goal, preference and training-plan collections.
// Every mutation persists synchronously before returning, so a subsequent
// read (even after a restart over the same backend) observes the change.
type EntityStore struct {
	mu      sync.Mutex
	backend storage.Store
}

func New(backend storage.Store) *EntityStore {
	return &EntityStore{backend: backend}
}

// ListGoals returns the goals in insertion order.
func (s *EntityStore) ListGoals(ctx context.Context) ([]domain.Goal, error) {
	var goals []domain.Goal
	if err := s.load(ctx, goalsKey, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// GetGoal returns the goal with the id, or ErrNotFound.
func (s *EntityStore) GetGoal(ctx context.Context, id string) (*domain.Goal, error) {
	goals, err := s.ListGoals(ctx)
	if err != nil {
		return nil, err
	}
	for i := range goals {
		if goals[i].ID == id {
			return &goals[i], nil
		}
	}
	return nil, ErrNotFound
}

// AddGoal validates the goal and appends it. Ids are caller-generated and
// assumed unique; a duplicate id is undefined behavior the caller must avoid.
func (s *EntityStore) AddGoal(ctx context.Context, goal domain.Goal) error {
	if err := goal.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var goals []domain.Goal
	if err := s.load(ctx, goalsKey, &goals); err != nil {
		return err
	}
	goals = append(goals, goal)
	return s.save(ctx, goalsKey, goals)
}

// DeleteGoal removes the goal with the id together with any preference and
// training plan holding the same id. All three collections reach their new
// state in a single atomic backend write, so no dependent record can be
// observed referencing a goal that is already gone.
func (s *EntityStore) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var goals []domain.Goal
	var preferences []domain.Preference
	var plans []domain.TrainingPlan
	if err := s.load(ctx, goalsKey, &goals); err != nil {
		return err
	}
	if err := s.load(ctx, preferencesKey, &preferences); err != nil {
		return err
	}
	if err := s.load(ctx, plansKey, &plans); err != nil {
		return err
	}

	kept := goals[:0]
	for _, g := range goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	keptPrefs := preferences[:0]
	for _, p := range preferences {
		if p.ID != id {
			keptPrefs = append(keptPrefs, p)
		}
	}
	keptPlans := plans[:0]
	for _, p := range plans {
		if p.ID != id {
			keptPlans = append(keptPlans, p)
		}
	}

	payloads := make(map[string][]byte, 3)
	for key, collection := range map[string]any{
		goalsKey:       kept,
		preferencesKey: keptPrefs,
		plansKey:       keptPlans,
	} {
		payload, err := json.Marshal(collection)
		if err != nil {
			return &StorageError{Op: "serialize " + key, Err: err}
		}
		payloads[key] = payload
	}
	if err := s.backend.PutAll(ctx, payloads); err != nil {
		return &StorageError{Op: "delete goal", Err: err}
	}
	return nil
}

// ListPreferences returns all stored preferences.
func (s *EntityStore) ListPreferences(ctx context.Context) ([]domain.Preference, error) {
	var preferences []domain.Preference
	if err := s.load(ctx, preferencesKey, &preferences); err != nil {
		return nil, err
	}
	return preferences, nil
}

// GetPreference returns the preference for the goal id, or ErrNotFound.
func (s *EntityStore) GetPreference(ctx context.Context, id string) (*domain.Preference, error) {
	preferences, err := s.ListPreferences(ctx)
	if err != nil {
		return nil, err
	}
	for i := range preferences {
		if preferences[i].ID == id {
			return &preferences[i], nil
		}
	}
	return nil, ErrNotFound
}

// UpsertPreference validates the preference and replaces any existing record
// with the same id. Invariant violations are rejected with a
// *domain.ValidationError before anything is written.
func (s *EntityStore) UpsertPreference(ctx context.Context, pref domain.Preference) error {
	if err := pref.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var preferences []domain.Preference
	if err := s.load(ctx, preferencesKey, &preferences); err != nil {
		return err
	}
	kept := preferences[:0]
	for _, p := range preferences {
		if p.ID != pref.ID {
			kept = append(kept, p)
		}
	}
	kept = append(kept, pref)
	return s.save(ctx, preferencesKey, kept)
}

// ListTrainingPlans returns all stored training plans.
func (s *EntityStore) ListTrainingPlans(ctx context.Context) ([]domain.TrainingPlan, error) {
	var plans []domain.TrainingPlan
	if err := s.load(ctx, plansKey, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// GetTrainingPlan returns the plan for the goal id, or ErrNotFound.
func (s *EntityStore) GetTrainingPlan(ctx context.Context, id string) (*domain.TrainingPlan, error) {
	plans, err := s.ListTrainingPlans(ctx)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		if plans[i].ID == id {
			return &plans[i], nil
		}
	}
	return nil, ErrNotFound
}

// UpsertTrainingPlan replaces any existing plan with the same id. The plan
// body is opaque text and is not validated.
func (s *EntityStore) UpsertTrainingPlan(ctx context.Context, plan domain.TrainingPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var plans []domain.TrainingPlan
	if err := s.load(ctx, plansKey, &plans); err != nil {
		return err
	}
	kept := plans[:0]
	for _, p := range plans {
		if p.ID != plan.ID {
			kept = append(kept, p)
		}
	}
	kept = append(kept, plan)
	return s.save(ctx, plansKey, kept)
}

// load unmarshals the collection under key into dst; a missing key leaves
// dst at its zero value (an empty collection).
func (s *EntityStore) load(ctx context.Context, key string, dst any) error {
	payload, err := s.backend.Get(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return &StorageError{Op: "load " + key, Err: err}
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return &StorageError{Op: "decode " + key, Err: err}
	}
	return nil
}

func (s *EntityStore) save(ctx context.Context, key string, collection any) error {
	payload, err := json.Marshal(collection)
	if err != nil {
		return &StorageError{Op: "serialize " + key, Err: err}
	}
	if err := s.backend.Put(ctx, key, payload); err != nil {
		return &StorageError{Op: "save " + key, Err: err}
	}
	return nil
}
