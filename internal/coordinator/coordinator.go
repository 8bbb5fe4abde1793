// Package coordinator mediates which view is active and routes form
// submissions into the entity store. Views never keep private entity copies
// across navigations: the coordinator resolves the active goal id and the
// store is consulted directly on each render.
package coordinator

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"stride/running-app/internal/domain"
	"stride/running-app/internal/store"
)

// View identifies one of the mutually-exclusive views.
type View string

const (
	ViewCreate      View = "create"
	ViewList        View = "list"
	ViewHistory     View = "history"
	ViewPreferences View = "preferences"
	ViewPlan        View = "plan"
)

var (
	ErrUnknownView         = errors.New("unknown view")
	ErrGoalContextRequired = errors.New("a goal id is required for this view")
	ErrGenerationInFlight  = errors.New("plan generation already in progress")
	ErrSyncInFlight        = errors.New("workout sync already in progress")
	ErrNoPlanToSave        = errors.New("no generated plan to save")
)

// PlanSession is the per-goal display state of the plan view: the latest
// generated text, whether it has been saved, and whether a generation request
// is in flight. Duplicate submissions are prevented by the loading flag, not
// by request cancellation.
type PlanSession struct {
	Draft   string `json:"draft"`
	Saved   bool   `json:"saved"`
	Loading bool   `json:"loading"`
}

// StravaReturn is the outcome of consuming the query parameters carried back
// from the OAuth redirect.
type StravaReturn struct {
	Connected bool
	Error     string
}

// Coordinator holds the view state for the (single) athlete session.
type Coordinator struct {
	mu       sync.Mutex
	entities *store.EntityStore

	view         View
	activeGoalID string
	sessions     map[string]*PlanSession

	stravaConnected bool
	syncing         bool
	workouts        []domain.WorkoutData
	notice          string
}

// New returns a coordinator in the initial Create view.
func New(entities *store.EntityStore) *Coordinator {
	return &Coordinator{
		entities: entities,
		view:     ViewCreate,
		sessions: make(map[string]*PlanSession),
	}
}

// ActiveView returns the current view and, for goal-scoped views, the goal id
// context it carries.
func (c *Coordinator) ActiveView() (View, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view, c.activeGoalID
}

// Navigate switches the active view. Transitions are free, but Preferences
// and Plan require the id of an existing goal as context.
func (c *Coordinator) Navigate(ctx context.Context, view View, goalID string) error {
	switch view {
	case ViewCreate, ViewList, ViewHistory:
		goalID = ""
	case ViewPreferences, ViewPlan:
		if goalID == "" {
			return ErrGoalContextRequired
		}
		if _, err := c.entities.GetGoal(ctx, goalID); err != nil {
			return err
		}
	default:
		return ErrUnknownView
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = view
	c.activeGoalID = goalID
	return nil
}

// SubmitGoal routes a goal-creation form into the store and, on success,
// moves to the goal list.
func (c *Coordinator) SubmitGoal(ctx context.Context, goal domain.Goal) error {
	if err := c.entities.AddGoal(ctx, goal); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = ViewList
	c.activeGoalID = ""
	return nil
}

// DeleteGoal cascades the delete through the store and drops the cached plan
// session for the goal, so no view state survives for a goal that is gone.
func (c *Coordinator) DeleteGoal(ctx context.Context, id string) error {
	if err := c.entities.DeleteGoal(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	if c.activeGoalID == id {
		c.view = ViewList
		c.activeGoalID = ""
	}
	return nil
}

// SubmitPreferences routes a preferences form into the store and, on success,
// returns to the goal list.
func (c *Coordinator) SubmitPreferences(ctx context.Context, pref domain.Preference) error {
	if err := c.entities.UpsertPreference(ctx, pref); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = ViewList
	c.activeGoalID = ""
	return nil
}

// BeginGeneration marks a generation request in flight for the goal. A second
// request before the first completes is rejected.
func (c *Coordinator) BeginGeneration(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	session := c.session(id)
	if session.Loading {
		return ErrGenerationInFlight
	}
	session.Loading = true
	return nil
}

// FinishGeneration records the outcome of a generation request. On success
// the draft replaces any prior one and the saved flag resets until the plan
// is explicitly saved again.
func (c *Coordinator) FinishGeneration(id, text string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	session := c.session(id)
	session.Loading = false
	if err != nil {
		c.notice = "Failed to fetch plan. Please try again."
		return
	}
	session.Draft = text
	session.Saved = false
}

// SavePlan persists the current draft for the goal as its training plan,
// replacing any prior plan, and marks the session saved.
func (c *Coordinator) SavePlan(ctx context.Context, id string) error {
	c.mu.Lock()
	session := c.session(id)
	if session.Loading {
		c.mu.Unlock()
		return ErrGenerationInFlight
	}
	draft := session.Draft
	c.mu.Unlock()

	if draft == "" {
		return ErrNoPlanToSave
	}
	if err := c.entities.UpsertTrainingPlan(ctx, domain.TrainingPlan{ID: id, Text: draft}); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session(id).Saved = true
	return nil
}

// Session returns a copy of the plan session for the goal. A goal with a
// stored plan but no live session reports the stored text as a saved draft.
func (c *Coordinator) Session(ctx context.Context, id string) PlanSession {
	c.mu.Lock()
	if session, ok := c.sessions[id]; ok {
		out := *session
		c.mu.Unlock()
		return out
	}
	c.mu.Unlock()

	plan, err := c.entities.GetTrainingPlan(ctx, id)
	if err != nil {
		return PlanSession{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	session := c.session(id)
	if session.Draft == "" && !session.Loading {
		session.Draft = plan.Text
		session.Saved = true
	}
	return *session
}

// ConsumeStravaReturn processes the query parameters observed on return from
// the OAuth redirect and strips them, returning the remaining query. The
// parameters are consumed exactly once: a connected flag flips the connection
// state, a requested view switches navigation, and an error is surfaced as a
// notice.
func (c *Coordinator) ConsumeStravaReturn(params url.Values) (StravaReturn, url.Values) {
	connected := params.Get("strava_connected") == "true"
	stravaErr := params.Get("strava_error")
	viewParam := params.Get("view")

	remaining := url.Values{}
	for key, values := range params {
		switch key {
		case "strava_connected", "strava_error", "view":
		default:
			remaining[key] = values
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if connected {
		c.stravaConnected = true
		if viewParam == "history" {
			c.view = ViewHistory
			c.activeGoalID = ""
		}
	} else if stravaErr != "" {
		c.notice = "Failed to connect to Strava: " + stravaErr
	}
	return StravaReturn{Connected: connected, Error: stravaErr}, remaining
}

// BeginSync guards the workout-history fetch against duplicate submissions.
func (c *Coordinator) BeginSync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.syncing {
		return ErrSyncInFlight
	}
	c.syncing = true
	return nil
}

// FinishSync records the outcome of a workout-history fetch. Auth failures
// reset the connection flag; other errors leave it untouched.
func (c *Coordinator) FinishSync(workouts []domain.WorkoutData, authFailed bool, notice string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncing = false
	if authFailed {
		c.stravaConnected = false
		c.workouts = nil
	} else if workouts != nil {
		c.stravaConnected = true
		c.workouts = workouts
	}
	if notice != "" {
		c.notice = notice
	}
}

// Disconnect clears the local connection state.
func (c *Coordinator) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stravaConnected = false
	c.workouts = nil
}

// Connected reports whether the Strava connection flag is set.
func (c *Coordinator) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stravaConnected
}

// Workouts returns the last synced workout history.
func (c *Coordinator) Workouts() []domain.WorkoutData {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.WorkoutData, len(c.workouts))
	copy(out, c.workouts)
	return out
}

// TakeNotice returns the pending user-visible message, clearing it.
func (c *Coordinator) TakeNotice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	notice := c.notice
	c.notice = ""
	return notice
}

// session returns the live session for the id, creating it if needed.
// Caller must hold c.mu.
func (c *Coordinator) session(id string) *PlanSession {
	if session, ok := c.sessions[id]; ok {
		return session
	}
	session := &PlanSession{}
	c.sessions[id] = session
	return session
}
