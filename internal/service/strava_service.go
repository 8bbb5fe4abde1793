package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stride/running-app/internal/domain"
)

// --- Error Definitions ---
var (
	ErrStravaAuthFailed  = errors.New("strava authorization failed")
	ErrStravaUnavailable = errors.New("strava request failed")
)

// TokenData is the token bundle returned by the Strava OAuth endpoint.
type TokenData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // unix seconds
	Athlete      struct {
		ID int64 `json:"id"`
	} `json:"athlete"`
}

// Expired reports whether the access token has passed its expiry.
func (t TokenData) Expired(now time.Time) bool {
	return now.Unix() >= t.ExpiresAt
}

// StravaService handles the OAuth token exchange and the activity fetch
// against the Strava API.
type StravaService interface {
	AuthorizationURL(redirectURI string) string
	ExchangeCode(ctx context.Context, code string) (*TokenData, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenData, error)
	FetchWorkouts(ctx context.Context, accessToken string) ([]domain.WorkoutData, error)
}

type stravaService struct {
	clientID     string
	clientSecret string
	oauthBaseURL string
	apiBaseURL   string
	client       *http.Client
}

// NewStravaService creates a Strava client with the application credentials.
func NewStravaService(clientID, clientSecret string) StravaService {
	return &stravaService{
		clientID:     clientID,
		clientSecret: clientSecret,
		oauthBaseURL: "https://www.strava.com/oauth",
		apiBaseURL:   "https://www.strava.com/api/v3",
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// AuthorizationURL builds the redirect target that starts the OAuth flow.
func (s *stravaService) AuthorizationURL(redirectURI string) string {
	q := url.Values{}
	q.Set("client_id", s.clientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("approval_prompt", "auto")
	q.Set("scope", "activity:read_all")
	return s.oauthBaseURL + "/authorize?" + q.Encode()
}

// ExchangeCode trades the callback code for a token bundle.
func (s *stravaService) ExchangeCode(ctx context.Context, code string) (*TokenData, error) {
	return s.tokenRequest(ctx, url.Values{
		"client_id":     {s.clientID},
		"client_secret": {s.clientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
	})
}

// RefreshAccessToken trades a refresh token for a fresh token bundle.
func (s *stravaService) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenData, error) {
	return s.tokenRequest(ctx, url.Values{
		"client_id":     {s.clientID},
		"client_secret": {s.clientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	})
}

func (s *stravaService) tokenRequest(ctx context.Context, form url.Values) (*TokenData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.oauthBaseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStravaUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrStravaAuthFailed, resp.StatusCode)
	}

	token := &TokenData{}
	if err := json.NewDecoder(resp.Body).Decode(token); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if token.AccessToken == "" || token.RefreshToken == "" || token.ExpiresAt == 0 {
		return nil, fmt.Errorf("%w: incomplete token response", ErrStravaAuthFailed)
	}
	return token, nil
}

// stravaActivity is the subset of the activity summary the app consumes,
// in Strava's units (meters and seconds).
type stravaActivity struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Distance    float64   `json:"distance"`
	MovingTime  float64   `json:"moving_time"`
	ElapsedTime float64   `json:"elapsed_time"`
	Type        string    `json:"type"`
	StartDate   string    `json:"start_date"`
	StartLatLng []float64 `json:"start_latlng"`
	EndLatLng   []float64 `json:"end_latlng"`
}

// FetchWorkouts pages through the athlete's activities (200 per page, the
// API maximum) until a page comes back empty, converting meters to
// kilometers and seconds to minutes for display.
func (s *stravaService) FetchWorkouts(ctx context.Context, accessToken string) ([]domain.WorkoutData, error) {
	var workouts []domain.WorkoutData
	for page := 1; ; page++ {
		activities, err := s.fetchActivityPage(ctx, accessToken, page)
		if err != nil {
			return nil, err
		}
		if len(activities) == 0 {
			break
		}
		for _, a := range activities {
			distanceKm := a.Distance / 1000
			movingMin := a.MovingTime / 60
			var pace float64
			if a.Distance != 0 {
				pace = movingMin / distanceKm
			}
			workouts = append(workouts, domain.WorkoutData{
				ID:          a.ID,
				Name:        a.Name,
				Distance:    distanceKm,
				MovingTime:  movingMin,
				ElapsedTime: a.ElapsedTime / 60,
				Type:        a.Type,
				StartDate:   a.StartDate,
				AveragePace: pace,
				StartLatLng: a.StartLatLng,
				EndLatLng:   a.EndLatLng,
			})
		}
	}
	return workouts, nil
}

func (s *stravaService) fetchActivityPage(ctx context.Context, accessToken string, page int) ([]stravaActivity, error) {
	endpoint := s.apiBaseURL + "/athlete/activities?per_page=200&page=" + strconv.Itoa(page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create activities request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStravaUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: status code %d", ErrStravaAuthFailed, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status code %d", ErrStravaUnavailable, resp.StatusCode)
	}

	var activities []stravaActivity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, fmt.Errorf("decode activities response: %w", err)
	}
	return activities, nil
}
