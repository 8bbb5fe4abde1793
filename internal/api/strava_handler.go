package api

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"stride/running-app/internal/coordinator"
	"stride/running-app/internal/domain"
	"stride/running-app/internal/service"

	"github.com/gin-gonic/gin"
)

// StravaHandler serves the OAuth handshake and the workout-history fetch.
type StravaHandler struct {
	strava        service.StravaService
	coord         *coordinator.Coordinator
	sessionSecret string
	sessionTTL    time.Duration
	redirectURI   string
	frontendURL   string
}

func NewStravaHandler(strava service.StravaService, coord *coordinator.Coordinator,
	sessionSecret string, sessionTTL time.Duration, redirectURI, frontendURL string) *StravaHandler {
	return &StravaHandler{
		strava:        strava,
		coord:         coord,
		sessionSecret: sessionSecret,
		sessionTTL:    sessionTTL,
		redirectURI:   redirectURI,
		frontendURL:   frontendURL,
	}
}

// Connect redirects the athlete to the Strava authorization page.
func (h *StravaHandler) Connect(c *gin.Context) {
	c.Redirect(http.StatusFound, h.strava.AuthorizationURL(h.redirectURI))
}

// Callback completes the OAuth flow: exchanges the code, issues the session
// cookie and sends the athlete back to the frontend with the outcome carried
// as query parameters.
func (h *StravaHandler) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		h.redirectWithError(c, errParam)
		return
	}
	code := c.Query("code")
	if code == "" {
		h.redirectWithError(c, "missing authorization code")
		return
	}

	token, err := h.strava.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		h.redirectWithError(c, err.Error())
		return
	}
	if err := issueSessionCookie(c, h.sessionSecret, h.sessionTTL, token); err != nil {
		h.redirectWithError(c, "failed to establish session")
		return
	}

	c.Redirect(http.StatusSeeOther, h.frontendURL+"?strava_connected=true&view=history")
}

func (h *StravaHandler) redirectWithError(c *gin.Context, message string) {
	c.Redirect(http.StatusSeeOther, h.frontendURL+"?strava_error="+url.QueryEscape(message))
}

// Workouts fetches the athlete's activity history. An expired access token is
// refreshed transparently and the session cookie reissued. Auth failures
// clear the connection state instead of crashing the view.
func (h *StravaHandler) Workouts(c *gin.Context) {
	session, err := getSessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to read session")
		return
	}

	if err := h.coord.BeginSync(); err != nil {
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}

	accessToken := session.AccessToken
	if time.Now().Unix() >= session.TokenExpires {
		token, err := h.strava.RefreshAccessToken(c.Request.Context(), session.RefreshToken)
		if err != nil {
			h.coord.FinishSync(nil, true, "Strava connection not found. Please connect to Strava again.")
			clearSessionCookie(c)
			abortWithError(c, http.StatusNotFound, "Strava connection not found. Please connect to Strava again.")
			return
		}
		if err := issueSessionCookie(c, h.sessionSecret, h.sessionTTL, token); err != nil {
			h.coord.FinishSync(nil, false, "")
			abortWithError(c, http.StatusInternalServerError, "Failed to refresh session")
			return
		}
		accessToken = token.AccessToken
	}

	workouts, err := h.strava.FetchWorkouts(c.Request.Context(), accessToken)
	if err != nil {
		if errors.Is(err, service.ErrStravaAuthFailed) {
			h.coord.FinishSync(nil, true, "")
			clearSessionCookie(c)
			abortWithError(c, http.StatusUnauthorized, "Strava authorization expired")
			return
		}
		h.coord.FinishSync(nil, false, "")
		abortWithError(c, http.StatusBadGateway, "Failed to fetch workouts: "+err.Error())
		return
	}
	if workouts == nil {
		workouts = []domain.WorkoutData{}
	}

	h.coord.FinishSync(workouts, false, "")
	c.JSON(http.StatusOK, workouts)
}

// Disconnect drops the session and clears the local connection state.
func (h *StravaHandler) Disconnect(c *gin.Context) {
	clearSessionCookie(c)
	h.coord.Disconnect()
	c.JSON(http.StatusOK, gin.H{"message": "Strava disconnected successfully"})
}
