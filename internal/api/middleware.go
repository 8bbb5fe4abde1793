package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"stride/running-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	sessionCookieName = "stride_session"
	// Context key for the parsed session claims
	ContextSessionKey = "stravaSession"
)

// sessionClaims carries the Strava token bundle inside the signed session
// cookie, so the server holds no per-user state between requests.
type sessionClaims struct {
	AccessToken  string `json:"atk"`
	RefreshToken string `json:"rtk"`
	TokenExpires int64  `json:"tex"` // strava access token expiry, unix seconds
	AthleteID    int64  `json:"ath"`
	jwt.RegisteredClaims
}

// issueSessionCookie signs a session cookie from the token bundle.
func issueSessionCookie(c *gin.Context, secret string, lifetime time.Duration, token *service.TokenData) error {
	now := time.Now()
	claims := &sessionClaims{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpires: token.ExpiresAt,
		AthleteID:    token.Athlete.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("strava_%d", token.Athlete.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "stride",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return err
	}
	c.SetCookie(sessionCookieName, signed, int(lifetime.Seconds()), "/", "", false, true)
	return nil
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
}

// SessionMiddleware creates a Gin middleware that requires a valid session
// cookie and puts its claims into the request context.
func SessionMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(sessionCookieName)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Missing authentication session data")
			return
		}

		claims := &sessionClaims{}
		token, err := jwt.ParseWithClaims(cookie, claims, func(token *jwt.Token) (interface{}, error) {
			// Validate the alg is what we expect:
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			clearSessionCookie(c)
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Session has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid session")
			}
			return
		}
		if !token.Valid || claims.AccessToken == "" || claims.RefreshToken == "" {
			clearSessionCookie(c)
			abortWithError(c, http.StatusUnauthorized, "Invalid session or missing claims")
			return
		}

		c.Set(ContextSessionKey, claims)
		c.Next()
	}
}

// getSessionFromContext retrieves claims stored by SessionMiddleware.
func getSessionFromContext(c *gin.Context) (*sessionClaims, error) {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil, errors.New("session not found in context")
	}
	claims, ok := value.(*sessionClaims)
	if !ok {
		return nil, errors.New("session in context has wrong type")
	}
	return claims, nil
}

// abortWithError sends a JSON error response and stops the handler chain.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
