package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Irakli288/my-portfolio/internal/auth"
	"github.com/Irakli288/my-portfolio/internal/authflow"
	"github.com/Irakli288/my-portfolio/internal/models"
)

const bearerPrefix = "Bearer "

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrSessionRevoked    = errors.New("auth session no longer approved")
)

func setSession(c *gin.Context, sessionData *auth.SessionData) {
	c.Set("session", sessionData)
}

func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	session, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	sessionData, ok := session.(*auth.SessionData)
	return sessionData, ok
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
	c.Abort()
}

// AdminAuthMiddleware gates the admin API. Beyond validating the JWT it
// re-fetches the underlying AuthSession from the store on every call:
// once that row expires or stops being approved, the JWT is dead no
// matter how valid its signature still is, and the client is told to
// re-run the approval handshake.
func AdminAuthMiddleware(store *authflow.Store, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token, err := extractBearerToken(authHeader)
		if err != nil {
			var message string
			switch err {
			case ErrMissingAuthHeader:
				message = "Missing authorization header"
			case ErrInvalidAuthFormat:
				message = "Invalid authorization header format"
			case ErrEmptyToken:
				message = "Empty token"
			}
			respondWithError(c, log, http.StatusUnauthorized, err, message)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			respondWithError(c, log, http.StatusUnauthorized, ErrInvalidToken, "Invalid or expired token")
			return
		}

		session, err := store.Get(c.Request.Context(), claims.SessionToken)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load auth session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}
		if session == nil || session.Status != models.StatusApproved {
			// Expired, revoked or never approved: the local session is
			// no longer honored
			respondWithError(c, log, http.StatusUnauthorized, ErrSessionRevoked, "Session expired, please re-authenticate")
			return
		}

		setSession(c, &auth.SessionData{
			SessionToken: session.Token,
			ApproverID:   session.ApproverID,
			Label:        session.DisplayLabel,
		})

		c.Next()
	}
}
