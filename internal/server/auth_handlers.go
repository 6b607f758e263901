package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Irakli288/my-portfolio/internal/auth"
	"github.com/Irakli288/my-portfolio/internal/authflow"
	"github.com/Irakli288/my-portfolio/internal/models"
)

// AccessRequestResponse is returned immediately after an access
// request is registered; the browser then polls until a decision
type AccessRequestResponse struct {
	Token  string `json:"token"`
	Status string `json:"status"`
}

// AuthStatusResponse is the poll result. Status is one of
// invalid|pending|approved|rejected; Username is set once approved.
type AuthStatusResponse struct {
	Status   string `json:"status"`
	Username string `json:"username,omitempty"`
}

// LoginResponse carries the browser session established at finalize
type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
	Redirect  string    `json:"redirect"`
}

// requestAccess registers a pending access request and notifies the
// approver. The response never waits on the approver or on Telegram.
func (s *Server) requestAccess(c *gin.Context) {
	token := authflow.NewToken()
	label := fmt.Sprintf("Web user from %s", c.ClientIP())
	userAgent := c.GetHeader("User-Agent")

	if _, err := s.store.Create(c.Request.Context(), token, label); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create auth session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Fire-and-forget: a dead Telegram endpoint must never fail the
	// request the browser is waiting on, so the error is logged and
	// discarded right here.
	if s.notifier != nil {
		go func() {
			if err := s.notifier.NotifyApprover(token, label, userAgent); err != nil {
				s.logger.Warn().Err(err).
					Str("token", authflow.Abbrev(token)).
					Msg("Failed to notify approver")
			}
		}()
	}

	c.JSON(http.StatusOK, AccessRequestResponse{
		Token:  token,
		Status: models.StatusPending,
	})
}

// checkAuthStatus is the browser's poll endpoint. Unknown and expired
// tokens are both "invalid"; the distinction is never leaked.
func (s *Server) checkAuthStatus(c *gin.Context) {
	session, err := s.store.Get(c.Request.Context(), c.Param("token"))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load auth session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if session == nil {
		c.JSON(http.StatusOK, AuthStatusResponse{Status: "invalid"})
		return
	}

	resp := AuthStatusResponse{Status: session.Status}
	if session.Status == models.StatusApproved {
		resp.Username = session.DisplayLabel
	}
	c.JSON(http.StatusOK, resp)
}

// finalizeLogin turns an approved access request into a browser
// session. It re-reads the store rather than trusting whatever the
// browser learned from polling; only a currently-approved, unexpired
// session yields a JWT. The JWT expires together with the session.
func (s *Server) finalizeLogin(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	session, err := s.store.Get(c.Request.Context(), token)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load auth session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if session == nil || session.Status != models.StatusApproved {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    "Token is not approved or has expired",
			"redirect": "/admin/login",
		})
		return
	}

	jwtToken, err := auth.GenerateToken(session.Token, session.ApproverID, session.DisplayLabel, session.ExpiresAt)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	s.logger.Info().
		Str("token", authflow.Abbrev(session.Token)).
		Int64("approver_id", session.ApproverID).
		Msg("Admin logged in")

	c.JSON(http.StatusOK, LoginResponse{
		Token:     jwtToken,
		Username:  session.DisplayLabel,
		ExpiresAt: session.ExpiresAt,
		Redirect:  "/admin",
	})
}

// logout acknowledges the client discarding its session. Nothing is
// stored server-side for the browser session, so there is nothing to
// delete; the auth session itself simply ages out.
func (s *Server) logout(c *gin.Context) {
	if sessionData, ok := GetSessionData(c); ok {
		s.logger.Info().
			Str("token", authflow.Abbrev(sessionData.SessionToken)).
			Msg("Admin logged out")
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// getAuthConfig exposes the bot link the login page points users at
func (s *Server) getAuthConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bot_url": s.config.Telegram.BotURL})
}
