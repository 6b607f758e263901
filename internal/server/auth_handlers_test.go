package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Irakli288/my-portfolio/internal/models"
)

// initiate runs the access-request step and returns the session token
func initiate(t *testing.T, s *Server) string {
	t.Helper()

	w := do(t, s, http.MethodPost, "/api/auth/request", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp AccessRequestResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "pending", resp.Status)
	return resp.Token
}

func pollStatus(t *testing.T, s *Server, token string) AuthStatusResponse {
	t.Helper()

	w := do(t, s, http.MethodGet, "/api/auth/status/"+token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthStatusResponse
	decode(t, w, &resp)
	return resp
}

// forceExpire backdates the auth session behind a token
func forceExpire(t *testing.T, s *Server, token string) {
	t.Helper()
	err := s.db.Model(&models.AuthSession{}).
		Where("token = ?", token).
		Update("expires_at", time.Now().Add(-time.Minute)).Error
	require.NoError(t, err)
}

func TestInitiateReturnsPendingImmediately(t *testing.T) {
	s, notifier := newTestServer(t)

	token := initiate(t, s)

	require.Equal(t, "pending", pollStatus(t, s, token).Status)

	// The notifier fires once per request, off the request path
	require.Eventually(t, func() bool {
		notified := notifier.notified()
		return len(notified) == 1 && notified[0] == token
	}, time.Second, 10*time.Millisecond)
}

func TestInitiateSurvivesNotifierFailure(t *testing.T) {
	s, notifier := newTestServer(t)
	notifier.fail = true

	token := initiate(t, s)
	require.Equal(t, "pending", pollStatus(t, s, token).Status)
}

func TestPollUnknownTokenIsInvalid(t *testing.T) {
	s, _ := newTestServer(t)

	require.Equal(t, "invalid", pollStatus(t, s, "no-such-token").Status)
}

func TestApprovalFlow(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	token := initiate(t, s)

	applied, err := s.store.Approve(ctx, token, testApproverID)
	require.NoError(t, err)
	require.True(t, applied)

	status := pollStatus(t, s, token)
	require.Equal(t, "approved", status.Status)
	require.Contains(t, status.Username, "Web user from")

	// Finalize issues a browser session tied to the auth session
	w := do(t, s, http.MethodGet, "/api/auth/login?token="+token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var login LoginResponse
	decode(t, w, &login)
	require.NotEmpty(t, login.Token)
	require.Equal(t, "/admin", login.Redirect)

	// The session is usable for a protected call
	w = do(t, s, http.MethodPost, "/api/tags", CreateTagRequest{Name: "golang"}, login.Token)
	require.Equal(t, http.StatusCreated, w.Code)

	// Store-level expiry revokes access on the very next protected call
	forceExpire(t, s, token)
	w = do(t, s, http.MethodPost, "/api/tags", CreateTagRequest{Name: "web"}, login.Token)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// And polling now reports invalid, same as a token that never existed
	require.Equal(t, "invalid", pollStatus(t, s, token).Status)
}

func TestRejectionFlow(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	token := initiate(t, s)

	applied, err := s.store.Reject(ctx, token, testApproverID)
	require.NoError(t, err)
	require.True(t, applied)

	require.Equal(t, "rejected", pollStatus(t, s, token).Status)

	// A later approve attempt is a no-op; rejection is terminal
	applied, err = s.store.Approve(ctx, token, testApproverID)
	require.NoError(t, err)
	require.False(t, applied)
	require.Equal(t, "rejected", pollStatus(t, s, token).Status)

	// Finalize must not establish a session for a rejected token
	w := do(t, s, http.MethodGet, "/api/auth/login?token="+token, nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFinalizeRequiresApprovedUnexpired(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	// Pending token: no session
	pending := initiate(t, s)
	w := do(t, s, http.MethodGet, "/api/auth/login?token="+pending, nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Approved but expired token: no session either
	expired := initiate(t, s)
	_, err := s.store.Approve(ctx, expired, testApproverID)
	require.NoError(t, err)
	forceExpire(t, s, expired)
	w = do(t, s, http.MethodGet, "/api/auth/login?token="+expired, nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Missing token parameter
	w = do(t, s, http.MethodGet, "/api/auth/login", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGuardRejectsMissingAndGarbageTokens(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/tags", CreateTagRequest{Name: "x"}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodPost, "/api/tags", CreateTagRequest{Name: "x"}, "not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	token := initiate(t, s)
	_, err := s.store.Approve(ctx, token, testApproverID)
	require.NoError(t, err)

	w := do(t, s, http.MethodGet, "/api/auth/login?token="+token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var login LoginResponse
	decode(t, w, &login)

	w = do(t, s, http.MethodPost, "/api/auth/logout", nil, login.Token)
	require.Equal(t, http.StatusOK, w.Code)
}
