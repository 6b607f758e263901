package authflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Irakli288/my-portfolio/internal/models"
)

// SessionTTL is how long an access request stays usable. It applies to
// pending and approved sessions alike: once past it the session is
// indistinguishable from one that never existed.
const SessionTTL = time.Hour

// Store persists admin access requests. Every call is a durable
// read or write against the database; there is no in-memory cache,
// so the HTTP server and the Telegram bot (separate processes)
// always observe the same state.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewStore(db *gorm.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "authflow_store").Logger(),
	}
}

// NewToken generates an opaque access-request token (UUIDv4, 128 random bits)
func NewToken() string {
	return uuid.NewString()
}

// Create inserts a new pending session for the given token. Fails if
// the token already exists.
func (s *Store) Create(ctx context.Context, token, label string) (*models.AuthSession, error) {
	session := &models.AuthSession{
		Token:        token,
		ApproverID:   0,
		DisplayLabel: label,
		Status:       models.StatusPending,
		ExpiresAt:    time.Now().Add(SessionTTL),
	}

	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create auth session: %w", err)
	}

	s.logger.Info().
		Str("token", Abbrev(token)).
		Str("label", label).
		Time("expires_at", session.ExpiresAt).
		Msg("Auth session created")

	return session, nil
}

// Get returns the session for the token, or nil if the token is
// unknown or the session has expired. Callers cannot tell those two
// cases apart.
func (s *Store) Get(ctx context.Context, token string) (*models.AuthSession, error) {
	var session models.AuthSession
	err := s.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load auth session: %w", err)
	}
	return &session, nil
}

// Approve marks a pending, unexpired session as approved and records
// who decided. Returns false when nothing changed (unknown token,
// expired, or already decided) - a stale click from the approver is
// not an error.
func (s *Store) Approve(ctx context.Context, token string, approverID int64) (bool, error) {
	return s.decide(ctx, token, approverID, models.StatusApproved)
}

// Reject is symmetric to Approve
func (s *Store) Reject(ctx context.Context, token string, approverID int64) (bool, error) {
	return s.decide(ctx, token, approverID, models.StatusRejected)
}

// decide performs the single terminal transition as one conditional
// update. The "status = pending" guard makes concurrent duplicate
// decisions on the same token collapse to exactly one winner, and the
// expiry guard keeps an expired row from being resurrected.
func (s *Store) decide(ctx context.Context, token string, approverID int64, status string) (bool, error) {
	now := time.Now()
	res := s.db.WithContext(ctx).
		Model(&models.AuthSession{}).
		Where("token = ? AND status = ? AND expires_at > ?", token, models.StatusPending, now).
		Updates(map[string]interface{}{
			"status":      status,
			"approver_id": approverID,
			"decided_at":  now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update auth session: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		s.logger.Info().
			Str("token", Abbrev(token)).
			Str("decision", status).
			Msg("Decision ignored: session unknown, expired or already decided")
		return false, nil
	}

	s.logger.Info().
		Str("token", Abbrev(token)).
		Str("decision", status).
		Int64("approver_id", approverID).
		Msg("Auth session decided")

	return true, nil
}

// Abbrev shortens a token for log output and approver-facing messages
func Abbrev(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8] + "..."
}
