package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// AppConfig represents global configuration for the single-tenant deployment
// This is a singleton model (only one row should exist)
type AppConfig struct {
	BaseModel
	// Auto-generated on first boot (64 hex chars), used to sign admin JWTs
	JWTSecret string `json:"-" gorm:"type:varchar(64);not null"`
}

// AuthSession status values. Transitions are forward-only:
// pending -> approved or pending -> rejected, decided exactly once.
// Expiry is not a stored status; a session past ExpiresAt is treated
// as nonexistent regardless of what the row says.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// AuthSession represents one admin access request awaiting an
// out-of-band decision over Telegram. The token is the only
// credential the waiting browser holds and doubles as the
// correlation id in the bot's callback data.
type AuthSession struct {
	BaseModel
	Token        string     `json:"token" gorm:"uniqueIndex;type:varchar(64);not null"`
	ApproverID   int64      `json:"approver_id" gorm:"not null;default:0"` // 0 until an authorized actor decides
	DisplayLabel string     `json:"display_label"`                        // requester context shown to the approver, e.g. "Web user from 1.2.3.4"
	Status       string     `json:"status" gorm:"not null;default:pending;index"`
	ExpiresAt    time.Time  `json:"expires_at" gorm:"not null;index"`
	DecidedAt    *time.Time `json:"decided_at"`
}

// Usable reports whether the session may still be acted on or honored.
// Expired sessions are indistinguishable from absent ones.
func (s *AuthSession) Usable(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// Project represents a portfolio entry shown on the public site
type Project struct {
	BaseModel
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description" gorm:"not null"`
	FullDescription string    `json:"full_description" gorm:"type:text;not null"`
	PreviewImage    string    `json:"preview_image"`
	LiveURL         string    `json:"live_url"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Tags []Tag `json:"tags" gorm:"many2many:project_tags;constraint:OnDelete:CASCADE"`
}

// Tag labels projects for filtering on the public site
type Tag struct {
	BaseModel
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&AppConfig{}, &AuthSession{}, &Project{}, &Tag{},
	}

	return db.AutoMigrate(models...)
}
