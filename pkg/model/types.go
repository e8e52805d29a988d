package model

import (
	"time"

	"github.com/google/uuid"
)

// Token is a stored refresh token hash
type Token struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Value     string    `json:"value" db:"value"` // SHA-256 hex of the refresh token
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
