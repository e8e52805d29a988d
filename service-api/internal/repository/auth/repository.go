package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"moviehub/pkg/model"

	"github.com/google/uuid"
)

// Repository defines the refresh token repository interface. Each row is one
// sign-in session; its id is the session id carried by both tokens.
type Repository interface {
	StoreRefreshToken(ctx context.Context, sessionID, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetSession(ctx context.Context, sessionID uuid.UUID) (*model.Token, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
}

// repository implements the auth repository
type repository struct {
	db *sql.DB
}

// NewRepository creates a new auth repository
func NewRepository(db *sql.DB) Repository {
	return &repository{
		db: db,
	}
}

// StoreRefreshToken stores a refresh token hash in the database
func (r *repository) StoreRefreshToken(ctx context.Context, sessionID, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO tokens (id, user_id, value, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, sessionID, userID, tokenHash, expiresAt, time.Now())
	return err
}

// GetSession retrieves an unexpired session by id
func (r *repository) GetSession(ctx context.Context, sessionID uuid.UUID) (*model.Token, error) {
	token := &model.Token{}
	query := `
		SELECT id, user_id, value, expires_at, created_at
		FROM tokens
		WHERE id = $1 AND expires_at > NOW()`

	row := r.db.QueryRowContext(ctx, query, sessionID)
	err := row.Scan(&token.ID, &token.UserID, &token.Value, &token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Session revoked or expired
		}
		return nil, err
	}

	return token, nil
}

// DeleteSession revokes a session and its refresh token
func (r *repository) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	query := `DELETE FROM tokens WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, sessionID)
	return err
}
