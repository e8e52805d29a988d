package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"moviehub/pkg/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// ErrDuplicateEmail is returned when the unique email constraint rejects an insert
var ErrDuplicateEmail = errors.New("email already registered")

// Repository defines the account repository interface
type Repository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
}

// repository implements the account repository
type repository struct {
	db *sql.DB
}

// NewRepository creates a new account repository
func NewRepository(db *sql.DB) Repository {
	return &repository{
		db: db,
	}
}

// Create inserts a new account
func (r *repository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO users (id, email, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, account.ID, normalizeEmail(account.Email), account.Username, account.PasswordHash, account.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}

// GetByEmail retrieves an account by email, returning nil when absent
func (r *repository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `
		SELECT id, email, username, password_hash, created_at
		FROM users
		WHERE email = $1`

	return r.scan(r.db.QueryRowContext(ctx, query, normalizeEmail(email)))
}

// GetByID retrieves an account by ID, returning nil when absent
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	query := `
		SELECT id, email, username, password_hash, created_at
		FROM users
		WHERE id = $1`

	return r.scan(r.db.QueryRowContext(ctx, query, id))
}

func (r *repository) scan(row *sql.Row) (*model.Account, error) {
	account := &model.Account{}
	err := row.Scan(&account.ID, &account.Email, &account.Username, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Account not found
		}
		return nil, err
	}
	return account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// VerifyPassword verifies a password against its hash
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
