package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is the persisted identity behind a user.
type Account struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never include in JSON responses
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RegisterRequest represents the request payload for account registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request payload for sign-in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	Account      Account `json:"account"`
}

// UserProfile represents account information safe for public consumption
type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// ToProfile converts Account to UserProfile
func (a *Account) ToProfile() UserProfile {
	return UserProfile{
		ID:        a.ID,
		Email:     a.Email,
		Username:  a.Username,
		CreatedAt: a.CreatedAt,
	}
}

// User is the signed-in session view: provider identity merged with the
// cloud-stored library.
type User struct {
	UUID      uuid.UUID `json:"uuid"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Favorites []int64   `json:"favorites"`
	Watchlist []int64   `json:"watchlist"`
}

// Library is the body of a user's cloud library file.
type Library struct {
	Favorites []int64 `json:"favorites"`
	Watchlist []int64 `json:"watchlist"`
}

// Clone returns a deep copy so callers cannot alias internal slices.
func (l Library) Clone() Library {
	return Library{
		Favorites: append([]int64{}, l.Favorites...),
		Watchlist: append([]int64{}, l.Watchlist...),
	}
}
