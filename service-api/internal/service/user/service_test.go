package user

import (
	"context"
	"testing"

	"moviehub/pkg/model"
	userRepo "moviehub/service-api/internal/repository/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memRepo struct {
	accounts map[string]*model.Account
}

func (r *memRepo) Create(ctx context.Context, account *model.Account) error {
	if _, ok := r.accounts[account.Email]; ok {
		return userRepo.ErrDuplicateEmail
	}
	r.accounts[account.Email] = account
	return nil
}

func (r *memRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.accounts[email], nil
}

func (r *memRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	for _, a := range r.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func TestRegisterUser(t *testing.T) {
	svc := NewUserService(&memRepo{accounts: map[string]*model.Account{}})
	ctx := context.Background()

	account, err := svc.RegisterUser(ctx, &model.RegisterRequest{
		Email:    "  Ana@Example.com ",
		Username: "ana",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", account.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("secret123")))

	_, err = svc.RegisterUser(ctx, &model.RegisterRequest{
		Email:    "ANA@example.com",
		Username: "other",
		Password: "secret456",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	found, err := svc.GetUserByEmail(ctx, "Ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)

	byID, err := svc.GetUserByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", byID.Username)
}

func TestGetUserNotFound(t *testing.T) {
	svc := NewUserService(&memRepo{accounts: map[string]*model.Account{}})

	_, err := svc.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.GetUserByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
