package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"moviehub/pkg/model"
	userRepo "moviehub/service-api/internal/repository/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
)

// Service defines the account service interface
type Service interface {
	RegisterUser(ctx context.Context, req *model.RegisterRequest) (*model.Account, error)
	GetUserByEmail(ctx context.Context, email string) (*model.Account, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
}

// userService provides account-related services.
type userService struct {
	userRepo userRepo.Repository
}

// NewUserService creates a new user service instance.
func NewUserService(userRepo userRepo.Repository) Service {
	return &userService{
		userRepo: userRepo,
	}
}

// RegisterUser registers a new account
func (s *userService) RegisterUser(ctx context.Context, req *model.RegisterRequest) (*model.Account, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// check if account already exists
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	// hash the password
	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		ID:           uuid.New(),
		Email:        email,
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.userRepo.Create(ctx, account)
	if errors.Is(err, userRepo.ErrDuplicateEmail) {
		return nil, ErrUserAlreadyExists
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetUserByEmail retrieves an account by email
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*model.Account, error) {
	account, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUserNotFound
	}
	return account, nil
}

// GetUserByID retrieves an account by ID
func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	account, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUserNotFound
	}
	return account, nil
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}
