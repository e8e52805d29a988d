package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"moviehub/pkg/auth"
	"moviehub/pkg/config"
	"moviehub/pkg/model"
	authRepo "moviehub/service-api/internal/repository/auth"
	userRepo "moviehub/service-api/internal/repository/user"
	libraryService "moviehub/service-api/internal/service/library"
	userService "moviehub/service-api/internal/service/user"

	"github.com/google/uuid"
)

const refreshTokenTTL = 7 * 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid refresh token")
)

// Service defines the auth service interface
type Service interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, *model.User, error)
	Logout(ctx context.Context, refreshToken string) error
}

// authService provides auth-related services.
type authService struct {
	jwtManager     *auth.JWTManager
	userService    userService.Service
	libraryService libraryService.Service
	authRepo       authRepo.Repository
}

// NewAuthService creates a new auth service instance.
func NewAuthService(
	cfg *config.Config,
	userService userService.Service,
	libraryService libraryService.Service,
	authRepo authRepo.Repository,
) Service {
	return &authService{
		jwtManager:     auth.NewJWTManager(cfg.JWTSecret),
		userService:    userService,
		libraryService: libraryService,
		authRepo:       authRepo,
	}
}

// Login authenticates an account, issues tokens and loads the library
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, *model.User, error) {
	// get account by email
	account, err := s.userService.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userService.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	// verify password
	err = userRepo.VerifyPassword(account.PasswordHash, req.Password)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	// generate tokens, both bound to this sign-in
	sessionID := uuid.New()
	accessToken, err := s.jwtManager.GenerateAccessToken(account, sessionID)
	if err != nil {
		return nil, nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(account, sessionID)
	if err != nil {
		return nil, nil, err
	}

	// store refresh token hash in database
	err = s.authRepo.StoreRefreshToken(ctx, sessionID, account.ID, hashToken(refreshToken), time.Now().Add(refreshTokenTTL))
	if err != nil {
		return nil, nil, err
	}

	// a sign-in that cannot read the library stays signed out
	user, err := s.libraryService.SignIn(ctx, account)
	if err != nil {
		if revokeErr := s.authRepo.DeleteSession(ctx, sessionID); revokeErr != nil {
			return nil, nil, errors.Join(err, revokeErr)
		}
		return nil, nil, err
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Account:      *account,
	}, user, nil
}

// Logout revokes the session the refresh token belongs to and clears the
// library session. Access tokens of that session stop working for library
// requests at once.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidToken
	}

	s.libraryService.SignOut(ctx, claims)
	return nil
}

// hashToken creates a SHA-256 hash of a token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
