package auth

import (
	"errors"
	"fmt"
	"time"

	"moviehub/pkg/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type")
)

// JWTClaims carries the identity of a signed-in account
type JWTClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	SessionID uuid.UUID `json:"sid"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates HS256 tokens
type JWTManager struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTManager creates a JWT manager with the default token lifetimes
func NewJWTManager(secretKey string) *JWTManager {
	return &JWTManager{
		secretKey:  []byte(secretKey),
		accessTTL:  AccessTokenTTL,
		refreshTTL: RefreshTokenTTL,
		now:        time.Now,
	}
}

// GenerateAccessToken creates a short-lived access token for the account.
// sessionID ties it to the sign-in that issued it.
func (m *JWTManager) GenerateAccessToken(account *model.Account, sessionID uuid.UUID) (string, error) {
	return m.generate(account, sessionID, TokenTypeAccess, m.accessTTL)
}

// GenerateRefreshToken creates a refresh token for the account
func (m *JWTManager) GenerateRefreshToken(account *model.Account, sessionID uuid.UUID) (string, error) {
	return m.generate(account, sessionID, TokenTypeRefresh, m.refreshTTL)
}

func (m *JWTManager) generate(account *model.Account, sessionID uuid.UUID, tokenType string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &JWTClaims{
		UserID:    account.ID,
		SessionID: sessionID,
		Email:     account.Email,
		Username:  account.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses an access token and returns its claims
func (m *JWTManager) ValidateToken(tokenString string) (*JWTClaims, error) {
	return m.validate(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken parses a refresh token and returns its claims
func (m *JWTManager) ValidateRefreshToken(tokenString string) (*JWTClaims, error) {
	return m.validate(tokenString, TokenTypeRefresh)
}

func (m *JWTManager) validate(tokenString, tokenType string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
