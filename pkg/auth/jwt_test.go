package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moviehub/pkg/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccount() *model.Account {
	return &model.Account{
		ID:       uuid.MustParse("6f1c1b8e-4c57-4d4e-9d7c-5c7b2f0e9a11"),
		Email:    "ripley@nostromo.test",
		Username: "ripley",
	}
}

func TestJWTManagerRoundTrip(t *testing.T) {
	m := NewJWTManager("secret")

	sessionID := uuid.New()
	access, err := m.GenerateAccessToken(testAccount(), sessionID)
	require.NoError(t, err)

	claims, err := m.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, testAccount().ID, claims.UserID)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, "ripley", claims.Username)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	_, err = m.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	refresh, err := m.GenerateRefreshToken(testAccount(), sessionID)
	require.NoError(t, err)
	refreshClaims, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, sessionID, refreshClaims.SessionID)
}

func TestJWTManagerRejects(t *testing.T) {
	m := NewJWTManager("secret")
	token, err := m.GenerateAccessToken(testAccount(), uuid.New())
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		_, err := NewJWTManager("other").ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewJWTManager("secret")
		later.now = func() time.Time { return time.Now().Add(AccessTokenTTL + time.Hour) }
		_, err := later.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewJWTManager("secret")
	token, err := m.GenerateAccessToken(testAccount(), uuid.New())
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", AuthMiddleware(m), func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		require.True(t, ok)
		c.String(http.StatusOK, claims.Email)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "bad scheme", header: "Basic " + token, want: http.StatusUnauthorized},
		{name: "invalid", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + token, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
