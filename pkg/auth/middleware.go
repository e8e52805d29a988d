package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware
const (
	ContextUser     = "user"
	ContextUserID   = "user_id"
	ContextEmail    = "user_email"
	ContextUsername = "username"
)

// AuthMiddleware requires a valid bearer access token
func AuthMiddleware(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			msg := "Invalid authentication token"
			if errors.Is(err, ErrExpiredToken) {
				msg = "Access token has expired"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}

		SetClaims(c, claims)
		c.Next()
	}
}

// SetClaims stores claims in the request context
func SetClaims(c *gin.Context, claims *JWTClaims) {
	c.Set(ContextUser, claims)
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextUsername, claims.Username)
}

// ClaimsFromContext returns the claims set by AuthMiddleware
func ClaimsFromContext(c *gin.Context) (*JWTClaims, bool) {
	value, exists := c.Get(ContextUser)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*JWTClaims)
	return claims, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
