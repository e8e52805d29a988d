package middleware

import (
	"moviehub/pkg/auth"
	"moviehub/pkg/logger"

	"github.com/gin-gonic/gin"
)

// OptionalAuth sets the user claims when a valid access token is present and
// lets anonymous requests through otherwise
func OptionalAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			// a stale token on a public route is treated as anonymous
			logger.Debugf("ignoring invalid token on public route: %v", err)
			c.Next()
			return
		}

		auth.SetClaims(c, claims)
		c.Next()
	}
}

type MiddlewareProvider interface {
	RequireAuth() gin.HandlerFunc
	OptionalAuth() gin.HandlerFunc
}

type middleware struct {
	jwtManager *auth.JWTManager
}

func NewMiddleware(jwtManager *auth.JWTManager) MiddlewareProvider {
	return &middleware{jwtManager: jwtManager}
}

func (m *middleware) RequireAuth() gin.HandlerFunc {
	return auth.AuthMiddleware(m.jwtManager)
}

func (m *middleware) OptionalAuth() gin.HandlerFunc {
	return OptionalAuth(m.jwtManager)
}
