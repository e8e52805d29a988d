package controller

import (
	"errors"
	"net/http"
	"strconv"

	"moviehub/pkg/auth"
	"moviehub/pkg/library"
	"moviehub/pkg/logger"
	"moviehub/pkg/tmdb"
	authService "moviehub/service-api/internal/service/auth"
	libraryService "moviehub/service-api/internal/service/library"
	userService "moviehub/service-api/internal/service/user"

	"github.com/gin-gonic/gin"
)

// ControllerProvider defines the controller interface
type ControllerProvider interface {
	RegisterUser(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	GetProfile(c *gin.Context)
}

// controller implements the controller interface
type controller struct {
	authService    authService.Service
	userService    userService.Service
	libraryService libraryService.Service
}

// NewController creates a new controller instance
func NewController(
	authService authService.Service,
	userService userService.Service,
	libraryService libraryService.Service,
) ControllerProvider {
	return &controller{
		authService:    authService,
		userService:    userService,
		libraryService: libraryService,
	}
}

// requireClaims reads the claims set by the auth middleware
func requireClaims(c *gin.Context) (*auth.JWTClaims, bool) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}
	return claims, true
}

// movieIDParam parses the :movieId path parameter
func movieIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("movieId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie ID"})
		return 0, false
	}
	return id, true
}

// catalogStatus maps a catalog failure to an HTTP status
func catalogStatus(err error) int {
	var apiErr *tmdb.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// libraryFailed responds to a library session error. A revoked or closed
// session reads as signed out.
func libraryFailed(c *gin.Context, err error, message string) {
	if errors.Is(err, library.ErrNotSignedIn) || errors.Is(err, library.ErrClosed) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	logger.Error(err, message)
	c.JSON(http.StatusBadGateway, gin.H{"error": message})
}
