package controller

import (
	"context"
	"net/http"

	"moviehub/pkg/auth"
	"moviehub/pkg/logger"
	libraryService "moviehub/service-api/internal/service/library"
	movieService "moviehub/service-api/internal/service/movie"

	"github.com/gin-gonic/gin"
)

type toggleFunc func(ctx context.Context, claims *auth.JWTClaims, movieID int64) (bool, error)

// LibraryController handles favorites and watchlist requests
type LibraryController struct {
	libraryService libraryService.Service
	movieService   movieService.Service
}

// NewLibraryController creates a new library controller
func NewLibraryController(libraryService libraryService.Service, movieService movieService.Service) *LibraryController {
	return &LibraryController{
		libraryService: libraryService,
		movieService:   movieService,
	}
}

// ToggleFavorite flips a movie in the favorites list
func (lc *LibraryController) ToggleFavorite(c *gin.Context) {
	lc.toggle(c, "is_favorite", lc.libraryService.ToggleFavorite)
}

// ToggleWatchlist flips a movie in the watchlist
func (lc *LibraryController) ToggleWatchlist(c *gin.Context) {
	lc.toggle(c, "in_watchlist", lc.libraryService.ToggleWatchlist)
}

// toggle responds with the new membership as soon as the local state flips;
// the cloud write completes in the background
func (lc *LibraryController) toggle(c *gin.Context, field string, flip toggleFunc) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	movieID, ok := movieIDParam(c)
	if !ok {
		return
	}

	member, err := flip(c.Request.Context(), claims, movieID)
	if err != nil {
		libraryFailed(c, err, "failed to update library")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movie_id": movieID,
		field:      member,
	})
}

// WatchlistMovies returns the details of every movie on the watchlist
func (lc *LibraryController) WatchlistMovies(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	user, err := lc.libraryService.User(c.Request.Context(), claims)
	if err != nil {
		libraryFailed(c, err, "failed to load library")
		return
	}

	movies, err := lc.movieService.WatchlistMovies(c.Request.Context(), user.Watchlist)
	if err != nil {
		logger.Error(err, "failed to fetch watchlist movies")
		c.JSON(catalogStatus(err), gin.H{"error": "failed to fetch watchlist movies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movies": movies,
		"total":  len(movies),
	})
}

// SyncStatus reports whether library writes are pending or failing
func (lc *LibraryController) SyncStatus(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	status, err := lc.libraryService.Status(c.Request.Context(), claims)
	if err != nil {
		libraryFailed(c, err, "failed to load sync status")
		return
	}

	c.JSON(http.StatusOK, status)
}
