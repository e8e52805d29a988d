package controller

import (
	"errors"
	"net/http"
	"strconv"

	"moviehub/pkg/auth"
	"moviehub/pkg/logger"
	libraryService "moviehub/service-api/internal/service/library"
	movieService "moviehub/service-api/internal/service/movie"

	"github.com/gin-gonic/gin"
)

// MovieController handles catalog HTTP requests
type MovieController struct {
	movieService   movieService.Service
	libraryService libraryService.Service
}

// NewMovieController creates a new movie controller
func NewMovieController(movieService movieService.Service, libraryService libraryService.Service) *MovieController {
	return &MovieController{
		movieService:   movieService,
		libraryService: libraryService,
	}
}

// Discover returns a page of popular movies
func (mc *MovieController) Discover(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}

	result, err := mc.movieService.Discover(c.Request.Context(), page)
	if err != nil {
		logger.Error(err, "failed to discover movies")
		c.JSON(catalogStatus(err), gin.H{"error": "failed to fetch movies"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Trending returns today's trending movies
func (mc *MovieController) Trending(c *gin.Context) {
	result, err := mc.movieService.Trending(c.Request.Context())
	if err != nil {
		logger.Error(err, "failed to fetch trending movies")
		c.JSON(catalogStatus(err), gin.H{"error": "failed to fetch trending movies"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMovie returns movie details; signed-in callers also get their list membership
func (mc *MovieController) GetMovie(c *gin.Context) {
	id, ok := movieIDParam(c)
	if !ok {
		return
	}

	movie, err := mc.movieService.GetMovie(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, movieService.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
			return
		}
		logger.Error(err, "failed to get movie")
		c.JSON(catalogStatus(err), gin.H{"error": "failed to fetch movie"})
		return
	}

	response := gin.H{
		"movie":   movie,
		"trailer": movie.Trailer(),
	}
	if claims, ok := auth.ClaimsFromContext(c); ok {
		favorite, watchlist := mc.libraryService.Membership(c.Request.Context(), claims, id)
		response["is_favorite"] = favorite
		response["in_watchlist"] = watchlist
	}

	c.JSON(http.StatusOK, response)
}

// Similar returns movies similar to the given one
func (mc *MovieController) Similar(c *gin.Context) {
	id, ok := movieIDParam(c)
	if !ok {
		return
	}

	result, err := mc.movieService.Similar(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, movieService.ErrMovieNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
			return
		}
		logger.Error(err, "failed to get similar movies")
		c.JSON(catalogStatus(err), gin.H{"error": "failed to fetch similar movies"})
		return
	}

	c.JSON(http.StatusOK, result)
}
