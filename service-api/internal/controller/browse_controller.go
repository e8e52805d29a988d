package controller

import (
	"errors"
	"net/http"

	"moviehub/pkg/listing"
	"moviehub/pkg/logger"
	browseService "moviehub/service-api/internal/service/browse"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BrowseController serves listing sessions: search, category browsing,
// infinite scroll and the trending row
type BrowseController struct {
	browseService browseService.Service
}

// NewBrowseController creates a new browse controller
func NewBrowseController(browseService browseService.Service) *BrowseController {
	return &BrowseController{
		browseService: browseService,
	}
}

type searchRequest struct {
	Term      string `json:"term"`
	Immediate bool   `json:"immediate"`
}

type categoryRequest struct {
	Category string `json:"category" binding:"required"`
}

type sentinelRequest struct {
	Target  string `json:"target" binding:"required"`
	Visible bool   `json:"visible"`
}

// stateResponse is the list state plus the explicit page controls
type stateResponse struct {
	SessionID uuid.UUID            `json:"session_id"`
	State     listing.ListState    `json:"state"`
	Pages     listing.PageControls `json:"pages"`
}

func newStateResponse(id uuid.UUID, state listing.ListState) stateResponse {
	return stateResponse{
		SessionID: id,
		State:     state,
		Pages:     listing.Controls(state.CurrentPage, state.TotalPages, listing.DefaultPageRadius),
	}
}

// CreateSession opens a browse session
func (bc *BrowseController) CreateSession(c *gin.Context) {
	id, state, err := bc.browseService.Create(c.Request.Context())
	if err != nil {
		logger.Error(err, "failed to create browse session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, newStateResponse(id, state))
}

// GetSession returns the current list state
func (bc *BrowseController) GetSession(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	state, err := bc.browseService.State(id)
	if bc.handleError(c, err) {
		return
	}
	c.JSON(http.StatusOK, newStateResponse(id, state))
}

// Search changes the search term. Type-ahead searches are debounced and
// answered with 202; the resulting state is read with GetSession.
func (bc *BrowseController) Search(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error(err, "failed to bind search request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if !req.Immediate {
		state, err := bc.browseService.SearchDebounced(id, req.Term)
		if bc.handleError(c, err) {
			return
		}
		c.JSON(http.StatusAccepted, newStateResponse(id, state))
		return
	}

	state, err := bc.browseService.Search(c.Request.Context(), id, req.Term)
	if bc.handleError(c, err) {
		return
	}
	c.JSON(http.StatusOK, newStateResponse(id, state))
}

// SetCategory switches the category and clears the search term
func (bc *BrowseController) SetCategory(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error(err, "failed to bind category request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	state, err := bc.browseService.SetCategory(c.Request.Context(), id, req.Category)
	if bc.handleError(c, err) {
		return
	}
	c.JSON(http.StatusOK, newStateResponse(id, state))
}

// NextPage loads the next page when a continuation is allowed
func (bc *BrowseController) NextPage(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	state, started, err := bc.browseService.NextPage(c.Request.Context(), id)
	if bc.handleError(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"started": started,
		"session": newStateResponse(id, state),
	})
}

// Sentinel reports the visibility of the scroll sentinel
func (bc *BrowseController) Sentinel(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req sentinelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error(err, "failed to bind sentinel request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	state, fired, err := bc.browseService.Sentinel(c.Request.Context(), id, req.Target, req.Visible)
	if bc.handleError(c, err) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fired":   fired,
		"session": newStateResponse(id, state),
	})
}

// Trending refreshes the trending row
func (bc *BrowseController) Trending(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	state, err := bc.browseService.Trending(c.Request.Context(), id)
	if bc.handleError(c, err) {
		return
	}
	c.JSON(http.StatusOK, newStateResponse(id, state))
}

func (bc *BrowseController) handleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, browseService.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "browse session not found"})
		return true
	}
	logger.Error(err, "browse request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	return true
}

func sessionIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return uuid.Nil, false
	}
	return id, true
}
