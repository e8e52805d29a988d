package controller

import (
	"errors"
	"net/http"

	"moviehub/pkg/logger"
	"moviehub/pkg/model"
	userService "moviehub/service-api/internal/service/user"

	"github.com/gin-gonic/gin"
)

// RegisterUser handles account registration
func (ctrl *controller) RegisterUser(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error(err, "failed to bind register request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	account, err := ctrl.userService.RegisterUser(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, userService.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		logger.Error(err, "failed to register user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	logger.Infof("user registered successfully: %s", account.Email)
	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"user":    account.ToProfile(),
	})
}

// GetProfile returns the signed-in user with their favorites and watchlist
func (ctrl *controller) GetProfile(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	user, err := ctrl.libraryService.User(c.Request.Context(), claims)
	if err != nil {
		libraryFailed(c, err, "failed to load library")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
