package controller

import (
	"errors"
	"net/http"

	"moviehub/pkg/logger"
	"moviehub/pkg/model"
	authService "moviehub/service-api/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// Login handles sign-in: it verifies credentials and loads the user's library
func (ctrl *controller) Login(c *gin.Context) {
	var req model.LoginRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		logger.Error(err, "failed to bind login request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	response, user, err := ctrl.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, authService.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		logger.Error(err, "failed to sign in user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign in"})
		return
	}

	logger.Infof("user signed in successfully: %s", response.Account.Email)
	c.JSON(http.StatusOK, gin.H{
		"access_token":  response.AccessToken,
		"refresh_token": response.RefreshToken,
		"account":       response.Account.ToProfile(),
		"user":          user,
	})
}

// Logout handles sign-out
func (ctrl *controller) Logout(c *gin.Context) {
	type LogoutRequest struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	var req LogoutRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		logger.Error(err, "failed to bind logout request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	err = ctrl.authService.Logout(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, authService.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		logger.Error(err, "failed to sign out user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	logger.Info("user signed out successfully")
	c.JSON(http.StatusOK, gin.H{"message": "signed out successfully"})
}
