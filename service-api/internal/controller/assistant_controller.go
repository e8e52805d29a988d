package controller

import (
	"errors"
	"net/http"

	"moviehub/pkg/logger"
	"moviehub/pkg/model"
	assistantService "moviehub/service-api/internal/service/assistant"

	"github.com/gin-gonic/gin"
)

// AssistantController handles the movie assistant chat
type AssistantController struct {
	assistantService assistantService.Service
}

// NewAssistantController creates a new assistant controller
func NewAssistantController(assistantService assistantService.Service) *AssistantController {
	return &AssistantController{
		assistantService: assistantService,
	}
}

// Chat sends a prompt and returns the updated conversation. A failed model
// call still returns the conversation, ending with a fallback reply.
func (ac *AssistantController) Chat(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	messages, err := ac.assistantService.Send(c.Request.Context(), claims, req.Prompt)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"messages": messages})
	case errors.Is(err, assistantService.ErrEmptyPrompt):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, assistantService.ErrNotSignedIn):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
	case messages != nil:
		logger.Error(err, "assistant reply failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "messages": messages})
	default:
		logger.Error(err, "failed to send assistant prompt")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send prompt"})
	}
}

// History returns the signed-in user's conversation
func (ac *AssistantController) History(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	messages, err := ac.assistantService.History(c.Request.Context(), claims)
	if err != nil {
		ac.failed(c, err, "failed to load conversation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Reset clears the signed-in user's conversation
func (ac *AssistantController) Reset(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	if err := ac.assistantService.Reset(c.Request.Context(), claims); err != nil {
		ac.failed(c, err, "failed to clear conversation")
		return
	}
	c.Status(http.StatusNoContent)
}

func (ac *AssistantController) failed(c *gin.Context, err error, message string) {
	if errors.Is(err, assistantService.ErrNotSignedIn) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	logger.Error(err, message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
