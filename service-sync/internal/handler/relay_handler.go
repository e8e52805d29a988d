package handler

import (
	"net/http"

	"moviehub/pkg/auth"
	"moviehub/pkg/logger"
	"moviehub/pkg/model"
	"moviehub/service-sync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// RelayHandler handles HTTP requests for the sync service
type RelayHandler struct {
	service    service.RelayService
	jwtManager *auth.JWTManager
	upgrader   websocket.Upgrader
}

// NewRelayHandler creates a new relay handler instance. An empty allowedOrigins
// accepts every origin.
func NewRelayHandler(service service.RelayService, jwtManager *auth.JWTManager, allowedOrigins []string) *RelayHandler {
	return &RelayHandler{
		service:    service,
		jwtManager: jwtManager,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowedOrigins) == 0 {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		},
	}
}

// HandleWebSocket streams library sync events for the token's user
func (h *RelayHandler) HandleWebSocket(c *gin.Context) {
	// browsers cannot set headers on websocket requests, so the token may come in the query
	token := c.Query("token")
	if token == "" {
		token = auth.BearerToken(c.GetHeader("Authorization"))
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	claims, err := h.jwtManager.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	// upgrade HTTP connection to WebSocket
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error(err, "failed to upgrade connection to WebSocket")
		return
	}
	defer conn.Close()

	err = h.service.HandleConnection(c.Request.Context(), claims.UserID, conn)
	if err != nil {
		logger.Error(err, "failed to handle WebSocket connection")
		// send error message to client before closing
		conn.WriteJSON(&model.WebSocketMessage{
			Type: model.MessageTypeError,
			Payload: model.ErrorMessage{
				Code:    "CONNECTION_ERROR",
				Message: err.Error(),
			},
		})
	}
}

// GetConnections reports how many event streams the caller has open
func (h *RelayHandler) GetConnections(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":     claims.UserID,
		"connections": h.service.ConnectionCount(claims.UserID),
	})
}
