package handlers

import (
	"net/http"

	"mining_webapp/internal/logger"
	"mining_webapp/internal/service"
	"mining_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Telegram webapps load from an arbitrary frame origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocket upgrades the connection and streams balance events to the user.
// Browsers cannot set headers on websocket dials, so the JWT rides the query.
func (h *Handler) WebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token is required"})
		return
	}
	userID, err := service.ParseJWT(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := ws.NewClient(h.Hub, conn, userID)
	go client.Run()
}
