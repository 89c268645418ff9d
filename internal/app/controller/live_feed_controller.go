package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	ws "github.com/ikkim/shopadmin-backend/internal/websocket"
)

// LiveFeedController upgrades admin sessions onto the event hub.
type LiveFeedController struct {
	hub *ws.Hub
}

func NewLiveFeedController(hub *ws.Hub) *LiveFeedController {
	return &LiveFeedController{hub: hub}
}

// Connect streams order and stock events to an admin
// GET /api/ws/admin
func (ctrl *LiveFeedController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	// Upgrade writes its own error response.
	if err := ws.ServeWS(ctrl.hub, c.Writer, c.Request, userID); err != nil {
		log.Warn("WebSocket upgrade failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	log.Info("Admin joined live feed", map[string]interface{}{
		"user_id": userID,
		"clients": ctrl.hub.ClientCount(),
	})
}
