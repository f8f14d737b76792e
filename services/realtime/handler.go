package realtime

import (
	"errors"
	"net/http"

	"bid-admission/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	hub     *Hub
	bids    BidPlacer
	limiter Throttle
}

func NewHandler(hub *Hub, bids BidPlacer, limiter Throttle) *Handler {
	return &Handler{hub: hub, bids: bids, limiter: limiter}
}

// ServeWS handles GET /ws/items/:item_id?user_id=
func (h *Handler) ServeWS(c *gin.Context) {
	itemID := c.Param("item_id")
	userID := c.Query("user_id")
	if itemID == "" || userID == "" {
		utils.JSONError(c, http.StatusBadRequest, errors.New("item_id and user_id are required"), "invalid request payload")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Warn("Failed to upgrade connection", map[string]any{"itemID": itemID, "error": err.Error()})
		return
	}

	client := newClient(uuid.NewString(), userID, itemID, conn)
	if err := h.hub.Register(client); err != nil {
		_ = conn.Close()
		return
	}
	go client.readPump(h.hub, h.bids, h.limiter)

	client.sendMessage(Message{
		Type:   TypeConnected,
		ItemID: itemID,
		Data:   gin.H{"client_id": client.ID, "user_id": userID},
	})
}
