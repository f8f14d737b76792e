package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	model "bid-admission/internal/models"
	"bid-admission/internal/throttle"
	"bid-admission/utils"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
	bidTimeout     = 10 * time.Second
)

// BidPlacer admits bids sent over the channel.
type BidPlacer interface {
	PlaceBid(ctx context.Context, userID, itemID string, amount decimal.Decimal) (model.AdmissionResult, error)
}

// Throttle limits inbound messages per user.
type Throttle interface {
	Allow(ctx context.Context, rule, userID string) bool
}

// Client is one websocket subscription to an item.
type Client struct {
	ID     string
	UserID string
	ItemID string
	Conn   *websocket.Conn

	sendCh chan []byte
	mu     sync.Mutex
	closed bool
}

// inbound is a frame received from the client
type inbound struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

func newClient(id, userID, itemID string, conn *websocket.Conn) *Client {
	return &Client{
		ID:     id,
		UserID: userID,
		ItemID: itemID,
		Conn:   conn,
		sendCh: make(chan []byte, sendBuffer),
	}
}

// send queues payload without blocking; false when the client is closed or full.
func (c *Client) send(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.sendCh <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) sendMessage(msg Message) bool {
	payload, err := json.Marshal(msg)
	if err != nil {
		utils.Error("Failed to encode realtime message", map[string]any{"type": msg.Type, "error": err.Error()})
		return false
	}
	return c.send(payload)
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.sendCh)
}

// writePump moves queued frames to the connection and keeps it alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.sendCh:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump handles inbound frames until the connection drops.
func (c *Client) readPump(hub *Hub, bids BidPlacer, limiter Throttle) {
	defer hub.Unregister(c)

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				utils.Warn("WebSocket read error", map[string]any{"clientID": c.ID, "error": err.Error()})
			}
			return
		}
		c.handle(raw, bids, limiter)
	}
}

func (c *Client) handle(raw []byte, bids BidPlacer, limiter Throttle) {
	ctx, cancel := context.WithTimeout(context.Background(), bidTimeout)
	defer cancel()

	if !limiter.Allow(ctx, throttle.RuleMessage, c.UserID) {
		c.sendMessage(Message{Type: TypeError, ItemID: c.ItemID, Error: throttle.ExceededMessage})
		return
	}

	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendMessage(Message{Type: TypeError, ItemID: c.ItemID, Error: "invalid message"})
		return
	}
	if msg.Type != TypePlaceBid {
		c.sendMessage(Message{Type: TypeError, ItemID: c.ItemID, Error: "unsupported message type " + msg.Type})
		return
	}
	if !msg.Amount.IsPositive() {
		c.sendMessage(Message{Type: TypeError, ItemID: c.ItemID, Error: "amount must be positive"})
		return
	}

	res, err := bids.PlaceBid(ctx, c.UserID, c.ItemID, msg.Amount)
	if err != nil {
		utils.Warn("Realtime bid failed", map[string]any{"clientID": c.ID, "userID": c.UserID, "itemID": c.ItemID, "error": err.Error()})
		c.sendMessage(Message{Type: TypeError, ItemID: c.ItemID, Error: err.Error()})
		return
	}
	c.sendMessage(Message{Type: TypeBidResult, ItemID: c.ItemID, Data: res})
}
