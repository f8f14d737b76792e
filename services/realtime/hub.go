// Package realtime is the websocket channel of an item: subscribers receive price
// updates and may place bids over the same connection.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"bid-admission/internal/events"
	"bid-admission/internal/metrics"
	"bid-admission/utils"
)

// Message types
const (
	TypeConnected = "connected"
	TypePlaceBid  = "place_bid"
	TypeBidResult = "bid_result"
	TypeError     = "error"
)

// Message is the envelope of every frame sent to a client.
type Message struct {
	Type   string `json:"type"`
	ItemID string `json:"item_id"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

type broadcastMessage struct {
	itemID  string
	payload []byte
}

// Hub tracks the clients watching each item and fans events out to them.
// Subscribers are kept as itemID -> *sync.Map of *Client.
type Hub struct {
	subscribers sync.Map

	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMessage
	done       chan struct{}

	metrics *metrics.Metrics
}

// NewHub creates a hub. m may be nil.
func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMessage, 256),
		done:       make(chan struct{}),
		metrics:    m,
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled, closing every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.broadcastToItem(msg.itemID, msg.payload)

		case <-ctx.Done():
			h.subscribers.Range(func(_, value any) bool {
				value.(*sync.Map).Range(func(key, _ any) bool {
					h.unregisterClient(key.(*Client))
					return true
				})
				return true
			})
			return
		}
	}
}

// Register adds a client to the hub and starts its write pump.
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return fmt.Errorf("realtime: hub stopped")
	}
}

// Unregister removes a client and closes its connection. It is safe to call twice.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish implements events.Publisher: bid updates and sales reach the item's subscribers.
// Other event types stay off the public channel.
func (h *Hub) Publish(ctx context.Context, e events.Event) error {
	if e.Type != events.BidPlaced && e.Type != events.ItemSold {
		return nil
	}
	select {
	case <-h.done:
		return fmt.Errorf("realtime: hub stopped")
	default:
	}
	payload, err := json.Marshal(Message{Type: e.Type, ItemID: e.ItemID, Data: e})
	if err != nil {
		return fmt.Errorf("realtime: encode %s: %w", e.Type, err)
	}
	select {
	case h.broadcast <- broadcastMessage{itemID: e.ItemID, payload: payload}:
		return nil
	case <-h.done:
		return fmt.Errorf("realtime: hub stopped")
	case <-ctx.Done():
		return fmt.Errorf("realtime: broadcast %s: %w", e.Type, ctx.Err())
	}
}

// SubscriberCount returns the number of clients watching an item.
func (h *Hub) SubscriberCount(itemID string) int {
	subs, ok := h.subscribers.Load(itemID)
	if !ok {
		return 0
	}
	count := 0
	subs.(*sync.Map).Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

func (h *Hub) registerClient(client *Client) {
	subs, _ := h.subscribers.LoadOrStore(client.ItemID, &sync.Map{})
	subs.(*sync.Map).Store(client, true)
	h.metrics.Subscribers(1)

	utils.Info("Client subscribed", map[string]any{"clientID": client.ID, "userID": client.UserID, "itemID": client.ItemID})
	go client.writePump()
}

func (h *Hub) unregisterClient(client *Client) {
	subs, ok := h.subscribers.Load(client.ItemID)
	if !ok {
		return
	}
	if _, loaded := subs.(*sync.Map).LoadAndDelete(client); !loaded {
		return
	}
	client.close()
	h.metrics.Subscribers(-1)

	utils.Info("Client unsubscribed", map[string]any{"clientID": client.ID, "itemID": client.ItemID})
}

func (h *Hub) broadcastToItem(itemID string, payload []byte) {
	subs, ok := h.subscribers.Load(itemID)
	if !ok {
		return
	}

	count := 0
	subs.(*sync.Map).Range(func(key, _ any) bool {
		client := key.(*Client)
		if client.send(payload) {
			count++
			return true
		}
		// a full send buffer means the client is not keeping up
		h.unregisterClient(client)
		return true
	})
	utils.Debug("Broadcast to item subscribers", map[string]any{"itemID": itemID, "clients": count})
}
