package hub

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Buffer size for outbound messages
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard pages are served from configured origins; CORS middleware
	// already gates the HTTP side
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client represents one connected dashboard page
type Client struct {
	ID   string
	Send chan models.ServerMessage

	conn     *websocket.Conn
	hub      *Hub
	filter   models.SubscriptionFilter
	filterMu sync.RWMutex
}

// ServeWS upgrades an HTTP request to a websocket connection and starts
// the client pumps
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[hub] upgrade failed: %v", err)
		return
	}

	c := &Client{
		ID:   uuid.NewString(),
		Send: make(chan models.ServerMessage, sendBufferSize),
		conn: conn,
		hub:  h,
	}

	h.Register(c)

	// Pumps run on the hub's lifetime context, not the request context;
	// net/http cancels the request context when this handler returns
	ctx := h.lifetimeContext()
	go c.writePump(ctx)
	go c.readPump(ctx)
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg models.ClientMessage
			if err := c.conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[hub] client %s unexpected close: %v", c.ID, err)
				}
				return
			}

			c.handleClientMessage(msg)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				log.Printf("[hub] client %s write error: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend sends a message to the client without blocking.
// Returns false if the client buffer is full.
func (c *Client) TrySend(msg models.ServerMessage) bool {
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// SetFilter updates the client's subscription filter
func (c *Client) SetFilter(filter models.SubscriptionFilter) {
	c.filterMu.Lock()
	defer c.filterMu.Unlock()
	c.filter = filter
}

// MatchesFilter checks whether a server message passes the client's filter.
// Only alert messages are filtered; refresh events always pass.
func (c *Client) MatchesFilter(msg models.ServerMessage) bool {
	if msg.Type != models.MessageTypeAlert {
		return true
	}

	c.filterMu.RLock()
	defer c.filterMu.RUnlock()

	if len(c.filter.AlertTypes) == 0 {
		return true
	}

	alert, ok := msg.Payload.(models.Alert)
	if !ok {
		return true
	}

	for _, t := range c.filter.AlertTypes {
		if t == string(alert.Type) {
			return true
		}
	}
	return false
}

// handleClientMessage processes messages from the client
func (c *Client) handleClientMessage(msg models.ClientMessage) {
	switch msg.Type {
	case models.MessageTypeSubscribe:
		c.handleSubscribe(msg.Payload)
	case models.MessageTypeHeartbeat:
		c.TrySend(models.ServerMessage{
			Type:      models.MessageTypeHeartbeat,
			Timestamp: time.Now(),
		})
	default:
		c.TrySend(models.ServerMessage{
			Type: models.MessageTypeError,
			Payload: models.ErrorMessage{
				Code:    "unknown_message_type",
				Message: "unknown message type: " + msg.Type,
			},
			Timestamp: time.Now(),
		})
	}
}

// handleSubscribe updates the client's filter from a subscription request
func (c *Client) handleSubscribe(payload map[string]interface{}) {
	filterJSON, err := json.Marshal(payload)
	if err != nil {
		return
	}

	var filter models.SubscriptionFilter
	if err := json.Unmarshal(filterJSON, &filter); err != nil {
		c.TrySend(models.ServerMessage{
			Type: models.MessageTypeError,
			Payload: models.ErrorMessage{
				Code:    "invalid_filter",
				Message: "failed to parse filter",
			},
			Timestamp: time.Now(),
		})
		return
	}

	c.SetFilter(filter)
	log.Printf("[hub] client %s subscribed: alert_types=%v", c.ID, filter.AlertTypes)
}
