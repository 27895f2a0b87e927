package hub

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
)

// Hub maintains the set of connected dashboard pages and pushes refresh
// and alert events to them
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan models.ServerMessage
	register   chan *Client
	unregister chan *Client

	// Lifetime context for client pumps, set when Run starts
	runCtx   context.Context
	runCtxMu sync.RWMutex

	// Metrics
	totalConnections int64
	totalMessages    int64
	metricsMu        sync.Mutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.ServerMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	h.runCtxMu.Lock()
	h.runCtx = ctx
	h.runCtxMu.Unlock()

	log.Printf("[hub] started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// lifetimeContext returns the context client pumps run on
func (h *Hub) lifetimeContext() context.Context {
	h.runCtxMu.RLock()
	defer h.runCtxMu.RUnlock()

	if h.runCtx != nil {
		return h.runCtx
	}
	return context.Background()
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// BroadcastRefresh pushes a refresh-complete event to all clients
func (h *Hub) BroadcastRefresh(event models.RefreshEvent) {
	h.enqueue(models.ServerMessage{
		Type:      models.MessageTypeRefresh,
		Payload:   event,
		Timestamp: time.Now(),
	})
}

// BroadcastAlert pushes an alert to clients whose filter matches
func (h *Hub) BroadcastAlert(alert models.Alert) {
	h.enqueue(models.ServerMessage{
		Type:      models.MessageTypeAlert,
		Payload:   alert,
		Timestamp: time.Now(),
	})
}

// enqueue drops the message if the broadcast buffer is full
func (h *Hub) enqueue(msg models.ServerMessage) {
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("[hub] broadcast buffer full, dropping message")
	}
}

// registerClient adds a client to the active clients map
func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	h.incrementTotalConnections()

	log.Printf("[hub] client %s connected (total: %d)", c.ID, len(h.clients))
}

// unregisterClient removes a client from the active clients map
func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		log.Printf("[hub] client %s disconnected (total: %d)", c.ID, len(h.clients))
	}
}

// broadcastMessage sends a message to all clients whose filter matches
func (h *Hub) broadcastMessage(msg models.ServerMessage) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	sent := 0
	for _, c := range clients {
		if !c.MatchesFilter(msg) {
			continue
		}

		if c.TrySend(msg) {
			sent++
		} else {
			// Client buffer full - too slow, disconnect
			log.Printf("[hub] client %s buffer full, disconnecting", c.ID)
			go h.Unregister(c)
		}
	}

	if sent > 0 {
		h.incrementTotalMessages()
	}
}

// ClientCount returns the number of active clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Metrics returns hub counters
func (h *Hub) Metrics() (connections, messages int64) {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	return h.totalConnections, h.totalMessages
}

// shutdown closes all client connections
func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	log.Printf("[hub] shutting down (%d active clients)", len(h.clients))

	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
}

func (h *Hub) incrementTotalConnections() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalConnections++
}

func (h *Hub) incrementTotalMessages() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalMessages++
}
