package hub_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/hub"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
	"github.com/gorilla/websocket"
)

// dialTestHub starts a hub, serves it over httptest, and dials one client
func dialTestHub(t *testing.T) (*hub.Hub, *websocket.Conn, func()) {
	t.Helper()

	h := hub.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(h.ServeWS))

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		cancel()
		server.Close()
		t.Fatalf("dialing hub: %v", err)
	}

	cleanup := func() {
		conn.Close()
		cancel()
		server.Close()
	}
	return h, conn, cleanup
}

// waitForClients polls until the hub sees the expected client count
func waitForClients(t *testing.T, h *hub.Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", h.ClientCount(), want)
}

func TestServeWSClientStaysConnected(t *testing.T) {
	h, conn, cleanup := dialTestHub(t)
	defer cleanup()

	waitForClients(t, h, 1)

	// The connection must survive the upgrade handler returning: the pumps
	// run on the hub's lifetime context, so a broadcast sent after the
	// handshake still reaches the client
	h.BroadcastRefresh(models.RefreshEvent{
		LeagueID:    77,
		FetchedAt:   time.Now().UTC(),
		ChangeCount: 3,
		AlertCount:  1,
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg models.ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("reading broadcast: %v", err)
	}

	if msg.Type != models.MessageTypeRefresh {
		t.Errorf("message type = %q, want %q", msg.Type, models.MessageTypeRefresh)
	}

	payload, ok := msg.Payload.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected payload shape: %T", msg.Payload)
	}
	if got := payload["league_id"].(float64); got != 77 {
		t.Errorf("league_id = %v, want 77", got)
	}
}

func TestServeWSHeartbeat(t *testing.T) {
	h, conn, cleanup := dialTestHub(t)
	defer cleanup()

	waitForClients(t, h, 1)

	if err := conn.WriteJSON(models.ClientMessage{Type: models.MessageTypeHeartbeat}); err != nil {
		t.Fatalf("writing heartbeat: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg models.ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("reading heartbeat reply: %v", err)
	}
	if msg.Type != models.MessageTypeHeartbeat {
		t.Errorf("message type = %q, want %q", msg.Type, models.MessageTypeHeartbeat)
	}
}

func TestServeWSAlertFilter(t *testing.T) {
	h, conn, cleanup := dialTestHub(t)
	defer cleanup()

	waitForClients(t, h, 1)

	// Subscribe to injury alerts only
	err := conn.WriteJSON(models.ClientMessage{
		Type:    models.MessageTypeSubscribe,
		Payload: map[string]interface{}{"alert_types": []string{"injury"}},
	})
	if err != nil {
		t.Fatalf("writing subscription: %v", err)
	}

	// The subscribe round trip has no ack; give the read pump a moment
	time.Sleep(100 * time.Millisecond)

	h.BroadcastAlert(models.Alert{ID: "p1", Type: models.AlertPickup, Detail: "filtered out"})
	h.BroadcastAlert(models.Alert{ID: "i1", Type: models.AlertInjury, Detail: "passes"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg models.ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("reading alert: %v", err)
	}

	payload, ok := msg.Payload.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected payload shape: %T", msg.Payload)
	}
	if got := payload["id"]; got != "i1" {
		t.Errorf("received alert %v, want i1 (pickup should be filtered)", got)
	}
}

func TestHubShutdownDisconnectsClients(t *testing.T) {
	h := hub.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing hub: %v", err)
	}
	defer conn.Close()

	waitForClients(t, h, 1)

	cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			// Close or EOF from the server side ends the loop
			return
		}
	}
}
