package notifier_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/notifier"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
)

func testAlert() models.Alert {
	return models.Alert{
		ID:         "test-alert-1",
		LeagueID:   77,
		Type:       models.AlertPickup,
		Severity:   models.SeverityUrgent,
		PlayerID:   4432573,
		PlayerName: "Tristan da Silva",
		Position:   "SF",
		ProTeam:    "ORL",
		Score:      550,
		Detail:     "Tristan da Silva beats your weakest player by 5.50",
		DetectedAt: time.Date(2026, 1, 10, 14, 30, 0, 0, time.UTC),
	}
}

func TestSendAlert(t *testing.T) {
	var received map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := notifier.NewSlackNotifier(server.URL, "https://dash.example.com")

	if err := n.SendAlert(context.Background(), testAlert()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, ok := received["text"].(string)
	if !ok {
		t.Fatal("payload missing text field")
	}

	for _, want := range []string{
		"PICKUP ALERT",
		"🔴 urgent",
		"Tristan da Silva",
		"SF - ORL",
		"5.50",
		"https://dash.example.com/alerts",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q:\n%s", want, text)
		}
	}
}

func TestSendAlertWebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	n := notifier.NewSlackNotifier(server.URL, "")

	if err := n.SendAlert(context.Background(), testAlert()); err == nil {
		t.Error("expected error for non-200 webhook response")
	}
}

func TestSendAlertNoWebhookConfigured(t *testing.T) {
	n := notifier.NewSlackNotifier("", "")

	// Alerts are logged and dropped, never an error
	if err := n.SendAlert(context.Background(), testAlert()); err != nil {
		t.Errorf("unexpected error without webhook: %v", err)
	}
}

func TestSendBatchAlerts(t *testing.T) {
	var count int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := notifier.NewSlackNotifier(server.URL, "")

	alerts := []models.Alert{testAlert(), testAlert(), testAlert()}
	if err := n.SendBatchAlerts(context.Background(), alerts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if count != 3 {
		t.Errorf("webhook called %d times, want 3", count)
	}
}

func TestSendStartupNotification(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := notifier.NewSlackNotifier(server.URL, "")

	if err := n.SendStartupNotification(context.Background(), "My League", 15*time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, _ := received["text"].(string)
	if !strings.Contains(text, "My League") || !strings.Contains(text, "15m0s") {
		t.Errorf("startup message missing league or interval:\n%s", text)
	}
}
