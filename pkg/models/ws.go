package models

import "time"

// WebSocket message types exchanged with dashboard pages
const (
	MessageTypeRefresh   = "refresh_complete"
	MessageTypeAlert     = "alert"
	MessageTypeSubscribe = "subscribe"
	MessageTypeHeartbeat = "heartbeat"
	MessageTypeError     = "error"
)

// ServerMessage is a message pushed from the hub to dashboard clients
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// ClientMessage is a message received from a dashboard client
type ClientMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// SubscriptionFilter limits which events a dashboard client receives.
// Empty filter means all events.
type SubscriptionFilter struct {
	AlertTypes []string `json:"alert_types,omitempty"`
}

// RefreshEvent summarizes a completed refresh cycle for dashboard clients
type RefreshEvent struct {
	LeagueID    int       `json:"league_id"`
	FetchedAt   time.Time `json:"fetched_at"`
	DurationMs  int64     `json:"duration_ms"`
	ChangeCount int       `json:"change_count"`
	AlertCount  int       `json:"alert_count"`
}

// ErrorMessage is an error payload sent to a dashboard client
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
