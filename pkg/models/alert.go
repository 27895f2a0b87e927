package models

import "time"

// AlertType classifies what kind of actionable change was detected
type AlertType string

const (
	AlertPickup    AlertType = "pickup"
	AlertInjury    AlertType = "injury"
	AlertWatchlist AlertType = "watchlist"
	AlertSystem    AlertType = "system"
)

// Severity indicates how urgently an alert should be acted on
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityNotable Severity = "notable"
	SeverityUrgent  Severity = "urgent"
)

// SeverityRank returns a comparable rank for a severity (higher = more urgent)
func SeverityRank(s Severity) int {
	switch s {
	case SeverityUrgent:
		return 3
	case SeverityNotable:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Alert is an actionable notification produced by the advisor detectors
type Alert struct {
	ID         string    `json:"id"`
	LeagueID   int       `json:"league_id"`
	Type       AlertType `json:"type"`
	Severity   Severity  `json:"severity"`
	PlayerID   int       `json:"player_id,omitempty"`
	PlayerName string    `json:"player_name,omitempty"`
	Position   string    `json:"position,omitempty"`
	ProTeam    string    `json:"pro_team,omitempty"`

	// Score is the heuristic score that triggered the alert, in the same
	// fixed-point hundredths as Player.ValueScore
	Score int `json:"score,omitempty"`

	Detail     string    `json:"detail"`
	DetectedAt time.Time `json:"detected_at"`

	// Fingerprint distinguishes repeat-worthy situations for the same
	// player and type, such as an injury transition. It must stay stable
	// across refresh cycles; volatile numbers like scores and ownership
	// percentages never belong in it.
	Fingerprint string `json:"-"`
}

// AlertSummary holds aggregate alert statistics for the dashboard
type AlertSummary struct {
	TotalAlerts   int            `json:"total_alerts"`
	ByType        map[string]int `json:"by_type"`
	BySeverity    map[string]int `json:"by_severity"`
	LastRefreshAt *time.Time     `json:"last_refresh_at,omitempty"`
	LastRefreshOK bool           `json:"last_refresh_ok"`
}
