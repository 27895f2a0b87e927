package advisor

import (
	"fmt"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/contracts"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
	"github.com/google/uuid"
)

// WatchlistDetector monitors the user's watched players for opportunity
// signals: becoming a free agent, injury movement, or an ownership surge
type WatchlistDetector struct {
	thresholds contracts.Thresholds
}

// NewWatchlistDetector creates a watchlist detector
func NewWatchlistDetector(thresholds contracts.Thresholds) *WatchlistDetector {
	return &WatchlistDetector{thresholds: thresholds}
}

// Name returns the detector identifier
func (d *WatchlistDetector) Name() string {
	return "watchlist"
}

// Detect scans diff changes affecting watched players
func (d *WatchlistDetector) Detect(in contracts.Input) []models.Alert {
	if len(in.Watched) == 0 {
		return nil
	}

	var alerts []models.Alert

	for _, change := range in.Diff.Changes {
		if !in.Watched[change.PlayerID] {
			continue
		}

		player, ok := in.Current.Player(change.PlayerID)
		if !ok {
			continue
		}

		switch change.Field {
		case models.FieldFantasyTeam:
			if player.IsFreeAgent() {
				alerts = append(alerts, d.alert(in, player, models.SeverityUrgent, "dropped",
					fmt.Sprintf("%s was dropped and is now a free agent (%.2f avg value)",
						player.Name, float64(player.ValueScore)/100)))
			} else {
				alerts = append(alerts, d.alert(in, player, models.SeverityInfo, "claimed:"+change.New,
					fmt.Sprintf("%s was claimed by team %s", player.Name, change.New)))
			}

		case models.FieldInjuryStatus:
			severity := models.SeverityNotable
			if change.New == models.InjuryActive {
				// Watched player returning is the buy signal
				severity = models.SeverityUrgent
			}
			alerts = append(alerts, d.alert(in, player, severity,
				fmt.Sprintf("injury:%s->%s", change.Old, change.New),
				fmt.Sprintf("%s injury status changed %s -> %s", player.Name, change.Old, change.New)))

		case models.FieldPercentOwned:
			delta := change.NewNum - change.OldNum
			if delta >= d.thresholds.OwnershipSurgePct {
				alerts = append(alerts, d.alert(in, player, models.SeverityNotable, "surge",
					fmt.Sprintf("%s ownership surging: %.1f%% -> %.1f%% since last refresh",
						player.Name, change.OldNum, change.NewNum)))
			}
		}
	}

	return alerts
}

// alert builds a watchlist alert for a player
func (d *WatchlistDetector) alert(in contracts.Input, player models.Player, severity models.Severity, fingerprint, detail string) models.Alert {
	return models.Alert{
		ID:          uuid.NewString(),
		LeagueID:    in.Current.League.LeagueID,
		Type:        models.AlertWatchlist,
		Severity:    severity,
		PlayerID:    player.PlayerID,
		PlayerName:  player.Name,
		Position:    player.Position,
		ProTeam:     player.ProTeam,
		Score:       player.ValueScore,
		Detail:      detail,
		DetectedAt:  time.Now().UTC(),
		Fingerprint: fingerprint,
	}
}
