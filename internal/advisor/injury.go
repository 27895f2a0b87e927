package advisor

import (
	"fmt"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/contracts"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
	"github.com/google/uuid"
)

// InjuryDetector watches the user's roster for injury downgrades and
// ruled-out players left in active lineup slots
type InjuryDetector struct{}

// NewInjuryDetector creates an injury detector
func NewInjuryDetector() *InjuryDetector {
	return &InjuryDetector{}
}

// Name returns the detector identifier
func (d *InjuryDetector) Name() string {
	return "injury"
}

// Detect emits alerts for injury status transitions on the user's roster
// and for OUT players still occupying an active slot
func (d *InjuryDetector) Detect(in contracts.Input) []models.Alert {
	var alerts []models.Alert

	for _, change := range in.Diff.Changes {
		if change.Field != models.FieldInjuryStatus {
			continue
		}

		player, ok := in.Current.Player(change.PlayerID)
		if !ok || player.TeamID != in.MyTeamID {
			continue
		}

		if !isDowngrade(change.Old, change.New) {
			continue
		}

		severity := models.SeverityNotable
		if change.New == models.InjuryOut || change.New == models.InjurySuspension {
			severity = models.SeverityUrgent
		}

		alerts = append(alerts, models.Alert{
			ID:         uuid.NewString(),
			LeagueID:   in.Current.League.LeagueID,
			Type:       models.AlertInjury,
			Severity:   severity,
			PlayerID:   player.PlayerID,
			PlayerName: player.Name,
			Position:   player.Position,
			ProTeam:    player.ProTeam,
			Score:      player.ValueScore,
			Detail: fmt.Sprintf("%s downgraded %s -> %s (slot %s)",
				player.Name, change.Old, change.New, player.LineupSlot),
			DetectedAt:  time.Now().UTC(),
			Fingerprint: fmt.Sprintf("downgrade:%s->%s", change.Old, change.New),
		})
	}

	alerts = append(alerts, d.detectLineupHoles(in)...)

	return alerts
}

// detectLineupHoles flags ruled-out players still slotted as starters
func (d *InjuryDetector) detectLineupHoles(in contracts.Input) []models.Alert {
	var alerts []models.Alert

	for _, player := range in.Current.Roster(in.MyTeamID) {
		if player.InjuryStatus != models.InjuryOut && player.InjuryStatus != models.InjurySuspension {
			continue
		}

		if player.LineupSlot == "BE" || player.LineupSlot == "IR" {
			continue
		}

		// Only alert when the situation is new this cycle: either the
		// status or the slot changed since the previous snapshot
		if prevPlayer, ok := in.Previous.Player(player.PlayerID); ok {
			if prevPlayer.InjuryStatus == player.InjuryStatus && prevPlayer.LineupSlot == player.LineupSlot {
				continue
			}
		}

		alerts = append(alerts, models.Alert{
			ID:         uuid.NewString(),
			LeagueID:   in.Current.League.LeagueID,
			Type:       models.AlertInjury,
			Severity:   models.SeverityUrgent,
			PlayerID:   player.PlayerID,
			PlayerName: player.Name,
			Position:   player.Position,
			ProTeam:    player.ProTeam,
			Score:      player.ValueScore,
			Detail: fmt.Sprintf("%s is %s but still starting at %s - bench or stash him",
				player.Name, player.InjuryStatus, player.LineupSlot),
			DetectedAt:  time.Now().UTC(),
			Fingerprint: fmt.Sprintf("hole:%s:%s", player.InjuryStatus, player.LineupSlot),
		})
	}

	return alerts
}

// isDowngrade reports whether an injury transition got worse
func isDowngrade(from, to string) bool {
	return injuryRank(to) > injuryRank(from)
}

// injuryRank orders injury states from healthy to ruled out
func injuryRank(status string) int {
	switch status {
	case models.InjuryActive:
		return 0
	case models.InjuryDayToDay:
		return 1
	case models.InjuryOut, models.InjurySuspension:
		return 2
	default:
		return 0
	}
}
