package advisor

import (
	"fmt"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/contracts"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
	"github.com/google/uuid"
)

// Pickup score bonuses in fixed-point hundredths
const (
	// trendBonusPerPct rewards ownership momentum: each percent of
	// league-wide adds in the last day is worth 0.10 value points
	trendBonusPerPct = 10

	// scheduleBonusThreshold marks a heavy remaining schedule
	scheduleBonusThreshold = 3
	scheduleBonus          = 50
)

// PickupDetector scores free agents against the weakest player on the
// user's roster and suggests claims that clear the configured margin
type PickupDetector struct {
	thresholds contracts.Thresholds
}

// NewPickupDetector creates a pickup detector
func NewPickupDetector(thresholds contracts.Thresholds) *PickupDetector {
	return &PickupDetector{thresholds: thresholds}
}

// Name returns the detector identifier
func (d *PickupDetector) Name() string {
	return "pickup"
}

// Detect compares every free agent with the weakest rostered player.
// score = (agent value - weakest value) + trend bonus + schedule bonus.
func (d *PickupDetector) Detect(in contracts.Input) []models.Alert {
	roster := in.Current.Roster(in.MyTeamID)
	if len(roster) == 0 {
		return nil
	}

	weakest := roster[len(roster)-1]

	var alerts []models.Alert
	for _, agent := range in.Current.FreeAgents() {
		// Never suggest players already ruled out
		if agent.InjuryStatus == models.InjuryOut || agent.InjuryStatus == models.InjurySuspension {
			continue
		}

		score := pickupScore(agent, weakest)
		if score < d.thresholds.MinPickupScore {
			continue
		}

		severity := models.SeverityNotable
		if score >= d.thresholds.MinPickupScore*2 {
			severity = models.SeverityUrgent
		}

		alerts = append(alerts, models.Alert{
			ID:         uuid.NewString(),
			LeagueID:   in.Current.League.LeagueID,
			Type:       models.AlertPickup,
			Severity:   severity,
			PlayerID:   agent.PlayerID,
			PlayerName: agent.Name,
			Position:   agent.Position,
			ProTeam:    agent.ProTeam,
			Score:      score,
			Detail: fmt.Sprintf("%s (%.2f avg value) beats your weakest player %s (%.2f) by %.2f; owned %.1f%% (%+.1f%% today)",
				agent.Name, float64(agent.ValueScore)/100,
				weakest.Name, float64(weakest.ValueScore)/100,
				float64(score)/100, agent.PercentOwned, agent.PercentChange),
			DetectedAt: time.Now().UTC(),
		})

		if d.thresholds.MaxCandidates > 0 && len(alerts) >= d.thresholds.MaxCandidates {
			break
		}
	}

	return alerts
}

// pickupScore computes the fixed-point margin of a free agent over the
// weakest rostered player, with momentum and schedule bonuses
func pickupScore(agent, weakest models.Player) int {
	score := agent.ValueScore - weakest.ValueScore

	if agent.PercentChange > 0 {
		score += int(agent.PercentChange * trendBonusPerPct)
	}

	if agent.GamesRemaining >= scheduleBonusThreshold {
		score += scheduleBonus
	}

	return score
}
