package diff

import (
	"fmt"
	"sort"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
)

// ValueScoreNoise is the fixed-point threshold below which value score
// movement is treated as noise and not recorded (hundredths of a point)
const ValueScoreNoise = 100

// OwnershipNoise is the percent-owned movement below which ownership
// changes are not recorded
const OwnershipNoise = 0.5

// Compute produces the field-level changes between two consecutive snapshots.
// Output ordering is deterministic: player changes sorted by player ID then
// field, team changes after, added/removed ID lists sorted ascending.
func Compute(prev, curr *models.Snapshot) models.Diff {
	d := models.Diff{
		LeagueID: curr.League.LeagueID,
		To:       curr.FetchedAt,
	}

	if prev == nil {
		return d
	}

	d.From = prev.FetchedAt

	playerIDs := make([]int, 0, len(curr.Players))
	for id := range curr.Players {
		playerIDs = append(playerIDs, id)
	}
	sort.Ints(playerIDs)

	for _, id := range playerIDs {
		currPlayer := curr.Players[id]
		prevPlayer, ok := prev.Players[id]
		if !ok {
			d.Added = append(d.Added, id)
			continue
		}

		d.Changes = append(d.Changes, comparePlayers(prevPlayer, currPlayer)...)
	}

	for id := range prev.Players {
		if _, ok := curr.Players[id]; !ok {
			d.Removed = append(d.Removed, id)
		}
	}
	sort.Ints(d.Removed)

	d.Changes = append(d.Changes, compareTeams(prev, curr)...)

	return d
}

// comparePlayers emits changes for one player present in both snapshots,
// in fixed field order
func comparePlayers(prev, curr models.Player) []models.Change {
	var changes []models.Change

	if prev.InjuryStatus != curr.InjuryStatus {
		changes = append(changes, models.Change{
			PlayerID:   curr.PlayerID,
			PlayerName: curr.Name,
			Field:      models.FieldInjuryStatus,
			Old:        prev.InjuryStatus,
			New:        curr.InjuryStatus,
		})
	}

	if prev.TeamID != curr.TeamID {
		changes = append(changes, models.Change{
			PlayerID:   curr.PlayerID,
			PlayerName: curr.Name,
			Field:      models.FieldFantasyTeam,
			Old:        fmt.Sprintf("%d", prev.TeamID),
			New:        fmt.Sprintf("%d", curr.TeamID),
			OldNum:     float64(prev.TeamID),
			NewNum:     float64(curr.TeamID),
		})
	}

	if prev.LineupSlot != curr.LineupSlot {
		changes = append(changes, models.Change{
			PlayerID:   curr.PlayerID,
			PlayerName: curr.Name,
			Field:      models.FieldLineupSlot,
			Old:        prev.LineupSlot,
			New:        curr.LineupSlot,
		})
	}

	if abs(curr.PercentOwned-prev.PercentOwned) >= OwnershipNoise {
		changes = append(changes, models.Change{
			PlayerID:   curr.PlayerID,
			PlayerName: curr.Name,
			Field:      models.FieldPercentOwned,
			Old:        fmt.Sprintf("%.1f", prev.PercentOwned),
			New:        fmt.Sprintf("%.1f", curr.PercentOwned),
			OldNum:     prev.PercentOwned,
			NewNum:     curr.PercentOwned,
		})
	}

	if absInt(curr.ValueScore-prev.ValueScore) >= ValueScoreNoise {
		changes = append(changes, models.Change{
			PlayerID:   curr.PlayerID,
			PlayerName: curr.Name,
			Field:      models.FieldValueScore,
			Old:        fmt.Sprintf("%.2f", float64(prev.ValueScore)/100),
			New:        fmt.Sprintf("%.2f", float64(curr.ValueScore)/100),
			OldNum:     float64(prev.ValueScore),
			NewNum:     float64(curr.ValueScore),
		})
	}

	return changes
}

// compareTeams emits record changes for fantasy teams, sorted by team ID
func compareTeams(prev, curr *models.Snapshot) []models.Change {
	var changes []models.Change

	for _, currTeam := range curr.Teams {
		prevTeam, ok := prev.Team(currTeam.TeamID)
		if !ok {
			continue
		}

		if prevTeam.Record != currTeam.Record {
			changes = append(changes, models.Change{
				TeamID: currTeam.TeamID,
				Field:  models.FieldTeamRecord,
				Old:    formatRecord(prevTeam.Record),
				New:    formatRecord(currTeam.Record),
			})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].TeamID < changes[j].TeamID
	})

	return changes
}

func formatRecord(r models.TeamRecord) string {
	return fmt.Sprintf("%d-%d-%d", r.Wins, r.Losses, r.Ties)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func absInt(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
