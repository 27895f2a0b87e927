package normalizer

import (
	"fmt"
	"math"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/providers/espn"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
)

// ESPN stat source and split selectors
const (
	statSourceActual = 0

	statSplitSeason = 0
	statSplitLast7  = 1
	statSplitLast15 = 2
)

// Value score blend weights. Recent form counts more than season average.
const (
	weightLast15 = 0.5
	weightLast7  = 0.3
	weightSeason = 0.2
)

// Injury discounts applied to the value score
const (
	discountOut      = 0.5
	discountDayToDay = 0.9
)

// Normalize converts a raw ESPN league + player pool response into a snapshot.
// Roster entries carry lineup slots; the player pool carries ownership and
// stat windows. Players present in rosters but missing from the pool page are
// kept with roster-level data only.
func Normalize(league *espn.LeagueResponse, pool *espn.PlayersResponse, fetchedAt time.Time) (*models.Snapshot, error) {
	if league == nil {
		return nil, fmt.Errorf("nil league response")
	}

	snap := &models.Snapshot{
		League: models.LeagueMeta{
			LeagueID:             league.ID,
			SeasonID:             league.SeasonID,
			Name:                 league.Settings.Name,
			Size:                 league.Settings.Size,
			ScoringPeriodID:      league.ScoringPeriodID,
			CurrentMatchupPeriod: league.Status.CurrentMatchupPeriod,
			IsActive:             league.Status.IsActive,
		},
		Teams:     make([]models.Team, 0, len(league.Teams)),
		Players:   make(map[int]models.Player),
		FetchedAt: fetchedAt,
	}

	gamesRemaining := scoringPeriodsRemaining(league)

	// Player pool first: ownership, stats, free agents
	if pool != nil {
		for _, entry := range pool.Players {
			player := normalizeEntry(entry, gamesRemaining)
			snap.Players[player.PlayerID] = player
		}
	}

	// Rosters second: authoritative team assignment and lineup slots
	for _, rawTeam := range league.Teams {
		team := models.Team{
			TeamID:      rawTeam.ID,
			Name:        rawTeam.Name,
			Abbrev:      rawTeam.Abbreviation,
			PlayoffSeed: rawTeam.PlayoffSeed,
			Record: models.TeamRecord{
				Wins:          rawTeam.Record.Overall.Wins,
				Losses:        rawTeam.Record.Overall.Losses,
				Ties:          rawTeam.Record.Overall.Ties,
				Percentage:    rawTeam.Record.Overall.Percentage,
				PointsFor:     rawTeam.Record.Overall.PointsFor,
				PointsAgainst: rawTeam.Record.Overall.PointsAgainst,
			},
		}

		for _, entry := range rawTeam.Roster.Entries {
			playerID := entry.PlayerPoolEntry.ID
			team.PlayerIDs = append(team.PlayerIDs, playerID)

			player, ok := snap.Players[playerID]
			if !ok {
				player = normalizeEntry(entry.PlayerPoolEntry, gamesRemaining)
			}

			player.TeamID = rawTeam.ID
			player.LineupSlot = LineupSlotName(entry.LineupSlotID)
			snap.Players[playerID] = player
		}

		snap.Teams = append(snap.Teams, team)
	}

	return snap, nil
}

// normalizeEntry converts one raw player pool entry
func normalizeEntry(entry espn.PlayerPoolEntry, gamesRemaining int) models.Player {
	raw := entry.Player

	player := models.Player{
		PlayerID:       entry.ID,
		Name:           raw.FullName,
		Position:       PositionName(raw.DefaultPositionID),
		ProTeam:        ProTeamName(raw.ProTeamID),
		TeamID:         entry.OnTeamID,
		InjuryStatus:   normalizeInjuryStatus(raw.InjuryStatus),
		PercentOwned:   raw.Ownership.PercentOwned,
		PercentChange:  raw.Ownership.PercentChange,
		GamesRemaining: gamesRemaining,
	}

	for _, stat := range raw.Stats {
		if stat.StatSourceID != statSourceActual {
			continue
		}

		switch stat.StatSplitTypeID {
		case statSplitSeason:
			player.SeasonAvg = stat.AppliedAverage
		case statSplitLast7:
			player.Last7Avg = stat.AppliedAverage
		case statSplitLast15:
			player.Last15Avg = stat.AppliedAverage
		}
	}

	player.ValueScore = valueScore(player)

	return player
}

// valueScore computes the fixed-point heuristic value for a player.
// Recent averages dominate; injury status discounts the result.
func valueScore(p models.Player) int {
	blend := weightLast15*p.Last15Avg + weightLast7*p.Last7Avg + weightSeason*p.SeasonAvg

	// Players without recent games fall back to season average
	if p.Last7Avg == 0 && p.Last15Avg == 0 {
		blend = p.SeasonAvg
	}

	switch p.InjuryStatus {
	case models.InjuryOut, models.InjurySuspension:
		blend *= discountOut
	case models.InjuryDayToDay:
		blend *= discountDayToDay
	}

	return int(math.Round(blend * 100))
}

// Matchups extracts the head-to-head pairings for one matchup period.
// Live points take precedence over settled totals while games are running.
func Matchups(sb *espn.ScoreboardResponse, matchupPeriod int) []models.Matchup {
	if sb == nil {
		return nil
	}

	var matchups []models.Matchup
	for _, m := range sb.Schedule {
		if m.MatchupPeriodID != matchupPeriod {
			continue
		}

		matchups = append(matchups, models.Matchup{
			MatchupID:  m.ID,
			HomeTeamID: m.Home.TeamID,
			HomePoints: teamPoints(m.Home),
			AwayTeamID: m.Away.TeamID,
			AwayPoints: teamPoints(m.Away),
			Winner:     m.Winner,
		})
	}

	return matchups
}

// teamPoints picks the live score when one is in progress
func teamPoints(ts espn.TeamScore) float64 {
	if ts.TotalPointsLive > 0 {
		return ts.TotalPointsLive
	}
	return ts.TotalPoints
}

// normalizeInjuryStatus maps ESPN injury strings to our constants
func normalizeInjuryStatus(status string) string {
	switch status {
	case models.InjuryActive, models.InjuryDayToDay, models.InjuryOut, models.InjurySuspension:
		return status
	case "":
		return models.InjuryActive
	default:
		return models.InjuryUnknown
	}
}

// scoringPeriodsRemaining estimates games left in the season schedule window
func scoringPeriodsRemaining(league *espn.LeagueResponse) int {
	remaining := league.Status.FinalScoringPeriod - league.ScoringPeriodID
	if remaining < 0 {
		return 0
	}
	return remaining
}
