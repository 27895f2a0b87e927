package models

import (
	"sort"
	"time"
)

// FreeAgentTeamID marks a player not on any fantasy roster
const FreeAgentTeamID = 0

// InjuryStatus values as reported by the ESPN fantasy API
const (
	InjuryActive     = "ACTIVE"
	InjuryDayToDay   = "DAY_TO_DAY"
	InjuryOut        = "OUT"
	InjurySuspension = "SUSPENSION"
	InjuryUnknown    = "UNKNOWN"
)

// LeagueMeta holds league-level metadata from a snapshot
type LeagueMeta struct {
	LeagueID             int    `json:"league_id"`
	SeasonID             int    `json:"season_id"`
	Name                 string `json:"name"`
	Size                 int    `json:"size"`
	ScoringPeriodID      int    `json:"scoring_period_id"`
	CurrentMatchupPeriod int    `json:"current_matchup_period"`
	IsActive             bool   `json:"is_active"`
}

// TeamRecord holds a fantasy team's overall record
type TeamRecord struct {
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	Percentage    float64 `json:"percentage"`
	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`
}

// Team is a fantasy team within a snapshot
type Team struct {
	TeamID      int        `json:"team_id"`
	Name        string     `json:"name"`
	Abbrev      string     `json:"abbrev"`
	PlayoffSeed int        `json:"playoff_seed"`
	Record      TeamRecord `json:"record"`
	PlayerIDs   []int      `json:"player_ids"`
}

// Player is a normalized player entry. TeamID is the fantasy team the player
// is rostered on, or FreeAgentTeamID if unclaimed.
type Player struct {
	PlayerID       int     `json:"player_id"`
	Name           string  `json:"name"`
	Position       string  `json:"position"`
	ProTeam        string  `json:"pro_team"`
	TeamID         int     `json:"team_id"`
	LineupSlot     string  `json:"lineup_slot,omitempty"`
	InjuryStatus   string  `json:"injury_status"`
	PercentOwned   float64 `json:"percent_owned"`
	PercentChange  float64 `json:"percent_change"`
	SeasonAvg      float64 `json:"season_avg"`
	Last7Avg       float64 `json:"last7_avg"`
	Last15Avg      float64 `json:"last15_avg"`
	GamesRemaining int     `json:"games_remaining"`

	// ValueScore is a fixed-point heuristic value in hundredths of a
	// fantasy point, so 3550 means 35.50 points of expected value.
	ValueScore int `json:"value_score"`
}

// IsFreeAgent reports whether the player is unrostered
func (p Player) IsFreeAgent() bool {
	return p.TeamID == FreeAgentTeamID
}

// Matchup is one head-to-head pairing in a matchup period
type Matchup struct {
	MatchupID  int     `json:"matchup_id"`
	HomeTeamID int     `json:"home_team_id"`
	HomePoints float64 `json:"home_points"`
	AwayTeamID int     `json:"away_team_id"`
	AwayPoints float64 `json:"away_points"`
	Winner     string  `json:"winner,omitempty"`
}

// Snapshot is a full point-in-time capture of league, team, and player state
type Snapshot struct {
	League    LeagueMeta     `json:"league"`
	Teams     []Team         `json:"teams"`
	Players   map[int]Player `json:"players"`
	Matchups  []Matchup      `json:"matchups,omitempty"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// Player looks up a player by ID
func (s *Snapshot) Player(id int) (Player, bool) {
	p, ok := s.Players[id]
	return p, ok
}

// Team looks up a fantasy team by ID
func (s *Snapshot) Team(id int) (Team, bool) {
	for _, t := range s.Teams {
		if t.TeamID == id {
			return t, true
		}
	}
	return Team{}, false
}

// FreeAgents returns all unrostered players sorted by value score descending
func (s *Snapshot) FreeAgents() []Player {
	agents := make([]Player, 0)
	for _, p := range s.Players {
		if p.IsFreeAgent() {
			agents = append(agents, p)
		}
	}
	sort.Slice(agents, func(i, j int) bool {
		if agents[i].ValueScore != agents[j].ValueScore {
			return agents[i].ValueScore > agents[j].ValueScore
		}
		return agents[i].PlayerID < agents[j].PlayerID
	})
	return agents
}

// Roster returns a team's players sorted by value score descending
func (s *Snapshot) Roster(teamID int) []Player {
	roster := make([]Player, 0)
	for _, p := range s.Players {
		if p.TeamID == teamID {
			roster = append(roster, p)
		}
	}
	sort.Slice(roster, func(i, j int) bool {
		if roster[i].ValueScore != roster[j].ValueScore {
			return roster[i].ValueScore > roster[j].ValueScore
		}
		return roster[i].PlayerID < roster[j].PlayerID
	})
	return roster
}
