package espn

// Raw response shapes for the ESPN Fantasy v3 API. Fields mirror the JSON
// the API returns; normalization into snapshot models happens elsewhere.

// LeagueResponse is the league state returned by the mTeam/mRoster/mSettings views
type LeagueResponse struct {
	ID              int      `json:"id"`
	SeasonID        int      `json:"seasonId"`
	ScoringPeriodID int      `json:"scoringPeriodId"`
	SegmentID       int      `json:"segmentId"`
	Status          Status   `json:"status"`
	Settings        Settings `json:"settings"`
	Teams           []Team   `json:"teams"`
}

// Settings holds league settings
type Settings struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Status holds league scheduling state
type Status struct {
	CurrentMatchupPeriod int  `json:"currentMatchupPeriod"`
	FirstScoringPeriod   int  `json:"firstScoringPeriod"`
	FinalScoringPeriod   int  `json:"finalScoringPeriod"`
	IsActive             bool `json:"isActive"`
}

// Team is a fantasy team with its roster
type Team struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbrev"`
	Name         string `json:"name"`
	PlayoffSeed  int    `json:"playoffSeed"`
	Record       Record `json:"record"`
	Roster       Roster `json:"roster"`
}

// Record wraps a team's overall record
type Record struct {
	Overall RecordDetails `json:"overall"`
}

// RecordDetails holds win/loss numbers
type RecordDetails struct {
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	Percentage    float64 `json:"percentage"`
	PointsFor     float64 `json:"pointsFor"`
	PointsAgainst float64 `json:"pointsAgainst"`
}

// Roster holds a team's roster entries
type Roster struct {
	Entries []RosterEntry `json:"entries"`
}

// RosterEntry is one slotted player on a roster
type RosterEntry struct {
	LineupSlotID    int             `json:"lineupSlotId"`
	PlayerPoolEntry PlayerPoolEntry `json:"playerPoolEntry"`
}

// PlayersResponse is the player pool returned by the kona_player_info view
type PlayersResponse struct {
	Players []PlayerPoolEntry `json:"players"`
}

// PlayerPoolEntry wraps a player with pool-level fields
type PlayerPoolEntry struct {
	ID               int     `json:"id"`
	OnTeamID         int     `json:"onTeamId"`
	Status           string  `json:"status"`
	AppliedStatTotal float64 `json:"appliedStatTotal"`
	Player           Player  `json:"player"`
}

// Player is the raw player record
type Player struct {
	ID                int       `json:"id"`
	FullName          string    `json:"fullName"`
	DefaultPositionID int       `json:"defaultPositionId"`
	ProTeamID         int       `json:"proTeamId"`
	InjuryStatus      string    `json:"injuryStatus"`
	Ownership         Ownership `json:"ownership"`
	Stats             []Stat    `json:"stats"`
}

// Ownership holds league-wide ownership numbers
type Ownership struct {
	PercentOwned  float64 `json:"percentOwned"`
	PercentChange float64 `json:"percentChange"`
}

// Stat is one stat line for a player. StatSourceID 0 is actual, 1 projected.
// StatSplitTypeID selects the window: 0 season, 1 last 7 days, 2 last 15 days.
type Stat struct {
	ID              string             `json:"id"`
	StatSourceID    int                `json:"statSourceId"`
	StatSplitTypeID int                `json:"statSplitTypeId"`
	ScoringPeriodID int                `json:"scoringPeriodId"`
	AppliedTotal    float64            `json:"appliedTotal"`
	AppliedAverage  float64            `json:"appliedAverage"`
	AppliedStats    map[string]float64 `json:"appliedStats"`
}

// ScoreboardResponse is the schedule returned by the mMatchupScore view
type ScoreboardResponse struct {
	Schedule []MatchupScore `json:"schedule"`
}

// MatchupScore is one head-to-head matchup
type MatchupScore struct {
	ID              int       `json:"id"`
	MatchupPeriodID int       `json:"matchupPeriodId"`
	Away            TeamScore `json:"away"`
	Home            TeamScore `json:"home"`
	Winner          string    `json:"winner"`
}

// TeamScore is one side of a matchup
type TeamScore struct {
	TeamID                   int     `json:"teamId"`
	TotalPoints              float64 `json:"totalPoints"`
	TotalPointsLive          float64 `json:"totalPointsLive"`
	TotalProjectedPointsLive float64 `json:"totalProjectedPointsLive"`
}
