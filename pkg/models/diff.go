package models

import "time"

// ChangeField identifies which player or team field changed between snapshots
type ChangeField string

const (
	FieldInjuryStatus ChangeField = "injury_status"
	FieldFantasyTeam  ChangeField = "fantasy_team"
	FieldLineupSlot   ChangeField = "lineup_slot"
	FieldPercentOwned ChangeField = "percent_owned"
	FieldValueScore   ChangeField = "value_score"
	FieldTeamRecord   ChangeField = "team_record"
)

// Change is a single field-level difference between two snapshots.
// Player changes carry PlayerID; team record changes carry TeamID only.
type Change struct {
	PlayerID   int         `json:"player_id,omitempty"`
	PlayerName string      `json:"player_name,omitempty"`
	TeamID     int         `json:"team_id,omitempty"`
	Field      ChangeField `json:"field"`
	Old        string      `json:"old"`
	New        string      `json:"new"`
	OldNum     float64     `json:"old_num,omitempty"`
	NewNum     float64     `json:"new_num,omitempty"`
}

// Diff is the set of changes between two consecutive snapshots
type Diff struct {
	LeagueID int       `json:"league_id"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Changes  []Change  `json:"changes"`

	// Players that entered or left the monitored pool between snapshots
	Added   []int `json:"added,omitempty"`
	Removed []int `json:"removed,omitempty"`
}

// IsEmpty reports whether the diff contains no changes at all
func (d Diff) IsEmpty() bool {
	return len(d.Changes) == 0 && len(d.Added) == 0 && len(d.Removed) == 0
}

// ChangesFor returns all changes affecting a single player
func (d Diff) ChangesFor(playerID int) []Change {
	var out []Change
	for _, c := range d.Changes {
		if c.PlayerID == playerID {
			out = append(out, c)
		}
	}
	return out
}
