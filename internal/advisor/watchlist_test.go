package advisor_test

import (
	"testing"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/advisor"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/contracts"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
)

func TestWatchlistDetector(t *testing.T) {
	tests := []struct {
		name      string
		player    models.Player
		change    models.Change
		watched   map[int]bool
		wantCount int
		wantSev   models.Severity
	}{
		{
			name:   "watched player dropped to free agency is urgent",
			player: models.Player{PlayerID: 1, Name: "Dropped Guy", TeamID: 0, ValueScore: 2800},
			change: models.Change{
				PlayerID: 1, Field: models.FieldFantasyTeam, Old: "4", New: "0", OldNum: 4, NewNum: 0,
			},
			watched:   map[int]bool{1: true},
			wantCount: 1,
			wantSev:   models.SeverityUrgent,
		},
		{
			name:   "watched player claimed by another team is info",
			player: models.Player{PlayerID: 2, Name: "Claimed Guy", TeamID: 6},
			change: models.Change{
				PlayerID: 2, Field: models.FieldFantasyTeam, Old: "0", New: "6", OldNum: 0, NewNum: 6,
			},
			watched:   map[int]bool{2: true},
			wantCount: 1,
			wantSev:   models.SeverityInfo,
		},
		{
			name:   "watched player returning to active is urgent",
			player: models.Player{PlayerID: 3, Name: "Returner", TeamID: 0, InjuryStatus: models.InjuryActive},
			change: models.Change{
				PlayerID: 3, Field: models.FieldInjuryStatus, Old: "OUT", New: "ACTIVE",
			},
			watched:   map[int]bool{3: true},
			wantCount: 1,
			wantSev:   models.SeverityUrgent,
		},
		{
			name:   "watched player injury downgrade is notable",
			player: models.Player{PlayerID: 4, Name: "Downgraded", TeamID: 0, InjuryStatus: models.InjuryOut},
			change: models.Change{
				PlayerID: 4, Field: models.FieldInjuryStatus, Old: "DAY_TO_DAY", New: "OUT",
			},
			watched:   map[int]bool{4: true},
			wantCount: 1,
			wantSev:   models.SeverityNotable,
		},
		{
			name:   "ownership surge above threshold is notable",
			player: models.Player{PlayerID: 5, Name: "Surger", TeamID: 0, PercentOwned: 28.0},
			change: models.Change{
				PlayerID: 5, Field: models.FieldPercentOwned, Old: "20.0", New: "28.0", OldNum: 20.0, NewNum: 28.0,
			},
			watched:   map[int]bool{5: true},
			wantCount: 1,
			wantSev:   models.SeverityNotable,
		},
		{
			name:   "ownership drift below threshold ignored",
			player: models.Player{PlayerID: 6, Name: "Drifter", TeamID: 0, PercentOwned: 22.0},
			change: models.Change{
				PlayerID: 6, Field: models.FieldPercentOwned, Old: "20.0", New: "22.0", OldNum: 20.0, NewNum: 22.0,
			},
			watched:   map[int]bool{6: true},
			wantCount: 0,
		},
		{
			name:   "unwatched player ignored",
			player: models.Player{PlayerID: 7, Name: "Nobody", TeamID: 0},
			change: models.Change{
				PlayerID: 7, Field: models.FieldFantasyTeam, Old: "4", New: "0",
			},
			watched:   map[int]bool{99: true},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curr := buildSnapshot(tt.player)

			detector := advisor.NewWatchlistDetector(testThresholds())
			alerts := detector.Detect(contracts.Input{
				Previous: buildSnapshot(),
				Current:  curr,
				Diff:     models.Diff{Changes: []models.Change{tt.change}},
				Watched:  tt.watched,
				MyTeamID: myTeamID,
			})

			if len(alerts) != tt.wantCount {
				t.Fatalf("got %d alerts, want %d", len(alerts), tt.wantCount)
			}
			if tt.wantCount == 0 {
				return
			}
			if alerts[0].Severity != tt.wantSev {
				t.Errorf("Severity = %s, want %s", alerts[0].Severity, tt.wantSev)
			}
			if alerts[0].Type != models.AlertWatchlist {
				t.Errorf("Type = %s, want %s", alerts[0].Type, models.AlertWatchlist)
			}
		})
	}
}

func TestWatchlistDetectorEmptyWatchlist(t *testing.T) {
	curr := buildSnapshot(models.Player{PlayerID: 1, Name: "Anyone", TeamID: 0})

	detector := advisor.NewWatchlistDetector(testThresholds())
	alerts := detector.Detect(contracts.Input{
		Previous: buildSnapshot(),
		Current:  curr,
		Diff: models.Diff{Changes: []models.Change{
			{PlayerID: 1, Field: models.FieldFantasyTeam, Old: "4", New: "0"},
		}},
		Watched: nil,
	})

	if len(alerts) != 0 {
		t.Errorf("got %d alerts with empty watchlist, want 0", len(alerts))
	}
}

func TestEngineSkipsFirstSnapshot(t *testing.T) {
	engine := advisor.NewEngine(testThresholds())

	alerts := engine.Run(contracts.Input{
		Previous: nil,
		Current:  buildSnapshot(freeAgent(10, "Tempting", 9000), rostered(2, "Weakest", 100)),
		MyTeamID: myTeamID,
	})

	if alerts != nil {
		t.Errorf("first refresh emitted %d alerts, want none", len(alerts))
	}

	cycles, _, _ := engine.Metrics()
	if cycles != 0 {
		t.Errorf("skipped cycle counted in metrics: cycles = %d", cycles)
	}
}

func TestEngineCombinesDetectors(t *testing.T) {
	weakest := rostered(2, "Weakest", 1000)
	agent := freeAgent(10, "Pickup Target", 2000)
	hurt := models.Player{
		PlayerID: 20, Name: "Hurt Starter", TeamID: myTeamID,
		InjuryStatus: models.InjuryOut, LineupSlot: "BE", ValueScore: 3000,
	}

	prev := buildSnapshot(weakest, hurt)
	curr := buildSnapshot(weakest, agent, hurt)

	engine := advisor.NewEngine(testThresholds())
	alerts := engine.Run(contracts.Input{
		Previous: prev,
		Current:  curr,
		Diff: models.Diff{Changes: []models.Change{
			{PlayerID: 20, PlayerName: "Hurt Starter", Field: models.FieldInjuryStatus, Old: "ACTIVE", New: "OUT"},
		}},
		MyTeamID: myTeamID,
	})

	var pickups, injuries int
	for _, a := range alerts {
		switch a.Type {
		case models.AlertPickup:
			pickups++
		case models.AlertInjury:
			injuries++
		}
	}

	if pickups != 1 {
		t.Errorf("pickup alerts = %d, want 1", pickups)
	}
	if injuries != 1 {
		t.Errorf("injury alerts = %d, want 1", injuries)
	}

	cycles, emitted, _ := engine.Metrics()
	if cycles != 1 {
		t.Errorf("cycles = %d, want 1", cycles)
	}
	if emitted != int64(len(alerts)) {
		t.Errorf("emitted = %d, want %d", emitted, len(alerts))
	}
}
