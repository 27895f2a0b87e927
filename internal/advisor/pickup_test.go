package advisor_test

import (
	"testing"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/advisor"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/contracts"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
)

const myTeamID = 3

func testThresholds() contracts.Thresholds {
	return contracts.Thresholds{
		MinPickupScore:    300, // 3.00 points
		OwnershipSurgePct: 5.0,
		MaxCandidates:     3,
	}
}

func buildSnapshot(players ...models.Player) *models.Snapshot {
	snap := &models.Snapshot{
		League:    models.LeagueMeta{LeagueID: 77, SeasonID: 2026},
		Players:   make(map[int]models.Player),
		FetchedAt: time.Now().UTC(),
	}
	for _, p := range players {
		snap.Players[p.PlayerID] = p
	}
	return snap
}

func rostered(id int, name string, value int) models.Player {
	return models.Player{
		PlayerID: id, Name: name, TeamID: myTeamID,
		InjuryStatus: models.InjuryActive, ValueScore: value,
	}
}

func freeAgent(id int, name string, value int) models.Player {
	return models.Player{
		PlayerID: id, Name: name, TeamID: models.FreeAgentTeamID,
		InjuryStatus: models.InjuryActive, ValueScore: value,
	}
}

func TestPickupDetector(t *testing.T) {
	tests := []struct {
		name       string
		players    []models.Player
		wantCount  int
		wantPlayer int
		wantSev    models.Severity
	}{
		{
			name: "agent clearing margin over weakest is suggested",
			players: []models.Player{
				rostered(1, "Star", 4000),
				rostered(2, "Weakest", 1500),
				freeAgent(10, "Riser", 1900), // margin 400 >= 300
			},
			wantCount:  1,
			wantPlayer: 10,
			wantSev:    models.SeverityNotable,
		},
		{
			name: "agent below margin is ignored",
			players: []models.Player{
				rostered(1, "Star", 4000),
				rostered(2, "Weakest", 1500),
				freeAgent(10, "Meh", 1700), // margin 200 < 300
			},
			wantCount: 0,
		},
		{
			name: "double margin upgrades to urgent",
			players: []models.Player{
				rostered(1, "Star", 4000),
				rostered(2, "Weakest", 1500),
				freeAgent(10, "Breakout", 2200), // margin 700 >= 600
			},
			wantCount:  1,
			wantPlayer: 10,
			wantSev:    models.SeverityUrgent,
		},
		{
			name: "ruled out agents never suggested",
			players: []models.Player{
				rostered(2, "Weakest", 1500),
				{PlayerID: 10, Name: "Hurt", TeamID: 0, InjuryStatus: models.InjuryOut, ValueScore: 3000},
				{PlayerID: 11, Name: "Banned", TeamID: 0, InjuryStatus: models.InjurySuspension, ValueScore: 3000},
			},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := advisor.NewPickupDetector(testThresholds())
			curr := buildSnapshot(tt.players...)

			alerts := detector.Detect(contracts.Input{
				Previous: buildSnapshot(),
				Current:  curr,
				MyTeamID: myTeamID,
			})

			if len(alerts) != tt.wantCount {
				t.Fatalf("got %d alerts, want %d", len(alerts), tt.wantCount)
			}
			if tt.wantCount == 0 {
				return
			}

			alert := alerts[0]
			if alert.PlayerID != tt.wantPlayer {
				t.Errorf("PlayerID = %d, want %d", alert.PlayerID, tt.wantPlayer)
			}
			if alert.Severity != tt.wantSev {
				t.Errorf("Severity = %s, want %s", alert.Severity, tt.wantSev)
			}
			if alert.Type != models.AlertPickup {
				t.Errorf("Type = %s, want %s", alert.Type, models.AlertPickup)
			}
			if alert.ID == "" {
				t.Error("alert ID not set")
			}
		})
	}
}

func TestPickupDetectorBonuses(t *testing.T) {
	// Base margin 250 is below the 300 threshold; bonuses push it over
	base := []models.Player{
		rostered(2, "Weakest", 1500),
	}

	t.Run("trend bonus", func(t *testing.T) {
		agent := freeAgent(10, "Trending", 1750)
		agent.PercentChange = 8.0 // +80 fixed-point

		detector := advisor.NewPickupDetector(testThresholds())
		alerts := detector.Detect(contracts.Input{
			Previous: buildSnapshot(),
			Current:  buildSnapshot(append(base, agent)...),
			MyTeamID: myTeamID,
		})

		if len(alerts) != 1 {
			t.Fatalf("got %d alerts, want 1", len(alerts))
		}
		if want := 250 + 80; alerts[0].Score != want {
			t.Errorf("Score = %d, want %d", alerts[0].Score, want)
		}
	})

	t.Run("schedule bonus", func(t *testing.T) {
		agent := freeAgent(10, "Busy Week", 1750)
		agent.GamesRemaining = 4 // +50 fixed-point

		detector := advisor.NewPickupDetector(testThresholds())
		alerts := detector.Detect(contracts.Input{
			Previous: buildSnapshot(),
			Current:  buildSnapshot(append(base, agent)...),
			MyTeamID: myTeamID,
		})

		if len(alerts) != 1 {
			t.Fatalf("got %d alerts, want 1", len(alerts))
		}
		if want := 250 + 50; alerts[0].Score != want {
			t.Errorf("Score = %d, want %d", alerts[0].Score, want)
		}
	})

	t.Run("negative trend adds nothing", func(t *testing.T) {
		agent := freeAgent(10, "Fading", 1850) // margin 350 clears on its own
		agent.PercentChange = -6.0

		detector := advisor.NewPickupDetector(testThresholds())
		alerts := detector.Detect(contracts.Input{
			Previous: buildSnapshot(),
			Current:  buildSnapshot(append(base, agent)...),
			MyTeamID: myTeamID,
		})

		if len(alerts) != 1 {
			t.Fatalf("got %d alerts, want 1", len(alerts))
		}
		if alerts[0].Score != 350 {
			t.Errorf("Score = %d, want 350", alerts[0].Score)
		}
	})
}

func TestPickupDetectorCapsCandidates(t *testing.T) {
	players := []models.Player{
		rostered(2, "Weakest", 1000),
		freeAgent(10, "A", 2000),
		freeAgent(11, "B", 1900),
		freeAgent(12, "C", 1800),
		freeAgent(13, "D", 1700),
		freeAgent(14, "E", 1600),
	}

	detector := advisor.NewPickupDetector(testThresholds())
	alerts := detector.Detect(contracts.Input{
		Previous: buildSnapshot(),
		Current:  buildSnapshot(players...),
		MyTeamID: myTeamID,
	})

	if len(alerts) != 3 {
		t.Fatalf("got %d alerts, want 3 (MaxCandidates)", len(alerts))
	}

	// Free agents are ranked by value, so the top three should surface
	if alerts[0].PlayerID != 10 || alerts[1].PlayerID != 11 || alerts[2].PlayerID != 12 {
		t.Errorf("candidates out of order: [%d %d %d]", alerts[0].PlayerID, alerts[1].PlayerID, alerts[2].PlayerID)
	}
}

func TestPickupDetectorEmptyRoster(t *testing.T) {
	detector := advisor.NewPickupDetector(testThresholds())
	alerts := detector.Detect(contracts.Input{
		Previous: buildSnapshot(),
		Current:  buildSnapshot(freeAgent(10, "Anyone", 5000)),
		MyTeamID: myTeamID,
	})

	if len(alerts) != 0 {
		t.Errorf("got %d alerts for empty roster, want 0", len(alerts))
	}
}
