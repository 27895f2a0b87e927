package dedup_test

import (
	"testing"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/dedup"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
)

func pickupAlert(detail string, score int) models.Alert {
	return models.Alert{
		ID:         "changes-every-cycle",
		LeagueID:   77,
		Type:       models.AlertPickup,
		Severity:   models.SeverityNotable,
		PlayerID:   4432573,
		PlayerName: "Tristan da Silva",
		Score:      score,
		Detail:     detail,
		DetectedAt: time.Now().UTC(),
	}
}

func TestKeyStableAcrossCycles(t *testing.T) {
	d := dedup.NewDeduplicator(nil, 360)

	// Successive refreshes re-emit the same suggestion with drifting
	// numbers in the detail and score; the key must not move with them
	first := pickupAlert("Riser (19.00 avg value) beats Weakest (15.00) by 4.00; owned 22.1% (+3.2% today)", 400)
	second := pickupAlert("Riser (19.55 avg value) beats Weakest (15.10) by 4.45; owned 24.8% (+2.7% today)", 445)
	second.Severity = models.SeverityUrgent

	if d.Key(first) != d.Key(second) {
		t.Errorf("key changed between cycles:\n  %s\n  %s", d.Key(first), d.Key(second))
	}
}

func TestKeyDiscriminates(t *testing.T) {
	d := dedup.NewDeduplicator(nil, 360)
	base := pickupAlert("detail", 400)

	tests := []struct {
		name   string
		mutate func(a models.Alert) models.Alert
	}{
		{"different player", func(a models.Alert) models.Alert {
			a.PlayerID = 999
			return a
		}},
		{"different type", func(a models.Alert) models.Alert {
			a.Type = models.AlertWatchlist
			return a
		}},
		{"different league", func(a models.Alert) models.Alert {
			a.LeagueID = 78
			return a
		}},
		{"different fingerprint", func(a models.Alert) models.Alert {
			a.Fingerprint = "downgrade:ACTIVE->OUT"
			return a
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d.Key(base) == d.Key(tt.mutate(base)) {
				t.Errorf("key did not change: %s", d.Key(base))
			}
		})
	}
}

func TestKeyDistinguishesInjuryTransitions(t *testing.T) {
	d := dedup.NewDeduplicator(nil, 360)

	dtd := models.Alert{
		LeagueID: 77, Type: models.AlertInjury, PlayerID: 100,
		Fingerprint: "downgrade:ACTIVE->DAY_TO_DAY",
	}
	out := models.Alert{
		LeagueID: 77, Type: models.AlertInjury, PlayerID: 100,
		Fingerprint: "downgrade:DAY_TO_DAY->OUT",
	}

	// A worsening injury is a new situation and must alert again
	if d.Key(dtd) == d.Key(out) {
		t.Error("distinct injury transitions share a dedup key")
	}
}
