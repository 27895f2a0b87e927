package contracts

import (
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
)

// Input is everything a detector sees for one refresh cycle
type Input struct {
	Previous *models.Snapshot
	Current  *models.Snapshot
	Diff     models.Diff

	// Watched holds the player IDs on the user's watchlist
	Watched map[int]bool

	// MyTeamID is the user's fantasy team
	MyTeamID int
}

// Detector examines a refresh cycle and emits zero or more alerts
type Detector interface {
	// Name returns a short identifier for logging
	Name() string

	// Detect runs the heuristic over the cycle input
	Detect(in Input) []models.Alert
}

// Thresholds holds the hand-tuned heuristic knobs shared by detectors.
// Score thresholds use the same fixed-point hundredths as Player.ValueScore.
type Thresholds struct {
	// MinPickupScore is the minimum margin a free agent must show over the
	// weakest rostered player before a pickup alert fires
	MinPickupScore int

	// OwnershipSurgePct is the percent-owned jump between snapshots that
	// flags a watched or unrostered player as trending
	OwnershipSurgePct float64

	// MaxCandidates caps how many pickup suggestions one cycle may emit
	MaxCandidates int
}
