package advisor

import (
	"log"
	"sync"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/contracts"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
)

// Engine runs the heuristic detectors over each refresh cycle
type Engine struct {
	detectors []contracts.Detector

	// Metrics
	cyclesRun      int64
	alertsEmitted  int64
	totalLatencyMs int64
	mu             sync.Mutex
}

// NewEngine creates an engine with the standard detector set
func NewEngine(thresholds contracts.Thresholds) *Engine {
	return &Engine{
		detectors: []contracts.Detector{
			NewPickupDetector(thresholds),
			NewInjuryDetector(),
			NewWatchlistDetector(thresholds),
		},
	}
}

// Run executes all detectors and returns their combined alerts.
// The first refresh (no previous snapshot) never emits alerts.
func (e *Engine) Run(in contracts.Input) []models.Alert {
	if in.Previous == nil {
		log.Printf("[advisor] first snapshot, skipping detectors")
		return nil
	}

	start := time.Now()
	alerts := make([]models.Alert, 0)

	for _, detector := range e.detectors {
		detected := detector.Detect(in)
		if len(detected) > 0 {
			log.Printf("[advisor] %s emitted %d alert(s)", detector.Name(), len(detected))
		}
		alerts = append(alerts, detected...)
	}

	e.recordCycle(int64(len(alerts)), time.Since(start).Milliseconds())

	return alerts
}

// recordCycle updates run metrics
func (e *Engine) recordCycle(alerts, latencyMs int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cyclesRun++
	e.alertsEmitted += alerts
	e.totalLatencyMs += latencyMs
}

// Metrics returns cycle counts and average detection latency
func (e *Engine) Metrics() (cycles, alerts int64, avgLatencyMs float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cyclesRun > 0 {
		avgLatencyMs = float64(e.totalLatencyMs) / float64(e.cyclesRun)
	}
	return e.cyclesRun, e.alertsEmitted, avgLatencyMs
}
