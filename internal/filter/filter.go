package filter

import (
	"fmt"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
)

// Filter gates alerts on severity and snapshot freshness thresholds
type Filter struct {
	minSeverity       models.Severity
	maxSnapshotAgeSec int
}

// New creates a new filter
func New(minSeverity models.Severity, maxSnapshotAgeSec int) *Filter {
	return &Filter{
		minSeverity:       minSeverity,
		maxSnapshotAgeSec: maxSnapshotAgeSec,
	}
}

// ShouldAlert returns true if the alert meets the thresholds, with a
// human-readable reason when it does not
func (f *Filter) ShouldAlert(alert models.Alert, snapshotAgeSec int) (bool, string) {
	if models.SeverityRank(alert.Severity) < models.SeverityRank(f.minSeverity) {
		return false, fmt.Sprintf("severity %s below threshold %s", alert.Severity, f.minSeverity)
	}

	if f.maxSnapshotAgeSec > 0 && snapshotAgeSec > f.maxSnapshotAgeSec {
		return false, fmt.Sprintf("snapshot age %ds exceeds threshold %ds", snapshotAgeSec, f.maxSnapshotAgeSec)
	}

	return true, ""
}

// FilterAlerts filters a list of alerts
func (f *Filter) FilterAlerts(alerts []models.Alert, snapshotAgeSec int) []models.Alert {
	var filtered []models.Alert

	for _, alert := range alerts {
		if should, _ := f.ShouldAlert(alert, snapshotAgeSec); should {
			filtered = append(filtered, alert)
		}
	}

	return filtered
}
