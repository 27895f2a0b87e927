package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
)

// SlackNotifier sends alerts to Slack via webhook
type SlackNotifier struct {
	webhookURL   string
	dashboardURL string
	httpClient   *http.Client
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(webhookURL, dashboardURL string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL:   webhookURL,
		dashboardURL: dashboardURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendAlert sends one alert to Slack. With no webhook configured the alert
// is logged and dropped.
func (s *SlackNotifier) SendAlert(ctx context.Context, alert models.Alert) error {
	if s.webhookURL == "" {
		fmt.Printf("⚠️  no webhook configured, alert logged only: [%s] %s\n", alert.Type, alert.Detail)
		return nil
	}

	startTime := time.Now()

	if err := s.post(ctx, s.formatMessage(alert)); err != nil {
		return err
	}

	latency := time.Since(startTime).Milliseconds()
	fmt.Printf("✓ Slack alert sent: type=%s player=%s latency=%dms\n", alert.Type, alert.PlayerName, latency)

	return nil
}

// SendBatchAlerts sends multiple alerts in order
func (s *SlackNotifier) SendBatchAlerts(ctx context.Context, alerts []models.Alert) error {
	for _, alert := range alerts {
		if err := s.SendAlert(ctx, alert); err != nil {
			return fmt.Errorf("failed to send alert %s: %w", alert.ID, err)
		}

		// Small delay between messages to avoid webhook rate limits
		time.Sleep(100 * time.Millisecond)
	}

	return nil
}

// SendStartupNotification announces the assistant coming online
func (s *SlackNotifier) SendStartupNotification(ctx context.Context, leagueName string, refreshInterval time.Duration) error {
	if s.webhookURL == "" {
		return fmt.Errorf("no webhook URL configured")
	}

	message := fmt.Sprintf(
		"🚀 *Fantasy Assistant Active*\n\n"+
			"✅ Monitoring league: %s\n"+
			"🔄 Refresh interval: %s\n\n"+
			"_Started: %s_",
		leagueName, refreshInterval,
		time.Now().Format("2006-01-02 15:04:05 MST"),
	)

	return s.post(ctx, message)
}

// formatMessage formats an alert as a Slack message
func (s *SlackNotifier) formatMessage(alert models.Alert) string {
	var sb strings.Builder

	emoji := s.getEmojiForType(alert.Type)
	sb.WriteString(fmt.Sprintf("%s *%s ALERT* | %s\n\n",
		emoji, strings.ToUpper(string(alert.Type)), s.getSeverityBadge(alert.Severity)))

	if alert.PlayerName != "" {
		sb.WriteString(fmt.Sprintf("*Player:* %s (%s - %s)\n", alert.PlayerName, alert.Position, alert.ProTeam))
	}

	if alert.Score != 0 {
		sb.WriteString(fmt.Sprintf("*Score:* %.2f\n", float64(alert.Score)/100))
	}

	sb.WriteString(fmt.Sprintf("\n%s\n", alert.Detail))

	if s.dashboardURL != "" {
		sb.WriteString(fmt.Sprintf("\n<%s/alerts|View Dashboard>", s.dashboardURL))
	}

	sb.WriteString(fmt.Sprintf("\n\n_Detected: %s_", alert.DetectedAt.Format("15:04:05")))

	return sb.String()
}

// getEmojiForType returns an emoji for the alert type
func (s *SlackNotifier) getEmojiForType(alertType models.AlertType) string {
	switch alertType {
	case models.AlertPickup:
		return "💎"
	case models.AlertInjury:
		return "🚑"
	case models.AlertWatchlist:
		return "👀"
	default:
		return "📊"
	}
}

// getSeverityBadge returns a colored badge for the severity
func (s *SlackNotifier) getSeverityBadge(severity models.Severity) string {
	switch severity {
	case models.SeverityUrgent:
		return "🔴 urgent"
	case models.SeverityNotable:
		return "🟡 notable"
	default:
		return "🟢 info"
	}
}

// post sends a text payload to the Slack webhook
func (s *SlackNotifier) post(ctx context.Context, message string) error {
	payload := map[string]interface{}{
		"text": message,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.webhookURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Slack alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}
