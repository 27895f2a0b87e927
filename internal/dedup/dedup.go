package dedup

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
	"github.com/redis/go-redis/v9"
)

// Deduplicator suppresses repeated alerts using Redis TTL keys
type Deduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeduplicator creates a new deduplicator
func NewDeduplicator(client *redis.Client, ttlMinutes int) *Deduplicator {
	return &Deduplicator{
		client: client,
		ttl:    time.Duration(ttlMinutes) * time.Minute,
	}
}

// ShouldAlert returns true if this alert hasn't fired recently
func (d *Deduplicator) ShouldAlert(ctx context.Context, alert models.Alert) (bool, error) {
	dedupKey := d.Key(alert)

	exists, err := d.client.Exists(ctx, dedupKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check dedup key: %w", err)
	}

	if exists > 0 {
		// Already alerted within the TTL window
		return false, nil
	}

	if err := d.client.Set(ctx, dedupKey, "1", d.ttl).Err(); err != nil {
		return false, fmt.Errorf("failed to set dedup key: %w", err)
	}

	return true, nil
}

// Key creates a deterministic dedup key for an alert. The key stays stable
// across refresh cycles: it covers league, type, player, and the alert's
// fingerprint, never the detail text or score.
// Key format: alert:dedup:{league_id}:{type}:{player_id}:{fingerprint_hash}
func (d *Deduplicator) Key(alert models.Alert) string {
	hash := sha256.Sum256([]byte(alert.Fingerprint))
	fingerprintHash := fmt.Sprintf("%x", hash[:8])

	return fmt.Sprintf("alert:dedup:%d:%s:%d:%s", alert.LeagueID, alert.Type, alert.PlayerID, fingerprintHash)
}

// Clear removes a dedup entry (for testing)
func (d *Deduplicator) Clear(ctx context.Context, alert models.Alert) error {
	return d.client.Del(ctx, d.Key(alert)).Err()
}
