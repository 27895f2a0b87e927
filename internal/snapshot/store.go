package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	SnapshotTTL = 48 * time.Hour
	DiffTTL     = 48 * time.Hour
	StatusTTL   = 48 * time.Hour
)

// RefreshStatus records the outcome of the most recent refresh cycle
type RefreshStatus struct {
	At          time.Time `json:"at"`
	DurationMs  int64     `json:"duration_ms"`
	ChangeCount int       `json:"change_count"`
	AlertCount  int       `json:"alert_count"`
	Error       string    `json:"error,omitempty"`
}

// OK reports whether the refresh completed without error
func (s RefreshStatus) OK() bool {
	return s.Error == ""
}

// Store keeps the latest and previous snapshots, the latest diff, and the
// refresh status in Redis under league-scoped keys
type Store struct {
	client   *redis.Client
	leagueID int
}

// NewStore creates a snapshot store for one league
func NewStore(client *redis.Client, leagueID int) *Store {
	return &Store{
		client:   client,
		leagueID: leagueID,
	}
}

// WriteSnapshot rotates the current latest snapshot into the previous slot
// and stores the new snapshot as latest
func (s *Store) WriteSnapshot(ctx context.Context, snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	latest, err := s.client.Get(ctx, s.key("snapshot:latest")).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("reading current latest: %w", err)
	}

	pipe := s.client.Pipeline()
	if err != redis.Nil {
		pipe.Set(ctx, s.key("snapshot:previous"), latest, SnapshotTTL)
	}
	pipe.Set(ctx, s.key("snapshot:latest"), data, SnapshotTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// ReadLatest retrieves the latest snapshot, or nil if none is stored
func (s *Store) ReadLatest(ctx context.Context) (*models.Snapshot, error) {
	return s.readSnapshot(ctx, s.key("snapshot:latest"))
}

// ReadPrevious retrieves the previous snapshot, or nil if none is stored
func (s *Store) ReadPrevious(ctx context.Context) (*models.Snapshot, error) {
	return s.readSnapshot(ctx, s.key("snapshot:previous"))
}

// WriteDiff stores the most recent diff for the dashboard
func (s *Store) WriteDiff(ctx context.Context, d models.Diff) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling diff: %w", err)
	}

	return s.client.Set(ctx, s.key("diff:latest"), data, DiffTTL).Err()
}

// ReadLatestDiff retrieves the most recent diff, or nil if none is stored
func (s *Store) ReadLatestDiff(ctx context.Context) (*models.Diff, error) {
	data, err := s.client.Get(ctx, s.key("diff:latest")).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var d models.Diff
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("unmarshaling diff: %w", err)
	}

	return &d, nil
}

// WriteRefreshStatus stores the outcome of the last refresh cycle
func (s *Store) WriteRefreshStatus(ctx context.Context, status RefreshStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshaling refresh status: %w", err)
	}

	return s.client.Set(ctx, s.key("refresh:status"), data, StatusTTL).Err()
}

// ReadRefreshStatus retrieves the last refresh outcome, or nil if none
func (s *Store) ReadRefreshStatus(ctx context.Context) (*RefreshStatus, error) {
	data, err := s.client.Get(ctx, s.key("refresh:status")).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var status RefreshStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, fmt.Errorf("unmarshaling refresh status: %w", err)
	}

	return &status, nil
}

// readSnapshot fetches and decodes a snapshot key
func (s *Store) readSnapshot(ctx context.Context, key string) (*models.Snapshot, error) {
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot: %w", err)
	}

	return &snap, nil
}

// key builds a league-scoped Redis key
func (s *Store) key(suffix string) string {
	return fmt.Sprintf("league:%d:%s", s.leagueID, suffix)
}
