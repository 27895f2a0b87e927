package watchlist

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Store keeps the user's watched player IDs in a Redis set
type Store struct {
	client   *redis.Client
	leagueID int
}

// NewStore creates a watchlist store for one league
func NewStore(client *redis.Client, leagueID int) *Store {
	return &Store{
		client:   client,
		leagueID: leagueID,
	}
}

// Add puts a player on the watchlist
func (s *Store) Add(ctx context.Context, playerID int) error {
	if err := s.client.SAdd(ctx, s.key(), playerID).Err(); err != nil {
		return fmt.Errorf("adding player %d to watchlist: %w", playerID, err)
	}
	return nil
}

// Remove takes a player off the watchlist
func (s *Store) Remove(ctx context.Context, playerID int) error {
	if err := s.client.SRem(ctx, s.key(), playerID).Err(); err != nil {
		return fmt.Errorf("removing player %d from watchlist: %w", playerID, err)
	}
	return nil
}

// List returns all watched player IDs sorted ascending
func (s *Store) List(ctx context.Context) ([]int, error) {
	members, err := s.client.SMembers(ctx, s.key()).Result()
	if err != nil {
		return nil, fmt.Errorf("reading watchlist: %w", err)
	}

	ids := make([]int, 0, len(members))
	for _, member := range members {
		id, err := strconv.Atoi(member)
		if err != nil {
			// Skip malformed entries rather than failing the refresh
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids, nil
}

// Contains reports whether a player is watched
func (s *Store) Contains(ctx context.Context, playerID int) (bool, error) {
	watched, err := s.client.SIsMember(ctx, s.key(), playerID).Result()
	if err != nil {
		return false, fmt.Errorf("checking watchlist membership: %w", err)
	}
	return watched, nil
}

// AsSet returns the watchlist as a membership map for detector input
func (s *Store) AsSet(ctx context.Context) (map[int]bool, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// key builds the league-scoped watchlist key
func (s *Store) key() string {
	return fmt.Sprintf("league:%d:watchlist", s.leagueID)
}
