package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/history"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/snapshot"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
	"github.com/go-chi/chi/v5"
)

// SnapshotReader provides read access to the stored league state
type SnapshotReader interface {
	ReadLatest(ctx context.Context) (*models.Snapshot, error)
	ReadLatestDiff(ctx context.Context) (*models.Diff, error)
	ReadRefreshStatus(ctx context.Context) (*snapshot.RefreshStatus, error)
}

// AlertHistory provides read access to the alert archive
type AlertHistory interface {
	Ping(ctx context.Context) error
	GetAlerts(ctx context.Context, filters history.AlertFilters) ([]models.Alert, error)
	GetAlertSummary(ctx context.Context) (*models.AlertSummary, error)
}

// WatchlistStore provides watchlist CRUD
type WatchlistStore interface {
	Add(ctx context.Context, playerID int) error
	Remove(ctx context.Context, playerID int) error
	List(ctx context.Context) ([]int, error)
}

// RefreshTrigger starts a refresh cycle on demand
type RefreshTrigger interface {
	RefreshOnce(ctx context.Context) error
}

// Handler contains dependencies for dashboard HTTP handlers
type Handler struct {
	snapshots SnapshotReader
	alerts    AlertHistory
	watchlist WatchlistStore
	trigger   RefreshTrigger
}

// NewHandler creates a new handler with dependencies
func NewHandler(snapshots SnapshotReader, alerts AlertHistory, watchlist WatchlistStore, trigger RefreshTrigger) *Handler {
	return &Handler{
		snapshots: snapshots,
		alerts:    alerts,
		watchlist: watchlist,
		trigger:   trigger,
	}
}

// Routes mounts all dashboard API routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/league", h.GetLeague)
		r.Get("/teams/{teamID}/roster", h.GetRoster)
		r.Get("/freeagents", h.GetFreeAgents)
		r.Get("/matchups", h.GetMatchups)
		r.Get("/alerts", h.GetAlerts)
		r.Get("/alerts/summary", h.GetAlertSummary)
		r.Get("/diffs/latest", h.GetLatestDiff)
		r.Get("/watchlist", h.GetWatchlist)
		r.Post("/watchlist", h.AddToWatchlist)
		r.Delete("/watchlist/{playerID}", h.RemoveFromWatchlist)
		r.Post("/refresh", h.TriggerRefresh)
	})

	return r
}

// HealthCheck returns the health status of the assistant
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.alerts.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "history database unhealthy", err)
		return
	}

	status, err := h.snapshots.ReadRefreshStatus(ctx)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "snapshot store unhealthy", err)
		return
	}

	resp := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "fantasy-assistant",
	}
	if status != nil {
		resp["last_refresh"] = status
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetLeague returns league metadata and team standings from the latest snapshot
func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	snap, err := h.snapshots.ReadLatest(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read snapshot", err)
		return
	}

	if snap == nil {
		respondError(w, http.StatusNotFound, "no snapshot yet - first refresh pending", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"league":     snap.League,
		"teams":      snap.Teams,
		"fetched_at": snap.FetchedAt,
	})
}

// GetRoster returns one team's roster from the latest snapshot
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	teamID, err := strconv.Atoi(chi.URLParam(r, "teamID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid team ID", err)
		return
	}

	snap, err := h.snapshots.ReadLatest(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read snapshot", err)
		return
	}

	if snap == nil {
		respondError(w, http.StatusNotFound, "no snapshot yet - first refresh pending", nil)
		return
	}

	team, ok := snap.Team(teamID)
	if !ok {
		respondError(w, http.StatusNotFound, "team not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":   team,
		"roster": snap.Roster(teamID),
	})
}

// GetFreeAgents returns free agents sorted by value score
// Query params: limit
func (h *Handler) GetFreeAgents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit := parseIntParam(r, "limit", 50)
	if limit > 500 {
		limit = 500
	}

	snap, err := h.snapshots.ReadLatest(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read snapshot", err)
		return
	}

	if snap == nil {
		respondError(w, http.StatusNotFound, "no snapshot yet - first refresh pending", nil)
		return
	}

	agents := snap.FreeAgents()
	if len(agents) > limit {
		agents = agents[:limit]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"freeagents": agents,
		"count":      len(agents),
		"fetched_at": snap.FetchedAt,
	})
}

// GetMatchups returns the current matchup period scoreboard
func (h *Handler) GetMatchups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	snap, err := h.snapshots.ReadLatest(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read snapshot", err)
		return
	}

	if snap == nil {
		respondError(w, http.StatusNotFound, "no snapshot yet - first refresh pending", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"matchup_period": snap.League.CurrentMatchupPeriod,
		"matchups":       snap.Matchups,
		"fetched_at":     snap.FetchedAt,
	})
}

// GetAlerts returns alert history with optional filtering
// Query params: type, severity, player_id, limit, offset
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit := parseIntParam(r, "limit", 100)
	if limit > 500 {
		limit = 500
	}

	filters := history.AlertFilters{
		Type:     r.URL.Query().Get("type"),
		Severity: r.URL.Query().Get("severity"),
		PlayerID: parseIntParam(r, "player_id", 0),
		Limit:    limit,
		Offset:   parseIntParam(r, "offset", 0),
	}

	alerts, err := h.alerts.GetAlerts(ctx, filters)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve alerts", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
		"limit":  limit,
	})
}

// GetAlertSummary returns aggregate alert statistics
func (h *Handler) GetAlertSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.alerts.GetAlertSummary(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve alert summary", err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GetLatestDiff returns the changes from the most recent refresh
func (h *Handler) GetLatestDiff(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	d, err := h.snapshots.ReadLatestDiff(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read diff", err)
		return
	}

	if d == nil {
		respondError(w, http.StatusNotFound, "no diff yet - first refresh pending", nil)
		return
	}

	respondJSON(w, http.StatusOK, d)
}

// GetWatchlist returns watched players, enriched from the latest snapshot
func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ids, err := h.watchlist.List(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read watchlist", err)
		return
	}

	snap, err := h.snapshots.ReadLatest(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read snapshot", err)
		return
	}

	entries := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		entry := map[string]interface{}{"player_id": id}
		if snap != nil {
			if player, ok := snap.Player(id); ok {
				entry["player"] = player
			}
		}
		entries = append(entries, entry)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"watchlist": entries,
		"count":     len(entries),
	})
}

// AddToWatchlist puts a player on the watchlist
// Body: {"player_id": 12345}
func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req struct {
		PlayerID int `json:"player_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.PlayerID <= 0 {
		respondError(w, http.StatusBadRequest, "player_id is required", nil)
		return
	}

	if err := h.watchlist.Add(ctx, req.PlayerID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to add to watchlist", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"player_id": req.PlayerID,
		"status":    "watching",
	})
}

// RemoveFromWatchlist takes a player off the watchlist
func (h *Handler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	playerID, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid player ID", err)
		return
	}

	if err := h.watchlist.Remove(ctx, playerID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to remove from watchlist", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"status":    "removed",
	})
}

// TriggerRefresh starts a refresh cycle in the background
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := h.trigger.RefreshOnce(ctx); err != nil {
			fmt.Printf("manual refresh failed: %v\n", err)
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"status": "refresh started",
	})
}

// Helper functions

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		fmt.Printf("error: %s - %v\n", message, err)
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		fmt.Printf("error encoding error response: %v\n", err)
	}
}
