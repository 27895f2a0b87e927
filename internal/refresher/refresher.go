package refresher

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/advisor"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/config"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/dedup"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/diff"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/filter"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/history"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/hub"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/normalizer"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/notifier"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/providers/espn"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/ratelimit"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/snapshot"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/watchlist"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/contracts"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
	"github.com/google/uuid"
)

// deduper suppresses alerts that fired recently
type deduper interface {
	ShouldAlert(ctx context.Context, alert models.Alert) (bool, error)
}

// alertLimiter caps the alert send rate
type alertLimiter interface {
	AllowAlert(ctx context.Context) (bool, error)
}

// alertSender delivers alerts to the notification channel
type alertSender interface {
	SendAlert(ctx context.Context, alert models.Alert) error
}

// historyWriter archives refreshes and sent alerts
type historyWriter interface {
	WriteRefresh(ctx context.Context, leagueID int, fetchedAt time.Time, duration time.Duration, changeCount, alertCount int, refreshErr error) (int64, error)
	WriteAlert(ctx context.Context, alert models.Alert) (int64, error)
}

// Refresher runs the scheduled snapshot-diff-and-alert pipeline.
// One refresh runs at a time; an overlapping trigger is skipped, not queued.
type Refresher struct {
	espnClient *espn.Client
	store      *snapshot.Store
	watch      *watchlist.Store
	engine     *advisor.Engine
	filter     *filter.Filter
	dedup      deduper
	limiter    alertLimiter
	notifier   alertSender
	history    historyWriter
	hub        *hub.Hub

	league  config.LeagueConfig
	refresh config.RefreshConfig

	running sync.Mutex

	// Metrics
	refreshCount        int64
	alertsSent          int64
	alertsFiltered      int64
	alertsDeduped       int64
	alertsRateLimited   int64
	alertsDedupErrors   int64
	alertsLimitErrors   int64
	consecutiveFailures int
	metricsMu           sync.Mutex
}

// New wires up a refresher
func New(
	espnClient *espn.Client,
	store *snapshot.Store,
	watch *watchlist.Store,
	engine *advisor.Engine,
	alertFilter *filter.Filter,
	deduplicator *dedup.Deduplicator,
	limiter *ratelimit.Limiter,
	slackNotifier *notifier.SlackNotifier,
	historyWriter *history.Writer,
	broadcastHub *hub.Hub,
	league config.LeagueConfig,
	refresh config.RefreshConfig,
) *Refresher {
	return &Refresher{
		espnClient: espnClient,
		store:      store,
		watch:      watch,
		engine:     engine,
		filter:     alertFilter,
		dedup:      deduplicator,
		limiter:    limiter,
		notifier:   slackNotifier,
		history:    historyWriter,
		hub:        broadcastHub,
		league:     league,
		refresh:    refresh,
	}
}

// Run starts the polling loop until the context is cancelled
func (r *Refresher) Run(ctx context.Context) {
	log.Printf("[refresher] starting, league=%d interval=%s", r.league.LeagueID, r.refresh.Interval)

	ticker := time.NewTicker(r.refresh.Interval)
	defer ticker.Stop()

	go r.reportMetrics(ctx)

	// Initial refresh
	r.refreshAndRecord(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[refresher] stopping")
			return
		case <-ticker.C:
			r.refreshAndRecord(ctx)
		}
	}
}

// RefreshOnce performs one refresh cycle. Returns an error when the cycle
// failed, and nil when it completed or was skipped due to an in-flight cycle.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	if !r.running.TryLock() {
		log.Printf("[refresher] refresh already in flight, skipping")
		return nil
	}
	defer r.running.Unlock()

	start := time.Now()

	event, err := r.refreshCycle(ctx)
	duration := time.Since(start)

	status := snapshot.RefreshStatus{
		At:         start.UTC(),
		DurationMs: duration.Milliseconds(),
	}
	if err != nil {
		status.Error = err.Error()
	} else {
		status.ChangeCount = event.ChangeCount
		status.AlertCount = event.AlertCount
	}

	if statusErr := r.store.WriteRefreshStatus(ctx, status); statusErr != nil {
		log.Printf("[refresher] error writing refresh status: %v", statusErr)
	}

	if _, histErr := r.history.WriteRefresh(ctx, r.league.LeagueID, start.UTC(), duration,
		status.ChangeCount, status.AlertCount, err); histErr != nil {
		log.Printf("[refresher] error recording refresh history: %v", histErr)
	}

	if err != nil {
		return err
	}

	event.DurationMs = duration.Milliseconds()
	r.hub.BroadcastRefresh(event)

	log.Printf("[refresher] ✓ refresh complete: changes=%d alerts=%d duration=%dms",
		event.ChangeCount, event.AlertCount, duration.Milliseconds())

	return nil
}

// refreshCycle runs fetch -> normalize -> diff -> classify -> notify -> persist
func (r *Refresher) refreshCycle(ctx context.Context) (models.RefreshEvent, error) {
	fetchedAt := time.Now().UTC()

	league, err := r.espnClient.FetchLeague(ctx, r.league.SeasonID, r.league.LeagueID)
	if err != nil {
		return models.RefreshEvent{}, fmt.Errorf("fetch league: %w", err)
	}

	pool, err := r.espnClient.FetchPlayers(ctx, r.league.SeasonID, r.league.LeagueID, r.refresh.PlayerPoolSize)
	if err != nil {
		return models.RefreshEvent{}, fmt.Errorf("fetch player pool: %w", err)
	}

	curr, err := normalizer.Normalize(league, pool, fetchedAt)
	if err != nil {
		return models.RefreshEvent{}, fmt.Errorf("normalize: %w", err)
	}

	// Matchup scores enrich the snapshot; a scoreboard failure does not
	// fail the cycle
	scoreboard, err := r.espnClient.FetchScoreboard(ctx, r.league.SeasonID, r.league.LeagueID)
	if err != nil {
		log.Printf("[refresher] error fetching scoreboard: %v", err)
	} else {
		curr.Matchups = normalizer.Matchups(scoreboard, curr.League.CurrentMatchupPeriod)
	}

	prev, err := r.store.ReadLatest(ctx)
	if err != nil {
		return models.RefreshEvent{}, fmt.Errorf("read previous snapshot: %w", err)
	}

	d := diff.Compute(prev, curr)

	watched, err := r.watch.AsSet(ctx)
	if err != nil {
		log.Printf("[refresher] error reading watchlist: %v", err)
		watched = map[int]bool{}
	}

	alerts := r.engine.Run(contracts.Input{
		Previous: prev,
		Current:  curr,
		Diff:     d,
		Watched:  watched,
		MyTeamID: r.league.MyTeamID,
	})

	sent := r.processAlerts(ctx, curr, alerts)

	if err := r.store.WriteSnapshot(ctx, curr); err != nil {
		return models.RefreshEvent{}, fmt.Errorf("write snapshot: %w", err)
	}

	if err := r.store.WriteDiff(ctx, d); err != nil {
		log.Printf("[refresher] error writing diff: %v", err)
	}

	return models.RefreshEvent{
		LeagueID:    r.league.LeagueID,
		FetchedAt:   fetchedAt,
		ChangeCount: len(d.Changes) + len(d.Added) + len(d.Removed),
		AlertCount:  sent,
	}, nil
}

// processAlerts pushes alerts through filter -> dedup -> rate limit -> notify
func (r *Refresher) processAlerts(ctx context.Context, curr *models.Snapshot, alerts []models.Alert) int {
	sent := 0
	snapshotAge := int(time.Since(curr.FetchedAt).Seconds())

	for _, alert := range alerts {
		shouldAlert, reason := r.filter.ShouldAlert(alert, snapshotAge)
		if !shouldAlert {
			log.Printf("[refresher] ⊘ filtered %s alert for %s: %s", alert.Type, alert.PlayerName, reason)
			r.incrementFiltered()
			continue
		}

		// Both gates fail open: an unreachable Redis must not hide an
		// actionable alert
		fresh, err := r.dedup.ShouldAlert(ctx, alert)
		if err != nil {
			log.Printf("[refresher] ⚠️ dedup check failed for %s alert on %s, sending anyway: %v",
				alert.Type, alert.PlayerName, err)
			r.incrementDedupErrors()
		} else if !fresh {
			log.Printf("[refresher] ⊘ duplicate %s alert for %s", alert.Type, alert.PlayerName)
			r.incrementDeduped()
			continue
		}

		allowed, err := r.limiter.AllowAlert(ctx)
		if err != nil {
			log.Printf("[refresher] ⚠️ rate limit check failed for %s alert on %s, sending anyway: %v",
				alert.Type, alert.PlayerName, err)
			r.incrementLimitErrors()
		} else if !allowed {
			log.Printf("[refresher] ⊘ rate limited %s alert for %s", alert.Type, alert.PlayerName)
			r.incrementRateLimited()
			continue
		}

		if _, err := r.history.WriteAlert(ctx, alert); err != nil {
			log.Printf("[refresher] error recording alert: %v", err)
		}

		if err := r.notifier.SendAlert(ctx, alert); err != nil {
			log.Printf("[refresher] error sending alert: %v", err)
			continue
		}

		r.hub.BroadcastAlert(alert)
		r.incrementSent()
		sent++
	}

	return sent
}

// refreshAndRecord runs a cycle and tracks consecutive failures
func (r *Refresher) refreshAndRecord(ctx context.Context) {
	r.incrementRefreshCount()

	err := r.RefreshOnce(ctx)
	if err == nil {
		r.resetFailures()
		return
	}

	failures := r.incrementFailures()
	log.Printf("[refresher] ❌ refresh failed (%d consecutive): %v", failures, err)

	if failures == r.refresh.FailureAlertThreshold {
		r.sendFailureAlert(ctx, failures, err)
	}
}

// sendFailureAlert notifies that refreshes keep failing
func (r *Refresher) sendFailureAlert(ctx context.Context, failures int, lastErr error) {
	alert := models.Alert{
		ID:       uuid.NewString(),
		LeagueID: r.league.LeagueID,
		Type:     models.AlertSystem,
		Severity: models.SeverityUrgent,
		Detail: fmt.Sprintf("%d consecutive refresh failures; last error: %v",
			failures, lastErr),
		DetectedAt: time.Now().UTC(),
	}

	if err := r.notifier.SendAlert(ctx, alert); err != nil {
		log.Printf("[refresher] error sending failure alert: %v", err)
	}
}

// reportMetrics periodically logs pipeline counters
func (r *Refresher) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.metricsMu.Lock()
			log.Printf("[refresher] 📊 metrics: refreshes=%d sent=%d filtered=%d deduped=%d rate_limited=%d dedup_errors=%d limit_errors=%d",
				r.refreshCount, r.alertsSent, r.alertsFiltered, r.alertsDeduped, r.alertsRateLimited,
				r.alertsDedupErrors, r.alertsLimitErrors)
			r.metricsMu.Unlock()
		}
	}
}

func (r *Refresher) incrementRefreshCount() {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	r.refreshCount++
}

func (r *Refresher) incrementSent() {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	r.alertsSent++
}

func (r *Refresher) incrementFiltered() {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	r.alertsFiltered++
}

func (r *Refresher) incrementDeduped() {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	r.alertsDeduped++
}

func (r *Refresher) incrementRateLimited() {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	r.alertsRateLimited++
}

func (r *Refresher) incrementDedupErrors() {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	r.alertsDedupErrors++
}

func (r *Refresher) incrementLimitErrors() {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	r.alertsLimitErrors++
}

func (r *Refresher) incrementFailures() int {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	r.consecutiveFailures++
	return r.consecutiveFailures
}

func (r *Refresher) resetFailures() {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	r.consecutiveFailures = 0
}
