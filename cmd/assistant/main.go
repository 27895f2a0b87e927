package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/advisor"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/config"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/dashboard"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/dedup"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/filter"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/history"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/hub"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/notifier"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/providers/espn"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/ratelimit"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/refresher"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/snapshot"
	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/watchlist"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	fmt.Println("=== Fantasy Basketball Assistant ===")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.Alerts.SlackWebhookURL == "" {
		fmt.Println("⚠️  WARNING: SLACK_WEBHOOK_URL not set - alerts will be logged but not sent")
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Connected to Redis")

	// Connect to the history database
	historyWriter, err := history.NewWriter(cfg.History.DSN)
	if err != nil {
		fmt.Printf("❌ Failed to open history database: %v\n", err)
		os.Exit(1)
	}
	defer historyWriter.Close()

	if err := historyWriter.Ping(ctx); err != nil {
		fmt.Printf("❌ Failed to connect to history database: %v\n", err)
		os.Exit(1)
	}
	if err := historyWriter.EnsureSchema(ctx); err != nil {
		fmt.Printf("❌ Failed to prepare history schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Connected to history database")

	// Initialize components
	espnClient := espn.New(cfg.League.SWID, cfg.League.EspnS2)
	snapshotStore := snapshot.NewStore(redisClient, cfg.League.LeagueID)
	watchlistStore := watchlist.NewStore(redisClient, cfg.League.LeagueID)
	engine := advisor.NewEngine(cfg.Thresholds)
	alertFilter := filter.New(cfg.Alerts.MinSeverity, cfg.Alerts.MaxSnapshotAgeSec)
	deduplicator := dedup.NewDeduplicator(redisClient, cfg.Alerts.DedupTTLMinutes)
	limiter := ratelimit.NewLimiter(redisClient, cfg.Alerts.RateLimitPerMin)
	slackNotifier := notifier.NewSlackNotifier(cfg.Alerts.SlackWebhookURL, cfg.Dashboard.PublicURL)
	broadcastHub := hub.NewHub()

	refresherJob := refresher.New(
		espnClient,
		snapshotStore,
		watchlistStore,
		engine,
		alertFilter,
		deduplicator,
		limiter,
		slackNotifier,
		historyWriter,
		broadcastHub,
		cfg.League,
		cfg.Refresh,
	)

	fmt.Printf("✓ Assistant configured:\n")
	fmt.Printf("  League: %d (season %d, team %d)\n", cfg.League.LeagueID, cfg.League.SeasonID, cfg.League.MyTeamID)
	fmt.Printf("  Refresh Interval: %s\n", cfg.Refresh.Interval)
	fmt.Printf("  Min Pickup Score: %.2f\n", float64(cfg.Thresholds.MinPickupScore)/100)
	fmt.Printf("  Min Severity: %s\n", cfg.Alerts.MinSeverity)
	fmt.Printf("  Rate Limit: %d alerts/min\n", cfg.Alerts.RateLimitPerMin)
	fmt.Printf("  Dedup TTL: %d minutes\n", cfg.Alerts.DedupTTLMinutes)

	// Setup router
	handler := dashboard.NewHandler(snapshotStore, historyWriter, watchlistStore, refresherJob)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(dashboard.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Dashboard.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// The websocket stays outside the request timeout; it is a long-lived
	// connection, not a request/response exchange
	r.Get("/ws", broadcastHub.ServeWS)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(30 * time.Second))
		r.Mount("/", handler.Routes())
	})

	srv := &http.Server{
		Addr:         cfg.Dashboard.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background loops
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go broadcastHub.Run(runCtx)
	go refresherJob.Run(runCtx)

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Dashboard listening on %s\n", cfg.Dashboard.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	// Startup notification
	if cfg.Alerts.SlackWebhookURL != "" {
		leagueName := fmt.Sprintf("league %d", cfg.League.LeagueID)
		if err := slackNotifier.SendStartupNotification(ctx, leagueName, cfg.Refresh.Interval); err != nil {
			fmt.Printf("⚠️  Failed to send startup notification: %v\n", err)
		}
	}

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		fmt.Printf("❌ Server error: %v\n", err)
		os.Exit(1)

	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("⚠️  Graceful shutdown failed: %v\n", err)
			if err := srv.Close(); err != nil {
				fmt.Printf("❌ Could not stop server: %v\n", err)
			}
		}
	}

	if err := redisClient.Close(); err != nil {
		fmt.Printf("⚠️  Error closing Redis: %v\n", err)
	}

	fmt.Println("✓ Shutdown complete")
}
