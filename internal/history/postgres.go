package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/pkg/models"
)

// AlertFilters narrows alert history queries
type AlertFilters struct {
	Type     string
	Severity string
	PlayerID int
	Since    *time.Time
	Limit    int
	Offset   int
}

// Writer persists refresh and alert history to Postgres
type Writer struct {
	db *sql.DB
}

// NewWriter opens a history database connection
func NewWriter(dsn string) (*Writer, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Writer{db: db}, nil
}

// Ping checks database connectivity
func (w *Writer) Ping(ctx context.Context) error {
	return w.db.PingContext(ctx)
}

// EnsureSchema creates the history tables if they don't exist
func (w *Writer) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS refreshes (
			id BIGSERIAL PRIMARY KEY,
			league_id BIGINT NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL,
			duration_ms BIGINT NOT NULL,
			change_count INT NOT NULL,
			alert_count INT NOT NULL,
			error TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS alerts (
			id BIGSERIAL PRIMARY KEY,
			alert_id TEXT NOT NULL UNIQUE,
			league_id BIGINT NOT NULL,
			alert_type TEXT NOT NULL,
			severity TEXT NOT NULL,
			player_id BIGINT,
			player_name TEXT,
			position TEXT,
			pro_team TEXT,
			score INT NOT NULL DEFAULT 0,
			detail TEXT NOT NULL,
			detected_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_alerts_detected_at ON alerts (detected_at DESC);
		CREATE INDEX IF NOT EXISTS idx_alerts_player ON alerts (player_id);
	`

	if _, err := w.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	return nil
}

// WriteRefresh records the outcome of one refresh cycle
func (w *Writer) WriteRefresh(ctx context.Context, leagueID int, fetchedAt time.Time, duration time.Duration, changeCount, alertCount int, refreshErr error) (int64, error) {
	var errMsg sql.NullString
	if refreshErr != nil {
		errMsg = sql.NullString{String: refreshErr.Error(), Valid: true}
	}

	query := `
		INSERT INTO refreshes (league_id, fetched_at, duration_ms, change_count, alert_count, error)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := w.db.QueryRowContext(
		ctx, query,
		leagueID,
		fetchedAt,
		duration.Milliseconds(),
		changeCount,
		alertCount,
		errMsg,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("insert refresh: %w", err)
	}

	return id, nil
}

// WriteAlert records a sent alert
func (w *Writer) WriteAlert(ctx context.Context, alert models.Alert) (int64, error) {
	query := `
		INSERT INTO alerts (
			alert_id, league_id, alert_type, severity,
			player_id, player_name, position, pro_team,
			score, detail, detected_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (alert_id) DO NOTHING
		RETURNING id
	`

	var id int64
	err := w.db.QueryRowContext(
		ctx, query,
		alert.ID,
		alert.LeagueID,
		alert.Type,
		alert.Severity,
		alert.PlayerID,
		alert.PlayerName,
		alert.Position,
		alert.ProTeam,
		alert.Score,
		alert.Detail,
		alert.DetectedAt,
	).Scan(&id)

	if err == sql.ErrNoRows {
		// Conflict: the alert was already recorded
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("insert alert: %w", err)
	}

	return id, nil
}

// GetAlerts retrieves alert history with optional filters, newest first
func (w *Writer) GetAlerts(ctx context.Context, filters AlertFilters) ([]models.Alert, error) {
	query := `
		SELECT alert_id, league_id, alert_type, severity,
		       player_id, player_name, position, pro_team,
		       score, detail, detected_at
		FROM alerts
		WHERE 1=1
	`

	args := []interface{}{}
	argPos := 1

	if filters.Type != "" {
		query += fmt.Sprintf(" AND alert_type = $%d", argPos)
		args = append(args, filters.Type)
		argPos++
	}

	if filters.Severity != "" {
		query += fmt.Sprintf(" AND severity = $%d", argPos)
		args = append(args, filters.Severity)
		argPos++
	}

	if filters.PlayerID != 0 {
		query += fmt.Sprintf(" AND player_id = $%d", argPos)
		args = append(args, filters.PlayerID)
		argPos++
	}

	if filters.Since != nil {
		query += fmt.Sprintf(" AND detected_at >= $%d", argPos)
		args = append(args, *filters.Since)
		argPos++
	}

	query += " ORDER BY detected_at DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, filters.Limit)
		argPos++
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, filters.Offset)
	}

	rows, err := w.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var alert models.Alert
		err := rows.Scan(
			&alert.ID, &alert.LeagueID, &alert.Type, &alert.Severity,
			&alert.PlayerID, &alert.PlayerName, &alert.Position, &alert.ProTeam,
			&alert.Score, &alert.Detail, &alert.DetectedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}

		alerts = append(alerts, alert)
	}

	return alerts, rows.Err()
}

// GetAlertSummary retrieves aggregate alert statistics
func (w *Writer) GetAlertSummary(ctx context.Context) (*models.AlertSummary, error) {
	summary := &models.AlertSummary{
		ByType:     make(map[string]int),
		BySeverity: make(map[string]int),
	}

	rows, err := w.db.QueryContext(ctx, `
		SELECT alert_type, severity, COUNT(*)
		FROM alerts
		GROUP BY alert_type, severity
	`)
	if err != nil {
		return nil, fmt.Errorf("query alert summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var alertType, severity string
		var count int

		if err := rows.Scan(&alertType, &severity, &count); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}

		summary.ByType[alertType] += count
		summary.BySeverity[severity] += count
		summary.TotalAlerts += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Last refresh outcome
	var fetchedAt time.Time
	var errMsg sql.NullString
	err = w.db.QueryRowContext(ctx, `
		SELECT fetched_at, error
		FROM refreshes
		ORDER BY fetched_at DESC
		LIMIT 1
	`).Scan(&fetchedAt, &errMsg)

	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("query last refresh: %w", err)
	}

	if err == nil {
		summary.LastRefreshAt = &fetchedAt
		summary.LastRefreshOK = !errMsg.Valid
	}

	return summary, nil
}

// Close closes the database connection
func (w *Writer) Close() error {
	return w.db.Close()
}
