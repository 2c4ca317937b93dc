package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ethpandaops/nichefy/pkg/models"
	"github.com/ethpandaops/nichefy/pkg/observability"
	"github.com/sirupsen/logrus"

	// Register the pure-Go sqlite driver
	_ "modernc.org/sqlite"
)

const sqliteUpsert = `
INSERT INTO outliers (
    video_id, channel_id, title, thumbnail_url, view_count, subscriber_count,
    channel_title, published_at, outlier_score, type, is_faceless, ai_analysis
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (video_id) DO UPDATE SET
    channel_id       = excluded.channel_id,
    title            = excluded.title,
    thumbnail_url    = excluded.thumbnail_url,
    view_count       = excluded.view_count,
    subscriber_count = excluded.subscriber_count,
    channel_title    = excluded.channel_title,
    published_at     = excluded.published_at,
    outlier_score    = excluded.outlier_score,
    type             = excluded.type,
    is_faceless      = excluded.is_faceless,
    ai_analysis      = excluded.ai_analysis,
    updated_at       = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`

const sqliteList = `
SELECT video_id, channel_id, title, thumbnail_url, view_count, subscriber_count,
       channel_title, published_at, outlier_score, type, is_faceless, ai_analysis
FROM outliers
ORDER BY outlier_score DESC
LIMIT ?`

// SQLite is a Store backed by a local SQLite database
type SQLite struct {
	log logrus.FieldLogger
	db  *sql.DB
}

// NewSQLite opens the database and creates the schema if needed
func NewSQLite(ctx context.Context, log logrus.FieldLogger, cfg *Config) (*SQLite, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()

			return nil, fmt.Errorf("configure sqlite: %w", err)
		}
	}

	ddl, err := schema(DriverSQLite)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	log.WithField("dsn", cfg.DSN).Info("Opened SQLite store")

	return &SQLite{
		log: log.WithField("component", "store"),
		db:  db,
	}, nil
}

// UpsertOutliers writes all records in one transaction
func (s *SQLite) UpsertOutliers(ctx context.Context, records []models.OutlierRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := s.upsert(ctx, records); err != nil {
		observability.RecordUpsert(string(DriverSQLite), "error", 0)

		return fmt.Errorf("upsert outliers: %w", err)
	}

	observability.RecordUpsert(string(DriverSQLite), "success", len(records))
	s.log.WithField("rows", len(records)).Debug("Upserted outliers")

	return nil
}

func (s *SQLite) upsert(ctx context.Context, records []models.OutlierRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, sqliteUpsert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range records {
		r := &records[i]
		if _, err := stmt.ExecContext(ctx,
			r.VideoID, r.ChannelID, r.Title, r.ThumbnailURL, r.ViewCount, r.SubscriberCount,
			r.ChannelTitle, formatTime(r.PublishedAt), r.OutlierScore, r.Type.String(), r.IsFaceless, r.AIAnalysis,
		); err != nil {
			return fmt.Errorf("video %s: %w", r.VideoID, err)
		}
	}

	return tx.Commit()
}

// ListOutliers returns the highest scoring records
func (s *SQLite) ListOutliers(ctx context.Context, limit int) ([]models.OutlierRecord, error) {
	rows, err := s.db.QueryContext(ctx, sqliteList, limit)
	if err != nil {
		return nil, fmt.Errorf("query outliers: %w", err)
	}
	defer rows.Close()

	var out []models.OutlierRecord
	for rows.Next() {
		var (
			r           models.OutlierRecord
			videoType   string
			publishedAt string
		)

		if err := rows.Scan(
			&r.VideoID, &r.ChannelID, &r.Title, &r.ThumbnailURL, &r.ViewCount, &r.SubscriberCount,
			&r.ChannelTitle, &publishedAt, &r.OutlierScore, &videoType, &r.IsFaceless, &r.AIAnalysis,
		); err != nil {
			return nil, fmt.Errorf("scan outlier: %w", err)
		}

		r.PublishedAt = parseTime(publishedAt)
		videoTypeParsed, err := models.ParseVideoType(videoType)
		if err != nil {
			return nil, fmt.Errorf("video %s: %w", r.VideoID, err)
		}

		r.Type = videoTypeParsed
		out = append(out, r)
	}

	return out, rows.Err()
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}

	return t
}

// Verify interface compliance at compile time
var _ Store = (*SQLite)(nil)
