package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ethpandaops/nichefy/pkg/models"
	"github.com/ethpandaops/nichefy/pkg/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const postgresUpsert = `
INSERT INTO outliers (
    video_id, channel_id, title, thumbnail_url, view_count, subscriber_count,
    channel_title, published_at, outlier_score, type, is_faceless, ai_analysis
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (video_id) DO UPDATE SET
    channel_id       = EXCLUDED.channel_id,
    title            = EXCLUDED.title,
    thumbnail_url    = EXCLUDED.thumbnail_url,
    view_count       = EXCLUDED.view_count,
    subscriber_count = EXCLUDED.subscriber_count,
    channel_title    = EXCLUDED.channel_title,
    published_at     = EXCLUDED.published_at,
    outlier_score    = EXCLUDED.outlier_score,
    type             = EXCLUDED.type,
    is_faceless      = EXCLUDED.is_faceless,
    ai_analysis      = EXCLUDED.ai_analysis,
    updated_at       = NOW()`

const postgresList = `
SELECT video_id, channel_id, title, thumbnail_url, view_count, subscriber_count,
       channel_title, published_at, outlier_score, type, is_faceless, ai_analysis
FROM outliers
ORDER BY outlier_score DESC
LIMIT $1`

// Postgres is a Store backed by a pgx connection pool
type Postgres struct {
	log  logrus.FieldLogger
	pool *pgxpool.Pool
}

// NewPostgres connects to PostgreSQL and creates the schema if needed
func NewPostgres(ctx context.Context, log logrus.FieldLogger, cfg *Config) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = 1
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	ddl, err := schema(DriverPostgres)
	if err != nil {
		pool.Close()

		return nil, err
	}

	if _, err := pool.Exec(ctx, ddl); err != nil {
		pool.Close()

		return nil, fmt.Errorf("create postgres schema: %w", err)
	}

	log.WithField("host", poolCfg.ConnConfig.Host).Info("Connected to PostgreSQL")

	return &Postgres{
		log:  log.WithField("component", "store"),
		pool: pool,
	}, nil
}

// UpsertOutliers writes all records in one transaction
func (p *Postgres) UpsertOutliers(ctx context.Context, records []models.OutlierRecord) error {
	if len(records) == 0 {
		return nil
	}

	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range records {
			r := &records[i]
			batch.Queue(postgresUpsert,
				r.VideoID, r.ChannelID, r.Title, r.ThumbnailURL, r.ViewCount, r.SubscriberCount,
				r.ChannelTitle, nullableTime(r.PublishedAt), r.OutlierScore, r.Type.String(), r.IsFaceless, r.AIAnalysis,
			)
		}

		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		observability.RecordUpsert(string(DriverPostgres), "error", 0)

		return fmt.Errorf("upsert outliers: %w", err)
	}

	observability.RecordUpsert(string(DriverPostgres), "success", len(records))
	p.log.WithField("rows", len(records)).Debug("Upserted outliers")

	return nil
}

// ListOutliers returns the highest scoring records
func (p *Postgres) ListOutliers(ctx context.Context, limit int) ([]models.OutlierRecord, error) {
	rows, err := p.pool.Query(ctx, postgresList, limit)
	if err != nil {
		return nil, fmt.Errorf("query outliers: %w", err)
	}
	defer rows.Close()

	var out []models.OutlierRecord
	for rows.Next() {
		var (
			r           models.OutlierRecord
			videoType   string
			publishedAt *time.Time
		)

		if err := rows.Scan(
			&r.VideoID, &r.ChannelID, &r.Title, &r.ThumbnailURL, &r.ViewCount, &r.SubscriberCount,
			&r.ChannelTitle, &publishedAt, &r.OutlierScore, &videoType, &r.IsFaceless, &r.AIAnalysis,
		); err != nil {
			return nil, fmt.Errorf("scan outlier: %w", err)
		}

		if publishedAt != nil {
			r.PublishedAt = publishedAt.UTC()
		}

		videoTypeParsed, err := models.ParseVideoType(videoType)
		if err != nil {
			return nil, fmt.Errorf("video %s: %w", r.VideoID, err)
		}

		r.Type = videoTypeParsed
		out = append(out, r)
	}

	return out, rows.Err()
}

// Close closes the pool
func (p *Postgres) Close() error {
	p.pool.Close()

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}

// Verify interface compliance at compile time
var _ Store = (*Postgres)(nil)
