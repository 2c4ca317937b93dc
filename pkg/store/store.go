package store

import (
	"context"
	"embed"
	"fmt"

	"github.com/ethpandaops/nichefy/pkg/models"
	"github.com/sirupsen/logrus"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Store is the persistence sink for outlier records
type Store interface {
	// UpsertOutliers inserts or replaces records keyed on video id. Later writes win.
	UpsertOutliers(ctx context.Context, records []models.OutlierRecord) error
	// ListOutliers returns up to limit records ordered by outlier score, highest first
	ListOutliers(ctx context.Context, limit int) ([]models.OutlierRecord, error)
	// Close releases the underlying connections
	Close() error
}

// Open connects to the configured backend and ensures the schema exists
func Open(ctx context.Context, log logrus.FieldLogger, cfg *Config) (Store, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return NewPostgres(ctx, log, cfg)
	case DriverSQLite:
		return NewSQLite(ctx, log, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func schema(driver Driver) (string, error) {
	data, err := schemaFS.ReadFile("schema/" + string(driver) + ".sql")
	if err != nil {
		return "", fmt.Errorf("read %s schema: %w", driver, err)
	}

	return string(data), nil
}
