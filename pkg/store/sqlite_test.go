package store

import (
	"context"
	"testing"
	"time"

	"github.com/ethpandaops/nichefy/internal/testutil"
	"github.com/ethpandaops/nichefy/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) Store {
	t.Helper()

	cfg := &Config{Driver: DriverSQLite, DSN: testutil.SQLiteDSN(t), MaxConns: 1}
	require.NoError(t, cfg.Validate())

	s, err := Open(context.Background(), logrus.New(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func record(id string, score float64) models.OutlierRecord {
	return models.OutlierRecord{
		VideoID:         id,
		ChannelID:       "chan-" + id,
		Title:           "Title " + id,
		ThumbnailURL:    "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg",
		ViewCount:       200000,
		SubscriberCount: 10000,
		ChannelTitle:    "Channel " + id,
		PublishedAt:     time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC),
		OutlierScore:    score,
		Type:            models.VideoTypeLong,
		IsFaceless:      true,
		AIAnalysis:      "Strong curiosity gap in the title.",
	}
}

func TestSQLite_UpsertRoundTrip(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	in := record("abc", 20)
	require.NoError(t, s.UpsertOutliers(ctx, []models.OutlierRecord{in}))

	out, err := s.ListOutliers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in, out[0])
}

func TestSQLite_UpsertIsIdempotent(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	first := record("abc", 20)
	require.NoError(t, s.UpsertOutliers(ctx, []models.OutlierRecord{first}))
	require.NoError(t, s.UpsertOutliers(ctx, []models.OutlierRecord{first}))

	updated := first
	updated.ViewCount = 400000
	updated.OutlierScore = 40
	updated.IsFaceless = false
	updated.AIAnalysis = "Updated."
	require.NoError(t, s.UpsertOutliers(ctx, []models.OutlierRecord{updated}))

	out, err := s.ListOutliers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, updated, out[0])
}

func TestSQLite_ListOrdersByScore(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	short := record("short", 55.5)
	short.Type = models.VideoTypeShort
	short.PublishedAt = time.Time{}

	require.NoError(t, s.UpsertOutliers(ctx, []models.OutlierRecord{
		record("low", 15),
		short,
		record("mid", 30),
	}))

	out, err := s.ListOutliers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "short", out[0].VideoID)
	assert.Equal(t, models.VideoTypeShort, out[0].Type)
	assert.True(t, out[0].PublishedAt.IsZero())
	assert.Equal(t, "mid", out[1].VideoID)
}

func TestSQLite_EmptyUpsertIsNoop(t *testing.T) {
	s := openSQLite(t)

	require.NoError(t, s.UpsertOutliers(context.Background(), nil))

	out, err := s.ListOutliers(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSQLite_SchemaIsReentrant(t *testing.T) {
	dsn := testutil.SQLiteDSN(t)
	cfg := &Config{Driver: DriverSQLite, DSN: dsn, MaxConns: 1}

	s1, err := NewSQLite(context.Background(), logrus.New(), cfg)
	require.NoError(t, err)
	require.NoError(t, s1.UpsertOutliers(context.Background(), []models.OutlierRecord{record("keep", 20)}))
	require.NoError(t, s1.Close())

	s2, err := NewSQLite(context.Background(), logrus.New(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s2.Close() })

	out, err := s2.ListOutliers(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "keep", out[0].VideoID)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "postgres", cfg: Config{Driver: DriverPostgres, DSN: "postgres://localhost/db", MaxConns: 4}},
		{name: "sqlite", cfg: Config{Driver: DriverSQLite, DSN: "file:x.db", MaxConns: 1}},
		{name: "unknown driver", cfg: Config{Driver: "mysql", DSN: "x", MaxConns: 1}, wantErr: ErrUnknownDriver},
		{name: "missing dsn", cfg: Config{Driver: DriverSQLite, MaxConns: 1}, wantErr: ErrDSNRequired},
		{name: "zero conns", cfg: Config{Driver: DriverSQLite, DSN: "x"}, wantErr: ErrInvalidMaxConns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
