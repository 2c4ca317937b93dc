package redis

import (
	"context"
	"testing"
	"time"

	"github.com/ethpandaops/nichefy/internal/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_Disabled(t *testing.T) {
	client, err := Connect(context.Background(), logrus.New(), &Config{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestConnect_Miniredis(t *testing.T) {
	mr := testutil.NewMiniredis(t)

	cfg := &Config{URL: testutil.MiniredisURL(mr), DialTimeout: time.Second}
	require.NoError(t, cfg.Validate())

	client, err := Connect(context.Background(), logrus.New(), cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), cfg.PrefixKey("k"), "v", 0).Err())
	got, err := mr.Get("nichefy:k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestConnect_BadURL(t *testing.T) {
	_, err := Connect(context.Background(), logrus.New(), &Config{URL: "not-a-url", DialTimeout: time.Second})
	require.Error(t, err)
}

func TestConnect_Unreachable(t *testing.T) {
	mr := testutil.NewMiniredis(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), logrus.New(), &Config{URL: "redis://" + addr, DialTimeout: 200 * time.Millisecond})
	require.Error(t, err)
}

func TestConfig(t *testing.T) {
	cfg := &Config{URL: "redis://localhost:6379"}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidDialTimeout)

	cfg = &Config{}
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.Enabled())
	assert.Equal(t, "nichefy:analysis:v1", cfg.PrefixKey("analysis:v1"))
}
