package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// NewMiniredis starts an in-memory Redis that is closed when the test completes
func NewMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	return miniredis.RunT(t)
}

// MiniredisURL returns a redis:// URL for mr, suitable for redis.Config.URL
func MiniredisURL(mr *miniredis.Miniredis) string {
	return "redis://" + mr.Addr()
}

// NewMiniredisClient returns a miniredis server and a go-redis client bound to it.
// The client is closed on test cleanup.
func NewMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := NewMiniredis(t)

	opts, err := redis.ParseURL(MiniredisURL(mr))
	if err != nil {
		t.Fatalf("parse miniredis url: %v", err)
	}

	client := redis.NewClient(opts)

	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("close miniredis client: %v", err)
		}
	})

	return mr, client
}
