package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Connect parses the configured URL and verifies the connection with a ping.
// It returns a nil client when Redis is disabled.
func Connect(ctx context.Context, log logrus.FieldLogger, cfg *Config) (*redis.Client, error) {
	if !cfg.Enabled() {
		log.Info("No Redis URL configured, caching disabled")

		return nil, nil //nolint:nilnil // disabled is not an error
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.WithField("addr", opts.Addr).Info("Connected to Redis")

	return client, nil
}
