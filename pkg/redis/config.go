// Package redis provides the optional Redis connection used for caching
package redis

import (
	"errors"
	"fmt"
	"time"
)

// Define static errors
var (
	ErrInvalidDialTimeout = errors.New("redis dial timeout must be positive")
)

// Config holds Redis client configuration. An empty URL disables Redis.
type Config struct {
	URL         string        `yaml:"url"`
	Prefix      string        `yaml:"prefix" default:"nichefy"`
	DialTimeout time.Duration `yaml:"dialTimeout" default:"3s"`
}

// Enabled reports whether a Redis URL is configured
func (c *Config) Enabled() bool {
	return c.URL != ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Enabled() && c.DialTimeout <= 0 {
		return ErrInvalidDialTimeout
	}

	if c.Prefix == "" {
		c.Prefix = "nichefy"
	}

	return nil
}

// PrefixKey adds the configured prefix to a Redis key
func (c *Config) PrefixKey(key string) string {
	if c.Prefix == "" {
		return key
	}

	return fmt.Sprintf("%s:%s", c.Prefix, key)
}
