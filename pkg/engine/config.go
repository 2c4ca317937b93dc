// Package engine wires the discovery engine together and manages its lifecycle
package engine

import (
	"errors"
	"fmt"
	"os"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/ethpandaops/nichefy/pkg/classifier"
	"github.com/ethpandaops/nichefy/pkg/enrichment"
	"github.com/ethpandaops/nichefy/pkg/pipeline"
	"github.com/ethpandaops/nichefy/pkg/redis"
	"github.com/ethpandaops/nichefy/pkg/scheduler"
	"github.com/ethpandaops/nichefy/pkg/store"
	"github.com/ethpandaops/nichefy/pkg/youtube"
	"github.com/joho/godotenv"
)

var (
	// ErrInvalidLogLevel is returned when the logging level is not recognised
	ErrInvalidLogLevel = errors.New("invalid logging level")
)

// Config represents the complete engine configuration
type Config struct {
	// Core settings
	Logging         string `yaml:"logging" default:"info"`
	MetricsAddr     string `yaml:"metricsAddr" default:":9091"`
	HealthCheckAddr string `yaml:"healthCheckAddr"`
	PProfAddr       string `yaml:"pprofAddr"`

	// Dependencies
	YouTube youtube.Config `yaml:"youtube"`
	Store   store.Config   `yaml:"store"`
	Redis   redis.Config   `yaml:"redis"`

	// Discovery
	Pipeline   pipeline.Config   `yaml:"pipeline"`
	Classifier classifier.Config `yaml:"classifier"`
	Enrichment enrichment.Config `yaml:"enrichment"`
	Scheduler  scheduler.Config  `yaml:"scheduler"`
}

// SetDefaults fills list and template defaults that struct tags cannot express
func (c *Config) SetDefaults() {
	c.Pipeline.SetDefaults()
	c.Classifier.SetDefaults()
	c.Enrichment.SetDefaults()
}

// LoadDotEnv loads variables from the first .env files found. Existing
// environment variables are never overwritten.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		_ = godotenv.Load(path)
	}
}

// ApplyEnv overrides secrets and connection strings from the environment
func (c *Config) ApplyEnv() {
	if keys := env.List("YOUTUBE_API_KEYS", ""); len(keys) > 0 {
		c.YouTube.Keys = keys
	}

	c.Enrichment.APIKey = env.Str("LLM_API_KEY", c.Enrichment.APIKey)
	c.Enrichment.BaseURL = env.Str("LLM_API_BASE", c.Enrichment.BaseURL)
	c.Enrichment.Model = env.Str("LLM_MODEL", c.Enrichment.Model)

	if fallbacks := env.List("LLM_API_KEY_FALLBACKS", ""); len(fallbacks) > 0 {
		c.Enrichment.FallbackKeys = fallbacks
	}

	c.Store.DSN = env.Str("DATABASE_URL", c.Store.DSN)
	c.Redis.URL = env.Str("REDIS_URL", c.Redis.URL)
	c.Scheduler.Pause = env.Duration("CYCLE_PAUSE", c.Scheduler.Pause)
	c.Logging = env.Str("LOG_LEVEL", c.Logging)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	c.SetDefaults()

	switch c.Logging {
	case "panic", "fatal", "error", "warn", "warning", "info", "debug", "trace":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging)
	}

	if err := c.YouTube.Validate(); err != nil {
		return fmt.Errorf("youtube: %w", err)
	}

	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if err := c.Classifier.Validate(); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}

	if err := c.Enrichment.Validate(); err != nil {
		return fmt.Errorf("enrichment: %w", err)
	}

	if err := c.Scheduler.Validate(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	return nil
}
