// Package youtube provides a quota-aware client for the YouTube Data API v3
package youtube

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrKeysRequired is returned when no API keys are configured
	ErrKeysRequired = errors.New("at least one youtube API key is required")
	// ErrBaseURLRequired is returned when the API base URL is empty
	ErrBaseURLRequired = errors.New("youtube base URL is required")
	// ErrInvalidDailyCap is returned when the per-key daily cap is not positive
	ErrInvalidDailyCap = errors.New("daily cap must be positive")
	// ErrInvalidCost is returned when an endpoint cost is not positive
	ErrInvalidCost = errors.New("endpoint cost must be positive")
	// ErrInvalidRate is returned when the request rate is negative
	ErrInvalidRate = errors.New("requests per second must not be negative")
)

// Config contains YouTube Data API client settings
type Config struct {
	BaseURL string   `yaml:"baseURL" default:"https://www.googleapis.com/youtube/v3"`
	Keys    []string `yaml:"keys"`
	// DailyCap is the per-key safety threshold, kept below the provider's 10000 unit limit
	DailyCap int64 `yaml:"dailyCap" default:"9500"`
	// RequestsPerSecond paces outgoing calls. Zero disables pacing.
	RequestsPerSecond float64       `yaml:"requestsPerSecond" default:"5"`
	Timeout           time.Duration `yaml:"timeout" default:"30s"`
	Costs             Costs         `yaml:"costs"`
}

// Costs maps each endpoint kind to its quota unit cost
type Costs struct {
	Search   int64 `yaml:"search" default:"100"`
	Videos   int64 `yaml:"videos" default:"1"`
	Channels int64 `yaml:"channels" default:"1"`
}

// For returns the unit cost of a single call to the endpoint
func (c Costs) For(endpoint Endpoint) int64 {
	switch endpoint {
	case EndpointSearch:
		return c.Search
	case EndpointVideos:
		return c.Videos
	case EndpointChannels:
		return c.Channels
	default:
		return c.Search
	}
}

// Validate checks if the configuration is valid and normalizes the key list
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrBaseURLRequired
	}

	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	c.Keys = normalizeKeys(c.Keys)

	if len(c.Keys) == 0 {
		return ErrKeysRequired
	}

	if c.DailyCap <= 0 {
		return ErrInvalidDailyCap
	}

	if c.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}

	for endpoint, cost := range map[Endpoint]int64{
		EndpointSearch:   c.Costs.Search,
		EndpointVideos:   c.Costs.Videos,
		EndpointChannels: c.Costs.Channels,
	} {
		if cost <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidCost, endpoint)
		}
	}

	return nil
}

// normalizeKeys trims whitespace and drops empty and duplicate entries, keeping order
func normalizeKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))

	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, key)
	}

	return out
}
