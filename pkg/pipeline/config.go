// Package pipeline turns seed queries into deduplicated candidates and batched statistics
package pipeline

import (
	"errors"
	"strings"

	"github.com/ethpandaops/nichefy/pkg/youtube"
)

var (
	// ErrNoSeeds is returned when the seed list is empty
	ErrNoSeeds = errors.New("at least one seed query is required")
	// ErrInvalidSampleSize is returned when the sample size is not positive
	ErrInvalidSampleSize = errors.New("sample size must be positive")
	// ErrInvalidPageSize is returned when the search page size is out of range
	ErrInvalidPageSize = errors.New("page size must be between 1 and 50")
	// ErrInvalidBatchSize is returned when the lookup batch size is out of range
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 50")
	// ErrInvalidConcurrency is returned when a concurrency knob is not positive
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
)

// DefaultSeeds are search concepts that tend to surface small channels with breakout uploads
var DefaultSeeds = []string{ //nolint:gochecknoglobals // default list
	"documentary",
	"a deep dive into",
	"the history of",
	"how to build a",
	"a story about",
	"I tried to make a",
	"the science of",
	"unsolved mystery",
	"cash cow channel",
	"faceless channel ideas",
	"automated channel",
	"relaxing sounds",
	"meditation music",
	"study music",
	"animated history",
	"explainer video",
	"book summary animation",
}

// Config defines search fan-out and batch lookup settings
type Config struct {
	Seeds             []string `yaml:"seeds"`
	SampleSize        int      `yaml:"sampleSize" default:"10"`
	PageSize          int      `yaml:"pageSize" default:"50"`
	BatchSize         int      `yaml:"batchSize" default:"50"`
	SearchConcurrency int      `yaml:"searchConcurrency" default:"1"`
	FetchConcurrency  int      `yaml:"fetchConcurrency" default:"4"`
}

// SetDefaults fills the seed list when none is configured
func (c *Config) SetDefaults() {
	if len(c.Seeds) == 0 {
		c.Seeds = append([]string(nil), DefaultSeeds...)
	}
}

// Validate checks if the pipeline configuration is valid
func (c *Config) Validate() error {
	seeds := make([]string, 0, len(c.Seeds))
	for _, s := range c.Seeds {
		if s = strings.TrimSpace(s); s != "" {
			seeds = append(seeds, s)
		}
	}
	c.Seeds = seeds

	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}

	if c.SampleSize <= 0 {
		return ErrInvalidSampleSize
	}

	if c.PageSize <= 0 || c.PageSize > youtube.MaxBatchSize {
		return ErrInvalidPageSize
	}

	if c.BatchSize <= 0 || c.BatchSize > youtube.MaxBatchSize {
		return ErrInvalidBatchSize
	}

	if c.SearchConcurrency <= 0 || c.FetchConcurrency <= 0 {
		return ErrInvalidConcurrency
	}

	return nil
}
