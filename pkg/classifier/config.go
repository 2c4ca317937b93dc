// Package classifier decides whether a video is a viral outlier for its channel
package classifier

import (
	"errors"
)

var (
	// ErrInvalidBand is returned when the short ceiling is not below the long floor
	ErrInvalidBand = errors.New("short max duration must be below long min duration")
	// ErrInvalidRatioRange is returned when the long-form ratio window is empty
	ErrInvalidRatioRange = errors.New("long min ratio must not exceed long max ratio")
	// ErrNegativeThreshold is returned when any threshold is negative
	ErrNegativeThreshold = errors.New("thresholds must not be negative")
)

// DefaultFacelessKeywords are title fragments that suggest the creator never appears on camera
var DefaultFacelessKeywords = []string{ //nolint:gochecknoglobals // default list
	"faceless",
	"cash cow",
	"no camera",
	"animation",
	"animated",
	"lofi",
	"meditation",
	"relaxing sounds",
	"whiteboard",
	"explainer",
}

// Config holds the thresholds for both duration bands
type Config struct {
	Short ShortRules `yaml:"short"`
	Long  LongRules  `yaml:"long"`
	// FacelessKeywords are matched case-insensitively against the title
	FacelessKeywords []string `yaml:"facelessKeywords"`
}

// ShortRules apply to videos at or below MaxDurationSeconds
type ShortRules struct {
	MaxDurationSeconds int     `yaml:"maxDurationSeconds" default:"61"`
	MinSubscribers     int64   `yaml:"minSubscribers" default:"30000"`
	MinViews           int64   `yaml:"minViews" default:"50000"`
	MinRatio           float64 `yaml:"minRatio" default:"50"`
}

// LongRules apply to videos at or above MinDurationSeconds
type LongRules struct {
	MinDurationSeconds int     `yaml:"minDurationSeconds" default:"240"`
	MaxSubscribers     int64   `yaml:"maxSubscribers" default:"30000"`
	MinViews           int64   `yaml:"minViews" default:"2000"`
	MinRatio           float64 `yaml:"minRatio" default:"15"`
	MaxRatio           float64 `yaml:"maxRatio" default:"50"`
}

// SetDefaults fills the keyword list when none is configured
func (c *Config) SetDefaults() {
	if len(c.FacelessKeywords) == 0 {
		c.FacelessKeywords = append([]string(nil), DefaultFacelessKeywords...)
	}
}

// Validate checks if the classifier configuration is valid
func (c *Config) Validate() error {
	if c.Short.MaxDurationSeconds < 0 || c.Long.MinDurationSeconds < 0 ||
		c.Short.MinSubscribers < 0 || c.Short.MinViews < 0 || c.Short.MinRatio < 0 ||
		c.Long.MaxSubscribers < 0 || c.Long.MinViews < 0 || c.Long.MinRatio < 0 || c.Long.MaxRatio < 0 {
		return ErrNegativeThreshold
	}

	if c.Short.MaxDurationSeconds >= c.Long.MinDurationSeconds {
		return ErrInvalidBand
	}

	if c.Long.MinRatio > c.Long.MaxRatio {
		return ErrInvalidRatioRange
	}

	return nil
}

// DefaultConfig returns the built-in rule set
func DefaultConfig() Config {
	cfg := Config{
		Short: ShortRules{
			MaxDurationSeconds: 61,
			MinSubscribers:     30000,
			MinViews:           50000,
			MinRatio:           50,
		},
		Long: LongRules{
			MinDurationSeconds: 240,
			MaxSubscribers:     30000,
			MinViews:           2000,
			MinRatio:           15,
			MaxRatio:           50,
		},
	}
	cfg.SetDefaults()

	return cfg
}
