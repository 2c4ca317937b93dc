// Package enrichment attaches a short generated explanation to each outlier
package enrichment

import (
	"errors"
	"time"
)

var (
	// ErrAPIKeyRequired is returned when enrichment is enabled without an API key
	ErrAPIKeyRequired = errors.New("llm API key is required when enrichment is enabled")
	// ErrModelRequired is returned when the model name is empty
	ErrModelRequired = errors.New("llm model is required")
	// ErrBaseURLRequired is returned when the API base URL is empty
	ErrBaseURLRequired = errors.New("llm base URL is required")
	// ErrInvalidConcurrency is returned when concurrency is not positive
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
	// ErrInvalidTimeout is returned when the generation timeout is not positive
	ErrInvalidTimeout = errors.New("timeout must be positive")
)

// FallbackText is stored whenever an explanation cannot be generated
const FallbackText = "AI analysis could not be generated for this video."

// DefaultPromptTemplate asks for a short explanation based on the title alone
const DefaultPromptTemplate = `Analyze the following YouTube video, which is a viral outlier for a small channel. ` +
	`Based on the title, explain in 1 concise paragraph (2-3 sentences) what makes the video concept ` +
	`compelling and why it likely went viral. Focus on the topic, title strategy, or audience appeal. ` +
	`Do not mention view/subscriber counts. Video Title: "{{ .Title | trim }}"`

// Config defines text generation settings
type Config struct {
	Enabled        bool          `yaml:"enabled" default:"true"`
	BaseURL        string        `yaml:"baseURL" default:"https://generativelanguage.googleapis.com/v1beta/openai"`
	Model          string        `yaml:"model" default:"gemini-2.5-flash"`
	APIKey         string        `yaml:"apiKey"`
	FallbackKeys   []string      `yaml:"fallbackKeys"`
	Temperature    float64       `yaml:"temperature" default:"0.7"`
	MaxTokens      int           `yaml:"maxTokens" default:"256"`
	Timeout        time.Duration `yaml:"timeout" default:"30s"`
	Concurrency    int           `yaml:"concurrency" default:"2"`
	CacheTTL       time.Duration `yaml:"cacheTTL" default:"168h"`
	PromptTemplate string        `yaml:"promptTemplate"`
}

// SetDefaults fills the prompt template when none is configured
func (c *Config) SetDefaults() {
	if c.PromptTemplate == "" {
		c.PromptTemplate = DefaultPromptTemplate
	}
}

// Validate checks if the enrichment configuration is valid
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if !c.Enabled {
		return nil
	}

	if c.BaseURL == "" {
		return ErrBaseURLRequired
	}

	if c.Model == "" {
		return ErrModelRequired
	}

	if c.APIKey == "" {
		return ErrAPIKeyRequired
	}

	if _, err := NewPrompt(c.PromptTemplate); err != nil {
		return err
	}

	return nil
}
