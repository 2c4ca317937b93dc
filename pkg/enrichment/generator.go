package enrichment

import (
	"context"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go-kit/llm"
)

// Generator produces text for a rendered prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// NewLLMGenerator creates a Generator backed by an OpenAI-compatible chat completion endpoint
func NewLLMGenerator(cfg *Config) Generator {
	client := llm.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Model,
		llm.WithFallbackKeys(cfg.FallbackKeys),
		llm.WithMaxTokens(cfg.MaxTokens),
		llm.WithTemperature(cfg.Temperature),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)

	return GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return client.Complete(ctx, "", prompt,
			llm.WithChatTemperature(cfg.Temperature),
			llm.WithChatMaxTokens(cfg.MaxTokens),
		)
	})
}

// cleanResponse strips surrounding whitespace and markdown fences
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}
