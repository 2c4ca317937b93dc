package enrichment

import (
	"context"
	"fmt"
	"time"

	"github.com/ethpandaops/nichefy/pkg/models"
	"github.com/ethpandaops/nichefy/pkg/observability"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Enrichment results recorded in metrics
const (
	ResultGenerated = "generated"
	ResultCached    = "cached"
	ResultFallback  = "fallback"
	ResultDisabled  = "disabled"
)

// Enricher fills AIAnalysis on outlier records. It never fails a record.
type Enricher struct {
	log       logrus.FieldLogger
	cfg       Config
	prompt    *Prompt
	generator Generator
	cache     Cache
}

// NewEnricher creates an enricher. A nil cache disables caching.
func NewEnricher(log logrus.FieldLogger, cfg Config, generator Generator, cache Cache) (*Enricher, error) {
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid enrichment config: %w", err)
	}

	prompt, err := NewPrompt(cfg.PromptTemplate)
	if err != nil {
		return nil, err
	}

	if cache == nil {
		cache = NoopCache{}
	}

	return &Enricher{
		log:       log.WithField("component", "enrichment"),
		cfg:       cfg,
		prompt:    prompt,
		generator: generator,
		cache:     cache,
	}, nil
}

// Enrich returns a copy of records with AIAnalysis set on every one.
// Records are processed concurrently and independently.
func (e *Enricher) Enrich(ctx context.Context, records []models.OutlierRecord) []models.OutlierRecord {
	out := make([]models.OutlierRecord, len(records))
	copy(out, records)

	var g errgroup.Group
	g.SetLimit(e.cfg.Concurrency)

	for i := range out {
		g.Go(func() error {
			out[i].AIAnalysis = e.Analyze(ctx, out[i].VideoID, out[i].Title)

			return nil
		})
	}

	_ = g.Wait()

	return out
}

// Analyze returns the explanation for one video, or FallbackText
func (e *Enricher) Analyze(ctx context.Context, videoID, title string) string {
	start := time.Now()
	log := e.log.WithField("video_id", videoID)

	if !e.cfg.Enabled || e.generator == nil {
		observability.RecordEnrichment(ResultDisabled, 0)

		return FallbackText
	}

	if cached, ok, err := e.cache.Get(ctx, videoID); err != nil {
		log.WithError(err).Warn("Failed to read analysis cache")
	} else if ok {
		observability.RecordEnrichment(ResultCached, time.Since(start).Seconds())

		return cached
	}

	prompt, err := e.prompt.Render(title)
	if err != nil {
		log.WithError(err).Warn("Failed to render prompt")
		observability.RecordEnrichment(ResultFallback, time.Since(start).Seconds())

		return FallbackText
	}

	genCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	text, err := e.generator.Generate(genCtx, prompt)
	if err != nil {
		log.WithError(err).Warn("Failed to generate analysis")
		observability.RecordEnrichment(ResultFallback, time.Since(start).Seconds())

		return FallbackText
	}

	text = cleanResponse(text)
	if text == "" {
		log.Warn("Generator returned an empty analysis")
		observability.RecordEnrichment(ResultFallback, time.Since(start).Seconds())

		return FallbackText
	}

	if err := e.cache.Set(ctx, videoID, text); err != nil {
		log.WithError(err).Warn("Failed to write analysis cache")
	}

	observability.RecordEnrichment(ResultGenerated, time.Since(start).Seconds())

	return text
}
