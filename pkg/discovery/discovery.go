// Package discovery runs one end-to-end outlier discovery cycle
package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/ethpandaops/nichefy/pkg/classifier"
	"github.com/ethpandaops/nichefy/pkg/enrichment"
	"github.com/ethpandaops/nichefy/pkg/models"
	"github.com/ethpandaops/nichefy/pkg/observability"
	"github.com/ethpandaops/nichefy/pkg/pipeline"
	"github.com/ethpandaops/nichefy/pkg/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Searcher produces the candidate set and their statistics
type Searcher interface {
	Search(ctx context.Context) (map[string]models.VideoCandidate, error)
	FetchVideoStats(ctx context.Context, ids []string) ([]models.VideoStats, error)
	FetchChannelStats(ctx context.Context, ids []string) (map[string]models.ChannelStats, error)
}

// Evaluator decides which videos qualify
type Evaluator interface {
	Evaluate(video models.VideoStats, channel models.ChannelStats) (models.OutlierRecord, bool)
}

// Enricher attaches generated explanations to qualifying records
type Enricher interface {
	Enrich(ctx context.Context, records []models.OutlierRecord) []models.OutlierRecord
}

// Sink persists qualifying records
type Sink interface {
	UpsertOutliers(ctx context.Context, records []models.OutlierRecord) error
}

// Result summarizes one cycle
type Result struct {
	CycleID    string
	Candidates int
	Evaluated  int
	Outliers   []models.OutlierRecord
	Duration   time.Duration
}

// Runner wires the stages of a cycle together
type Runner struct {
	log       logrus.FieldLogger
	searcher  Searcher
	evaluator Evaluator
	enricher  Enricher
	sink      Sink
}

// NewRunner creates a cycle runner
func NewRunner(log logrus.FieldLogger, searcher Searcher, evaluator Evaluator, enricher Enricher, sink Sink) *Runner {
	return &Runner{
		log:       log.WithField("component", "discovery"),
		searcher:  searcher,
		evaluator: evaluator,
		enricher:  enricher,
		sink:      sink,
	}
}

// RunCycle searches, fetches statistics, classifies, enriches and persists.
// Stages run strictly in sequence and the first failing stage aborts the cycle.
func (r *Runner) RunCycle(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{CycleID: uuid.NewString()}
	log := r.log.WithField("cycle_id", result.CycleID)

	log.Info("Starting discovery cycle")

	candidates, err := r.searcher.Search(ctx)
	if err != nil {
		return r.fail(result, start, "search", err)
	}

	result.Candidates = len(candidates)
	if len(candidates) == 0 {
		log.Info("No candidates found, skipping cycle")

		return r.finish(result, start, "empty"), nil
	}

	videos, err := r.searcher.FetchVideoStats(ctx, pipeline.CandidateIDs(candidates))
	if err != nil {
		return r.fail(result, start, "video_stats", err)
	}

	channels, err := r.searcher.FetchChannelStats(ctx, pipeline.UniqueChannelIDs(videos))
	if err != nil {
		return r.fail(result, start, "channel_stats", err)
	}

	var outliers []models.OutlierRecord
	for _, video := range videos {
		channel, ok := channels[video.ChannelID]
		if !ok {
			continue
		}

		result.Evaluated++

		if record, ok := r.evaluator.Evaluate(video, channel); ok {
			outliers = append(outliers, record)
			observability.RecordOutlier(record.Type.String(), record.IsFaceless)
		}
	}

	observability.RecordVideosEvaluated(result.Evaluated)

	log.WithFields(logrus.Fields{
		"candidates": result.Candidates,
		"evaluated":  result.Evaluated,
		"outliers":   len(outliers),
	}).Info("Classification completed")

	if len(outliers) == 0 {
		return r.finish(result, start, "empty"), nil
	}

	outliers = r.enricher.Enrich(ctx, outliers)

	if err := r.sink.UpsertOutliers(ctx, outliers); err != nil {
		return r.fail(result, start, "store", err)
	}

	result.Outliers = outliers

	log.WithField("outliers", len(outliers)).Info("Saved outliers")

	return r.finish(result, start, "success"), nil
}

func (r *Runner) finish(result *Result, start time.Time, status string) *Result {
	result.Duration = time.Since(start)
	observability.RecordCycle(status, result.Duration.Seconds())

	r.log.WithFields(logrus.Fields{
		"cycle_id": result.CycleID,
		"status":   status,
		"duration": result.Duration.String(),
	}).Info("Discovery cycle finished")

	return result
}

func (r *Runner) fail(result *Result, start time.Time, stage string, err error) (*Result, error) {
	result.Duration = time.Since(start)
	observability.RecordCycle("error", result.Duration.Seconds())
	observability.RecordError("discovery", stage)

	return result, fmt.Errorf("%s stage: %w", stage, err)
}

// Verify interface compliance at compile time
var (
	_ Searcher  = (*pipeline.Pipeline)(nil)
	_ Evaluator = (*classifier.Classifier)(nil)
	_ Enricher  = (*enrichment.Enricher)(nil)
	_ Sink      = (store.Store)(nil)
)
