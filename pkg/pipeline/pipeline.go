package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/ethpandaops/nichefy/pkg/classifier"
	"github.com/ethpandaops/nichefy/pkg/models"
	"github.com/ethpandaops/nichefy/pkg/observability"
	"github.com/ethpandaops/nichefy/pkg/youtube"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// API is the subset of the YouTube client used by the pipeline
type API interface {
	Search(ctx context.Context, query string, maxResults int) (*youtube.SearchResponse, error)
	Videos(ctx context.Context, ids []string) (*youtube.VideoListResponse, error)
	Channels(ctx context.Context, ids []string) (*youtube.ChannelListResponse, error)
}

// Pipeline issues search fan-outs and chunked statistics lookups
type Pipeline struct {
	log     logrus.FieldLogger
	cfg     Config
	api     API
	sampler Sampler
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithSampler replaces the default random seed sampler
func WithSampler(s Sampler) Option {
	return func(p *Pipeline) {
		p.sampler = s
	}
}

// New creates a pipeline over api
func New(log logrus.FieldLogger, cfg Config, api API, opts ...Option) *Pipeline {
	p := &Pipeline{
		log:     log.WithField("component", "pipeline"),
		cfg:     cfg,
		api:     api,
		sampler: RandomSampler,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Search runs one search per sampled seed and merges the hits by video id.
// Any failing query fails the whole stage.
func (p *Pipeline) Search(ctx context.Context) (map[string]models.VideoCandidate, error) {
	seeds := p.sampler(p.cfg.Seeds, p.cfg.SampleSize)

	var (
		mu         sync.Mutex
		candidates = make(map[string]models.VideoCandidate)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.SearchConcurrency)

	for _, seed := range seeds {
		g.Go(func() error {
			resp, err := p.api.Search(gctx, seed, p.cfg.PageSize)
			if err != nil {
				return fmt.Errorf("search %q: %w", seed, err)
			}

			p.log.WithFields(logrus.Fields{
				"seed": seed,
				"hits": len(resp.Items),
			}).Debug("Search query completed")

			mu.Lock()
			defer mu.Unlock()

			for _, item := range resp.Items {
				if item.ID.VideoID == "" {
					continue
				}

				candidates[item.ID.VideoID] = models.VideoCandidate{
					ID:          item.ID.VideoID,
					ChannelID:   item.Snippet.ChannelID,
					Title:       item.Snippet.Title,
					PublishedAt: parseTime(item.Snippet.PublishedAt),
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	observability.RecordCandidates(len(candidates))

	p.log.WithFields(logrus.Fields{
		"seeds":      len(seeds),
		"candidates": len(candidates),
	}).Info("Search fan-out completed")

	return candidates, nil
}

// FetchVideoStats looks up ids in chunks and returns the stats in chunk order.
// Items without statistics, snippet or contentDetails are dropped.
func (p *Pipeline) FetchVideoStats(ctx context.Context, ids []string) ([]models.VideoStats, error) {
	chunks := Chunk(ids, p.cfg.BatchSize)
	results := make([][]models.VideoStats, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.FetchConcurrency)

	for i, chunk := range chunks {
		g.Go(func() error {
			resp, err := p.api.Videos(gctx, chunk)
			if err != nil {
				return fmt.Errorf("videos chunk %d: %w", i, err)
			}

			stats := make([]models.VideoStats, 0, len(resp.Items))
			for _, item := range resp.Items {
				if s, ok := toVideoStats(item); ok {
					stats = append(stats, s)
				}
			}
			results[i] = stats

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []models.VideoStats
	for _, r := range results {
		out = append(out, r...)
	}

	p.log.WithFields(logrus.Fields{
		"requested": len(ids),
		"returned":  len(out),
		"chunks":    len(chunks),
	}).Debug("Fetched video statistics")

	return out, nil
}

// FetchChannelStats looks up channel ids in chunks and returns them keyed by id.
// Items without statistics are dropped.
func (p *Pipeline) FetchChannelStats(ctx context.Context, ids []string) (map[string]models.ChannelStats, error) {
	chunks := Chunk(ids, p.cfg.BatchSize)
	results := make([][]models.ChannelStats, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.FetchConcurrency)

	for i, chunk := range chunks {
		g.Go(func() error {
			resp, err := p.api.Channels(gctx, chunk)
			if err != nil {
				return fmt.Errorf("channels chunk %d: %w", i, err)
			}

			stats := make([]models.ChannelStats, 0, len(resp.Items))
			for _, item := range resp.Items {
				if item.Statistics == nil {
					continue
				}

				stats = append(stats, models.ChannelStats{
					ID:              item.ID,
					SubscriberCount: parseCount(item.Statistics.SubscriberCount),
				})
			}
			results[i] = stats

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]models.ChannelStats)
	for _, r := range results {
		for _, s := range r {
			out[s.ID] = s
		}
	}

	p.log.WithFields(logrus.Fields{
		"requested": len(ids),
		"returned":  len(out),
		"chunks":    len(chunks),
	}).Debug("Fetched channel statistics")

	return out, nil
}

// CandidateIDs returns the candidate video ids in sorted order
func CandidateIDs(candidates map[string]models.VideoCandidate) []string {
	ids := make([]string, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// UniqueChannelIDs returns each channel id once, in first-seen order
func UniqueChannelIDs(videos []models.VideoStats) []string {
	seen := make(map[string]struct{}, len(videos))
	ids := make([]string, 0, len(videos))

	for _, v := range videos {
		if v.ChannelID == "" {
			continue
		}

		if _, ok := seen[v.ChannelID]; ok {
			continue
		}

		seen[v.ChannelID] = struct{}{}
		ids = append(ids, v.ChannelID)
	}

	return ids
}

func toVideoStats(item youtube.VideoItem) (models.VideoStats, bool) {
	if item.Statistics == nil || item.Snippet == nil || item.ContentDetails == nil {
		return models.VideoStats{}, false
	}

	return models.VideoStats{
		ID:              item.ID,
		ChannelID:       item.Snippet.ChannelID,
		ChannelTitle:    item.Snippet.ChannelTitle,
		Title:           item.Snippet.Title,
		ThumbnailURL:    item.Snippet.BestThumbnail(),
		ViewCount:       parseCount(item.Statistics.ViewCount),
		DurationSeconds: classifier.ParseDuration(item.ContentDetails.Duration),
		PublishedAt:     parseTime(item.Snippet.PublishedAt),
	}, true
}

// parseCount reads a provider count string, treating absent or malformed values as 0
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}

	return n
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}

	return t.UTC()
}
