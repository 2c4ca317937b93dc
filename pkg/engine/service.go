package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // pprof is intentionally exposed when pprofAddr is configured
	"sync"
	"time"

	"github.com/ethpandaops/nichefy/pkg/classifier"
	"github.com/ethpandaops/nichefy/pkg/discovery"
	"github.com/ethpandaops/nichefy/pkg/enrichment"
	"github.com/ethpandaops/nichefy/pkg/observability"
	"github.com/ethpandaops/nichefy/pkg/pipeline"
	"github.com/ethpandaops/nichefy/pkg/redis"
	"github.com/ethpandaops/nichefy/pkg/scheduler"
	"github.com/ethpandaops/nichefy/pkg/store"
	"github.com/ethpandaops/nichefy/pkg/youtube"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Service encapsulates the discovery engine
type Service struct {
	config *Config
	log    *logrus.Logger

	youtube    youtube.Client
	pipeline   *pipeline.Pipeline
	classifier *classifier.Classifier

	// Set up in Start / RunOnce
	redisClient *goredis.Client
	store       store.Store
	runner      *discovery.Runner
	scheduler   scheduler.Service

	// Servers
	healthServer *http.Server
	pprofServer  *http.Server

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a new engine from a validated configuration
func NewService(log *logrus.Logger, cfg *Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ytClient, err := youtube.NewClient(log, &cfg.YouTube)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}

	return &Service{
		config:     cfg,
		log:        log,
		youtube:    ytClient,
		pipeline:   pipeline.New(log, cfg.Pipeline, ytClient),
		classifier: classifier.New(cfg.Classifier),
	}, nil
}

// Start connects dependencies and runs the scheduler loop in the background
func (a *Service) Start(ctx context.Context) error {
	a.log.Info("Starting nichefy engine...")

	observability.StartMetricsServer(a.log, a.config.MetricsAddr)

	if a.config.PProfAddr != "" {
		a.startPProf()
	}

	if err := a.setup(ctx); err != nil {
		return err
	}

	schedulerService, err := scheduler.NewService(a.log, &a.config.Scheduler, a.youtube, a.runner)
	if err != nil {
		return fmt.Errorf("failed to create scheduler service: %w", err)
	}
	a.scheduler = schedulerService

	if a.config.HealthCheckAddr != "" {
		a.startHealthCheck()
	}

	loopCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		if err := a.scheduler.Start(loopCtx); err != nil {
			a.log.WithError(err).Error("Scheduler loop exited with error")
		}
	}()

	a.log.WithFields(logrus.Fields{
		"keys":   len(a.config.YouTube.Keys),
		"driver": a.config.Store.Driver,
	}).Info("Nichefy engine started successfully")

	return nil
}

// RunOnce connects dependencies and runs a single discovery cycle
func (a *Service) RunOnce(ctx context.Context) (*discovery.Result, error) {
	if err := a.setup(ctx); err != nil {
		return nil, err
	}

	return a.runner.RunCycle(ctx)
}

// Store returns the persistence sink once the service is set up
func (a *Service) Store() store.Store {
	return a.store
}

// Usage returns the current per-key quota consumption
func (a *Service) Usage() []youtube.CredentialUsage {
	return a.youtube.Usage()
}

func (a *Service) setup(ctx context.Context) error {
	redisClient, err := redis.Connect(ctx, a.log, &a.config.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.redisClient = redisClient

	sink, err := store.Open(ctx, a.log, &a.config.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	a.store = sink

	var generator enrichment.Generator
	if a.config.Enrichment.Enabled {
		generator = enrichment.NewLLMGenerator(&a.config.Enrichment)
	}

	cache := enrichment.NewRedisCache(redisClient, a.config.Redis.PrefixKey, a.config.Enrichment.CacheTTL)

	enricher, err := enrichment.NewEnricher(a.log, a.config.Enrichment, generator, cache)
	if err != nil {
		return fmt.Errorf("failed to create enricher: %w", err)
	}

	a.runner = discovery.NewRunner(a.log, a.pipeline, a.classifier, enricher, sink)

	return nil
}

// Stop gracefully shuts down the engine
func (a *Service) Stop() error {
	a.log.Info("Shutting down nichefy engine...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stopService := func(name string, stopFunc func() error) {
		if err := stopFunc(); err != nil {
			a.log.WithError(err).Errorf("Failed to stop %s", name)
		}
	}

	// 1. Stop the loop so no new cycle starts
	if a.scheduler != nil {
		stopService("scheduler service", a.scheduler.Stop)
	}

	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()

	// 2. Close storage and cache
	if a.store != nil {
		stopService("store", a.store.Close)
	}

	if a.redisClient != nil {
		stopService("Redis client", a.redisClient.Close)
	}

	// 3. Stop HTTP servers
	if a.healthServer != nil {
		stopService("health check server", func() error { return a.healthServer.Shutdown(ctx) })
	}

	if a.pprofServer != nil {
		stopService("pprof server", func() error { return a.pprofServer.Shutdown(ctx) })
	}

	stopService("metrics server", func() error { return observability.StopMetricsServer(ctx) })

	return nil
}

func (a *Service) startHealthCheck() {
	a.log.WithField("addr", a.config.HealthCheckAddr).Info("Starting health check server")

	a.healthServer = &http.Server{
		Addr:              a.config.HealthCheckAddr,
		Handler:           a.healthHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := a.healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.WithError(err).Error("Health check server failed")
		}
	}()
}

func (a *Service) healthHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, _ *http.Request) {
		if a.scheduler == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("starting"))

			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "%s keys_available=%d", a.scheduler.State(), a.youtube.RemainingCapacityCount())
	})

	return mux
}

func (a *Service) startPProf() {
	a.log.WithField("addr", a.config.PProfAddr).Info("Starting pprof server")

	a.pprofServer = &http.Server{
		Addr:              a.config.PProfAddr,
		ReadHeaderTimeout: 120 * time.Second,
	}

	go func() {
		if err := a.pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.WithError(err).Error("Pprof server failed")
		}
	}()
}
