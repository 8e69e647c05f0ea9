package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/matchfeed/matchfeed/external/douyin"
	"github.com/matchfeed/matchfeed/external/m3u"
	"github.com/matchfeed/matchfeed/external/migu"
	"github.com/matchfeed/matchfeed/internal/config"
	"github.com/matchfeed/matchfeed/internal/infrastructure/repository/file"
	"github.com/matchfeed/matchfeed/internal/observability"
	"github.com/matchfeed/matchfeed/internal/platform/id"
	"github.com/matchfeed/matchfeed/internal/platform/logging"
	"github.com/matchfeed/matchfeed/internal/platform/resilience"
	"github.com/matchfeed/matchfeed/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer logger.Sync()
	logging.SetDefault(logger)

	runID, err := id.NewRandomGenerator().NewID()
	if err == nil {
		logger = logger.With("run_id", runID)
	}

	uptraceShutdown, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uptraceShutdown(shutdownCtx); err != nil {
			logger.Error("uptrace shutdown failed", "error", err)
		}
	}()

	pyroscopeStop, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := pyroscopeStop(); err != nil {
			logger.Error("pyroscope stop failed", "error", err)
		}
	}()

	svc, err := buildAggregator(cfg, logger)
	if err != nil {
		logger.Error("build aggregator", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("aggregation run starting", "env", cfg.AppEnv, "output", cfg.OutputPath)
	if err := svc.Run(ctx); err != nil {
		logger.Error("aggregation run failed", "error", err)
		stop()
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("aggregation run finished")
}

func buildAggregator(cfg config.Config, logger *logging.Logger) (*usecase.AggregateService, error) {
	breaker := resilience.BreakerConfig{
		FailureThreshold: cfg.CircuitFailureCount,
		Cooldown:         cfg.CircuitOpenTimeout,
	}

	var adapters []usecase.SourceAdapter

	if cfg.MiguEnabled {
		client := migu.NewClient(migu.ClientConfig{
			HTTPClient:    tracedHTTPClient(cfg.MiguTimeout),
			PortalBaseURL: cfg.MiguPortalBaseURL,
			DataBaseURL:   cfg.MiguDataBaseURL,
			Timeout:       cfg.MiguTimeout,
			MaxRetries:    cfg.MiguMaxRetries,
			Logger:        logger,
			Breaker:       breaker,
		})
		adapters = append(adapters, migu.NewAdapter(client, cfg.MiguGamesPageURLs, cfg.MiguNodeWorkers, logger))
	}

	if cfg.PlaylistEnabled {
		adapters = append(adapters, m3u.NewAdapter(cfg.PlaylistURLs, cfg.PlaylistTimeout, cfg.PlaylistMaxRetries, logger))
	}

	if cfg.DouyinEnabled {
		client := douyin.NewClient(douyin.ClientConfig{
			HTTPClient: tracedHTTPClient(cfg.DouyinTimeout),
			BaseURL:    cfg.DouyinBaseURL,
			Timeout:    cfg.DouyinTimeout,
			MaxRetries: cfg.DouyinMaxRetries,
			Logger:     logger,
			Breaker:    breaker,
		})
		adapters = append(adapters, douyin.NewAdapter(client, cfg.DouyinEpisodeID, cfg.DouyinRoomID, cfg.DouyinMaxPages, logger))
	}

	reconciler, err := usecase.NewReconcileService(usecase.KeyPolicy(cfg.KeyPolicy))
	if err != nil {
		return nil, err
	}

	repo := file.NewSnapshotRepository(cfg.OutputPath, logger)

	return usecase.NewAggregateService(adapters, reconciler, repo, logger), nil
}

func tracedHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}
