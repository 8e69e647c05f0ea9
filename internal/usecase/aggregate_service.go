package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/matchfeed/matchfeed/internal/domain/match"
	"github.com/matchfeed/matchfeed/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// SourceAdapter is one upstream feed. Fetch returns every observation the
// upstream currently exposes; now is the run's single reference instant.
type SourceAdapter interface {
	Name() string
	Fetch(ctx context.Context, now time.Time) ([]match.Observation, error)
}

// CatalogRepository publishes a reconciled catalog.
type CatalogRepository interface {
	Publish(ctx context.Context, result ReconcileResult, now time.Time) error
}

// AggregateService runs one aggregation pass: fetch all sources, reconcile,
// publish the snapshot.
type AggregateService struct {
	adapters   []SourceAdapter
	reconciler *ReconcileService
	repo       CatalogRepository
	logger     *logging.Logger
	now        func() time.Time
}

func NewAggregateService(
	adapters []SourceAdapter,
	reconciler *ReconcileService,
	repo CatalogRepository,
	logger *logging.Logger,
) *AggregateService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AggregateService{
		adapters:   adapters,
		reconciler: reconciler,
		repo:       repo,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one aggregation pass. Adapters are fetched concurrently; a
// failed adapter contributes nothing and is logged, never fatal. All results
// are materialized before the single-threaded reconcile pass. An empty
// reconciled catalog fails the run without touching the previous snapshot.
func (s *AggregateService) Run(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregateService.Run")
	defer span.End()

	now := s.now()

	p := pool.NewWithResults[[]match.Observation]().WithContext(ctx)
	for _, adapter := range s.adapters {
		adapter := adapter
		p.Go(func(ctx context.Context) ([]match.Observation, error) {
			observations, err := adapter.Fetch(ctx, now)
			if err != nil {
				s.logger.WarnContext(ctx, "source fetch failed",
					"source", adapter.Name(),
					"error", err,
				)
				return nil, nil
			}
			s.logger.InfoContext(ctx, "source fetched",
				"source", adapter.Name(),
				"observations", len(observations),
			)
			return observations, nil
		})
	}

	batches, err := p.Wait()
	if err != nil {
		return fmt.Errorf("fetch sources: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var observations []match.Observation
	for _, batch := range batches {
		observations = append(observations, batch...)
	}

	result := s.reconciler.Reconcile(observations, now)
	if result.Total == 0 {
		return fmt.Errorf("reconcile produced no matches: %w", ErrEmptyCatalog)
	}

	s.logger.InfoContext(ctx, "catalog reconciled",
		"matches", result.Total,
		"observations", len(observations),
		"sources", result.BySource,
	)

	if err := s.repo.Publish(ctx, result, now); err != nil {
		return fmt.Errorf("publish catalog: %w", err)
	}

	return nil
}
