package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matchfeed/matchfeed/internal/domain/match"
	"github.com/matchfeed/matchfeed/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	name         string
	observations []match.Observation
	err          error
}

func (a stubAdapter) Name() string { return a.name }

func (a stubAdapter) Fetch(_ context.Context, _ time.Time) ([]match.Observation, error) {
	return a.observations, a.err
}

type captureRepo struct {
	published *ReconcileResult
	err       error
}

func (r *captureRepo) Publish(_ context.Context, result ReconcileResult, _ time.Time) error {
	if r.err != nil {
		return r.err
	}
	r.published = &result
	return nil
}

func newAggregate(t *testing.T, adapters []SourceAdapter, repo CatalogRepository) *AggregateService {
	t.Helper()
	reconciler, err := NewReconcileService(KeyPolicyComposite)
	require.NoError(t, err)
	svc := NewAggregateService(adapters, reconciler, repo, logging.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestAggregateRunPublishesMergedCatalog(t *testing.T) {
	repo := &captureRepo{}
	svc := newAggregate(t, []SourceAdapter{
		stubAdapter{name: "migu", observations: []match.Observation{
			{Source: "migu", ScheduleText: "08月28日19:30", Competition: "英超", Title: "曼城 vs 阿森纳", NodeName: "高清", URL: "u1"},
		}},
		stubAdapter{name: "playlist", observations: []match.Observation{
			{Source: "playlist", ScheduleText: "8月28日19:30", Competition: "英超", Title: "曼城 vs 阿森纳", NodeName: "备用", URL: "u2"},
		}},
	}, repo)

	require.NoError(t, svc.Run(context.Background()))
	require.NotNil(t, repo.published)
	assert.Equal(t, 1, repo.published.Total)
	assert.Len(t, repo.published.Matches[0].Nodes, 2)
	assert.Equal(t, map[string]int{"migu": 1, "playlist": 1}, repo.published.BySource)
}

func TestAggregateRunToleratesFailedAdapter(t *testing.T) {
	repo := &captureRepo{}
	svc := newAggregate(t, []SourceAdapter{
		stubAdapter{name: "migu", err: errors.New("upstream down")},
		stubAdapter{name: "playlist", observations: []match.Observation{
			{Source: "playlist", ScheduleText: "08月28日19:30", Competition: "英超", Title: "曼城 vs 阿森纳", URL: "u1"},
		}},
	}, repo)

	require.NoError(t, svc.Run(context.Background()))
	require.NotNil(t, repo.published)
	assert.Equal(t, 1, repo.published.Total)
}

func TestAggregateRunFailsOnEmptyCatalog(t *testing.T) {
	repo := &captureRepo{}
	svc := newAggregate(t, []SourceAdapter{
		stubAdapter{name: "migu", err: errors.New("upstream down")},
		stubAdapter{name: "playlist", err: errors.New("upstream down")},
	}, repo)

	err := svc.Run(context.Background())
	require.ErrorIs(t, err, ErrEmptyCatalog)
	assert.Nil(t, repo.published)
}

func TestAggregateRunPropagatesPublishError(t *testing.T) {
	repo := &captureRepo{err: errors.New("disk full")}
	svc := newAggregate(t, []SourceAdapter{
		stubAdapter{name: "migu", observations: []match.Observation{
			{Source: "migu", ScheduleText: "08月28日19:30", Competition: "英超", Title: "a vs b", URL: "u1"},
		}},
	}, repo)

	err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish catalog")
}

func TestAggregateRunRespectsCancellation(t *testing.T) {
	repo := &captureRepo{}
	svc := newAggregate(t, []SourceAdapter{
		stubAdapter{name: "migu", observations: []match.Observation{
			{Source: "migu", ScheduleText: "08月28日19:30", Competition: "英超", Title: "a vs b", URL: "u1"},
		}},
	}, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Run(ctx)
	require.Error(t, err)
	assert.Nil(t, repo.published)
}
