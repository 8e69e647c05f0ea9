package migu

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matchfeed/matchfeed/internal/domain/match"
	"github.com/matchfeed/matchfeed/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

const defaultNodeWorkers = 8

// Adapter exposes the portal as an observation source: the day-keyed
// schedule, per-match feed hydration and the hosted-games landing pages.
type Adapter struct {
	client      *Client
	gamesPages  []string
	nodeWorkers int
	logger      *logging.Logger
}

func NewAdapter(client *Client, gamesPages []string, nodeWorkers int, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	if nodeWorkers <= 0 {
		nodeWorkers = defaultNodeWorkers
	}
	return &Adapter{
		client:      client,
		gamesPages:  gamesPages,
		nodeWorkers: nodeWorkers,
		logger:      logger,
	}
}

func (a *Adapter) Name() string { return Source }

// Fetch returns observations for every scheduled match plus today's
// hosted-games rows. Feed hydration fans out over a bounded worker pool; a
// match whose hydration fails still contributes its schedule row.
func (a *Adapter) Fetch(ctx context.Context, now time.Time) ([]match.Observation, error) {
	matchList, err := a.client.FetchMatchList(ctx)
	if err != nil {
		return nil, err
	}

	dayKeys := make([]string, 0, len(matchList))
	for day := range matchList {
		dayKeys = append(dayKeys, day)
	}
	sort.Strings(dayKeys)

	var rows []portalMatch
	for _, day := range dayKeys {
		rows = append(rows, matchList[day]...)
	}

	rows = append(rows, a.fetchGamesRows(ctx, now)...)
	if len(rows) == 0 {
		return nil, nil
	}

	nodesByRow := a.hydrateNodes(ctx, rows)

	var observations []match.Observation
	for i, row := range rows {
		observations = append(observations, mapPortalMatch(row, nodesByRow[i])...)
	}
	return observations, nil
}

// fetchGamesRows collects today's hosted-games matches from the landing
// pages. Page failures are logged and skipped; rows from both pages are
// deduplicated together.
func (a *Adapter) fetchGamesRows(ctx context.Context, now time.Time) []portalMatch {
	var embedded []gamesMatch
	for _, pageURL := range a.gamesPages {
		html, err := a.client.FetchGamesPage(ctx, pageURL)
		if err != nil {
			a.logger.WarnContext(ctx, "games page fetch failed", "url", pageURL, "error", err)
			continue
		}
		embedded = append(embedded, extractGamesMatches(html)...)
	}
	return mapGamesMatches(embedded, now)
}

// hydrateNodes fetches each row's alternate feeds concurrently. Results land
// in per-row slots, so no locking is needed beyond the wait group.
func (a *Adapter) hydrateNodes(ctx context.Context, rows []portalMatch) [][]playNode {
	nodesByRow := make([][]playNode, len(rows))

	p, err := ants.NewPool(a.nodeWorkers)
	if err != nil {
		a.logger.WarnContext(ctx, "node worker pool unavailable, hydrating serially", "error", err)
		for i, row := range rows {
			nodesByRow[i] = a.fetchNodes(ctx, row.MgdbID)
		}
		return nodesByRow
	}
	defer p.Release()

	var wg sync.WaitGroup
	for i, row := range rows {
		i, row := i, row
		wg.Add(1)
		if err := p.Submit(func() {
			defer wg.Done()
			nodesByRow[i] = a.fetchNodes(ctx, row.MgdbID)
		}); err != nil {
			wg.Done()
			nodesByRow[i] = a.fetchNodes(ctx, row.MgdbID)
		}
	}
	wg.Wait()

	return nodesByRow
}

func (a *Adapter) fetchNodes(ctx context.Context, mgdbID string) []playNode {
	nodes, err := a.client.FetchMatchNodes(ctx, mgdbID)
	if err != nil {
		a.logger.WarnContext(ctx, "node hydration failed", "mgdb_id", mgdbID, "error", err)
		return nil
	}
	return nodes
}
