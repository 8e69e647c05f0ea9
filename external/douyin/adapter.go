package douyin

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/matchfeed/matchfeed/internal/domain/match"
	"github.com/matchfeed/matchfeed/internal/platform/logging"
)

const defaultMaxPages = 10

// Adapter exposes the replay catalog as an observation source. It bootstraps
// from a configured seed episode, takes that episode's own replays, then
// pages backwards through the sibling list to pick up yesterday's episodes.
type Adapter struct {
	client    *Client
	episodeID string
	roomID    string
	maxPages  int
	logger    *logging.Logger
}

func NewAdapter(client *Client, episodeID, roomID string, maxPages int, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Adapter{
		client:    client,
		episodeID: episodeID,
		roomID:    roomID,
		maxPages:  maxPages,
		logger:    logger,
	}
}

func (a *Adapter) Name() string { return Source }

// Fetch returns replay observations for the seed episode's day and the day
// before. The seed acts as the pagination anchor; its first item tells us
// which day "today" is on the upstream's clock.
func (a *Adapter) Fetch(ctx context.Context, now time.Time) ([]match.Observation, error) {
	items, err := a.client.FetchReplayList(ctx, a.episodeID, a.roomID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, crerr.Newf("replay list for seed episode %s is empty", a.episodeID)
	}

	anchor := items[0]
	currentDate := replayDate(anchor)
	if currentDate == "" {
		currentDate = now.In(match.UpstreamZone).Format("2006-01-02")
	}
	anchorDay, err := time.ParseInLocation("2006-01-02", currentDate, match.UpstreamZone)
	if err != nil {
		return nil, crerr.Wrapf(err, "parse anchor date %q", currentDate)
	}
	yesterday := anchorDay.AddDate(0, 0, -1).Format("2006-01-02")

	seen := map[string]bool{}
	var observations []match.Observation
	for _, item := range items {
		observations = a.appendReplay(observations, seen, item)
	}

	yesterdayObs, err := a.fetchYesterday(ctx, anchor, yesterday, seen)
	if err != nil {
		a.logger.WarnContext(ctx, "yesterday replay pagination failed", "error", err)
	}
	observations = append(observations, yesterdayObs...)

	return observations, nil
}

// fetchYesterday pages through the sibling episode list looking for episodes
// dated yesterday. Episodes with their own room get a full replay-list fetch
// so every feed variant is captured; the cursor only advances while no
// yesterday episode has surfaced on the current page.
func (a *Adapter) fetchYesterday(ctx context.Context, anchor replayItem, yesterday string, seen map[string]bool) ([]match.Observation, error) {
	var observations []match.Observation
	var cursor int64

	for page := 0; page < a.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return observations, err
		}

		more, err := a.client.FetchMoreReplay(ctx, anchor.EpisodeID, anchor.RoomID, anchor.OwnerUserID, cursor)
		if err != nil {
			return observations, err
		}
		if len(more.InfoList) == 0 {
			return observations, nil
		}

		foundYesterday := false
		for _, item := range more.InfoList {
			matchDate := replayDate(item)
			if matchDate == "" || seen[item.EpisodeID] {
				continue
			}
			if matchDate < yesterday {
				return observations, nil
			}
			if matchDate != yesterday {
				continue
			}
			foundYesterday = true
			observations = append(observations, a.expandEpisode(ctx, item, seen)...)
		}

		if foundYesterday || !more.HasMore {
			return observations, nil
		}
		cursor = more.Cursor
	}

	return observations, nil
}

// expandEpisode resolves one yesterday episode into observations. When the
// episode carries its own room we fetch its replay list, since the sibling
// listing omits the per-quality play URLs.
func (a *Adapter) expandEpisode(ctx context.Context, item replayItem, seen map[string]bool) []match.Observation {
	var observations []match.Observation

	if item.RoomID != "" {
		items, err := a.client.FetchReplayList(ctx, item.EpisodeID, item.RoomID)
		if err != nil {
			a.logger.WarnContext(ctx, "episode replay fetch failed", "episode_id", item.EpisodeID, "error", err)
		} else if len(items) > 0 {
			for _, full := range items {
				observations = a.appendReplay(observations, seen, full)
			}
			seen[item.EpisodeID] = true
			return observations
		}
	}

	return a.appendReplay(observations, seen, item)
}

func (a *Adapter) appendReplay(observations []match.Observation, seen map[string]bool, item replayItem) []match.Observation {
	if item.EpisodeID == "" || seen[item.EpisodeID] {
		return observations
	}
	obs, ok := mapReplay(item)
	if !ok {
		return observations
	}
	seen[item.EpisodeID] = true
	return append(observations, obs)
}
