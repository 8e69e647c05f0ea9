package m3u

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/matchfeed/matchfeed/internal/domain/match"
	"github.com/matchfeed/matchfeed/internal/platform/logging"
	"github.com/valyala/fasthttp"
)

// Source is the tag carried on every observation this adapter emits.
const Source = "playlist"

const (
	maxRedirects     = 5
	maxResponseBytes = 8 << 20
)

// Adapter fetches the configured playlist feeds and renders their channels
// as observations.
type Adapter struct {
	urls       []string
	timeout    time.Duration
	maxRetries int
	logger     *logging.Logger
	client     *fasthttp.Client
}

func NewAdapter(urls []string, timeout time.Duration, maxRetries int, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Adapter{
		urls:       urls,
		timeout:    timeout,
		maxRetries: maxRetries,
		logger:     logger,
		client: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBytes,
		},
	}
}

func (a *Adapter) Name() string { return Source }

// Fetch downloads every configured playlist and parses its channels. A feed
// that fails to download is logged and skipped; channels whose label matches
// no grammar are dropped silently.
func (a *Adapter) Fetch(ctx context.Context, _ time.Time) ([]match.Observation, error) {
	var observations []match.Observation
	fetched := 0

	for _, feedURL := range a.urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := a.fetchFeed(feedURL)
		if err != nil {
			a.logger.WarnContext(ctx, "playlist fetch failed", "url", feedURL, "error", err)
			continue
		}
		fetched++

		for _, entry := range ParsePlaylist(text) {
			label := ParseChannelLabel(entry.Label, entry.Logo)
			if label == (ChannelLabel{}) {
				continue
			}
			observations = append(observations, match.Observation{
				Source:       Source,
				ScheduleText: label.ScheduleText,
				Competition:  label.Competition,
				Title:        label.Title,
				Teams:        label.Teams,
				NodeName:     label.NodeName,
				URL:          entry.URL,
			})
		}
	}

	if fetched == 0 && len(a.urls) > 0 {
		return nil, fmt.Errorf("all %d playlist feeds failed", len(a.urls))
	}
	return observations, nil
}

func (a *Adapter) fetchFeed(feedURL string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		req.SetRequestURI(feedURL)
		req.Header.SetMethod(fasthttp.MethodGet)

		err := a.client.DoRedirects(req, resp, maxRedirects)
		status := resp.StatusCode()
		body := string(resp.Body())
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)

		switch {
		case err != nil:
			lastErr = crerr.Wrap(err, "download playlist")
		case status != fasthttp.StatusOK:
			lastErr = crerr.Newf("playlist status=%d", status)
		default:
			return body, nil
		}

		if attempt < a.maxRetries {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}
	return "", lastErr
}
