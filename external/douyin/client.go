package douyin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/matchfeed/matchfeed/internal/platform/logging"
	"github.com/matchfeed/matchfeed/internal/platform/resilience"
	"github.com/matchfeed/matchfeed/internal/usecase"
)

const (
	defaultBaseURL = "https://www.douyin.com"

	replayListPath = "/aweme/v1/web/show/episode/replay_list/"
	moreReplayPath = "/aweme/v1/web/show/episode/more_replay/"

	maxBodyBytes = 6 << 20
)

var errDouyinTransient = crerr.New("douyin transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
	Breaker    resilience.BreakerConfig
}

// Client talks to the replay-episode web API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     *resilience.Flight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		maxRetries: maxRetries,
		logger:     logger,
		breaker:    resilience.NewCircuitBreaker(cfg.Breaker),
		flight:     resilience.NewFlight(),
	}
}

// FetchReplayList returns the replay items grouped under an episode.
func (c *Client) FetchReplayList(ctx context.Context, episodeID, roomID string) ([]replayItem, error) {
	query := webAppParams()
	query.Set("episode_id", episodeID)
	query.Set("room_id", roomID)

	var envelope replayListEnvelope
	if err := c.getJSON(ctx, replayListPath, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch replay list episode_id=%s: %w", episodeID, err)
	}

	if len(envelope.Data.AllReplay) == 0 {
		return nil, nil
	}
	return envelope.Data.AllReplay[0].InfoList, nil
}

// FetchMoreReplay returns one page of the cross-episode replay timeline.
func (c *Client) FetchMoreReplay(ctx context.Context, episodeID, roomID, ownerUserID string, cursor int64) (moreReplayData, error) {
	query := webAppParams()
	query.Set("episode_id", episodeID)
	query.Set("room_id", roomID)
	query.Set("uid", ownerUserID)
	query.Set("cursor", strconv.FormatInt(cursor, 10))
	query.Set("page_size", "10")
	query.Set("relation_type", "2")
	query.Set("season_type", "1")
	query.Set("reverse", "false")

	var envelope moreReplayEnvelope
	if err := c.getJSON(ctx, moreReplayPath, query, &envelope); err != nil {
		return moreReplayData{}, fmt.Errorf("fetch more replay cursor=%d: %w", cursor, err)
	}
	return envelope.Data, nil
}

func webAppParams() url.Values {
	v := url.Values{}
	v.Set("device_platform", "webapp")
	v.Set("aid", "6383")
	return v
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	if !c.breaker.Allow() {
		c.logger.WarnContext(ctx, "douyin circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: replay api is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	fullURL := c.baseURL + path + "?" + query.Encode()
	out, _, err := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if reqErr != nil && crerr.Is(reqErr, errDouyinTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode replay payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json, text/plain, */*")
		req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
		req.Header.Set("Referer", "https://www.douyin.com/")
		req.Header.Set("Origin", "https://www.douyin.com")
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errDouyinTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errDouyinTransient, readErr)
			case resp.StatusCode == http.StatusOK:
				return raw, nil
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				lastErr = fmt.Errorf("%w: replay api status=%d", errDouyinTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("replay api status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("replay api request failed")
	}
	c.logger.WarnContext(ctx, "douyin request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}
