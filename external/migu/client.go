package migu

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/matchfeed/matchfeed/internal/platform/logging"
	"github.com/matchfeed/matchfeed/internal/platform/resilience"
	"github.com/matchfeed/matchfeed/internal/usecase"
)

const (
	defaultPortalBaseURL = "https://vms-sc.miguvideo.com"

	matchListPath = "/vms-match/v6/staticcache/basic/match-list/normal-match-list/0/all/default/1/miguvideo"
	basicDataPath = "/vms-match/v6/staticcache/basic/basic-data/%s/miguvideo"

	// playPageBaseURL is where a pID resolves to a watchable page.
	playPageBaseURL = "https://www.miguvideo.com/p/live/"

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	maxBodyBytes = 6 << 20
)

var errMiguTransient = crerr.New("migu transient failure")

type ClientConfig struct {
	HTTPClient    *http.Client
	PortalBaseURL string
	DataBaseURL   string
	Timeout       time.Duration
	MaxRetries    int
	Logger        *logging.Logger
	Breaker       resilience.BreakerConfig
}

// Client talks to the portal's static-cache JSON endpoints and the
// tournament landing pages.
type Client struct {
	httpClient    *http.Client
	portalBaseURL string
	dataBaseURL   string
	maxRetries    int
	logger        *logging.Logger
	breaker       *resilience.CircuitBreaker
	flight        *resilience.Flight
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

	portalBaseURL := strings.TrimRight(strings.TrimSpace(cfg.PortalBaseURL), "/")
	if portalBaseURL == "" {
		portalBaseURL = defaultPortalBaseURL
	}
	dataBaseURL := strings.TrimRight(strings.TrimSpace(cfg.DataBaseURL), "/")
	if dataBaseURL == "" {
		dataBaseURL = portalBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:    httpClient,
		portalBaseURL: portalBaseURL,
		dataBaseURL:   dataBaseURL,
		maxRetries:    maxRetries,
		logger:        logger,
		breaker:       resilience.NewCircuitBreaker(cfg.Breaker),
		flight:        resilience.NewFlight(),
	}
}

// FetchMatchList fetches the day-keyed schedule of all upcoming and recent
// matches.
func (c *Client) FetchMatchList(ctx context.Context) (map[string][]portalMatch, error) {
	raw, err := c.get(ctx, c.portalBaseURL+matchListPath, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch match list: %w", err)
	}

	var envelope matchListEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode match list: %w", err)
	}
	if envelope.Code != 0 && envelope.Code != http.StatusOK {
		return nil, fmt.Errorf("match list returned code %d", envelope.Code)
	}

	return envelope.Body.MatchList, nil
}

// FetchMatchNodes hydrates the alternate feeds of one match from the
// basic-data endpoint. Lists are walked replay, live, pre; feeds are
// deduplicated on pID and name together.
func (c *Client) FetchMatchNodes(ctx context.Context, mgdbID string) ([]playNode, error) {
	if strings.TrimSpace(mgdbID) == "" {
		return nil, nil
	}

	raw, err := c.get(ctx, c.dataBaseURL+fmt.Sprintf(basicDataPath, mgdbID), androidHeaders())
	if err != nil {
		return nil, fmt.Errorf("fetch basic data mgdb_id=%s: %w", mgdbID, err)
	}

	var envelope basicDataEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode basic data mgdb_id=%s: %w", mgdbID, err)
	}
	if envelope.Code != http.StatusOK || envelope.Body.MultiPlayList == nil {
		return nil, nil
	}

	seen := make(map[string]struct{})
	var nodes []playNode
	appendList := func(list []playNode) {
		for _, item := range list {
			key := item.PID + "|" + item.Name
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			nodes = append(nodes, item)
		}
	}
	appendList(envelope.Body.MultiPlayList.ReplayList)
	appendList(envelope.Body.MultiPlayList.LiveList)
	appendList(envelope.Body.MultiPlayList.PreList)

	return nodes, nil
}

// FetchGamesPage retrieves one tournament landing page as raw HTML.
func (c *Client) FetchGamesPage(ctx context.Context, pageURL string) (string, error) {
	raw, err := c.get(ctx, pageURL, browserHeaders())
	if err != nil {
		return "", fmt.Errorf("fetch games page: %w", err)
	}
	return string(raw), nil
}

func (c *Client) get(ctx context.Context, fullURL string, headers map[string]string) ([]byte, error) {
	if !c.breaker.Allow() {
		c.logger.WarnContext(ctx, "migu circuit breaker rejected request", "state", c.breaker.State())
		return nil, fmt.Errorf("%w: migu portal is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	out, _, err := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL, headers)
		if reqErr != nil && crerr.Is(reqErr, errMiguTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string, headers map[string]string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errMiguTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errMiguTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				lastErr = fmt.Errorf("%w: portal status=%d", errMiguTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("portal status=%d", resp.StatusCode)
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
		lastErr = fmt.Errorf("portal request failed")
	}
	c.logger.WarnContext(ctx, "migu request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// androidHeaders mimics the portal's mobile app; the basic-data endpoint
// serves a different payload for browser agents.
func androidHeaders() map[string]string {
	return map[string]string{
		"appVersion":   "2600052000",
		"User-Agent":   "Dalvik%2F2.1.0+%28Linux%3B+U%3B+Android+9%3B+TAS-AN00+Build%2FPQ3A.190705.08211809%29",
		"terminalId":   "android",
		"appCode":      "miguvideo_default_android",
		"appType":      "3",
		"appId":        "miguvideo",
		"Content-Type": "application/json",
	}
}

func browserHeaders() map[string]string {
	return map[string]string{
		"Accept":     "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Referer":    "https://www.miguvideo.com/p/schedule/",
		"User-Agent": browserUserAgent,
	}
}
