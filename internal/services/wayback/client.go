package wayback

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/models"
)

// Client talks to the web archive: the CDX index for capture discovery and
// the replay endpoint for the captured markup itself.
type Client struct {
	httpClient    *http.Client
	cdxBaseURL    string
	replayBaseURL string
	from          string
	to            string
	userAgent     string
	limiter       *rate.Limiter
	retry         *RetryPolicy
	logger        arbor.ILogger
}

// NewClient creates an archive client from configuration
func NewClient(cfg common.WaybackConfig, logger arbor.ILogger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	delay := cfg.RequestDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}
	replayBase := cfg.ReplayBaseURL
	if replayBase == "" {
		replayBase = "http://web.archive.org/web"
	}
	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		cdxBaseURL:    cfg.CDXBaseURL,
		replayBaseURL: replayBase,
		from:          cfg.From,
		to:            cfg.To,
		userAgent:     cfg.UserAgent,
		limiter:       rate.NewLimiter(rate.Every(delay), 1),
		retry:         NewRetryPolicy(cfg.MaxRetries),
		logger:        logger,
	}
}

// DiscoverSnapshots queries the CDX index for successful captures of target
// within the configured date window. Returned snapshots carry identity and
// archive URLs only; markup is fetched separately.
func (c *Client) DiscoverSnapshots(ctx context.Context, brand, target string) ([]*models.Snapshot, error) {
	params := url.Values{}
	params.Set("url", target)
	params.Set("from", c.from)
	params.Set("to", c.to)
	params.Set("output", "json")
	params.Set("fl", "timestamp,original")
	params.Set("filter", "statuscode:200")

	queryURL := c.cdxBaseURL + "?" + params.Encode()

	body, err := c.get(ctx, queryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to query CDX index for %s: %w", target, err)
	}

	// The CDX JSON output is an array of rows, the first being column names.
	var rows [][]string
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse CDX response for %s: %w", target, err)
	}

	snapshots := make([]*models.Snapshot, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header row
		}
		if len(row) < 2 {
			c.logger.Warn().Str("url", target).Int("row", i).Msg("Skipping malformed CDX row")
			continue
		}
		timestamp, original := row[0], row[1]
		snapshots = append(snapshots, &models.Snapshot{
			Timestamp:   timestamp,
			Brand:       brand,
			URL:         fmt.Sprintf("%s/%s/%s", c.replayBaseURL, timestamp, original),
			OriginalURL: original,
			Source:      models.SnapshotSourceWayback,
		})
	}

	c.logger.Info().
		Str("url", target).
		Int("snapshots", len(snapshots)).
		Msg("Discovered archived captures")
	return snapshots, nil
}

// FetchSnapshot downloads the archived markup for a discovered snapshot,
// filling HTML and FetchedAt in place.
func (c *Client) FetchSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	body, err := c.get(ctx, snapshot.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch archived page %s: %w", snapshot.URL, err)
	}
	snapshot.HTML = string(body)
	snapshot.FetchedAt = time.Now().UTC()
	return nil
}

// get performs a rate-limited GET with the retry policy applied
func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	var body []byte

	_, err := c.retry.ExecuteWithRetry(ctx, c.logger, func() (int, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return 0, err
		}
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return resp.StatusCode, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, requestURL)
		}

		body, err = io.ReadAll(resp.Body)
		return resp.StatusCode, err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
