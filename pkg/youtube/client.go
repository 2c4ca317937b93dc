package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethpandaops/nichefy/pkg/observability"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 8 << 20

// Client is a single logical view of the YouTube Data API backed by a pool of keys
type Client interface {
	// Call issues one request against endpoint and returns the raw JSON body.
	// Fails with ErrQuotaExhausted before any network I/O when no key has capacity left.
	Call(ctx context.Context, endpoint Endpoint, params url.Values) ([]byte, error)
	// Search runs a single search.list query for videos, newest first
	Search(ctx context.Context, query string, maxResults int) (*SearchResponse, error)
	// Videos looks up statistics, snippet and contentDetails for up to MaxBatchSize ids
	Videos(ctx context.Context, ids []string) (*VideoListResponse, error)
	// Channels looks up statistics for up to MaxBatchSize channel ids
	Channels(ctx context.Context, ids []string) (*ChannelListResponse, error)
	// RemainingCapacityCount returns the number of keys below their daily cap
	RemainingCapacityCount() int
	// ResetAllUsage zeroes every key's counter. Only valid at quota epoch rollover.
	ResetAllUsage()
	// Usage returns a snapshot of per-key consumption
	Usage() []CredentialUsage
}

type client struct {
	log        logrus.FieldLogger
	httpClient *http.Client
	baseURL    string
	costs      Costs
	limiter    *rate.Limiter
	pool       *credentialPool
}

// NewClient creates a new quota-aware YouTube client
func NewClient(log logrus.FieldLogger, cfg *Config) (Client, error) {
	return NewClientWithHTTP(log, cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewClientWithHTTP creates a client that sends requests through httpClient
func NewClientWithHTTP(log logrus.FieldLogger, cfg *Config, httpClient *http.Client) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	c := &client{
		log:        log.WithField("component", "youtube"),
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		costs:      cfg.Costs,
		limiter:    limiter,
		pool:       newCredentialPool(cfg.Keys, cfg.DailyCap),
	}

	observability.RecordCredentialsAvailable(c.pool.remaining())

	return c, nil
}

func (c *client) Call(ctx context.Context, endpoint Endpoint, params url.Values) ([]byte, error) {
	if c.pool.remaining() == 0 {
		observability.RecordUpstreamRequest(string(endpoint), "quota_exhausted", 0)

		return nil, ErrQuotaExhausted
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	cost := c.costs.For(endpoint)

	key, index, err := c.pool.acquire(cost)
	if err != nil {
		observability.RecordUpstreamRequest(string(endpoint), "quota_exhausted", 0)

		return nil, err
	}

	usage := c.pool.usage(index)
	observability.RecordQuotaUsage(usage.Label, usage.Consumed)
	observability.RecordCredentialsAvailable(c.pool.remaining())

	query := make(url.Values, len(params)+1)
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	query.Set("key", key)

	c.log.WithFields(logrus.Fields{
		"endpoint":   endpoint,
		"credential": usage.Label,
		"cost":       cost,
		"consumed":   usage.Consumed,
	}).Debug("Issuing upstream request")

	start := time.Now()
	body, statusCode, err := c.get(ctx, c.baseURL+"/"+string(endpoint)+"?"+query.Encode())
	elapsed := time.Since(start).Seconds()

	if err != nil {
		observability.RecordUpstreamRequest(string(endpoint), "http_error", elapsed)

		return nil, fmt.Errorf("youtube %s request: %w", endpoint, err)
	}

	if apiErr := parseAPIError(endpoint, statusCode, body); apiErr != nil {
		observability.RecordUpstreamRequest(string(endpoint), "api_error", elapsed)
		c.log.WithFields(logrus.Fields{
			"endpoint":   endpoint,
			"credential": usage.Label,
			"code":       apiErr.Code,
			"reason":     apiErr.Reason,
		}).Warn("Upstream API returned an error")

		return nil, apiErr
	}

	observability.RecordUpstreamRequest(string(endpoint), "success", elapsed)

	return body, nil
}

func (c *client) get(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	return body, resp.StatusCode, nil
}

// parseAPIError returns an *APIError when the body carries an error payload or
// the status code signals failure, and nil otherwise
func parseAPIError(endpoint Endpoint, statusCode int, body []byte) *APIError {
	var envelope struct {
		Error *errorPayload `json:"error"`
	}

	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return envelope.Error.toAPIError(endpoint, statusCode)
	}

	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 256 {
			msg = msg[:256]
		}

		if msg == "" {
			msg = http.StatusText(statusCode)
		}

		return &APIError{
			Endpoint:   endpoint,
			StatusCode: statusCode,
			Code:       statusCode,
			Message:    msg,
		}
	}

	return nil
}

func (c *client) Search(ctx context.Context, query string, maxResults int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("order", "date")
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("q", query)

	var out SearchResponse
	if err := c.callJSON(ctx, EndpointSearch, params, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *client) Videos(ctx context.Context, ids []string) (*VideoListResponse, error) {
	if err := checkBatch(ids); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("part", "statistics,snippet,contentDetails")
	params.Set("id", strings.Join(ids, ","))

	var out VideoListResponse
	if err := c.callJSON(ctx, EndpointVideos, params, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *client) Channels(ctx context.Context, ids []string) (*ChannelListResponse, error) {
	if err := checkBatch(ids); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("part", "statistics")
	params.Set("id", strings.Join(ids, ","))

	var out ChannelListResponse
	if err := c.callJSON(ctx, EndpointChannels, params, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *client) callJSON(ctx context.Context, endpoint Endpoint, params url.Values, dest interface{}) error {
	body, err := c.Call(ctx, endpoint, params)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, endpoint, err)
	}

	return nil
}

func (c *client) RemainingCapacityCount() int {
	return c.pool.remaining()
}

func (c *client) ResetAllUsage() {
	c.pool.reset()

	for _, u := range c.pool.snapshot() {
		observability.RecordQuotaUsage(u.Label, u.Consumed)
	}
	observability.RecordCredentialsAvailable(c.pool.remaining())

	c.log.Info("API key usage has been reset")
}

func (c *client) Usage() []CredentialUsage {
	return c.pool.snapshot()
}

func checkBatch(ids []string) error {
	if len(ids) > MaxBatchSize {
		return fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(ids), MaxBatchSize)
	}

	return nil
}

// Verify interface compliance at compile time
var _ Client = (*client)(nil)
