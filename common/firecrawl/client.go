package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// DefaultAPIURL is the public endpoint used when no API URL is configured.
const DefaultAPIURL = "https://api.firecrawl.dev"

const defaultPollInterval = 2 * time.Second

// APIError is an error response from the scraping service. The message is the
// upstream message, passed through unchanged.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client is a thin typed client for the Firecrawl REST API. It owns no retry
// or backoff logic; failed calls surface directly to the caller.
type Client struct {
	apiKey       string
	apiURL       string
	httpClient   *http.Client
	pollInterval time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPollInterval sets how often a pending crawl job is polled.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		c.pollInterval = d
	}
}

// NewClient creates a new client. An empty API key is not rejected here; the
// service answers unauthenticated calls with its own error.
func NewClient(apiKey, apiURL string, opts ...ClientOption) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	c := &Client{
		apiKey:       apiKey,
		apiURL:       apiURL,
		httpClient:   &http.Client{Timeout: 2 * time.Minute},
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Scrape fetches a single URL.
func (c *Client) Scrape(ctx context.Context, url string, opts *ScrapeOptions) (*ScrapeResult, error) {
	body := map[string]any{}
	if opts != nil {
		optBody, err := toMap(opts)
		if err != nil {
			return nil, err
		}
		body = optBody
	}
	body["url"] = url

	var env scrapeEnvelope
	if err := c.post(ctx, "/v1/scrape", body, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Crawl starts a crawl job for the URL and waits for it to finish, polling
// the job status until the service reports completion.
func (c *Client) Crawl(ctx context.Context, url string, req CrawlRequest) (*CrawlResponse, error) {
	body, err := toMap(req)
	if err != nil {
		return nil, err
	}
	body["url"] = url

	var started crawlStartEnvelope
	if err := c.post(ctx, "/v1/crawl", body, &started); err != nil {
		return nil, err
	}

	log.Debug().Str("jobID", started.ID).Str("url", url).Msg("Crawl job started")

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var status crawlStatusEnvelope
		if err := c.get(ctx, "/v1/crawl/"+started.ID, &status); err != nil {
			return nil, err
		}

		switch status.Status {
		case "completed":
			return &CrawlResponse{
				Status:    status.Status,
				Total:     status.Total,
				Completed: status.Completed,
				Data:      status.Data,
			}, nil
		case "failed":
			msg := status.Error
			if msg == "" {
				msg = "crawl job failed"
			}
			return nil, &APIError{StatusCode: http.StatusOK, Message: msg}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// MapURL discovers links related to the URL. Params are passed through to the
// service verbatim.
func (c *Client) MapURL(ctx context.Context, url string, params map[string]any) ([]string, error) {
	body := lo.Assign(map[string]any{}, params)
	body["url"] = url

	var env mapEnvelope
	if err := c.post(ctx, "/v1/map", body, &env); err != nil {
		return nil, err
	}
	return env.Links, nil
}

// Extract runs structured-data extraction over the given URLs. Params are
// passed through verbatim; the extracted payload is returned as raw JSON.
func (c *Client) Extract(ctx context.Context, urls []string, params map[string]any) (json.RawMessage, error) {
	body := lo.Assign(map[string]any{}, params)
	body["urls"] = urls

	var env extractEnvelope
	if err := c.post(ctx, "/v1/extract", body, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Search runs a web search. Params are passed through verbatim alongside the
// query.
func (c *Client) Search(ctx context.Context, query string, params map[string]any) ([]ScrapeResult, error) {
	body := lo.Assign(map[string]any{}, params)
	body["query"] = query

	var env searchEnvelope
	if err := c.post(ctx, "/v1/search", body, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(data, resp.StatusCode),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL.Path, err)
	}
	return nil
}

// upstreamMessage pulls the error message out of an API error body, falling
// back to the HTTP status text.
func upstreamMessage(body []byte, statusCode int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return http.StatusText(statusCode)
}

// toMap round-trips a typed request through JSON so option structs and typed
// requests share one wire representation.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
