// Package fetch retrieves dataset collections from the SpaceX REST API.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MichalMlada/ETL-spacex/pkg/record"
)

// DefaultBaseURL is the public v4 API root.
const DefaultBaseURL = "https://api.spacexdata.com/v4/"

// DefaultTimeout bounds one dataset request end to end.
const DefaultTimeout = 30 * time.Second

const userAgent = "spacex-etl"

// Client fetches dataset payloads. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithTimeout replaces the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func New(logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dataset fetches one collection, e.g. "launches", and decodes it as an
// array of records. Numeric fields keep json.Number fidelity so the
// loader's integer/real split is not lost on the wire.
func (c *Client) Dataset(ctx context.Context, name string) ([]map[string]any, error) {
	endpoint, err := url.JoinPath(c.baseURL, name)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL for dataset %s: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for dataset %s: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("fetching dataset", slog.String("dataset", name), slog.String("url", endpoint))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset %s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d fetching dataset %s: %s",
			resp.StatusCode, name, strings.TrimSpace(string(excerpt)))
	}

	records, err := record.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", name, err)
	}

	c.logger.Debug("fetched dataset",
		slog.String("dataset", name),
		slog.Int("records", len(records)))
	return records, nil
}
