// Package groups talks to the documentation backend: it loads the API group
// list and fetches raw specification documents.
package groups

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/docviewer/internal/metrics"
	"github.com/ziadkadry99/docviewer/internal/viewer"
)

// maxBodySize caps the size of list responses and spec documents.
const maxBodySize = 16 << 20

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Client fetches the API group list from {BaseURL}{ListPath}.
type Client struct {
	BaseURL    string
	ListPath   string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// NewClient creates a client for the given backend. A zero timeout leaves
// deadlines to the caller's context.
func NewClient(baseURL, listPath string, timeout time.Duration, logger zerolog.Logger) *Client {
	if listPath == "" {
		listPath = viewer.DefaultListPath
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		ListPath:   listPath,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger,
	}
}

// ListURL returns the absolute URL of the group list resource.
func (c *Client) ListURL() string {
	path := c.ListPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(c.BaseURL, "/") + path
}

// FetchGroups implements viewer.Fetcher.
func (c *Client) FetchGroups(ctx context.Context) ([]viewer.Group, error) {
	start := time.Now()
	groups, err := c.fetchGroups(ctx)
	metrics.GroupFetchDuration.Observe(time.Since(start).Seconds())
	metrics.GroupFetches.WithLabelValues(resultLabel(err)).Inc()

	if err != nil {
		c.Logger.Warn().Err(err).Str("url", c.ListURL()).Msg("loading API groups")
		return nil, err
	}
	c.Logger.Debug().Int("groups", len(groups)).Str("url", c.ListURL()).Msg("loaded API groups")
	return groups, nil
}

func (c *Client) fetchGroups(ctx context.Context) ([]viewer.Group, error) {
	body, err := c.get(ctx, c.ListURL(), "application/json")
	if err != nil {
		return nil, err
	}

	var list viewer.GroupList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, &decodeError{err: err}
	}
	if list.Items == nil {
		return []viewer.Group{}, nil
	}
	return list.Items, nil
}

// FetchSpec downloads the specification document at specURL.
func (c *Client) FetchSpec(ctx context.Context, specURL string) ([]byte, error) {
	return c.get(ctx, specURL, "application/json, application/yaml;q=0.9, */*;q=0.5")
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", accept)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "decoding API group list: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func resultLabel(err error) string {
	var statusErr *StatusError
	var decErr *decodeError
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.As(err, &statusErr):
		return metrics.ResultStatus
	case errors.As(err, &decErr):
		return metrics.ResultDecode
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ResultTimeout
	default:
		return metrics.ResultError
	}
}
