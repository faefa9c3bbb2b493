package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "cortex-search/1.0"

// Client talks to one SearXNG instance. It owns its HTTP session: the
// session is acquired at construction and released by Close, regardless of
// whether any search succeeded.
type Client struct {
	cfg  SearchConfig
	http *http.Client
	log  *slog.Logger
}

// NewClient validates cfg and builds a client with its own HTTP session.
func NewClient(cfg SearchConfig, log *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
		log: log,
	}, nil
}

// Config returns the immutable configuration the client was built with.
func (c *Client) Config() SearchConfig { return c.cfg }

// Close releases the underlying HTTP session. Safe on every exit path;
// callers should defer it right after construction.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// Search performs one query against {base_url}/search and parses the JSON
// payload. Overrides win over configuration-derived parameters.
func (c *Client) Search(ctx context.Context, query string, ov *Overrides) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	metrics.SearchRequests.Add(1)
	start := time.Now()

	data, err := c.fetchSearch(ctx, query, ov)
	if err != nil {
		metrics.SearchErrors.Add(1)
		c.log.Error("search failed", slog.String("query", query), slog.Any("error", err))
		return nil, err
	}

	resp := c.parseResults(data, query)
	resp.SearchTime = time.Since(start).Seconds()
	return resp, nil
}

// SearchNews wraps Search with the news category and a time range defaulted
// to "year" unless the caller overrides it.
func (c *Client) SearchNews(ctx context.Context, query string, ov *Overrides) (*SearchResponse, error) {
	newsOv := Overrides{}
	if ov != nil {
		newsOv = *ov
	}
	if len(newsOv.Categories) == 0 {
		newsOv.Categories = []string{"news"}
	}
	if newsOv.TimeRange == "" {
		newsOv.TimeRange = "year"
	}
	return c.Search(ctx, query, &newsOv)
}

// HealthStatus checks {base_url}/config. It never returns an error: any
// failure yields an unhealthy status with the error text.
func (c *Client) HealthStatus(ctx context.Context) HealthStatus {
	metrics.HealthChecks.Add(1)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/config", nil)
	if err != nil {
		return HealthStatus{Status: "unhealthy", URL: c.cfg.BaseURL, Error: err.Error()}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return HealthStatus{Status: "unhealthy", URL: c.cfg.BaseURL, Error: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return HealthStatus{Status: "unhealthy", URL: c.cfg.BaseURL, Error: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return HealthStatus{Status: "unhealthy", URL: c.cfg.BaseURL, Error: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	if !json.Valid(body) {
		return HealthStatus{Status: "unhealthy", URL: c.cfg.BaseURL, Error: "non-JSON config response"}
	}
	return HealthStatus{
		Status:       "healthy",
		URL:          c.cfg.BaseURL,
		ResponseTime: time.Since(start).Seconds(),
		Config:       json.RawMessage(body),
	}
}

// fetchSearch issues the GET and classifies failures. Order checked:
// timeout, connection failure, empty body, non-JSON body, 403, 429,
// other non-2xx.
func (c *Client) fetchSearch(ctx context.Context, query string, ov *Overrides) (*searxngPayload, error) {
	u, err := url.Parse(c.cfg.BaseURL + "/search")
	if err != nil {
		return nil, &NetworkError{Detail: "cannot connect to " + c.cfg.BaseURL, Err: err}
	}
	u.RawQuery = buildSearchParams(c.cfg, query, ov).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &NetworkError{Detail: "cannot connect to " + c.cfg.BaseURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &NetworkError{
				Detail: fmt.Sprintf("request timed out after %s", c.cfg.Timeout),
				Err:    err,
			}
		}
		return nil, &NetworkError{Detail: "cannot connect to " + c.cfg.BaseURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, &NetworkError{
				Detail: fmt.Sprintf("request timed out after %s", c.cfg.Timeout),
				Err:    err,
			}
		}
		return nil, &NetworkError{Detail: "cannot connect to " + c.cfg.BaseURL, Err: err}
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: "empty response"}
	}

	var data searxngPayload
	if jsonErr := json.Unmarshal(body, &data); jsonErr != nil {
		switch resp.StatusCode {
		case http.StatusForbidden, http.StatusTooManyRequests:
			// fall through to the status classification below
		default:
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil, &APIError{StatusCode: resp.StatusCode, Detail: "invalid JSON response: " + jsonErr.Error()}
			}
		}
		data = searxngPayload{}
	}

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: "access forbidden - check if JSON format is enabled"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: "rate limit exceeded - try again later"}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &NetworkError{Detail: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	return &data, nil
}

// parseResults walks the upstream items up to MaxResults. A malformed item
// is logged and skipped, it never aborts the whole response.
func (c *Client) parseResults(data *searxngPayload, query string) *SearchResponse {
	raw := data.Results
	if len(raw) > c.cfg.MaxResults {
		raw = raw[:c.cfg.MaxResults]
	}

	results := make([]SearchResult, 0, len(raw))
	for _, item := range raw {
		var parsed searxngItem
		if err := json.Unmarshal(item, &parsed); err != nil {
			c.log.Warn("skipping malformed result", slog.Any("error", err))
			continue
		}
		if !strings.HasPrefix(parsed.URL, "http://") && !strings.HasPrefix(parsed.URL, "https://") {
			c.log.Warn("skipping result with invalid URL", slog.String("url", parsed.URL))
			continue
		}
		title := parsed.Title
		if title == "" {
			title = "No title"
		}
		category := parsed.Category
		if category == "" {
			category = "general"
		}
		results = append(results, SearchResult{
			Title:         title,
			URL:           parsed.URL,
			Content:       parsed.Content,
			Engines:       parsed.Engines,
			Category:      category,
			PublishedDate: parsed.PublishedDate,
		})
	}

	return &SearchResponse{
		Query:        query,
		Results:      results,
		TotalResults: len(results),
		EnginesUsed:  enginesUnion(results),
		Suggestions:  data.Suggestions,
	}
}

// enginesUnion collects the per-result engine lists into a duplicate-free
// union, first-seen order.
func enginesUnion(results []SearchResult) []string {
	seen := make(map[string]bool)
	var union []string
	for _, r := range results {
		for _, e := range r.Engines {
			if e != "" && !seen[e] {
				seen[e] = true
				union = append(union, e)
			}
		}
	}
	return union
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return true
	}
	var terr interface{ Timeout() bool }
	return errors.As(err, &terr) && terr.Timeout()
}
