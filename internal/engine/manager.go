package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ManagerConfig holds the environment-derived defaults for the manager.
// Assembled once in main; packages below main never read the environment.
type ManagerConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxResults int
	Language   string
}

// Manager is the high-level facade over short-lived search clients. Each
// operation builds a client, runs the search, and releases the session.
type Manager struct {
	cfg ManagerConfig
	log *slog.Logger
}

func NewManager(cfg ManagerConfig, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{cfg: cfg, log: log}
}

// CreateClient builds a client from the manager defaults. A maxResults of
// zero keeps the configured default.
func (m *Manager) CreateClient(maxResults int) (*Client, error) {
	cfg := DefaultConfig()
	if m.cfg.BaseURL != "" {
		cfg.BaseURL = m.cfg.BaseURL
	}
	if m.cfg.Timeout > 0 {
		cfg.Timeout = m.cfg.Timeout
	}
	if m.cfg.MaxResults > 0 {
		cfg.MaxResults = m.cfg.MaxResults
	}
	if m.cfg.Language != "" {
		cfg.Language = m.cfg.Language
	}
	if maxResults > 0 {
		cfg.MaxResults = maxResults
	}
	return NewClient(cfg, m.log)
}

// QuickSearch runs one search and flattens the hits into simple rows with
// snippets capped at 200 characters.
func (m *Manager) QuickSearch(ctx context.Context, query string, maxResults int) ([]QuickResult, error) {
	if maxResults <= 0 {
		maxResults = 10
	}
	client, err := m.CreateClient(maxResults)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	resp, err := client.Search(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	rows := make([]QuickResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		rows = append(rows, QuickResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: Snippet(r.Content, 200),
			Engines: JoinEngines(r.Engines),
		})
	}
	return rows, nil
}

// SearchAINews searches recent AI news for the given year. Snippets are
// capped at 300 characters and carry the upstream category.
func (m *Manager) SearchAINews(ctx context.Context, year string, maxResults int) ([]NewsResult, error) {
	if year == "" {
		year = "2025"
	}
	if maxResults <= 0 {
		maxResults = 15
	}
	client, err := m.CreateClient(maxResults)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	query := fmt.Sprintf("AI news %s artificial intelligence", year)
	resp, err := client.SearchNews(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	rows := make([]NewsResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		rows = append(rows, NewsResult{
			Title:    r.Title,
			URL:      r.URL,
			Snippet:  Snippet(r.Content, 300),
			Engines:  JoinEngines(r.Engines),
			Category: r.Category,
		})
	}
	return rows, nil
}

// HealthStatus checks instance reachability with the manager defaults.
func (m *Manager) HealthStatus(ctx context.Context) HealthStatus {
	client, err := m.CreateClient(0)
	if err != nil {
		return HealthStatus{Status: "unhealthy", URL: m.cfg.BaseURL, Error: err.Error()}
	}
	defer client.Close()
	return client.HealthStatus(ctx)
}
