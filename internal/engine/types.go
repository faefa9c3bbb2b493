package engine

import "encoding/json"

// --- Core search types ---

// SearchResult is one normalized hit. Items whose URL lacks an http/https
// scheme are dropped during parsing and never appear here.
type SearchResult struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Content       string   `json:"content"`
	Engines       []string `json:"engines"`
	Category      string   `json:"category"`
	PublishedDate string   `json:"publishedDate,omitempty"`
}

// SearchResponse is the outcome of one query. TotalResults is recomputed
// from the truncated result list, never taken from upstream metadata.
type SearchResponse struct {
	Query        string         `json:"query"`
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"total_results"`
	SearchTime   float64        `json:"search_time"`
	EnginesUsed  []string       `json:"engines_used"`
	Suggestions  []string       `json:"suggestions"`
}

// HealthStatus reports the reachability of the SearXNG instance.
// Config carries the raw remote configuration on success.
type HealthStatus struct {
	Status       string          `json:"status"`
	URL          string          `json:"url"`
	ResponseTime float64         `json:"response_time,omitempty"`
	Config       json.RawMessage `json:"config,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// --- Flattened output rows (manager contract) ---

// QuickResult is a simplified row for console output and quick lookups.
type QuickResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Engines string `json:"engines"`
}

// NewsResult extends QuickResult with the upstream category.
type NewsResult struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet"`
	Engines  string `json:"engines"`
	Category string `json:"category"`
}

// --- MCP tool inputs ---

type WebSearchInput struct {
	Query      string `json:"query" jsonschema:"Search query"`
	Language   string `json:"language,omitempty" jsonschema:"Language code (default: en)"`
	TimeRange  string `json:"time_range,omitempty" jsonschema:"Time filter: day, month, year"`
	Categories string `json:"categories,omitempty" jsonschema:"Comma-separated SearXNG categories"`
	Engines    string `json:"engines,omitempty" jsonschema:"Comma-separated engine names"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum results (default: 10)"`
}

type QuickSearchInput struct {
	Query      string `json:"query" jsonschema:"Search query"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum results (default: 10)"`
}

type AINewsInput struct {
	Year       string `json:"year,omitempty" jsonschema:"Year to search for (default: 2025)"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum results (default: 15)"`
}

type EnhanceSearchInput struct {
	Query           string `json:"query" jsonschema:"Search query"`
	MaxResults      int    `json:"max_results,omitempty" jsonschema:"Results to search before enhancement (default: 5)"`
	EnhancementType string `json:"enhancement_type,omitempty" jsonschema:"Type of enhancement: summarize, extract_key_points, score_relevance, all (default: all)"`
}

type SuggestQueriesInput struct {
	Query   string `json:"query" jsonschema:"Search query to improve"`
	Context string `json:"context,omitempty" jsonschema:"Additional context about what the user is looking for"`
}

type ExtractIntentInput struct {
	Query string `json:"query" jsonschema:"Search query to classify"`
}

type HealthInput struct{}

// --- Internal wire types (SearXNG JSON payload) ---

type searxngPayload struct {
	Results     []json.RawMessage `json:"results"`
	Suggestions []string          `json:"suggestions"`
}

type searxngItem struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Content       string   `json:"content"`
	Engines       []string `json:"engines"`
	Category      string   `json:"category"`
	PublishedDate string   `json:"publishedDate"`
}
