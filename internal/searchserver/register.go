// Package searchserver registers the meta-search MCP tools: web search,
// quick search, AI news, result enhancement, query suggestions, intent
// extraction, and health.
package searchserver

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mshojaei77/cortex-search-engine/internal/enhance"
	"github.com/mshojaei77/cortex-search-engine/internal/engine"
)

var errNoEnhancer = errors.New("LLM service not available - set LLM_API_KEY")

// RegisterTools registers all search tools on the given MCP server.
// enhancer may be nil; the enhancement tools then return an error.
func RegisterTools(server *mcp.Server, mgr *engine.Manager, enhancer *enhance.Service) {
	registerWebSearch(server, mgr)
	registerQuickSearch(server, mgr)
	registerAINews(server, mgr)
	registerEnhanceResults(server, mgr, enhancer)
	registerSuggestQueries(server, enhancer)
	registerExtractIntent(server, enhancer)
	registerSearchHealth(server, mgr)
}

func registerWebSearch(server *mcp.Server, mgr *engine.Manager) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "web_search",
		Description: "Search the web through a SearXNG meta-search instance. Returns structured JSON with title, URL, content, engines, and category per result. Supports language, time range, category, and engine filters.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.WebSearchInput) (*mcp.CallToolResult, engine.SearchResponse, error) {
		if strings.TrimSpace(input.Query) == "" {
			return nil, engine.SearchResponse{}, errors.New("query is required")
		}

		client, err := mgr.CreateClient(input.MaxResults)
		if err != nil {
			return nil, engine.SearchResponse{}, err
		}
		defer client.Close()

		ov := &engine.Overrides{
			Language:   input.Language,
			TimeRange:  input.TimeRange,
			Categories: splitList(input.Categories),
			Engines:    splitList(input.Engines),
		}
		resp, err := client.Search(ctx, input.Query, ov)
		if err != nil {
			return nil, engine.SearchResponse{}, err
		}
		return nil, *resp, nil
	})
}

type quickSearchOutput struct {
	Query   string               `json:"query"`
	Results []engine.QuickResult `json:"results"`
}

func registerQuickSearch(server *mcp.Server, mgr *engine.Manager) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "quick_search",
		Description: "Simplified web search returning flattened rows: title, URL, short snippet, and engine list. Best for quick lookups where full result metadata is not needed.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.QuickSearchInput) (*mcp.CallToolResult, quickSearchOutput, error) {
		if strings.TrimSpace(input.Query) == "" {
			return nil, quickSearchOutput{}, errors.New("query is required")
		}
		rows, err := mgr.QuickSearch(ctx, input.Query, input.MaxResults)
		if err != nil {
			return nil, quickSearchOutput{}, err
		}
		return nil, quickSearchOutput{Query: input.Query, Results: rows}, nil
	})
}

type aiNewsOutput struct {
	Year    string              `json:"year"`
	Results []engine.NewsResult `json:"results"`
}

func registerAINews(server *mcp.Server, mgr *engine.Manager) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ai_news",
		Description: "Search recent AI and artificial intelligence news for a given year. Uses the news category with a one-year time range.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.AINewsInput) (*mcp.CallToolResult, aiNewsOutput, error) {
		rows, err := mgr.SearchAINews(ctx, input.Year, input.MaxResults)
		if err != nil {
			return nil, aiNewsOutput{}, err
		}
		year := input.Year
		if year == "" {
			year = "2025"
		}
		return nil, aiNewsOutput{Year: year, Results: rows}, nil
	})
}

type enhanceOutput struct {
	Query           string                   `json:"query"`
	EnhancedResults []enhance.EnhancedResult `json:"enhanced_results"`
}

func registerEnhanceResults(server *mcp.Server, mgr *engine.Manager, enhancer *enhance.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "enhance_results",
		Description: "Search the web and enhance each result with an AI summary, key points, and a relevance score. Falls back to deterministic annotations when the model declines.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.EnhanceSearchInput) (*mcp.CallToolResult, enhanceOutput, error) {
		if strings.TrimSpace(input.Query) == "" {
			return nil, enhanceOutput{}, errors.New("query is required")
		}
		if enhancer == nil {
			return nil, enhanceOutput{}, errNoEnhancer
		}

		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = 5
		}
		client, err := mgr.CreateClient(maxResults)
		if err != nil {
			return nil, enhanceOutput{}, err
		}
		defer client.Close()

		resp, err := client.Search(ctx, input.Query, nil)
		if err != nil {
			return nil, enhanceOutput{}, err
		}

		enhanced := enhancer.Enhance(ctx, input.Query, resp.Results, input.EnhancementType)
		return nil, enhanceOutput{Query: input.Query, EnhancedResults: enhanced}, nil
	})
}

type suggestOutput struct {
	OriginalQuery string   `json:"original_query"`
	Suggestions   []string `json:"suggestions"`
}

func registerSuggestQueries(server *mcp.Server, enhancer *enhance.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest_queries",
		Description: "Suggest improved variants of a search query: quoted phrase, tutorial/guide forms, and related phrasings.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.SuggestQueriesInput) (*mcp.CallToolResult, suggestOutput, error) {
		if strings.TrimSpace(input.Query) == "" {
			return nil, suggestOutput{}, errors.New("query is required")
		}
		if enhancer == nil {
			return nil, suggestOutput{}, errNoEnhancer
		}
		suggestions := enhancer.SuggestQueries(ctx, input.Query, input.Context)
		return nil, suggestOutput{OriginalQuery: input.Query, Suggestions: suggestions}, nil
	})
}

func registerExtractIntent(server *mcp.Server, enhancer *enhance.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_intent",
		Description: "Classify a search query: intent type (informational, navigational, transactional), topic category, and urgency.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.ExtractIntentInput) (*mcp.CallToolResult, enhance.Intent, error) {
		if strings.TrimSpace(input.Query) == "" {
			return nil, enhance.Intent{}, errors.New("query is required")
		}
		if enhancer == nil {
			return nil, enhance.Intent{}, errNoEnhancer
		}
		return nil, enhancer.ExtractIntent(ctx, input.Query), nil
	})
}

func registerSearchHealth(server *mcp.Server, mgr *engine.Manager) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_health",
		Description: "Check connectivity to the configured SearXNG instance and return its remote configuration.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.HealthInput) (*mcp.CallToolResult, engine.HealthStatus, error) {
		return nil, mgr.HealthStatus(ctx), nil
	})
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
