// cortex-search-engine — AI-enhanced meta-search service.
//
// Wraps a SearXNG instance with an MCP server (web_search, quick_search,
// ai_news, enhance_results, suggest_queries, extract_intent, search_health)
// and a JSON REST API for result enhancement. The enhancement layer talks to
// any OpenAI-compatible chat completions endpoint with tool calling; when no
// API key is configured the service still runs with search only.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/mshojaei77/cortex-search-engine/internal/enhance"
	"github.com/mshojaei77/cortex-search-engine/internal/engine"
	"github.com/mshojaei77/cortex-search-engine/internal/httpapi"
	"github.com/mshojaei77/cortex-search-engine/internal/searchserver"
)

var version = "dev"

func main() {
	_ = godotenv.Load()
	initLogger()

	mgr := engine.NewManager(engine.ManagerConfig{
		BaseURL:    env.Str("SEARXNG_URL", "http://localhost:8888"),
		Timeout:    env.Duration("SEARXNG_TIMEOUT", 30*time.Second),
		MaxResults: env.Int("SEARXNG_MAX_RESULTS", 10),
		Language:   env.Str("SEARXNG_LANGUAGE", "en"),
	}, slog.Default())

	enhancer := initEnhancer()

	httpPort := env.Str("HTTP_PORT", "8000")
	mcpPort := env.Str("MCP_PORT", "8890")

	slog.Info("starting cortex-search-engine",
		slog.String("http_port", httpPort),
		slog.String("mcp_port", mcpPort),
		slog.Bool("llm_available", enhancer != nil),
	)

	api := httpapi.NewServer(enhancer, version, slog.Default())
	go func() {
		srv := &http.Server{
			Addr:         ":" + httpPort,
			Handler:      api.Handler(),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http api failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "cortex-search-engine",
		Version: version,
	}, nil)
	searchserver.RegisterTools(server, mgr, enhancer)
	slog.Info("tools registered", slog.Int("count", 7))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "cortex-search-engine",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 300 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initLogger() {
	level := slog.LevelInfo
	if env.Str("ENVIRONMENT", "") == "dev" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

// initEnhancer builds the enhancement service, or returns nil when no API
// key is configured. The REST surface answers 503 and the MCP tools error
// in that case; search keeps working.
func initEnhancer() *enhance.Service {
	apiKey := env.Str("LLM_API_KEY", "")
	if apiKey == "" {
		slog.Warn("LLM_API_KEY not set, enhancement disabled")
		return nil
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if base := env.Str("LLM_API_BASE", ""); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	client := openai.NewClient(opts...)
	model := env.Str("LLM_MODEL", "gpt-4o-mini")

	return enhance.NewService(client, model, slog.Default())
}
