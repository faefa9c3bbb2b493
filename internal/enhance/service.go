package enhance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/openai/openai-go/v3"
	"golang.org/x/time/rate"

	"github.com/mshojaei77/cortex-search-engine/internal/engine"
)

const maxResultsToEnhance = 5

// Service enhances search results through an OpenAI-compatible chat API
// with function calling. Every operation degrades to deterministic local
// behavior on model failure; nothing here returns an error to its caller
// except through the documented fallbacks.
type Service struct {
	client  openai.Client
	model   string
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewService wraps an already-configured client. The limiter bounds
// outbound model calls at 5 rps with a burst of 5.
func NewService(client openai.Client, model string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		client:  client,
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		log:     log,
	}
}

// Model returns the configured model name.
func (s *Service) Model() string { return s.model }

// Enhance annotates up to 5 results. The model picks a tool via auto tool
// choice; when it selects analysis the per-result work runs concurrently.
// Output order always matches input order.
func (s *Service) Enhance(ctx context.Context, query string, results []engine.SearchResult, enhancementType string) []EnhancedResult {
	engine.IncrEnhanceRequests()

	if len(results) > maxResultsToEnhance {
		results = results[:maxResultsToEnhance]
	}
	if enhancementType == "" {
		enhancementType = "all"
	}

	prompt := fmt.Sprintf(
		"Analyze these search results for the query %q with enhancement type %q:\n\n%s",
		query, enhancementType, describeResults(results))

	outcome, err := s.callWithTools(ctx, prompt, 0.3, autoToolChoice())
	if err != nil {
		s.log.Warn("enhancement model call failed, using basic enhancements", slog.Any("error", err))
		return s.basicEnhancements(results)
	}

	switch outcome.Kind {
	case Analyze:
		return s.analyzeResults(ctx, query, results)
	case SuggestQueries, ExtractIntent, NoneChosen:
		// The model declined analysis; the deterministic path still
		// produces fully populated annotations.
		return s.basicEnhancements(results)
	default:
		return s.basicEnhancements(results)
	}
}

// SuggestQueries proposes improved variants of a query. The model is forced
// onto the suggestion tool; the variants themselves come from the
// deterministic expansion so output stays stable.
func (s *Service) SuggestQueries(ctx context.Context, query, context_ string) []string {
	engine.IncrSuggestRequests()

	prompt := fmt.Sprintf("Suggest improved search queries for: %q", query)
	if context_ != "" {
		prompt += fmt.Sprintf("\nContext: %s", context_)
	}

	outcome, err := s.callWithTools(ctx, prompt, 0.7, forceToolChoice(toolSuggestQueries))
	if err != nil || outcome.Kind != SuggestQueries {
		if err != nil {
			s.log.Warn("suggestion model call failed", slog.Any("error", err))
		}
		return []string{query}
	}
	return ExpandQuery(query)
}

// ExtractIntent classifies a query. Keyword tables decide the type and
// category either way; the model's involvement raises confidence.
func (s *Service) ExtractIntent(ctx context.Context, query string) Intent {
	engine.IncrIntentRequests()

	prompt := fmt.Sprintf("Extract the search intent from this query: %q", query)
	outcome, err := s.callWithTools(ctx, prompt, 0.2, forceToolChoice(toolExtractIntent))

	intentType, category := ClassifyIntent(query)
	confidence := 0.8
	if err != nil || outcome.Kind != ExtractIntent {
		if err != nil {
			s.log.Warn("intent model call failed", slog.Any("error", err))
		}
		confidence = 0.5
	}
	return Intent{
		Query:      query,
		IntentType: intentType,
		Category:   category,
		Urgency:    "medium",
		Confidence: confidence,
	}
}

// analyzeResults derives the model-assisted annotations for each result.
// Per-result work is independent and runs concurrently; failures inside a
// single result fall back to the basic enhancement for that result only.
func (s *Service) analyzeResults(ctx context.Context, query string, results []engine.SearchResult) []EnhancedResult {
	enhanced := make([]EnhancedResult, len(results))
	var wg sync.WaitGroup
	for i, r := range results {
		wg.Add(1)
		go func(i int, r engine.SearchResult) {
			defer wg.Done()
			enhanced[i] = s.enhanceOne(ctx, query, r)
		}(i, r)
	}
	wg.Wait()
	return enhanced
}

func (s *Service) enhanceOne(ctx context.Context, query string, r engine.SearchResult) EnhancedResult {
	return EnhancedResult{
		OriginalResult: r,
		AISummary:      s.summarize(ctx, r.Content),
		RelevanceScore: RelevanceScore(query, r.Title, r.Content),
		KeyPoints:      s.keyPoints(ctx, r.Content),
		Sentiment:      "neutral",
	}
}

// summarize asks for a two-sentence summary of content truncated to 300
// characters. Falls back to a 100-character snippet.
func (s *Service) summarize(ctx context.Context, content string) string {
	prompt := fmt.Sprintf("Summarize this content in 1-2 sentences:\n\n%s", engine.Snippet(content, 300))
	summary, err := s.complete(ctx, prompt, 0.3, 100)
	if err != nil {
		return engine.Snippet(content, 100)
	}
	return strings.TrimSpace(summary)
}

// keyPoints asks for up to 3 bullet points. Lines are stripped of bullet
// markers; at most 3 non-empty lines are kept. Falls back to one
// 50-character snippet.
func (s *Service) keyPoints(ctx context.Context, content string) []string {
	prompt := fmt.Sprintf("Extract up to 3 key points from this content, one per line:\n\n%s", engine.Snippet(content, 300))
	text, err := s.complete(ctx, prompt, 0.3, 80)
	if err != nil {
		return []string{engine.Snippet(content, 50)}
	}

	var points []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "-* "))
		if line == "" {
			continue
		}
		points = append(points, line)
		if len(points) == 3 {
			break
		}
	}
	if len(points) == 0 {
		return []string{engine.Snippet(content, 50)}
	}
	return points
}

func (s *Service) basicEnhancements(results []engine.SearchResult) []EnhancedResult {
	enhanced := make([]EnhancedResult, 0, len(results))
	for _, r := range results {
		enhanced = append(enhanced, basicEnhancement(r))
	}
	return enhanced
}

// callWithTools issues one chat completion offering the search tools and
// decodes the model's tool selection.
func (s *Service) callWithTools(ctx context.Context, prompt string, temperature float64, choice openai.ChatCompletionToolChoiceOptionUnionParam) (ToolOutcome, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return ToolOutcome{}, err
	}
	engine.IncrLLMCalls()

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a search enhancement assistant. Use the provided tools."),
			openai.UserMessage(prompt),
		},
		Tools:       searchTools(),
		ToolChoice:  choice,
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		engine.IncrLLMErrors()
		return ToolOutcome{}, err
	}
	if len(resp.Choices) == 0 {
		engine.IncrLLMErrors()
		return ToolOutcome{}, fmt.Errorf("model returned no choices")
	}
	return outcomeFromMessage(resp.Choices[0].Message, s.log), nil
}

// complete issues one plain chat completion and returns the text content.
func (s *Service) complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	engine.IncrLLMCalls()

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
	})
	if err != nil {
		engine.IncrLLMErrors()
		return "", err
	}
	if len(resp.Choices) == 0 {
		engine.IncrLLMErrors()
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func describeResults(results []engine.SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n%s\n\n", i+1, r.Title, engine.Snippet(r.Content, 200))
	}
	return b.String()
}
