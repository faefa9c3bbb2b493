package enhance

import (
	"encoding/json"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared/constant"
)

// Tool names offered to the model.
const (
	toolAnalyze        = "analyze_search_results"
	toolSuggestQueries = "suggest_query_improvements"
	toolExtractIntent  = "extract_search_intent"
)

// searchTools returns the three strict function tools offered on every
// enhancement request.
func searchTools() []openai.ChatCompletionToolUnionParam {
	return []openai.ChatCompletionToolUnionParam{
		functionTool(toolAnalyze,
			"Analyze search results and provide enhanced information",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query",
					},
					"enhancement_type": map[string]any{
						"type":        "string",
						"enum":        []string{"summarize", "extract_key_points", "score_relevance", "all"},
						"description": "Type of enhancement to apply",
					},
				},
				"required":             []string{"query", "enhancement_type"},
				"additionalProperties": false,
			}),
		functionTool(toolSuggestQueries,
			"Suggest improved search queries based on the original query",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"original_query": map[string]any{
						"type":        "string",
						"description": "The original search query",
					},
					"suggestions": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "List of improved query suggestions",
					},
				},
				"required":             []string{"original_query", "suggestions"},
				"additionalProperties": false,
			}),
		functionTool(toolExtractIntent,
			"Extract and classify the intent behind a search query",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"intent_type": map[string]any{
						"type":        "string",
						"enum":        []string{"informational", "navigational", "transactional", "commercial"},
						"description": "The type of search intent",
					},
					"category": map[string]any{
						"type":        "string",
						"description": "Topic category of the query",
					},
					"urgency": map[string]any{
						"type":        "string",
						"enum":        []string{"low", "medium", "high"},
						"description": "How urgent the information need appears",
					},
				},
				"required":             []string{"intent_type", "category", "urgency"},
				"additionalProperties": false,
			}),
	}
}

func functionTool(name, description string, params map[string]any) openai.ChatCompletionToolUnionParam {
	return openai.ChatCompletionToolUnionParam{
		OfFunction: &openai.ChatCompletionFunctionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        name,
				Description: openai.String(description),
				Parameters:  openai.FunctionParameters(params),
				Strict:      openai.Bool(true),
			},
			Type: constant.ValueOf[constant.Function](),
		},
	}
}

func autoToolChoice() openai.ChatCompletionToolChoiceOptionUnionParam {
	return openai.ChatCompletionToolChoiceOptionUnionParam{
		OfAuto: openai.String("auto"),
	}
}

func forceToolChoice(name string) openai.ChatCompletionToolChoiceOptionUnionParam {
	return openai.ChatCompletionToolChoiceOptionUnionParam{
		OfFunctionToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
			Function: openai.ChatCompletionNamedToolChoiceFunctionParam{Name: name},
		},
	}
}

// ToolKind tags which tool, if any, the model invoked.
type ToolKind int

const (
	NoneChosen ToolKind = iota
	Analyze
	SuggestQueries
	ExtractIntent
)

// ToolOutcome is the decoded result of the model's tool selection. Exactly
// the fields for the chosen kind are populated.
type ToolOutcome struct {
	Kind ToolKind

	// Analyze
	Query           string
	EnhancementType string

	// SuggestQueries
	OriginalQuery string
	Suggestions   []string

	// ExtractIntent
	IntentType string
	Category   string
	Urgency    string
}

// outcomeFromMessage inspects the first tool call of the assistant message.
// An unknown tool name or undecodable arguments count as no choice.
func outcomeFromMessage(msg openai.ChatCompletionMessage, log *slog.Logger) ToolOutcome {
	if len(msg.ToolCalls) == 0 {
		return ToolOutcome{Kind: NoneChosen}
	}
	call := msg.ToolCalls[0]
	args := []byte(call.Function.Arguments)

	switch call.Function.Name {
	case toolAnalyze:
		var a struct {
			Query           string `json:"query"`
			EnhancementType string `json:"enhancement_type"`
		}
		if err := json.Unmarshal(args, &a); err != nil {
			log.Warn("undecodable tool arguments", slog.String("tool", call.Function.Name), slog.Any("error", err))
			return ToolOutcome{Kind: NoneChosen}
		}
		return ToolOutcome{Kind: Analyze, Query: a.Query, EnhancementType: a.EnhancementType}
	case toolSuggestQueries:
		var s struct {
			OriginalQuery string   `json:"original_query"`
			Suggestions   []string `json:"suggestions"`
		}
		if err := json.Unmarshal(args, &s); err != nil {
			log.Warn("undecodable tool arguments", slog.String("tool", call.Function.Name), slog.Any("error", err))
			return ToolOutcome{Kind: NoneChosen}
		}
		return ToolOutcome{Kind: SuggestQueries, OriginalQuery: s.OriginalQuery, Suggestions: s.Suggestions}
	case toolExtractIntent:
		var i struct {
			IntentType string `json:"intent_type"`
			Category   string `json:"category"`
			Urgency    string `json:"urgency"`
		}
		if err := json.Unmarshal(args, &i); err != nil {
			log.Warn("undecodable tool arguments", slog.String("tool", call.Function.Name), slog.Any("error", err))
			return ToolOutcome{Kind: NoneChosen}
		}
		return ToolOutcome{Kind: ExtractIntent, IntentType: i.IntentType, Category: i.Category, Urgency: i.Urgency}
	default:
		log.Warn("model chose unknown tool", slog.String("tool", call.Function.Name))
		return ToolOutcome{Kind: NoneChosen}
	}
}
