package enhance

import "github.com/mshojaei77/cortex-search-engine/internal/engine"

// EnhancedResult wraps a search hit with model-derived annotations. Every
// field is always populated, by the model or by the deterministic fallback.
type EnhancedResult struct {
	OriginalResult engine.SearchResult `json:"original_result"`
	AISummary      string              `json:"ai_summary"`
	RelevanceScore float64             `json:"relevance_score"`
	KeyPoints      []string            `json:"key_points"`
	Sentiment      string              `json:"sentiment"`
}

// Intent classifies what a search query is after.
type Intent struct {
	Query      string  `json:"query"`
	IntentType string  `json:"intent_type"`
	Category   string  `json:"category"`
	Urgency    string  `json:"urgency"`
	Confidence float64 `json:"confidence"`
}
