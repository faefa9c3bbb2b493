package enhance

import (
	"math"
	"strings"

	"github.com/mshojaei77/cortex-search-engine/internal/engine"
)

// RelevanceScore measures how many query words appear in the title and
// content. Title matches weigh 0.6, content matches 0.4, capped at 1.0.
func RelevanceScore(query, title, content string) float64 {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return 0.5
	}
	title = strings.ToLower(title)
	content = strings.ToLower(content)

	var titleHits, contentHits int
	for _, w := range words {
		if strings.Contains(title, w) {
			titleHits++
		}
		if strings.Contains(content, w) {
			contentHits++
		}
	}
	score := 0.6*float64(titleHits)/float64(len(words)) + 0.4*float64(contentHits)/float64(len(words))
	return math.Min(score, 1.0)
}

// ExpandQuery produces deterministic query variants, capped to 5.
func ExpandQuery(query string) []string {
	suggestions := []string{query}
	if !strings.Contains(query, `"`) && strings.Contains(query, " ") {
		suggestions = append(suggestions, `"`+query+`"`)
	}
	suggestions = append(suggestions,
		query+" tutorial",
		query+" guide",
		query+" 2025",
		"how to "+query,
		query+" best practices",
	)
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return suggestions
}

// ClassifyIntent maps a query onto an intent type and a topical category via
// keyword tables. First matching table wins.
func ClassifyIntent(query string) (intentType, category string) {
	q := strings.ToLower(query)

	switch {
	case containsAny(q, "buy", "purchase", "price", "cost"):
		intentType = "transactional"
	case containsAny(q, "how to", "tutorial", "guide"):
		intentType = "informational"
	case containsAny(q, "login", "website", "official"):
		intentType = "navigational"
	default:
		intentType = "informational"
	}

	switch {
	case containsAny(q, "tech", "programming", "software"):
		category = "technology"
	case containsAny(q, "health", "medical", "doctor"):
		category = "health"
	case containsAny(q, "news", "current", "latest"):
		category = "news"
	default:
		category = "general"
	}
	return intentType, category
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// basicEnhancement is the deterministic fallback applied when the model is
// unavailable or fails mid-request.
func basicEnhancement(r engine.SearchResult) EnhancedResult {
	return EnhancedResult{
		OriginalResult: r,
		AISummary:      engine.Snippet(r.Content, 200),
		RelevanceScore: 0.5,
		KeyPoints:      []string{r.Title},
		Sentiment:      "neutral",
	}
}
