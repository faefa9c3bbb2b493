package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// metrics tracks service counters. All access is atomic.
var metrics struct {
	SearchRequests  atomic.Int64
	SearchErrors    atomic.Int64
	HealthChecks    atomic.Int64
	LLMCalls        atomic.Int64
	LLMErrors       atomic.Int64
	EnhanceRequests atomic.Int64
	SuggestRequests atomic.Int64
	IntentRequests  atomic.Int64
}

// Counter increment hooks for packages that cannot reach the struct directly.

func IncrLLMCalls()        { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()       { metrics.LLMErrors.Add(1) }
func IncrEnhanceRequests() { metrics.EnhanceRequests.Add(1) }
func IncrSuggestRequests() { metrics.SuggestRequests.Add(1) }
func IncrIntentRequests()  { metrics.IntentRequests.Add(1) }

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"search_requests":  metrics.SearchRequests.Load(),
		"search_errors":    metrics.SearchErrors.Load(),
		"health_checks":    metrics.HealthChecks.Load(),
		"llm_calls":        metrics.LLMCalls.Load(),
		"llm_errors":       metrics.LLMErrors.Load(),
		"enhance_requests": metrics.EnhanceRequests.Load(),
		"suggest_requests": metrics.SuggestRequests.Load(),
		"intent_requests":  metrics.IntentRequests.Load(),
	}
}

// FormatMetrics renders counters as readable text for the metrics endpoint.
func FormatMetrics() string {
	var b strings.Builder
	b.WriteString("=== Search Service Metrics ===\n\n")

	b.WriteString("Search:\n")
	fmt.Fprintf(&b, "  Requests:  %d\n", metrics.SearchRequests.Load())
	fmt.Fprintf(&b, "  Errors:    %d\n", metrics.SearchErrors.Load())
	fmt.Fprintf(&b, "  Health:    %d\n", metrics.HealthChecks.Load())

	b.WriteString("\nLLM:\n")
	fmt.Fprintf(&b, "  Calls:     %d\n", metrics.LLMCalls.Load())
	fmt.Fprintf(&b, "  Errors:    %d\n", metrics.LLMErrors.Load())

	b.WriteString("\nEnhancement:\n")
	fmt.Fprintf(&b, "  Enhance:   %d\n", metrics.EnhanceRequests.Load())
	fmt.Fprintf(&b, "  Suggest:   %d\n", metrics.SuggestRequests.Load())
	fmt.Fprintf(&b, "  Intent:    %d\n", metrics.IntentRequests.Load())

	return b.String()
}
