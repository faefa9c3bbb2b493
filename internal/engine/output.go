package engine

import (
	"fmt"
	"strings"
)

// FormatResults renders flattened rows as numbered console text.
func FormatResults(results []QuickResult) string {
	if len(results) == 0 {
		return "No results found."
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "   %s\n", r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", r.Snippet)
		}
		if r.Engines != "" {
			fmt.Fprintf(&b, "   [%s]\n", r.Engines)
		}
		if i < len(results)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
