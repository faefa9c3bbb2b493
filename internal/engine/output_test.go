package engine

import (
	"strings"
	"testing"
)

func TestFormatResults(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := FormatResults(nil); got != "No results found." {
			t.Errorf("got %q", got)
		}
	})

	t.Run("numbered rows", func(t *testing.T) {
		rows := []QuickResult{
			{Title: "First", URL: "https://a.com", Snippet: "alpha", Engines: "google"},
			{Title: "Second", URL: "https://b.com"},
		}
		out := FormatResults(rows)
		if !strings.Contains(out, "1. First") || !strings.Contains(out, "2. Second") {
			t.Errorf("missing numbering:\n%s", out)
		}
		if !strings.Contains(out, "[google]") {
			t.Errorf("missing engines:\n%s", out)
		}
	})
}

func TestSnippet(t *testing.T) {
	if got := Snippet("short", 200); got != "short" {
		t.Errorf("got %q", got)
	}
	long := strings.Repeat("a", 300)
	got := Snippet(long, 200)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated snippet should end with ellipsis: %q", got)
	}
	if len(got) > 203 {
		t.Errorf("snippet too long: %d", len(got))
	}
}
