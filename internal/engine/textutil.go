package engine

import (
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// Snippet truncates s to limit characters, appending "..." when cut.
func Snippet(s string, limit int) string {
	return strutil.TruncateWith(strings.TrimSpace(s), limit, "...")
}

// JoinEngines renders an engine list for flattened output rows.
func JoinEngines(engines []string) string {
	return strings.Join(engines, ", ")
}
