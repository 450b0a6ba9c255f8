package utils

// Truncate shortens s to at most max runes, marking the cut with an
// ellipsis. Chat content is frequently multibyte, so the limit counts
// runes rather than bytes to avoid splitting a character.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
