// Package logutil holds helpers for keeping secrets and large payloads out of logs.
package logutil

// TruncateForLog keeps at most maxLen runes of s and marks the cut with "...".
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
