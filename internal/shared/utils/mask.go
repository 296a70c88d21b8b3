package utils

import "strings"

// MaskEmail keeps the first character of the local part and the domain so
// login failures can be correlated in logs without recording the address.
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || domain == "" {
		return "***"
	}
	if local == "" {
		return "***@" + domain
	}
	return local[:1] + "***@" + domain
}
