// Package shared provides reusable domain logic shared across aggregates.
package shared

import (
	"time"

	"github.com/tillgate/tillgate/internal/shared/biztime"
)

// IsExpired checks if the given expiration time has passed.
// Returns false if expiresAt is nil (never expires).
func IsExpired(expiresAt *time.Time) bool {
	return IsExpiredAt(expiresAt, biztime.NowUTC())
}

// IsExpiredAt checks expiry against a caller-supplied instant. An entry
// expiring exactly at now is still valid.
func IsExpiredAt(expiresAt *time.Time, now time.Time) bool {
	if expiresAt == nil {
		return false
	}
	return now.After(*expiresAt)
}
