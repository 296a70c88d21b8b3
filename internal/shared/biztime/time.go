// Package biztime provides utilities for business timezone calculations.
// Storage and transport use UTC; the business timezone only decides where a
// calendar day starts when callers filter by date.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const DefaultTimezone = "UTC"

const dateLayout = "2006-01-02"

var (
	bizLocation *time.Location
	locationMu  sync.RWMutex
)

// Init sets the business timezone. An empty tz selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}
	locationMu.Lock()
	bizLocation = loc
	locationMu.Unlock()
	return nil
}

// Location returns the business timezone, UTC when Init was never called.
func Location() *time.Location {
	locationMu.RLock()
	defer locationMu.RUnlock()
	if bizLocation == nil {
		return time.UTC
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// IsDateOnly reports whether s is a plain YYYY-MM-DD date.
func IsDateOnly(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// ParseBoundary parses either an RFC3339 timestamp or a plain date. A plain
// date resolves to the start of that day in the business timezone, or to the
// start of the following day when endOfDay is set.
func ParseBoundary(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(dateLayout, s, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1)
	}
	return t.UTC(), nil
}
