// Package ratelimit throttles login attempts and admin mutations.
package ratelimit

import (
	"context"
	"time"
)

// Rule caps a key at Limit requests per Window.
type Rule struct {
	Limit  int
	Window time.Duration
}

// PerMinute builds a one-minute rule.
func PerMinute(limit int) Rule {
	return Rule{Limit: limit, Window: time.Minute}
}

// Enabled reports whether the rule limits anything.
func (r Rule) Enabled() bool {
	return r.Limit > 0 && r.Window > 0
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, rule Rule) (bool, error)
	Reset(ctx context.Context, key string) error
}
