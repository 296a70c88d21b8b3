// Package authorization implements the permission decision engine. Every
// call loads a fresh snapshot; the engine holds no mutable state.
package authorization

import (
	"context"
	"errors"
	"time"

	"github.com/tillgate/tillgate/internal/domain/permission"
	"github.com/tillgate/tillgate/internal/domain/user"
	"github.com/tillgate/tillgate/internal/shared/biztime"
	"github.com/tillgate/tillgate/internal/shared/logger"
)

// DecisionObserver receives every decision, e.g. for metrics.
type DecisionObserver interface {
	ObserveDecision(allowed bool, reason string, elapsed time.Duration)
}

type Engine struct {
	loader   permission.AccessLoader
	observer DecisionObserver
	logger   logger.Interface
	now      func() time.Time
}

type Option func(*Engine)

func WithObserver(observer DecisionObserver) Option {
	return func(e *Engine) {
		e.observer = observer
	}
}

// WithClock overrides the clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(loader permission.AccessLoader, logger logger.Interface, opts ...Option) *Engine {
	e := &Engine{
		loader: loader,
		logger: logger,
		now:    biztime.NowUTC,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide never returns an error: lookup failures deny with ReasonLookupFailed.
func (e *Engine) Decide(ctx context.Context, userID uint, resource, action string, reqCtx map[string]any) Decision {
	start := time.Now()

	access, failed := e.load(ctx, userID)
	var decision Decision
	if failed {
		decision = deny(ReasonLookupFailed)
	} else {
		decision = evaluate(access, resource, action, reqCtx, e.now())
	}

	e.observe(decision, start)
	e.logger.Debugw("authorization decision",
		"user_id", userID,
		"permission", permission.Code(resource, action),
		"allowed", decision.Allowed,
		"reason", decision.Reason,
	)
	return decision
}

func (e *Engine) HasPermission(ctx context.Context, userID uint, resource, action string, reqCtx map[string]any) bool {
	return e.Decide(ctx, userID, resource, action, reqCtx).Allowed
}

// HasAnyPermission is true when at least one ref is allowed. An empty list is false.
func (e *Engine) HasAnyPermission(ctx context.Context, userID uint, refs []PermissionRef, reqCtx map[string]any) bool {
	if len(refs) == 0 {
		return false
	}
	return e.combine(ctx, userID, refs, reqCtx, true)
}

// HasAllPermissions is true when every ref is allowed. An empty list is true.
func (e *Engine) HasAllPermissions(ctx context.Context, userID uint, refs []PermissionRef, reqCtx map[string]any) bool {
	if len(refs) == 0 {
		return true
	}
	return e.combine(ctx, userID, refs, reqCtx, false)
}

// combine loads the snapshot once and short-circuits on the first allow
// (any) or the first deny (all).
func (e *Engine) combine(ctx context.Context, userID uint, refs []PermissionRef, reqCtx map[string]any, matchAny bool) bool {
	start := time.Now()

	access, failed := e.load(ctx, userID)
	if failed {
		e.observe(deny(ReasonLookupFailed), start)
		return false
	}

	now := e.now()
	for _, ref := range refs {
		decision := evaluate(access, ref.Resource, ref.Action, reqCtx, now)
		e.observe(decision, start)
		if matchAny && decision.Allowed {
			return true
		}
		if !matchAny && !decision.Allowed {
			return false
		}
	}
	return !matchAny
}

// GetUserPermissions returns the sorted "resource:action" list, empty for
// missing or inactive users and on lookup failure.
func (e *Engine) GetUserPermissions(ctx context.Context, userID uint) []string {
	access, failed := e.load(ctx, userID)
	if failed {
		return []string{}
	}
	return permissionCodes(access, e.now())
}

// GetUserRoleLevel returns the highest level among the user's effective
// roles, 0 when there is none.
func (e *Engine) GetUserRoleLevel(ctx context.Context, userID uint) int {
	access, failed := e.load(ctx, userID)
	if failed {
		return 0
	}
	return maxRoleLevel(access, e.now())
}

// load returns a nil snapshot for an unknown user. failed is set only for
// storage errors, which are logged here and never surface to callers.
func (e *Engine) load(ctx context.Context, userID uint) (*permission.UserAccess, bool) {
	if userID == 0 {
		return nil, false
	}

	access, err := e.loader.LoadUserAccess(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, false
		}
		e.logger.Errorw("failed to load user access",
			"user_id", userID,
			"error", err,
		)
		return nil, true
	}
	if access != nil {
		access.SortDirectNewestFirst()
	}
	return access, false
}

func (e *Engine) observe(decision Decision, start time.Time) {
	if e.observer == nil {
		return
	}
	e.observer.ObserveDecision(decision.Allowed, decision.Reason.String(), time.Since(start))
}
