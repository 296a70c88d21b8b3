package permission

import (
	"time"
)

// Lifecycle is the two-state machine shared by every grant row:
// active -> inactive, never back. Re-granting inserts a fresh row.
type Lifecycle struct {
	active        bool
	deactivatedBy *uint
	deactivatedAt *time.Time
}

func newActiveLifecycle() Lifecycle {
	return Lifecycle{active: true}
}

func ReconstructLifecycle(active bool, deactivatedBy *uint, deactivatedAt *time.Time) Lifecycle {
	return Lifecycle{
		active:        active,
		deactivatedBy: deactivatedBy,
		deactivatedAt: deactivatedAt,
	}
}

func (l *Lifecycle) IsActive() bool {
	return l.active
}

func (l *Lifecycle) DeactivatedBy() *uint {
	return l.deactivatedBy
}

func (l *Lifecycle) DeactivatedAt() *time.Time {
	return l.deactivatedAt
}

// Deactivate moves the row to its terminal state.
func (l *Lifecycle) Deactivate(by uint, at time.Time) error {
	if !l.active {
		return ErrGrantInactive
	}
	l.active = false
	l.deactivatedBy = &by
	l.deactivatedAt = &at
	return nil
}
