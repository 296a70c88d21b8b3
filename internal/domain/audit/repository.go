package audit

import (
	"context"
	"time"
)

// Repository is insert-only on the write side.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter Filter) ([]*Entry, int64, error)
}

type Filter struct {
	UserID   *uint
	Resource string
	Action   string
	Success  *bool
	From     *time.Time
	To       *time.Time

	// ToExclusive drops entries stamped exactly at To. Date-only bounds
	// resolve to the next midnight and set it.
	ToExclusive bool

	Page     int
	PageSize int
}
