package user

import "context"

// Repository defines the interface for user data operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error

	// GetByID returns nil, nil when the user does not exist.
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// LockByID takes a row lock on the user for the surrounding transaction.
	LockByID(ctx context.Context, id uint) error

	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)
}

// ListFilter represents filtering and pagination options for user list
type ListFilter struct {
	Page     int
	PageSize int
	Email    string
	Active   *bool
}
