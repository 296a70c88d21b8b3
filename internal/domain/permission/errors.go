package permission

import "errors"

var (
	// ErrGrantInactive is returned when deactivating an entry that is already inactive.
	ErrGrantInactive = errors.New("grant is already inactive")
	// ErrNoActiveGrant is returned when a revoke finds no active entry for the key.
	ErrNoActiveGrant = errors.New("no active grant for key")

	ErrRoleNotFound       = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")
)
