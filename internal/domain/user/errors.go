package user

import "errors"

// ErrUserNotFound is returned by lookups that require the user to exist.
var ErrUserNotFound = errors.New("user not found")
