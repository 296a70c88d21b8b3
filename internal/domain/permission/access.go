package permission

import (
	"context"
	"sort"
)

// UserAccess is the batch-loaded snapshot the decision engine evaluates in
// memory. It carries only active rows; expiry is left to the evaluator.
type UserAccess struct {
	UserID     uint
	UserActive bool
	Direct     []DirectEntry
	Roles      []RoleAssignment
}

type DirectEntry struct {
	Grant      *UserPermission
	Permission *Permission
}

type RoleGrant struct {
	Grant      *RolePermission
	Permission *Permission
}

type RoleAssignment struct {
	Assignment *UserRole
	Role       *Role
	Grants     []RoleGrant
}

// AccessLoader loads a UserAccess snapshot in a single read. It returns
// user.ErrUserNotFound when the subject does not exist.
type AccessLoader interface {
	LoadUserAccess(ctx context.Context, userID uint) (*UserAccess, error)
}

// SortDirectNewestFirst orders direct entries by grantedAt descending, id
// descending on ties. Entries without a grant sort last.
func (a *UserAccess) SortDirectNewestFirst() {
	sort.SliceStable(a.Direct, func(i, j int) bool {
		gi, gj := a.Direct[i].Grant, a.Direct[j].Grant
		if gi == nil || gj == nil {
			return gi != nil && gj == nil
		}
		if !gi.GrantedAt().Equal(gj.GrantedAt()) {
			return gi.GrantedAt().After(gj.GrantedAt())
		}
		return gi.ID() > gj.ID()
	})
}
