package permission

import (
	"fmt"
	"time"

	"github.com/tillgate/tillgate/internal/domain/shared"
)

// UserRole assigns a role to a user, optionally until expiresAt.
type UserRole struct {
	Lifecycle
	id         uint
	userID     uint
	roleID     uint
	assignedBy uint
	assignedAt time.Time
	expiresAt  *time.Time
}

func NewUserRole(userID, roleID uint, expiresAt *time.Time, assignedBy uint, assignedAt time.Time) (*UserRole, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if roleID == 0 {
		return nil, fmt.Errorf("role ID is required")
	}
	if expiresAt != nil && !expiresAt.After(assignedAt) {
		return nil, fmt.Errorf("expiration must be in the future")
	}

	return &UserRole{
		Lifecycle:  newActiveLifecycle(),
		userID:     userID,
		roleID:     roleID,
		assignedBy: assignedBy,
		assignedAt: assignedAt,
		expiresAt:  expiresAt,
	}, nil
}

func ReconstructUserRole(id, userID, roleID, assignedBy uint, assignedAt time.Time, expiresAt *time.Time, lifecycle Lifecycle) *UserRole {
	return &UserRole{
		Lifecycle:  lifecycle,
		id:         id,
		userID:     userID,
		roleID:     roleID,
		assignedBy: assignedBy,
		assignedAt: assignedAt,
		expiresAt:  expiresAt,
	}
}

func (ur *UserRole) ID() uint {
	return ur.id
}

func (ur *UserRole) SetID(id uint) {
	ur.id = id
}

func (ur *UserRole) UserID() uint {
	return ur.userID
}

func (ur *UserRole) RoleID() uint {
	return ur.roleID
}

func (ur *UserRole) AssignedBy() uint {
	return ur.assignedBy
}

func (ur *UserRole) AssignedAt() time.Time {
	return ur.assignedAt
}

func (ur *UserRole) ExpiresAt() *time.Time {
	return ur.expiresAt
}

func (ur *UserRole) IsExpiredAt(now time.Time) bool {
	return shared.IsExpiredAt(ur.expiresAt, now)
}

// IsEffectiveAt reports whether the assignment is active and not expired.
func (ur *UserRole) IsEffectiveAt(now time.Time) bool {
	return ur.IsActive() && !ur.IsExpiredAt(now)
}
