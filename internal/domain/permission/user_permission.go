package permission

import (
	"fmt"
	"time"

	vo "github.com/tillgate/tillgate/internal/domain/permission/value_objects"
	"github.com/tillgate/tillgate/internal/domain/shared"
)

// UserPermission is a direct per-user override: a grant or a deny on one
// permission, independent of role membership.
type UserPermission struct {
	Lifecycle
	id           uint
	userID       uint
	permissionID uint
	grantType    vo.GrantType
	conditions   Conditions
	grantedBy    uint
	grantedAt    time.Time
	expiresAt    *time.Time
}

func NewUserPermission(userID, permissionID uint, grantType vo.GrantType, expiresAt *time.Time, conditions Conditions, grantedBy uint, grantedAt time.Time) (*UserPermission, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if permissionID == 0 {
		return nil, fmt.Errorf("permission ID is required")
	}
	if !grantType.IsGrant() && !grantType.IsDeny() {
		return nil, fmt.Errorf("invalid grant type: %s", grantType)
	}
	if expiresAt != nil && !expiresAt.After(grantedAt) {
		return nil, fmt.Errorf("expiration must be in the future")
	}

	return &UserPermission{
		Lifecycle:    newActiveLifecycle(),
		userID:       userID,
		permissionID: permissionID,
		grantType:    grantType,
		conditions:   conditions.Clone(),
		grantedBy:    grantedBy,
		grantedAt:    grantedAt,
		expiresAt:    expiresAt,
	}, nil
}

func ReconstructUserPermission(id, userID, permissionID uint, grantType vo.GrantType, conditions Conditions, grantedBy uint, grantedAt time.Time, expiresAt *time.Time, lifecycle Lifecycle) *UserPermission {
	return &UserPermission{
		Lifecycle:    lifecycle,
		id:           id,
		userID:       userID,
		permissionID: permissionID,
		grantType:    grantType,
		conditions:   conditions.Clone(),
		grantedBy:    grantedBy,
		grantedAt:    grantedAt,
		expiresAt:    expiresAt,
	}
}

func (up *UserPermission) ID() uint {
	return up.id
}

func (up *UserPermission) SetID(id uint) {
	up.id = id
}

func (up *UserPermission) UserID() uint {
	return up.userID
}

func (up *UserPermission) PermissionID() uint {
	return up.permissionID
}

func (up *UserPermission) GrantType() vo.GrantType {
	return up.grantType
}

func (up *UserPermission) Conditions() Conditions {
	return up.conditions
}

func (up *UserPermission) GrantedBy() uint {
	return up.grantedBy
}

func (up *UserPermission) GrantedAt() time.Time {
	return up.grantedAt
}

func (up *UserPermission) ExpiresAt() *time.Time {
	return up.expiresAt
}

func (up *UserPermission) IsExpiredAt(now time.Time) bool {
	return shared.IsExpiredAt(up.expiresAt, now)
}
