package permission

import (
	"fmt"
	"time"
)

// RolePermission grants a permission to a role, optionally narrowed by its
// own conditions.
type RolePermission struct {
	Lifecycle
	id           uint
	roleID       uint
	permissionID uint
	conditions   Conditions
	grantedBy    uint
	grantedAt    time.Time
}

func NewRolePermission(roleID, permissionID uint, conditions Conditions, grantedBy uint, grantedAt time.Time) (*RolePermission, error) {
	if roleID == 0 {
		return nil, fmt.Errorf("role ID is required")
	}
	if permissionID == 0 {
		return nil, fmt.Errorf("permission ID is required")
	}

	return &RolePermission{
		Lifecycle:    newActiveLifecycle(),
		roleID:       roleID,
		permissionID: permissionID,
		conditions:   conditions.Clone(),
		grantedBy:    grantedBy,
		grantedAt:    grantedAt,
	}, nil
}

func ReconstructRolePermission(id, roleID, permissionID uint, conditions Conditions, grantedBy uint, grantedAt time.Time, lifecycle Lifecycle) *RolePermission {
	return &RolePermission{
		Lifecycle:    lifecycle,
		id:           id,
		roleID:       roleID,
		permissionID: permissionID,
		conditions:   conditions.Clone(),
		grantedBy:    grantedBy,
		grantedAt:    grantedAt,
	}
}

func (rp *RolePermission) ID() uint {
	return rp.id
}

func (rp *RolePermission) SetID(id uint) {
	rp.id = id
}

func (rp *RolePermission) RoleID() uint {
	return rp.roleID
}

func (rp *RolePermission) PermissionID() uint {
	return rp.permissionID
}

func (rp *RolePermission) Conditions() Conditions {
	return rp.conditions
}

func (rp *RolePermission) GrantedBy() uint {
	return rp.grantedBy
}

func (rp *RolePermission) GrantedAt() time.Time {
	return rp.grantedAt
}
