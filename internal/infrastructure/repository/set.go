package repository

import (
	"gorm.io/gorm"
)

// Set bundles every repository over one connection.
type Set struct {
	Users           *UserRepository
	Roles           *RoleRepository
	Permissions     *PermissionRepository
	RolePermissions *RolePermissionRepository
	UserRoles       *UserRoleRepository
	UserPermissions *UserPermissionRepository
	Access          *AccessLoader
	Audit           *AuditRepository
}

func NewSet(db *gorm.DB) *Set {
	return &Set{
		Users:           NewUserRepository(db),
		Roles:           NewRoleRepository(db),
		Permissions:     NewPermissionRepository(db),
		RolePermissions: NewRolePermissionRepository(db),
		UserRoles:       NewUserRoleRepository(db),
		UserPermissions: NewUserPermissionRepository(db),
		Access:          NewAccessLoader(db),
		Audit:           NewAuditRepository(db),
	}
}
