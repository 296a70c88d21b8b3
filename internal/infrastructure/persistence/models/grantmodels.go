package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/tillgate/tillgate/internal/shared/constants"
)

// Grant tables keep every historical row, so the (owner, target) pair is
// indexed but not unique. At most one row per pair has is_active set.

type RolePermissionModel struct {
	ID            uint `gorm:"primarykey"`
	RoleID        uint `gorm:"not null;index:idx_role_permission_active"`
	PermissionID  uint `gorm:"not null;index:idx_role_permission_active"`
	IsActive      bool `gorm:"not null;index:idx_role_permission_active"`
	Conditions    datatypes.JSONMap
	GrantedBy     uint
	GrantedAt     time.Time `gorm:"not null"`
	DeactivatedBy *uint
	DeactivatedAt *time.Time
}

func (RolePermissionModel) TableName() string {
	return constants.TableRolePermissions
}

type UserRoleModel struct {
	ID            uint `gorm:"primarykey"`
	UserID        uint `gorm:"not null;index:idx_user_role_active"`
	RoleID        uint `gorm:"not null;index:idx_user_role_active"`
	IsActive      bool `gorm:"not null;index:idx_user_role_active"`
	AssignedBy    uint
	AssignedAt    time.Time `gorm:"not null"`
	ExpiresAt     *time.Time
	DeactivatedBy *uint
	DeactivatedAt *time.Time
}

func (UserRoleModel) TableName() string {
	return constants.TableUserRoles
}

type UserPermissionModel struct {
	ID            uint   `gorm:"primarykey"`
	UserID        uint   `gorm:"not null;index:idx_user_permission_active"`
	PermissionID  uint   `gorm:"not null;index:idx_user_permission_active"`
	IsActive      bool   `gorm:"not null;index:idx_user_permission_active"`
	GrantType     string `gorm:"not null;size:10"`
	Conditions    datatypes.JSONMap
	GrantedBy     uint
	GrantedAt     time.Time `gorm:"not null"`
	ExpiresAt     *time.Time
	DeactivatedBy *uint
	DeactivatedAt *time.Time
}

func (UserPermissionModel) TableName() string {
	return constants.TableUserPermissions
}
