package dto

import (
	"time"
)

type RoleDTO struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Level        int       `json:"level"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PermissionDTO struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Resource    string         `json:"resource"`
	Action      string         `json:"action"`
	Code        string         `json:"code"`
	Scope       string         `json:"scope,omitempty"`
	Conditions  map[string]any `json:"conditions,omitempty"`
	Description string         `json:"description,omitempty"`
	IsActive    bool           `json:"is_active"`
}

// PermissionGroupDTO is one resource bucket of the catalog listing.
type PermissionGroupDTO struct {
	Resource    string           `json:"resource"`
	Permissions []*PermissionDTO `json:"permissions"`
}

type RolePermissionDTO struct {
	ID           uint           `json:"id"`
	RoleID       uint           `json:"role_id"`
	PermissionID uint           `json:"permission_id"`
	Conditions   map[string]any `json:"conditions,omitempty"`
	GrantedBy    uint           `json:"granted_by"`
	GrantedAt    time.Time      `json:"granted_at"`
}

type UserRoleDTO struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	RoleID     uint       `json:"role_id"`
	RoleName   string     `json:"role_name,omitempty"`
	RoleLevel  int        `json:"role_level"`
	AssignedBy uint       `json:"assigned_by"`
	AssignedAt time.Time  `json:"assigned_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Expired    bool       `json:"expired"`
}

type UserPermissionDTO struct {
	ID           uint           `json:"id"`
	UserID       uint           `json:"user_id"`
	PermissionID uint           `json:"permission_id"`
	Name         string         `json:"name,omitempty"`
	Resource     string         `json:"resource,omitempty"`
	Action       string         `json:"action,omitempty"`
	Source       string         `json:"source"`
	GrantType    string         `json:"grant_type"`
	Conditions   map[string]any `json:"conditions,omitempty"`
	GrantedBy    uint           `json:"granted_by"`
	GrantedAt    time.Time      `json:"granted_at"`
	ExpiresAt    *time.Time     `json:"expires_at,omitempty"`
	Expired      bool           `json:"expired"`
}

// RoleSourcedPermissionDTO is a permission the user holds through a role.
type RoleSourcedPermissionDTO struct {
	ID         uint           `json:"id"`
	Name       string         `json:"name"`
	Resource   string         `json:"resource"`
	Action     string         `json:"action"`
	Source     string         `json:"source"`
	RoleID     uint           `json:"role_id"`
	RoleName   string         `json:"role_name"`
	Conditions map[string]any `json:"conditions,omitempty"`
}

type UserSummaryDTO struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type UserAccessDetailDTO struct {
	User              UserSummaryDTO              `json:"user"`
	RoleLevel         int                         `json:"role_level"`
	Roles             []*UserRoleDTO              `json:"roles"`
	RolePermissions   []*RoleSourcedPermissionDTO `json:"role_permissions"`
	DirectPermissions []*UserPermissionDTO        `json:"direct_permissions"`
}

type CreateRoleRequest struct {
	Name         string `json:"name" binding:"required" validate:"required,identifier,max=50"`
	Description  string `json:"description" validate:"max=500"`
	Level        int    `json:"level" validate:"gte=0,lte=1000"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name" validate:"omitempty,identifier,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Level       *int    `json:"level" validate:"omitempty,gte=0,lte=1000"`
}

type CreatePermissionRequest struct {
	Name        string         `json:"name" validate:"omitempty,max=100"`
	Resource    string         `json:"resource" binding:"required" validate:"required,identifier,max=50"`
	Action      string         `json:"action" binding:"required" validate:"required,identifier,max=50"`
	Scope       string         `json:"scope" validate:"max=50"`
	Conditions  map[string]any `json:"conditions"`
	Description string         `json:"description" validate:"max=500"`
}

type GrantRolePermissionRequest struct {
	Conditions map[string]any `json:"conditions"`
}

type AssignRoleRequest struct {
	ExpiresAt *time.Time `json:"expires_at"`
}

type GrantUserPermissionRequest struct {
	UserID       uint           `json:"user_id" binding:"required" validate:"required,gt=0"`
	PermissionID uint           `json:"permission_id" binding:"required" validate:"required,gt=0"`
	GrantType    string         `json:"grant_type" validate:"omitempty,oneof=grant deny"`
	ExpiresAt    *time.Time     `json:"expires_at"`
	Conditions   map[string]any `json:"conditions"`
}

type RevokeUserPermissionRequest struct {
	UserID       uint `json:"user_id" binding:"required" validate:"required,gt=0"`
	PermissionID uint `json:"permission_id" binding:"required" validate:"required,gt=0"`
}

type SetUserStatusRequest struct {
	Active *bool `json:"active" binding:"required" validate:"required"`
}

type ListRolesRequest struct {
	Name       string
	ActiveOnly bool
	Page       int
	PageSize   int
}

type ListRolesResponse struct {
	Roles []*RoleDTO `json:"roles"`
	Total int64      `json:"total"`
}
