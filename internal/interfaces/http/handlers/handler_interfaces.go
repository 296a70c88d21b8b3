package handlers

import (
	"context"
	"time"

	"github.com/tillgate/tillgate/internal/application/auth"
	"github.com/tillgate/tillgate/internal/application/authorization"
	"github.com/tillgate/tillgate/internal/application/permission/dto"
	domainAudit "github.com/tillgate/tillgate/internal/domain/audit"
)

// Service interfaces consumed by the handlers - enables unit testing with mocks.

type loginService interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
}

type accessReader interface {
	Decide(ctx context.Context, userID uint, resource, action string, reqCtx map[string]any) authorization.Decision
	GetUserPermissions(ctx context.Context, userID uint) []string
	GetUserRoleLevel(ctx context.Context, userID uint) int
}

type roleService interface {
	CreateRole(ctx context.Context, req dto.CreateRoleRequest, actorID uint) (*dto.RoleDTO, error)
	UpdateRole(ctx context.Context, roleID uint, req dto.UpdateRoleRequest, actorID uint) (*dto.RoleDTO, error)
	DeactivateRole(ctx context.Context, roleID, actorID uint) error
	ActivateRole(ctx context.Context, roleID, actorID uint) error
	GetRole(ctx context.Context, roleID uint) (*dto.RoleDTO, error)
	ListRoles(ctx context.Context, req dto.ListRolesRequest) (*dto.ListRolesResponse, error)
	GrantRolePermission(ctx context.Context, roleID, permissionID uint, conditions map[string]any, grantedBy uint) (*dto.RolePermissionDTO, error)
	RevokeRolePermission(ctx context.Context, roleID, permissionID, revokedBy uint) error
	ListRolePermissions(ctx context.Context, roleID uint) ([]*dto.PermissionDTO, error)
}

type permissionService interface {
	CreatePermission(ctx context.Context, req dto.CreatePermissionRequest, actorID uint) (*dto.PermissionDTO, error)
	DeactivatePermission(ctx context.Context, permissionID, actorID uint) error
	ListPermissions(ctx context.Context) ([]*dto.PermissionGroupDTO, error)
	GetUserAccessDetail(ctx context.Context, userID uint) (*dto.UserAccessDetailDTO, error)
	GrantUserPermission(ctx context.Context, req dto.GrantUserPermissionRequest, grantedBy uint) (*dto.UserPermissionDTO, error)
	RevokeUserPermission(ctx context.Context, req dto.RevokeUserPermissionRequest, revokedBy uint) error
}

type userAccessService interface {
	AssignRole(ctx context.Context, userID, roleID uint, expiresAt *time.Time, assignedBy uint) (*dto.UserRoleDTO, error)
	RevokeRole(ctx context.Context, userID, roleID, revokedBy uint) error
	SetUserActive(ctx context.Context, userID uint, active bool, actorID uint) error
}

type auditReader interface {
	List(ctx context.Context, filter domainAudit.Filter) ([]*domainAudit.Entry, int64, error)
}
