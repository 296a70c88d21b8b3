package handlers

import (
	"context"
	"time"

	"github.com/tillgate/tillgate/internal/application/auth"
	"github.com/tillgate/tillgate/internal/application/authorization"
	"github.com/tillgate/tillgate/internal/application/permission/dto"
	domainAudit "github.com/tillgate/tillgate/internal/domain/audit"
)

// =====================================================================
// Mock services
// =====================================================================

type mockLoginService struct {
	result *auth.LoginResponse
	err    error
	got    auth.LoginRequest
}

func (m *mockLoginService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	m.got = req
	return m.result, m.err
}

type mockAccess struct {
	decision    authorization.Decision
	permissions []string
	level       int

	decidedUser uint
	decidedRes  string
	decidedAct  string
	decidedCtx  map[string]any
}

func (m *mockAccess) Decide(ctx context.Context, userID uint, resource, action string, reqCtx map[string]any) authorization.Decision {
	m.decidedUser, m.decidedRes, m.decidedAct, m.decidedCtx = userID, resource, action, reqCtx
	return m.decision
}

func (m *mockAccess) GetUserPermissions(ctx context.Context, userID uint) []string {
	return m.permissions
}

func (m *mockAccess) GetUserRoleLevel(ctx context.Context, userID uint) int {
	return m.level
}

type mockRoleService struct {
	CreateRoleFunc           func(ctx context.Context, req dto.CreateRoleRequest, actorID uint) (*dto.RoleDTO, error)
	UpdateRoleFunc           func(ctx context.Context, roleID uint, req dto.UpdateRoleRequest, actorID uint) (*dto.RoleDTO, error)
	SetActiveFunc            func(ctx context.Context, roleID uint, active bool, actorID uint) error
	GetRoleFunc              func(ctx context.Context, roleID uint) (*dto.RoleDTO, error)
	ListRolesFunc            func(ctx context.Context, req dto.ListRolesRequest) (*dto.ListRolesResponse, error)
	GrantRolePermissionFunc  func(ctx context.Context, roleID, permissionID uint, conditions map[string]any, grantedBy uint) (*dto.RolePermissionDTO, error)
	RevokeRolePermissionFunc func(ctx context.Context, roleID, permissionID, revokedBy uint) error
	ListRolePermissionsFunc  func(ctx context.Context, roleID uint) ([]*dto.PermissionDTO, error)
}

func (m *mockRoleService) CreateRole(ctx context.Context, req dto.CreateRoleRequest, actorID uint) (*dto.RoleDTO, error) {
	return m.CreateRoleFunc(ctx, req, actorID)
}

func (m *mockRoleService) UpdateRole(ctx context.Context, roleID uint, req dto.UpdateRoleRequest, actorID uint) (*dto.RoleDTO, error) {
	return m.UpdateRoleFunc(ctx, roleID, req, actorID)
}

func (m *mockRoleService) DeactivateRole(ctx context.Context, roleID, actorID uint) error {
	return m.SetActiveFunc(ctx, roleID, false, actorID)
}

func (m *mockRoleService) ActivateRole(ctx context.Context, roleID, actorID uint) error {
	return m.SetActiveFunc(ctx, roleID, true, actorID)
}

func (m *mockRoleService) GetRole(ctx context.Context, roleID uint) (*dto.RoleDTO, error) {
	return m.GetRoleFunc(ctx, roleID)
}

func (m *mockRoleService) ListRoles(ctx context.Context, req dto.ListRolesRequest) (*dto.ListRolesResponse, error) {
	return m.ListRolesFunc(ctx, req)
}

func (m *mockRoleService) GrantRolePermission(ctx context.Context, roleID, permissionID uint, conditions map[string]any, grantedBy uint) (*dto.RolePermissionDTO, error) {
	return m.GrantRolePermissionFunc(ctx, roleID, permissionID, conditions, grantedBy)
}

func (m *mockRoleService) RevokeRolePermission(ctx context.Context, roleID, permissionID, revokedBy uint) error {
	return m.RevokeRolePermissionFunc(ctx, roleID, permissionID, revokedBy)
}

func (m *mockRoleService) ListRolePermissions(ctx context.Context, roleID uint) ([]*dto.PermissionDTO, error) {
	return m.ListRolePermissionsFunc(ctx, roleID)
}

type mockPermissionService struct {
	CreatePermissionFunc     func(ctx context.Context, req dto.CreatePermissionRequest, actorID uint) (*dto.PermissionDTO, error)
	DeactivatePermissionFunc func(ctx context.Context, permissionID, actorID uint) error
	ListPermissionsFunc      func(ctx context.Context) ([]*dto.PermissionGroupDTO, error)
	GetUserAccessDetailFunc  func(ctx context.Context, userID uint) (*dto.UserAccessDetailDTO, error)
	GrantUserPermissionFunc  func(ctx context.Context, req dto.GrantUserPermissionRequest, grantedBy uint) (*dto.UserPermissionDTO, error)
	RevokeUserPermissionFunc func(ctx context.Context, req dto.RevokeUserPermissionRequest, revokedBy uint) error
}

func (m *mockPermissionService) CreatePermission(ctx context.Context, req dto.CreatePermissionRequest, actorID uint) (*dto.PermissionDTO, error) {
	return m.CreatePermissionFunc(ctx, req, actorID)
}

func (m *mockPermissionService) DeactivatePermission(ctx context.Context, permissionID, actorID uint) error {
	return m.DeactivatePermissionFunc(ctx, permissionID, actorID)
}

func (m *mockPermissionService) ListPermissions(ctx context.Context) ([]*dto.PermissionGroupDTO, error) {
	return m.ListPermissionsFunc(ctx)
}

func (m *mockPermissionService) GetUserAccessDetail(ctx context.Context, userID uint) (*dto.UserAccessDetailDTO, error) {
	return m.GetUserAccessDetailFunc(ctx, userID)
}

func (m *mockPermissionService) GrantUserPermission(ctx context.Context, req dto.GrantUserPermissionRequest, grantedBy uint) (*dto.UserPermissionDTO, error) {
	return m.GrantUserPermissionFunc(ctx, req, grantedBy)
}

func (m *mockPermissionService) RevokeUserPermission(ctx context.Context, req dto.RevokeUserPermissionRequest, revokedBy uint) error {
	return m.RevokeUserPermissionFunc(ctx, req, revokedBy)
}

type mockUserAccessService struct {
	AssignRoleFunc    func(ctx context.Context, userID, roleID uint, expiresAt *time.Time, assignedBy uint) (*dto.UserRoleDTO, error)
	RevokeRoleFunc    func(ctx context.Context, userID, roleID, revokedBy uint) error
	SetUserActiveFunc func(ctx context.Context, userID uint, active bool, actorID uint) error
}

func (m *mockUserAccessService) AssignRole(ctx context.Context, userID, roleID uint, expiresAt *time.Time, assignedBy uint) (*dto.UserRoleDTO, error) {
	return m.AssignRoleFunc(ctx, userID, roleID, expiresAt, assignedBy)
}

func (m *mockUserAccessService) RevokeRole(ctx context.Context, userID, roleID, revokedBy uint) error {
	return m.RevokeRoleFunc(ctx, userID, roleID, revokedBy)
}

func (m *mockUserAccessService) SetUserActive(ctx context.Context, userID uint, active bool, actorID uint) error {
	return m.SetUserActiveFunc(ctx, userID, active, actorID)
}

type mockAuditReader struct {
	entries []*domainAudit.Entry
	total   int64
	err     error
	got     domainAudit.Filter
}

func (m *mockAuditReader) List(ctx context.Context, filter domainAudit.Filter) ([]*domainAudit.Entry, int64, error) {
	m.got = filter
	return m.entries, m.total, m.err
}

type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error {
	return m.err
}
