// Package permission implements the administrative side of access control:
// maintaining roles and the permission catalog, and granting, assigning and
// revoking access. Every mutation runs in one transaction together with its
// audit entry.
package permission

import (
	"context"
	"time"

	appAudit "github.com/tillgate/tillgate/internal/application/audit"
	domainAudit "github.com/tillgate/tillgate/internal/domain/audit"
	"github.com/tillgate/tillgate/internal/domain/permission"
	domainUser "github.com/tillgate/tillgate/internal/domain/user"
	"github.com/tillgate/tillgate/internal/shared/biztime"
	"github.com/tillgate/tillgate/internal/shared/logger"
	"github.com/tillgate/tillgate/internal/shared/services/sanitize"
)

// Audit actions written by administrative operations.
const (
	AuditActionCreateRole           = "create_role"
	AuditActionUpdateRole           = "update_role"
	AuditActionDeactivateRole       = "deactivate_role"
	AuditActionActivateRole         = "activate_role"
	AuditActionCreatePermission     = "create_permission"
	AuditActionDeactivatePermission = "deactivate_permission"
	AuditActionGrantRolePermission  = "grant_role_permission"
	AuditActionRevokeRolePermission = "revoke_role_permission"
	AuditActionAssignRole           = "assign_role"
	AuditActionRevokeRole           = "revoke_role"
	AuditActionGrantUserPermission  = "grant_user_permission"
	AuditActionRevokeUserPermission = "revoke_user_permission"
	AuditActionSetUserStatus        = "set_user_status"
)

// Audit resources written by administrative operations.
const (
	AuditResourceRoles           = "roles"
	AuditResourcePermissions     = "permissions"
	AuditResourceRolePermissions = "role_permissions"
	AuditResourceUserRoles       = "user_roles"
	AuditResourceUserPermissions = "user_permissions"
	AuditResourceUsers           = "users"
)

// TxRunner runs fn inside a transaction carried by the context.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditWriter is the strict half of the audit service: a failed append
// aborts the surrounding transaction.
type AuditWriter interface {
	MutationEntry(ctx context.Context, m appAudit.Mutation) *domainAudit.Entry
	Append(ctx context.Context, entry *domainAudit.Entry) error
}

type Repositories struct {
	Users           domainUser.Repository
	Roles           permission.RoleRepository
	Permissions     permission.PermissionRepository
	RolePermissions permission.RolePermissionRepository
	UserRoles       permission.UserRoleRepository
	UserPermissions permission.UserPermissionRepository
	Access          permission.AccessLoader
}

type Service struct {
	users           domainUser.Repository
	roles           permission.RoleRepository
	permissions     permission.PermissionRepository
	rolePermissions permission.RolePermissionRepository
	userRoles       permission.UserRoleRepository
	userPermissions permission.UserPermissionRepository
	access          permission.AccessLoader
	txMgr           TxRunner
	audit           AuditWriter
	sanitizer       sanitize.TextSanitizer
	logger          logger.Interface
	now             func() time.Time
}

func NewService(
	repos Repositories,
	txMgr TxRunner,
	audit AuditWriter,
	sanitizer sanitize.TextSanitizer,
	logger logger.Interface,
) *Service {
	return &Service{
		users:           repos.Users,
		roles:           repos.Roles,
		permissions:     repos.Permissions,
		rolePermissions: repos.RolePermissions,
		userRoles:       repos.UserRoles,
		userPermissions: repos.UserPermissions,
		access:          repos.Access,
		txMgr:           txMgr,
		audit:           audit,
		sanitizer:       sanitizer,
		logger:          logger,
		now:             biztime.NowUTC,
	}
}

// SetClock replaces the time source used for grant timestamps.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// record appends a successful mutation entry inside the caller's transaction.
func (s *Service) record(ctx context.Context, action, resource string, resourceID uint, oldValues, newValues map[string]any) error {
	id := uintString(resourceID)
	entry := s.audit.MutationEntry(ctx, appAudit.Mutation{
		Action:     action,
		Resource:   resource,
		ResourceID: &id,
		OldValues:  oldValues,
		NewValues:  newValues,
		Success:    true,
	})
	return s.audit.Append(ctx, entry)
}
