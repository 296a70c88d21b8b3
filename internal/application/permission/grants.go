package permission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tillgate/tillgate/internal/application/permission/dto"
	"github.com/tillgate/tillgate/internal/domain/permission"
	vo "github.com/tillgate/tillgate/internal/domain/permission/value_objects"
	domainUser "github.com/tillgate/tillgate/internal/domain/user"
	apperrors "github.com/tillgate/tillgate/internal/shared/errors"
	"github.com/tillgate/tillgate/internal/shared/utils"
)

// Grant and assign operations replace: inside one transaction the owning row
// is locked, the current active entry for the key (if any) is deactivated and
// a fresh active row is inserted. Concurrent calls for the same key serialize
// on the lock, so at most one active row survives.

func (s *Service) GrantRolePermission(ctx context.Context, roleID, permissionID uint, conditions map[string]any, grantedBy uint) (*dto.RolePermissionDTO, error) {
	var grant *permission.RolePermission
	err := s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		role, err := s.lockRole(txCtx, roleID)
		if err != nil {
			return err
		}
		if !role.IsActive() {
			return apperrors.NewValidationError("role is inactive", role.Name())
		}
		if _, err := s.activePermission(txCtx, permissionID); err != nil {
			return err
		}

		now := s.now()
		var before map[string]any
		current, err := s.rolePermissions.FindActive(txCtx, roleID, permissionID)
		if err != nil {
			return err
		}
		if current != nil {
			if err := current.Deactivate(grantedBy, now); err != nil {
				return err
			}
			if err := s.rolePermissions.Deactivate(txCtx, current); err != nil {
				return mapDeactivateError(err)
			}
			before = rolePermissionSnapshot(current)
		}

		grant, err = permission.NewRolePermission(roleID, permissionID, permission.Conditions(conditions), grantedBy, now)
		if err != nil {
			return apperrors.NewValidationError(err.Error())
		}
		if err := s.rolePermissions.Create(txCtx, grant); err != nil {
			return err
		}
		return s.record(txCtx, AuditActionGrantRolePermission, AuditResourceRolePermissions, grant.ID(), before, rolePermissionSnapshot(grant))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("permission granted to role", "role_id", roleID, "permission_id", permissionID, "granted_by", grantedBy)
	return toRolePermissionDTO(grant), nil
}

func (s *Service) RevokeRolePermission(ctx context.Context, roleID, permissionID, revokedBy uint) error {
	err := s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.lockRole(txCtx, roleID); err != nil {
			return err
		}
		current, err := s.rolePermissions.FindActive(txCtx, roleID, permissionID)
		if err != nil {
			return err
		}
		if current == nil {
			return noActiveGrant("role permission")
		}
		before := rolePermissionSnapshot(current)
		if err := current.Deactivate(revokedBy, s.now()); err != nil {
			return err
		}
		if err := s.rolePermissions.Deactivate(txCtx, current); err != nil {
			return mapDeactivateError(err)
		}
		return s.record(txCtx, AuditActionRevokeRolePermission, AuditResourceRolePermissions, current.ID(), before, rolePermissionSnapshot(current))
	})
	if err != nil {
		return err
	}

	s.logger.Infow("permission revoked from role", "role_id", roleID, "permission_id", permissionID, "revoked_by", revokedBy)
	return nil
}

// ListRolePermissions returns the role's active grants with their catalog entries.
func (s *Service) ListRolePermissions(ctx context.Context, roleID uint) ([]*dto.PermissionDTO, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, apperrors.NewNotFoundError("role not found")
	}

	grants, err := s.rolePermissions.ListActiveByRole(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role permissions: %w", err)
	}
	ids := make([]uint, 0, len(grants))
	for _, g := range grants {
		ids = append(ids, g.PermissionID())
	}
	perms, err := s.permissions.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load permissions: %w", err)
	}

	out := make([]*dto.PermissionDTO, 0, len(perms))
	for _, p := range perms {
		out = append(out, toPermissionDTO(p))
	}
	return out, nil
}

func (s *Service) AssignRole(ctx context.Context, userID, roleID uint, expiresAt *time.Time, assignedBy uint) (*dto.UserRoleDTO, error) {
	var (
		assignment *permission.UserRole
		role       *permission.Role
	)
	err := s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.lockUser(txCtx, userID); err != nil {
			return err
		}
		var err error
		role, err = s.roles.GetByID(txCtx, roleID)
		if err != nil {
			return err
		}
		if role == nil {
			return apperrors.NewNotFoundError("role not found")
		}
		if !role.IsActive() {
			return apperrors.NewValidationError("role is inactive", role.Name())
		}

		now := s.now()
		var before map[string]any
		current, err := s.userRoles.FindActive(txCtx, userID, roleID)
		if err != nil {
			return err
		}
		if current != nil {
			if err := current.Deactivate(assignedBy, now); err != nil {
				return err
			}
			if err := s.userRoles.Deactivate(txCtx, current); err != nil {
				return mapDeactivateError(err)
			}
			before = userRoleSnapshot(current)
		}

		assignment, err = permission.NewUserRole(userID, roleID, expiresAt, assignedBy, now)
		if err != nil {
			return apperrors.NewValidationError(err.Error())
		}
		if err := s.userRoles.Create(txCtx, assignment); err != nil {
			return err
		}
		return s.record(txCtx, AuditActionAssignRole, AuditResourceUserRoles, assignment.ID(), before, userRoleSnapshot(assignment))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("role assigned", "user_id", userID, "role_id", roleID, "assigned_by", assignedBy)
	return toUserRoleDTO(assignment, role, s.now()), nil
}

func (s *Service) RevokeRole(ctx context.Context, userID, roleID, revokedBy uint) error {
	err := s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.lockUser(txCtx, userID); err != nil {
			return err
		}
		current, err := s.userRoles.FindActive(txCtx, userID, roleID)
		if err != nil {
			return err
		}
		if current == nil {
			return noActiveGrant("role assignment")
		}
		before := userRoleSnapshot(current)
		if err := current.Deactivate(revokedBy, s.now()); err != nil {
			return err
		}
		if err := s.userRoles.Deactivate(txCtx, current); err != nil {
			return mapDeactivateError(err)
		}
		return s.record(txCtx, AuditActionRevokeRole, AuditResourceUserRoles, current.ID(), before, userRoleSnapshot(current))
	})
	if err != nil {
		return err
	}

	s.logger.Infow("role revoked", "user_id", userID, "role_id", roleID, "revoked_by", revokedBy)
	return nil
}

// GrantUserPermission writes a direct grant or deny. An empty grant type means grant.
func (s *Service) GrantUserPermission(ctx context.Context, req dto.GrantUserPermissionRequest, grantedBy uint) (*dto.UserPermissionDTO, error) {
	if req.GrantType == "" {
		req.GrantType = vo.GrantTypeGrant.String()
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	grantType, err := vo.NewGrantType(req.GrantType)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	var (
		entry *permission.UserPermission
		perm  *permission.Permission
	)
	err = s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.lockUser(txCtx, req.UserID); err != nil {
			return err
		}
		var err error
		perm, err = s.activePermission(txCtx, req.PermissionID)
		if err != nil {
			return err
		}

		now := s.now()
		var before map[string]any
		current, err := s.userPermissions.FindActive(txCtx, req.UserID, req.PermissionID)
		if err != nil {
			return err
		}
		if current != nil {
			if err := current.Deactivate(grantedBy, now); err != nil {
				return err
			}
			if err := s.userPermissions.Deactivate(txCtx, current); err != nil {
				return mapDeactivateError(err)
			}
			before = userPermissionSnapshot(current)
		}

		entry, err = permission.NewUserPermission(req.UserID, req.PermissionID, grantType, req.ExpiresAt,
			permission.Conditions(req.Conditions), grantedBy, now)
		if err != nil {
			return apperrors.NewValidationError(err.Error())
		}
		if err := s.userPermissions.Create(txCtx, entry); err != nil {
			return err
		}
		return s.record(txCtx, AuditActionGrantUserPermission, AuditResourceUserPermissions, entry.ID(), before, userPermissionSnapshot(entry))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("direct permission written",
		"user_id", req.UserID,
		"permission", perm.Code(),
		"grant_type", grantType.String(),
		"granted_by", grantedBy,
	)
	return toUserPermissionDTO(entry, perm, s.now()), nil
}

func (s *Service) RevokeUserPermission(ctx context.Context, req dto.RevokeUserPermissionRequest, revokedBy uint) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	err := s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.lockUser(txCtx, req.UserID); err != nil {
			return err
		}
		current, err := s.userPermissions.FindActive(txCtx, req.UserID, req.PermissionID)
		if err != nil {
			return err
		}
		if current == nil {
			return noActiveGrant("user permission")
		}
		before := userPermissionSnapshot(current)
		if err := current.Deactivate(revokedBy, s.now()); err != nil {
			return err
		}
		if err := s.userPermissions.Deactivate(txCtx, current); err != nil {
			return mapDeactivateError(err)
		}
		return s.record(txCtx, AuditActionRevokeUserPermission, AuditResourceUserPermissions, current.ID(), before, userPermissionSnapshot(current))
	})
	if err != nil {
		return err
	}

	s.logger.Infow("direct permission revoked", "user_id", req.UserID, "permission_id", req.PermissionID, "revoked_by", revokedBy)
	return nil
}

func (s *Service) lockUser(ctx context.Context, userID uint) error {
	if err := s.users.LockByID(ctx, userID); err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return apperrors.NewNotFoundError("user not found")
		}
		return err
	}
	return nil
}

func noActiveGrant(kind string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("no active %s found", kind)).Wrap(permission.ErrNoActiveGrant)
}

// mapDeactivateError turns a lost deactivation race into a conflict.
func mapDeactivateError(err error) error {
	if errors.Is(err, permission.ErrGrantInactive) {
		return apperrors.NewConflictError("entry was changed concurrently").Wrap(err)
	}
	return err
}
