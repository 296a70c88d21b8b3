package permission

import (
	"context"
	"fmt"
	"sort"

	"github.com/tillgate/tillgate/internal/application/permission/dto"
	"github.com/tillgate/tillgate/internal/domain/permission"
	vo "github.com/tillgate/tillgate/internal/domain/permission/value_objects"
	apperrors "github.com/tillgate/tillgate/internal/shared/errors"
	"github.com/tillgate/tillgate/internal/shared/utils"
)

func (s *Service) CreatePermission(ctx context.Context, req dto.CreatePermissionRequest, actorID uint) (*dto.PermissionDTO, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	resource, err := vo.NewResource(req.Resource)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	action, err := vo.NewAction(req.Action)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	perm, err := permission.NewPermission(req.Name, resource, action, req.Scope,
		permission.Conditions(req.Conditions), s.sanitizer.Clean(req.Description))
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.permissions.GetByName(txCtx, perm.Name())
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewConflictError("permission name already exists", perm.Name())
		}

		sameCode, err := s.permissions.GetByCode(txCtx, resource.String(), action.String())
		if err != nil {
			return err
		}
		if sameCode != nil && sameCode.Scope() == perm.Scope() {
			return apperrors.NewConflictError("permission already exists", perm.Code())
		}

		if err := s.permissions.Create(txCtx, perm); err != nil {
			if apperrors.IsDuplicateError(err) {
				return apperrors.NewConflictError("permission name already exists", perm.Name())
			}
			return err
		}
		return s.record(txCtx, AuditActionCreatePermission, AuditResourcePermissions, perm.ID(), nil, permissionSnapshot(perm))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("permission created", "permission_id", perm.ID(), "code", perm.Code(), "actor_id", actorID)
	return toPermissionDTO(perm), nil
}

// DeactivatePermission soft-deletes a catalog entry. Grants that reference it
// are kept but no longer match.
func (s *Service) DeactivatePermission(ctx context.Context, permissionID, actorID uint) error {
	err := s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		perm, err := s.permissions.GetByID(txCtx, permissionID)
		if err != nil {
			return err
		}
		if perm == nil {
			return apperrors.NewNotFoundError("permission not found")
		}
		before := permissionSnapshot(perm)

		if err := perm.Deactivate(); err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if err := s.permissions.Update(txCtx, perm); err != nil {
			return err
		}
		return s.record(txCtx, AuditActionDeactivatePermission, AuditResourcePermissions, perm.ID(), before, permissionSnapshot(perm))
	})
	if err != nil {
		return err
	}

	s.logger.Infow("permission deactivated", "permission_id", permissionID, "actor_id", actorID)
	return nil
}

// ListPermissions returns the active catalog grouped by resource, resources
// and actions in ascending order.
func (s *Service) ListPermissions(ctx context.Context) ([]*dto.PermissionGroupDTO, error) {
	perms, _, err := s.permissions.List(ctx, permission.PermissionFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	sort.SliceStable(perms, func(i, j int) bool {
		if perms[i].Resource() != perms[j].Resource() {
			return perms[i].Resource() < perms[j].Resource()
		}
		return perms[i].Action() < perms[j].Action()
	})

	groups := make([]*dto.PermissionGroupDTO, 0)
	var current *dto.PermissionGroupDTO
	for _, p := range perms {
		if current == nil || current.Resource != p.Resource().String() {
			current = &dto.PermissionGroupDTO{Resource: p.Resource().String()}
			groups = append(groups, current)
		}
		current.Permissions = append(current.Permissions, toPermissionDTO(p))
	}
	return groups, nil
}

func (s *Service) GetPermission(ctx context.Context, permissionID uint) (*dto.PermissionDTO, error) {
	perm, err := s.permissions.GetByID(ctx, permissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	if perm == nil {
		return nil, apperrors.NewNotFoundError("permission not found")
	}
	return toPermissionDTO(perm), nil
}

// activePermission loads a permission that may be granted.
func (s *Service) activePermission(ctx context.Context, permissionID uint) (*permission.Permission, error) {
	perm, err := s.permissions.GetByID(ctx, permissionID)
	if err != nil {
		return nil, err
	}
	if perm == nil {
		return nil, apperrors.NewNotFoundError("permission not found")
	}
	if !perm.IsActive() {
		return nil, apperrors.NewValidationError("permission is inactive", perm.Code())
	}
	return perm, nil
}
