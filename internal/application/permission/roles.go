package permission

import (
	"context"
	"errors"
	"fmt"

	"github.com/tillgate/tillgate/internal/application/permission/dto"
	"github.com/tillgate/tillgate/internal/domain/permission"
	apperrors "github.com/tillgate/tillgate/internal/shared/errors"
	"github.com/tillgate/tillgate/internal/shared/utils"
)

func (s *Service) CreateRole(ctx context.Context, req dto.CreateRoleRequest, actorID uint) (*dto.RoleDTO, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	role, err := permission.NewRole(req.Name, s.sanitizer.Clean(req.Description), req.Level, req.IsSuperAdmin)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.roles.GetByName(txCtx, role.Name())
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewConflictError("role name already exists", role.Name())
		}

		if err := s.roles.Create(txCtx, role); err != nil {
			if apperrors.IsDuplicateError(err) {
				return apperrors.NewConflictError("role name already exists", role.Name())
			}
			return err
		}

		return s.record(txCtx, AuditActionCreateRole, AuditResourceRoles, role.ID(), nil, roleSnapshot(role))
	})
	if err != nil {
		s.logger.Warnw("failed to create role", "name", req.Name, "actor_id", actorID, "error", err)
		return nil, err
	}

	s.logger.Infow("role created", "role_id", role.ID(), "name", role.Name(), "level", role.Level(), "actor_id", actorID)
	return toRoleDTO(role), nil
}

func (s *Service) UpdateRole(ctx context.Context, roleID uint, req dto.UpdateRoleRequest, actorID uint) (*dto.RoleDTO, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var role *permission.Role
	err := s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		role, err = s.lockRole(txCtx, roleID)
		if err != nil {
			return err
		}
		before := roleSnapshot(role)

		if req.Name != nil && *req.Name != role.Name() {
			other, err := s.roles.GetByName(txCtx, *req.Name)
			if err != nil {
				return err
			}
			if other != nil {
				return apperrors.NewConflictError("role name already exists", *req.Name)
			}
			if err := role.UpdateName(*req.Name); err != nil {
				return apperrors.NewValidationError(err.Error())
			}
		}
		if req.Description != nil {
			role.UpdateDescription(s.sanitizer.Clean(*req.Description))
		}
		if req.Level != nil {
			if err := role.UpdateLevel(*req.Level); err != nil {
				return apperrors.NewValidationError(err.Error())
			}
		}

		if err := s.roles.Update(txCtx, role); err != nil {
			return err
		}
		return s.record(txCtx, AuditActionUpdateRole, AuditResourceRoles, role.ID(), before, roleSnapshot(role))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("role updated", "role_id", roleID, "actor_id", actorID)
	return toRoleDTO(role), nil
}

// DeactivateRole soft-deletes a role. Its assignments and grants stay in
// storage but stop contributing to decisions.
func (s *Service) DeactivateRole(ctx context.Context, roleID, actorID uint) error {
	return s.setRoleActive(ctx, roleID, false, actorID)
}

func (s *Service) ActivateRole(ctx context.Context, roleID, actorID uint) error {
	return s.setRoleActive(ctx, roleID, true, actorID)
}

func (s *Service) setRoleActive(ctx context.Context, roleID uint, active bool, actorID uint) error {
	action := AuditActionDeactivateRole
	if active {
		action = AuditActionActivateRole
	}

	err := s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		role, err := s.lockRole(txCtx, roleID)
		if err != nil {
			return err
		}
		before := roleSnapshot(role)

		if active {
			err = role.Activate()
		} else {
			err = role.Deactivate()
		}
		if err != nil {
			return apperrors.NewConflictError(err.Error())
		}

		if err := s.roles.Update(txCtx, role); err != nil {
			return err
		}
		return s.record(txCtx, action, AuditResourceRoles, role.ID(), before, roleSnapshot(role))
	})
	if err != nil {
		return err
	}

	s.logger.Infow("role status changed", "role_id", roleID, "active", active, "actor_id", actorID)
	return nil
}

func (s *Service) GetRole(ctx context.Context, roleID uint) (*dto.RoleDTO, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, apperrors.NewNotFoundError("role not found")
	}
	return toRoleDTO(role), nil
}

func (s *Service) ListRoles(ctx context.Context, req dto.ListRolesRequest) (*dto.ListRolesResponse, error) {
	roles, total, err := s.roles.List(ctx, permission.RoleFilter{
		Name:       req.Name,
		ActiveOnly: req.ActiveOnly,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	out := make([]*dto.RoleDTO, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleDTO(r))
	}
	return &dto.ListRolesResponse{Roles: out, Total: total}, nil
}

// lockRole takes the row lock and then reads the role inside the same transaction.
func (s *Service) lockRole(ctx context.Context, roleID uint) (*permission.Role, error) {
	if err := s.roles.LockByID(ctx, roleID); err != nil {
		if errors.Is(err, permission.ErrRoleNotFound) {
			return nil, apperrors.NewNotFoundError("role not found")
		}
		return nil, err
	}
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperrors.NewNotFoundError("role not found")
	}
	return role, nil
}
