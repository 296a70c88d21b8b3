package permission

import (
	"context"
	"errors"
	"fmt"

	"github.com/tillgate/tillgate/internal/application/permission/dto"
	domainUser "github.com/tillgate/tillgate/internal/domain/user"
	apperrors "github.com/tillgate/tillgate/internal/shared/errors"
)

// GetUserAccessDetail lists what a user holds and where it comes from: active
// role assignments with the permissions they carry, and active direct entries.
// Expired rows are included and flagged so administrators can clean them up.
func (s *Service) GetUserAccessDetail(ctx context.Context, userID uint) (*dto.UserAccessDetailDTO, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}

	access, err := s.access.LoadUserAccess(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to load user access: %w", err)
	}
	access.SortDirectNewestFirst()

	now := s.now()
	detail := &dto.UserAccessDetailDTO{
		User: dto.UserSummaryDTO{
			ID:       u.ID(),
			Email:    u.Email().String(),
			Name:     u.Name().String(),
			IsActive: u.IsActive(),
		},
		Roles:             make([]*dto.UserRoleDTO, 0, len(access.Roles)),
		RolePermissions:   make([]*dto.RoleSourcedPermissionDTO, 0),
		DirectPermissions: make([]*dto.UserPermissionDTO, 0, len(access.Direct)),
	}

	for _, ra := range access.Roles {
		detail.Roles = append(detail.Roles, toUserRoleDTO(ra.Assignment, ra.Role, now))
		if ra.Role == nil || !ra.Role.IsActive() || !ra.Assignment.IsEffectiveAt(now) {
			continue
		}
		if ra.Role.Level() > detail.RoleLevel {
			detail.RoleLevel = ra.Role.Level()
		}
		for _, g := range ra.Grants {
			if g.Permission == nil || !g.Permission.IsActive() {
				continue
			}
			detail.RolePermissions = append(detail.RolePermissions, &dto.RoleSourcedPermissionDTO{
				ID:         g.Permission.ID(),
				Name:       g.Permission.Name(),
				Resource:   g.Permission.Resource().String(),
				Action:     g.Permission.Action().String(),
				Source:     "role",
				RoleID:     ra.Role.ID(),
				RoleName:   ra.Role.Name(),
				Conditions: g.Grant.Conditions().Clone(),
			})
		}
	}

	for _, d := range access.Direct {
		detail.DirectPermissions = append(detail.DirectPermissions, toUserPermissionDTO(d.Grant, d.Permission, now))
	}

	return detail, nil
}

// SetUserActive toggles the account flag. Deactivated users are denied by
// every decision regardless of their grants. Setting the current value is a no-op.
func (s *Service) SetUserActive(ctx context.Context, userID uint, active bool, actorID uint) error {
	if userID == actorID && !active {
		return apperrors.NewValidationError("cannot deactivate your own account")
	}

	changed := false
	err := s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.lockUser(txCtx, userID); err != nil {
			return err
		}
		u, err := s.users.GetByID(txCtx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return apperrors.NewNotFoundError("user not found")
		}

		before := map[string]any{"id": u.ID(), "is_active": u.IsActive()}
		if !u.SetActive(active) {
			return nil
		}
		changed = true

		if err := s.users.Update(txCtx, u); err != nil {
			return err
		}
		return s.record(txCtx, AuditActionSetUserStatus, AuditResourceUsers, u.ID(), before,
			map[string]any{"id": u.ID(), "is_active": u.IsActive()})
	})
	if err != nil {
		return err
	}

	if changed {
		s.logger.Infow("user status changed", "user_id", userID, "active", active, "actor_id", actorID)
	}
	return nil
}
