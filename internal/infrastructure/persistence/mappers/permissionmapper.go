package mappers

import (
	"fmt"

	"gorm.io/datatypes"

	"github.com/tillgate/tillgate/internal/domain/permission"
	vo "github.com/tillgate/tillgate/internal/domain/permission/value_objects"
	"github.com/tillgate/tillgate/internal/infrastructure/persistence/models"
)

func RoleToDomain(model *models.RoleModel) (*permission.Role, error) {
	if model == nil {
		return nil, nil
	}
	return permission.ReconstructRole(
		model.ID,
		model.Name,
		model.Description,
		model.Level,
		model.IsSuperAdmin,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func RoleToModel(role *permission.Role) *models.RoleModel {
	return &models.RoleModel{
		ID:           role.ID(),
		Name:         role.Name(),
		Description:  role.Description(),
		Level:        role.Level(),
		IsSuperAdmin: role.IsSuperAdmin(),
		IsActive:     role.IsActive(),
		CreatedAt:    role.CreatedAt(),
		UpdatedAt:    role.UpdatedAt(),
	}
}

func PermissionToDomain(model *models.PermissionModel) (*permission.Permission, error) {
	if model == nil {
		return nil, nil
	}
	resource, err := vo.NewResource(model.Resource)
	if err != nil {
		return nil, fmt.Errorf("invalid resource for permission %d: %w", model.ID, err)
	}
	action, err := vo.NewAction(model.Action)
	if err != nil {
		return nil, fmt.Errorf("invalid action for permission %d: %w", model.ID, err)
	}
	return permission.ReconstructPermission(
		model.ID,
		model.Name,
		resource,
		action,
		model.Scope,
		conditionsToDomain(model.Conditions),
		model.Description,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func PermissionToModel(p *permission.Permission) *models.PermissionModel {
	return &models.PermissionModel{
		ID:          p.ID(),
		Name:        p.Name(),
		Resource:    p.Resource().String(),
		Action:      p.Action().String(),
		Scope:       p.Scope(),
		Conditions:  conditionsToModel(p.Conditions()),
		Description: p.Description(),
		IsActive:    p.IsActive(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func RolePermissionToDomain(model *models.RolePermissionModel) *permission.RolePermission {
	if model == nil {
		return nil
	}
	return permission.ReconstructRolePermission(
		model.ID,
		model.RoleID,
		model.PermissionID,
		conditionsToDomain(model.Conditions),
		model.GrantedBy,
		model.GrantedAt,
		permission.ReconstructLifecycle(model.IsActive, model.DeactivatedBy, model.DeactivatedAt),
	)
}

func RolePermissionToModel(rp *permission.RolePermission) *models.RolePermissionModel {
	return &models.RolePermissionModel{
		ID:            rp.ID(),
		RoleID:        rp.RoleID(),
		PermissionID:  rp.PermissionID(),
		IsActive:      rp.IsActive(),
		Conditions:    conditionsToModel(rp.Conditions()),
		GrantedBy:     rp.GrantedBy(),
		GrantedAt:     rp.GrantedAt(),
		DeactivatedBy: rp.DeactivatedBy(),
		DeactivatedAt: rp.DeactivatedAt(),
	}
}

func UserRoleToDomain(model *models.UserRoleModel) *permission.UserRole {
	if model == nil {
		return nil
	}
	return permission.ReconstructUserRole(
		model.ID,
		model.UserID,
		model.RoleID,
		model.AssignedBy,
		model.AssignedAt,
		model.ExpiresAt,
		permission.ReconstructLifecycle(model.IsActive, model.DeactivatedBy, model.DeactivatedAt),
	)
}

func UserRoleToModel(ur *permission.UserRole) *models.UserRoleModel {
	return &models.UserRoleModel{
		ID:            ur.ID(),
		UserID:        ur.UserID(),
		RoleID:        ur.RoleID(),
		IsActive:      ur.IsActive(),
		AssignedBy:    ur.AssignedBy(),
		AssignedAt:    ur.AssignedAt(),
		ExpiresAt:     ur.ExpiresAt(),
		DeactivatedBy: ur.DeactivatedBy(),
		DeactivatedAt: ur.DeactivatedAt(),
	}
}

func UserPermissionToDomain(model *models.UserPermissionModel) (*permission.UserPermission, error) {
	if model == nil {
		return nil, nil
	}
	grantType, err := vo.NewGrantType(model.GrantType)
	if err != nil {
		return nil, fmt.Errorf("invalid grant type for user permission %d: %w", model.ID, err)
	}
	return permission.ReconstructUserPermission(
		model.ID,
		model.UserID,
		model.PermissionID,
		grantType,
		conditionsToDomain(model.Conditions),
		model.GrantedBy,
		model.GrantedAt,
		model.ExpiresAt,
		permission.ReconstructLifecycle(model.IsActive, model.DeactivatedBy, model.DeactivatedAt),
	), nil
}

func UserPermissionToModel(up *permission.UserPermission) *models.UserPermissionModel {
	return &models.UserPermissionModel{
		ID:            up.ID(),
		UserID:        up.UserID(),
		PermissionID:  up.PermissionID(),
		IsActive:      up.IsActive(),
		GrantType:     up.GrantType().String(),
		Conditions:    conditionsToModel(up.Conditions()),
		GrantedBy:     up.GrantedBy(),
		GrantedAt:     up.GrantedAt(),
		ExpiresAt:     up.ExpiresAt(),
		DeactivatedBy: up.DeactivatedBy(),
		DeactivatedAt: up.DeactivatedAt(),
	}
}

func conditionsToDomain(m datatypes.JSONMap) permission.Conditions {
	if len(m) == 0 {
		return nil
	}
	return permission.Conditions(m)
}

func conditionsToModel(c permission.Conditions) datatypes.JSONMap {
	if len(c) == 0 {
		return nil
	}
	return datatypes.JSONMap(c)
}
