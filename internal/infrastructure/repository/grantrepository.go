package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tillgate/tillgate/internal/domain/permission"
	"github.com/tillgate/tillgate/internal/infrastructure/persistence/mappers"
	"github.com/tillgate/tillgate/internal/infrastructure/persistence/models"
	"github.com/tillgate/tillgate/internal/shared/db"
)

// deactivate persists the active -> inactive transition. The is_active guard
// in the WHERE clause keeps a concurrent revoke from being applied twice.
func deactivate(ctx context.Context, gdb *gorm.DB, model any, id uint, lc *permission.Lifecycle) error {
	if lc.IsActive() {
		return fmt.Errorf("grant %d is still active", id)
	}
	result := db.GetTxFromContext(ctx, gdb).
		Model(model).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{
			"is_active":      false,
			"deactivated_by": lc.DeactivatedBy(),
			"deactivated_at": lc.DeactivatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate grant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return permission.ErrGrantInactive
	}
	return nil
}

type RolePermissionRepository struct {
	db *gorm.DB
}

func NewRolePermissionRepository(db *gorm.DB) *RolePermissionRepository {
	return &RolePermissionRepository{db: db}
}

var _ permission.RolePermissionRepository = (*RolePermissionRepository)(nil)

func (r *RolePermissionRepository) Create(ctx context.Context, grant *permission.RolePermission) error {
	model := mappers.RolePermissionToModel(grant)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create role permission: %w", err)
	}
	grant.SetID(model.ID)
	return nil
}

func (r *RolePermissionRepository) Deactivate(ctx context.Context, grant *permission.RolePermission) error {
	return deactivate(ctx, r.db, &models.RolePermissionModel{}, grant.ID(), &grant.Lifecycle)
}

func (r *RolePermissionRepository) FindActive(ctx context.Context, roleID, permissionID uint) (*permission.RolePermission, error) {
	var model models.RolePermissionModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ActiveOnly("")).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find role permission: %w", err)
	}
	return mappers.RolePermissionToDomain(&model), nil
}

func (r *RolePermissionRepository) ListActiveByRole(ctx context.Context, roleID uint) ([]*permission.RolePermission, error) {
	var rows []*models.RolePermissionModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ActiveOnly("")).
		Where("role_id = ?", roleID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list role permissions: %w", err)
	}
	return rolePermissionsToDomain(rows), nil
}

func (r *RolePermissionRepository) ListActive(ctx context.Context) ([]*permission.RolePermission, error) {
	var rows []*models.RolePermissionModel
	if err := db.GetTxFromContext(ctx, r.db).Scopes(db.ActiveOnly("")).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list role permissions: %w", err)
	}
	return rolePermissionsToDomain(rows), nil
}

func rolePermissionsToDomain(rows []*models.RolePermissionModel) []*permission.RolePermission {
	out := make([]*permission.RolePermission, 0, len(rows))
	for _, m := range rows {
		out = append(out, mappers.RolePermissionToDomain(m))
	}
	return out
}

type UserRoleRepository struct {
	db *gorm.DB
}

func NewUserRoleRepository(db *gorm.DB) *UserRoleRepository {
	return &UserRoleRepository{db: db}
}

var _ permission.UserRoleRepository = (*UserRoleRepository)(nil)

func (r *UserRoleRepository) Create(ctx context.Context, assignment *permission.UserRole) error {
	model := mappers.UserRoleToModel(assignment)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create user role: %w", err)
	}
	assignment.SetID(model.ID)
	return nil
}

func (r *UserRoleRepository) Deactivate(ctx context.Context, assignment *permission.UserRole) error {
	return deactivate(ctx, r.db, &models.UserRoleModel{}, assignment.ID(), &assignment.Lifecycle)
}

func (r *UserRoleRepository) FindActive(ctx context.Context, userID, roleID uint) (*permission.UserRole, error) {
	var model models.UserRoleModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ActiveOnly("")).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user role: %w", err)
	}
	return mappers.UserRoleToDomain(&model), nil
}

func (r *UserRoleRepository) ListActiveByUser(ctx context.Context, userID uint) ([]*permission.UserRole, error) {
	var rows []*models.UserRoleModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ActiveOnly("")).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user roles: %w", err)
	}
	return userRolesToDomain(rows), nil
}

func (r *UserRoleRepository) ListActive(ctx context.Context) ([]*permission.UserRole, error) {
	var rows []*models.UserRoleModel
	if err := db.GetTxFromContext(ctx, r.db).Scopes(db.ActiveOnly("")).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list user roles: %w", err)
	}
	return userRolesToDomain(rows), nil
}

func userRolesToDomain(rows []*models.UserRoleModel) []*permission.UserRole {
	out := make([]*permission.UserRole, 0, len(rows))
	for _, m := range rows {
		out = append(out, mappers.UserRoleToDomain(m))
	}
	return out
}

type UserPermissionRepository struct {
	db *gorm.DB
}

func NewUserPermissionRepository(db *gorm.DB) *UserPermissionRepository {
	return &UserPermissionRepository{db: db}
}

var _ permission.UserPermissionRepository = (*UserPermissionRepository)(nil)

func (r *UserPermissionRepository) Create(ctx context.Context, entry *permission.UserPermission) error {
	model := mappers.UserPermissionToModel(entry)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create user permission: %w", err)
	}
	entry.SetID(model.ID)
	return nil
}

func (r *UserPermissionRepository) Deactivate(ctx context.Context, entry *permission.UserPermission) error {
	return deactivate(ctx, r.db, &models.UserPermissionModel{}, entry.ID(), &entry.Lifecycle)
}

func (r *UserPermissionRepository) FindActive(ctx context.Context, userID, permissionID uint) (*permission.UserPermission, error) {
	var model models.UserPermissionModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ActiveOnly("")).
		Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user permission: %w", err)
	}
	return mappers.UserPermissionToDomain(&model)
}

func (r *UserPermissionRepository) ListActiveByUser(ctx context.Context, userID uint) ([]*permission.UserPermission, error) {
	var rows []*models.UserPermissionModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ActiveOnly("")).
		Where("user_id = ?", userID).
		Order("granted_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user permissions: %w", err)
	}
	return userPermissionsToDomain(rows)
}

func (r *UserPermissionRepository) ListByUser(ctx context.Context, userID uint) ([]*permission.UserPermission, error) {
	var rows []*models.UserPermissionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("granted_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user permission history: %w", err)
	}
	return userPermissionsToDomain(rows)
}

func userPermissionsToDomain(rows []*models.UserPermissionModel) ([]*permission.UserPermission, error) {
	out := make([]*permission.UserPermission, 0, len(rows))
	for _, m := range rows {
		up, err := mappers.UserPermissionToDomain(m)
		if err != nil {
			return nil, err
		}
		out = append(out, up)
	}
	return out, nil
}
