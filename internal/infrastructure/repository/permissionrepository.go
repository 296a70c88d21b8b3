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

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

var _ permission.PermissionRepository = (*PermissionRepository)(nil)

func (r *PermissionRepository) Create(ctx context.Context, p *permission.Permission) error {
	model := mappers.PermissionToModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create permission: %w", err)
	}
	return p.SetID(model.ID)
}

func (r *PermissionRepository) Update(ctx context.Context, p *permission.Permission) error {
	model := mappers.PermissionToModel(p)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PermissionModel{}).
		Where("id = ?", p.ID()).
		Updates(map[string]any{
			"description": model.Description,
			"conditions":  model.Conditions,
			"scope":       model.Scope,
			"is_active":   model.IsActive,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update permission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return permission.ErrPermissionNotFound
	}
	return nil
}

func (r *PermissionRepository) GetByID(ctx context.Context, id uint) (*permission.Permission, error) {
	var model models.PermissionModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	return mappers.PermissionToDomain(&model)
}

func (r *PermissionRepository) GetByName(ctx context.Context, name string) (*permission.Permission, error) {
	var model models.PermissionModel
	if err := db.GetTxFromContext(ctx, r.db).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get permission by name: %w", err)
	}
	return mappers.PermissionToDomain(&model)
}

// GetByCode prefers the active row when several permissions share a pair.
func (r *PermissionRepository) GetByCode(ctx context.Context, resource, action string) (*permission.Permission, error) {
	var model models.PermissionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("resource = ? AND action = ?", resource, action).
		Order("is_active DESC, id ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get permission by code: %w", err)
	}
	return mappers.PermissionToDomain(&model)
}

func (r *PermissionRepository) List(ctx context.Context, filter permission.PermissionFilter) ([]*permission.Permission, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.PermissionModel{})

	if filter.Resource != "" {
		query = query.Where("resource = ?", filter.Resource)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.ActiveOnly {
		query = query.Scopes(db.ActiveOnly(""))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count permissions: %w", err)
	}

	query = query.Order("resource ASC, action ASC")
	if filter.PageSize > 0 {
		query = query.Scopes(db.Paginate(filter.Page, filter.PageSize))
	}

	var permissionModels []*models.PermissionModel
	if err := query.Find(&permissionModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list permissions: %w", err)
	}

	perms, err := permissionsToDomain(permissionModels)
	if err != nil {
		return nil, 0, err
	}
	return perms, total, nil
}

func (r *PermissionRepository) ListByIDs(ctx context.Context, ids []uint) ([]*permission.Permission, error) {
	if len(ids) == 0 {
		return []*permission.Permission{}, nil
	}
	var permissionModels []*models.PermissionModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Find(&permissionModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions by ids: %w", err)
	}
	return permissionsToDomain(permissionModels)
}

func permissionsToDomain(permissionModels []*models.PermissionModel) ([]*permission.Permission, error) {
	perms := make([]*permission.Permission, 0, len(permissionModels))
	for _, m := range permissionModels {
		p, err := mappers.PermissionToDomain(m)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, nil
}
