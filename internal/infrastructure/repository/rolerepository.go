package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tillgate/tillgate/internal/domain/permission"
	"github.com/tillgate/tillgate/internal/infrastructure/persistence/mappers"
	"github.com/tillgate/tillgate/internal/infrastructure/persistence/models"
	"github.com/tillgate/tillgate/internal/shared/db"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

var _ permission.RoleRepository = (*RoleRepository)(nil)

func (r *RoleRepository) Create(ctx context.Context, role *permission.Role) error {
	model := mappers.RoleToModel(role)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return role.SetID(model.ID)
}

func (r *RoleRepository) Update(ctx context.Context, role *permission.Role) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.RoleModel{}).
		Where("id = ?", role.ID()).
		Updates(map[string]any{
			"name":           role.Name(),
			"description":    role.Description(),
			"level":          role.Level(),
			"is_super_admin": role.IsSuperAdmin(),
			"is_active":      role.IsActive(),
			"updated_at":     role.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return permission.ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id uint) (*permission.Role, error) {
	var model models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return mappers.RoleToDomain(&model)
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*permission.Role, error) {
	var model models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}
	return mappers.RoleToDomain(&model)
}

func (r *RoleRepository) List(ctx context.Context, filter permission.RoleFilter) ([]*permission.Role, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.RoleModel{})

	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.ActiveOnly {
		query = query.Scopes(db.ActiveOnly(""))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count roles: %w", err)
	}

	var roleModels []*models.RoleModel
	if err := query.Scopes(db.Paginate(filter.Page, filter.PageSize)).Order("level DESC, id ASC").Find(&roleModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}

	roles, err := rolesToDomain(roleModels)
	if err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

func (r *RoleRepository) ListByIDs(ctx context.Context, ids []uint) ([]*permission.Role, error) {
	if len(ids) == 0 {
		return []*permission.Role{}, nil
	}
	var roleModels []*models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Find(&roleModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles by ids: %w", err)
	}
	return rolesToDomain(roleModels)
}

func (r *RoleRepository) LockByID(ctx context.Context, id uint) error {
	var model models.RoleModel
	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return permission.ErrRoleNotFound
		}
		return fmt.Errorf("failed to lock role: %w", err)
	}
	return nil
}

func rolesToDomain(roleModels []*models.RoleModel) ([]*permission.Role, error) {
	roles := make([]*permission.Role, 0, len(roleModels))
	for _, m := range roleModels {
		role, err := mappers.RoleToDomain(m)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}
