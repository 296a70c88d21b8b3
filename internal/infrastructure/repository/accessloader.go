package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tillgate/tillgate/internal/domain/permission"
	"github.com/tillgate/tillgate/internal/domain/user"
	"github.com/tillgate/tillgate/internal/infrastructure/persistence/mappers"
	"github.com/tillgate/tillgate/internal/infrastructure/persistence/models"
	"github.com/tillgate/tillgate/internal/shared/db"
	"github.com/tillgate/tillgate/internal/shared/utils/setutil"
)

// AccessLoader reads a user's whole access snapshot with a fixed number of
// queries inside one transaction, independent of how many roles or grants
// the user holds.
type AccessLoader struct {
	db *gorm.DB
	tm *db.TransactionManager
}

func NewAccessLoader(gdb *gorm.DB) *AccessLoader {
	return &AccessLoader{db: gdb, tm: db.NewTransactionManager(gdb)}
}

var _ permission.AccessLoader = (*AccessLoader)(nil)

func (l *AccessLoader) LoadUserAccess(ctx context.Context, userID uint) (*permission.UserAccess, error) {
	var access *permission.UserAccess
	err := l.tm.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		access, err = l.load(db.GetTxFromContext(ctx, l.db), userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return access, nil
}

func (l *AccessLoader) load(tx *gorm.DB, userID uint) (*permission.UserAccess, error) {
	var userModel models.UserModel
	if err := tx.Select("id", "is_active").First(&userModel, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	access := &permission.UserAccess{
		UserID:     userModel.ID,
		UserActive: userModel.IsActive,
	}

	var directRows []*models.UserPermissionModel
	if err := tx.Scopes(db.ActiveOnly("")).Where("user_id = ?", userID).Find(&directRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load direct permissions: %w", err)
	}

	var assignmentRows []*models.UserRoleModel
	if err := tx.Scopes(db.ActiveOnly("")).Where("user_id = ?", userID).Order("id ASC").Find(&assignmentRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load role assignments: %w", err)
	}

	roleIDs := make([]uint, 0, len(assignmentRows))
	for _, a := range assignmentRows {
		roleIDs = append(roleIDs, a.RoleID)
	}

	var roleRows []*models.RoleModel
	var grantRows []*models.RolePermissionModel
	if len(roleIDs) > 0 {
		if err := tx.Where("id IN ?", roleIDs).Find(&roleRows).Error; err != nil {
			return nil, fmt.Errorf("failed to load roles: %w", err)
		}
		if err := tx.Scopes(db.ActiveOnly("")).Where("role_id IN ?", roleIDs).Order("id ASC").Find(&grantRows).Error; err != nil {
			return nil, fmt.Errorf("failed to load role permissions: %w", err)
		}
	}

	permIDs := setutil.NewUintSetWithCap(len(directRows) + len(grantRows))
	for _, d := range directRows {
		permIDs.Add(d.PermissionID)
	}
	for _, g := range grantRows {
		permIDs.Add(g.PermissionID)
	}

	perms := make(map[uint]*permission.Permission, permIDs.Len())
	if permIDs.Len() > 0 {
		var permRows []*models.PermissionModel
		if err := tx.Where("id IN ?", permIDs.ToSlice()).Find(&permRows).Error; err != nil {
			return nil, fmt.Errorf("failed to load permissions: %w", err)
		}
		for _, m := range permRows {
			p, err := mappers.PermissionToDomain(m)
			if err != nil {
				return nil, err
			}
			perms[p.ID()] = p
		}
	}

	for _, d := range directRows {
		grant, err := mappers.UserPermissionToDomain(d)
		if err != nil {
			return nil, err
		}
		access.Direct = append(access.Direct, permission.DirectEntry{
			Grant:      grant,
			Permission: perms[d.PermissionID],
		})
	}

	roles := make(map[uint]*permission.Role, len(roleRows))
	for _, m := range roleRows {
		role, err := mappers.RoleToDomain(m)
		if err != nil {
			return nil, err
		}
		roles[role.ID()] = role
	}

	grantsByRole := make(map[uint][]permission.RoleGrant)
	for _, g := range grantRows {
		grantsByRole[g.RoleID] = append(grantsByRole[g.RoleID], permission.RoleGrant{
			Grant:      mappers.RolePermissionToDomain(g),
			Permission: perms[g.PermissionID],
		})
	}

	for _, a := range assignmentRows {
		access.Roles = append(access.Roles, permission.RoleAssignment{
			Assignment: mappers.UserRoleToDomain(a),
			Role:       roles[a.RoleID],
			Grants:     grantsByRole[a.RoleID],
		})
	}

	return access, nil
}
