package permission

import (
	"context"
)

// Lookups return nil, nil when the row does not exist.

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	Update(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id uint) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context, filter RoleFilter) ([]*Role, int64, error)
	ListByIDs(ctx context.Context, ids []uint) ([]*Role, error)
	// LockByID takes a row lock on the role for the surrounding transaction.
	LockByID(ctx context.Context, id uint) error
}

type PermissionRepository interface {
	Create(ctx context.Context, permission *Permission) error
	Update(ctx context.Context, permission *Permission) error
	GetByID(ctx context.Context, id uint) (*Permission, error)
	GetByName(ctx context.Context, name string) (*Permission, error)
	GetByCode(ctx context.Context, resource, action string) (*Permission, error)
	List(ctx context.Context, filter PermissionFilter) ([]*Permission, int64, error)
	ListByIDs(ctx context.Context, ids []uint) ([]*Permission, error)
}

type RolePermissionRepository interface {
	Create(ctx context.Context, grant *RolePermission) error
	// Deactivate persists the lifecycle transition of an existing row.
	Deactivate(ctx context.Context, grant *RolePermission) error
	FindActive(ctx context.Context, roleID, permissionID uint) (*RolePermission, error)
	ListActiveByRole(ctx context.Context, roleID uint) ([]*RolePermission, error)
	ListActive(ctx context.Context) ([]*RolePermission, error)
}

type UserRoleRepository interface {
	Create(ctx context.Context, assignment *UserRole) error
	Deactivate(ctx context.Context, assignment *UserRole) error
	FindActive(ctx context.Context, userID, roleID uint) (*UserRole, error)
	ListActiveByUser(ctx context.Context, userID uint) ([]*UserRole, error)
	ListActive(ctx context.Context) ([]*UserRole, error)
}

type UserPermissionRepository interface {
	Create(ctx context.Context, entry *UserPermission) error
	Deactivate(ctx context.Context, entry *UserPermission) error
	FindActive(ctx context.Context, userID, permissionID uint) (*UserPermission, error)
	ListActiveByUser(ctx context.Context, userID uint) ([]*UserPermission, error)
	// ListByUser returns every row for the user including history, newest first.
	ListByUser(ctx context.Context, userID uint) ([]*UserPermission, error)
}

type RoleFilter struct {
	Name       string
	ActiveOnly bool
	Page       int
	PageSize   int
}

// PermissionFilter pages only when PageSize is set; zero returns every match.
type PermissionFilter struct {
	Resource   string
	Action     string
	ActiveOnly bool
	Page       int
	PageSize   int
}

// PolicyProjector mirrors active role grants and assignments into an external
// policy store.
type PolicyProjector interface {
	Sync(ctx context.Context) (PolicyStats, error)
}

type PolicyStats struct {
	Policies  int
	Groupings int
}
