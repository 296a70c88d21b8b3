package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tillgate/tillgate/internal/domain/permission"
	pvo "github.com/tillgate/tillgate/internal/domain/permission/value_objects"
	"github.com/tillgate/tillgate/internal/domain/user"
	uvo "github.com/tillgate/tillgate/internal/domain/user/value_objects"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func createUser(t *testing.T, gdb *gorm.DB, email string, active bool) *user.User {
	t.Helper()
	e, err := uvo.NewEmail(email)
	require.NoError(t, err)
	n, err := uvo.NewName("Test User")
	require.NoError(t, err)
	u, err := user.NewUser(e, n, "hash")
	require.NoError(t, err)
	u.SetActive(active)
	require.NoError(t, NewUserRepository(gdb).Create(context.Background(), u))
	return u
}

func createRole(t *testing.T, gdb *gorm.DB, name string, level int, superAdmin bool) *permission.Role {
	t.Helper()
	r, err := permission.NewRole(name, "", level, superAdmin)
	require.NoError(t, err)
	require.NoError(t, NewRoleRepository(gdb).Create(context.Background(), r))
	return r
}

func createPermission(t *testing.T, gdb *gorm.DB, resource, action string, conditions permission.Conditions) *permission.Permission {
	t.Helper()
	p, err := permission.NewPermission("", pvo.Resource(resource), pvo.Action(action), "", conditions, "")
	require.NoError(t, err)
	require.NoError(t, NewPermissionRepository(gdb).Create(context.Background(), p))
	return p
}

func grantToRole(t *testing.T, gdb *gorm.DB, roleID, permissionID uint, conditions permission.Conditions) *permission.RolePermission {
	t.Helper()
	rp, err := permission.NewRolePermission(roleID, permissionID, conditions, 1, fixedNow)
	require.NoError(t, err)
	require.NoError(t, NewRolePermissionRepository(gdb).Create(context.Background(), rp))
	return rp
}

func assignRole(t *testing.T, gdb *gorm.DB, userID, roleID uint, expiresAt *time.Time) *permission.UserRole {
	t.Helper()
	ur, err := permission.NewUserRole(userID, roleID, expiresAt, 1, fixedNow)
	require.NoError(t, err)
	require.NoError(t, NewUserRoleRepository(gdb).Create(context.Background(), ur))
	return ur
}

func directEntry(t *testing.T, gdb *gorm.DB, userID, permissionID uint, grantType pvo.GrantType, grantedAt time.Time) *permission.UserPermission {
	t.Helper()
	up, err := permission.NewUserPermission(userID, permissionID, grantType, nil, nil, 1, grantedAt)
	require.NoError(t, err)
	require.NoError(t, NewUserPermissionRepository(gdb).Create(context.Background(), up))
	return up
}
