package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillgate/tillgate/internal/application/permission/dto"
	"github.com/tillgate/tillgate/internal/interfaces/http/handlers/testutil"
	"github.com/tillgate/tillgate/internal/shared/errors"
)

func TestRoleHandler_ListRoles(t *testing.T) {
	var got dto.ListRolesRequest
	svc := &mockRoleService{
		ListRolesFunc: func(ctx context.Context, req dto.ListRolesRequest) (*dto.ListRolesResponse, error) {
			got = req
			return &dto.ListRolesResponse{
				Roles: []*dto.RoleDTO{{ID: 5, Name: "cashier", Level: 20, IsActive: true}},
				Total: 21,
			}, nil
		},
	}
	handler := NewRoleHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/roles?name=cash&active_only=true&page=2&page_size=10", nil)
	handler.ListRoles(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ListRolesRequest{Name: "cash", ActiveOnly: true, Page: 2, PageSize: 10}, got)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var list struct {
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Equal(t, int64(21), list.Total)
	assert.Equal(t, 3, list.TotalPages)
}

func TestRoleHandler_CreateRole(t *testing.T) {
	var got dto.CreateRoleRequest
	svc := &mockRoleService{
		CreateRoleFunc: func(ctx context.Context, req dto.CreateRoleRequest, actorID uint) (*dto.RoleDTO, error) {
			got = req
			return &dto.RoleDTO{ID: 6, Name: req.Name, Level: req.Level, IsActive: true}, nil
		},
	}
	handler := NewRoleHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/roles", map[string]any{
		"name":  "shift_lead",
		"level": 30,
	})
	testutil.SetAuthContext(c, 1)
	handler.CreateRole(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "shift_lead", got.Name)
	assert.Equal(t, 30, got.Level)
}

func TestRoleHandler_CreateRole_Conflict(t *testing.T) {
	svc := &mockRoleService{
		CreateRoleFunc: func(ctx context.Context, req dto.CreateRoleRequest, actorID uint) (*dto.RoleDTO, error) {
			return nil, errors.NewConflictError("role name already exists")
		},
	}
	handler := NewRoleHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/roles", map[string]any{"name": "cashier"})
	testutil.SetAuthContext(c, 1)
	handler.CreateRole(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRoleHandler_UpdateRole(t *testing.T) {
	var gotID uint
	var got dto.UpdateRoleRequest
	svc := &mockRoleService{
		UpdateRoleFunc: func(ctx context.Context, roleID uint, req dto.UpdateRoleRequest, actorID uint) (*dto.RoleDTO, error) {
			gotID, got = roleID, req
			return &dto.RoleDTO{ID: roleID, Level: *req.Level}, nil
		},
	}
	handler := NewRoleHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPatch, "/roles/5", map[string]any{"level": 25})
	testutil.SetAuthContext(c, 1)
	testutil.SetURLParam(c, "id", "5")
	handler.UpdateRole(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(5), gotID)
	require.NotNil(t, got.Level)
	assert.Equal(t, 25, *got.Level)
	assert.Nil(t, got.Name)
}

func TestRoleHandler_DeactivateAndActivate(t *testing.T) {
	var calls []bool
	svc := &mockRoleService{
		SetActiveFunc: func(ctx context.Context, roleID uint, active bool, actorID uint) error {
			calls = append(calls, active)
			return nil
		},
	}
	handler := NewRoleHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodDelete, "/roles/5", nil)
	testutil.SetAuthContext(c, 1)
	testutil.SetURLParam(c, "id", "5")
	handler.DeactivateRole(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = testutil.NewTestContext(http.MethodPost, "/roles/5/activate", nil)
	testutil.SetAuthContext(c, 1)
	testutil.SetURLParam(c, "id", "5")
	handler.ActivateRole(c)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []bool{false, true}, calls)
}

func TestRoleHandler_GrantRolePermission(t *testing.T) {
	type call struct {
		roleID, permissionID, by uint
		conditions               map[string]any
	}
	var got call
	svc := &mockRoleService{
		GrantRolePermissionFunc: func(ctx context.Context, roleID, permissionID uint, conditions map[string]any, grantedBy uint) (*dto.RolePermissionDTO, error) {
			got = call{roleID, permissionID, grantedBy, conditions}
			return &dto.RolePermissionDTO{ID: 1, RoleID: roleID, PermissionID: permissionID}, nil
		},
	}
	handler := NewRoleHandler(svc, testutil.NewMockLogger())

	t.Run("without body", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodPost, "/roles/5/permissions/9", nil)
		testutil.SetAuthContext(c, 1)
		testutil.SetURLParam(c, "id", "5")
		testutil.SetURLParam(c, "permissionId", "9")
		handler.GrantRolePermission(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, call{roleID: 5, permissionID: 9, by: 1}, got)
	})

	t.Run("with conditions", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodPost, "/roles/5/permissions/9", map[string]any{
			"conditions": map[string]any{"store_id": 3},
		})
		testutil.SetAuthContext(c, 1)
		testutil.SetURLParam(c, "id", "5")
		testutil.SetURLParam(c, "permissionId", "9")
		handler.GrantRolePermission(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, map[string]any{"store_id": float64(3)}, got.conditions)
	})

	t.Run("invalid permission id", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodPost, "/roles/5/permissions/0", nil)
		testutil.SetAuthContext(c, 1)
		testutil.SetURLParam(c, "id", "5")
		testutil.SetURLParam(c, "permissionId", "0")
		handler.GrantRolePermission(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRoleHandler_RevokeRolePermission_NoActiveGrant(t *testing.T) {
	svc := &mockRoleService{
		RevokeRolePermissionFunc: func(ctx context.Context, roleID, permissionID, revokedBy uint) error {
			return errors.NewNotFoundError("no active role permission")
		},
	}
	handler := NewRoleHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodDelete, "/roles/5/permissions/9", nil)
	testutil.SetAuthContext(c, 1)
	testutil.SetURLParam(c, "id", "5")
	testutil.SetURLParam(c, "permissionId", "9")
	handler.RevokeRolePermission(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoleHandler_ListRolePermissions(t *testing.T) {
	svc := &mockRoleService{
		ListRolePermissionsFunc: func(ctx context.Context, roleID uint) ([]*dto.PermissionDTO, error) {
			return []*dto.PermissionDTO{{ID: 9, Code: "orders:view"}}, nil
		},
	}
	handler := NewRoleHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/roles/5/permissions", nil)
	testutil.SetURLParam(c, "id", "5")
	handler.ListRolePermissions(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
