package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/application/permission/dto"
	"github.com/tillgate/tillgate/internal/shared/logger"
	"github.com/tillgate/tillgate/internal/shared/utils"
)

type RoleHandler struct {
	roles  roleService
	logger logger.Interface
}

func NewRoleHandler(roles roleService, logger logger.Interface) *RoleHandler {
	return &RoleHandler{
		roles:  roles,
		logger: logger,
	}
}

// ListRoles godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Security Bearer
// @Param name query string false "Name filter"
// @Param active_only query bool false "Only active roles"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse}
// @Failure 403 {object} utils.APIResponse
// @Router /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	p := utils.ParsePagination(c)
	req := dto.ListRolesRequest{
		Name:       strings.TrimSpace(c.Query("name")),
		ActiveOnly: c.Query("active_only") == "true",
		Page:       p.Page,
		PageSize:   p.PageSize,
	}

	result, err := h.roles.ListRoles(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to list roles", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Roles, result.Total, p.Page, p.PageSize)
}

// GetRole godoc
// @Summary Get a role
// @Tags roles
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Success 200 {object} utils.APIResponse{data=dto.RoleDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /roles/{id} [get]
func (h *RoleHandler) GetRole(c *gin.Context) {
	roleID, err := utils.ParseUintParam(c, "id", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	role, err := h.roles.GetRole(c.Request.Context(), roleID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", role)
}

// CreateRole godoc
// @Summary Create a role
// @Tags roles
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateRoleRequest true "Role"
// @Success 201 {object} utils.APIResponse{data=dto.RoleDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	actorID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.CreateRoleRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for create role", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	role, err := h.roles.CreateRole(c.Request.Context(), req, actorID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, role, "Role created successfully")
}

// UpdateRole godoc
// @Summary Update a role
// @Tags roles
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param request body dto.UpdateRoleRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse{data=dto.RoleDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /roles/{id} [patch]
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	actorID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	roleID, err := utils.ParseUintParam(c, "id", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateRoleRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for update role", "role_id", roleID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	role, err := h.roles.UpdateRole(c.Request.Context(), roleID, req, actorID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role updated successfully", role)
}

// DeactivateRole godoc
// @Summary Deactivate a role
// @Description Soft-deletes a role; its assignments stop conferring permissions
// @Tags roles
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /roles/{id} [delete]
func (h *RoleHandler) DeactivateRole(c *gin.Context) {
	h.setActive(c, false)
}

// ActivateRole godoc
// @Summary Reactivate a role
// @Tags roles
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /roles/{id}/activate [post]
func (h *RoleHandler) ActivateRole(c *gin.Context) {
	h.setActive(c, true)
}

func (h *RoleHandler) setActive(c *gin.Context, active bool) {
	actorID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	roleID, err := utils.ParseUintParam(c, "id", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	message := "Role activated successfully"
	if active {
		err = h.roles.ActivateRole(c.Request.Context(), roleID, actorID)
	} else {
		err = h.roles.DeactivateRole(c.Request.Context(), roleID, actorID)
		message = "Role deactivated successfully"
	}
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, message, nil)
}

// ListRolePermissions godoc
// @Summary List a role's permissions
// @Tags roles
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Success 200 {object} utils.APIResponse{data=[]dto.PermissionDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /roles/{id}/permissions [get]
func (h *RoleHandler) ListRolePermissions(c *gin.Context) {
	roleID, err := utils.ParseUintParam(c, "id", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	perms, err := h.roles.ListRolePermissions(c.Request.Context(), roleID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", perms)
}

// GrantRolePermission godoc
// @Summary Grant a permission to a role
// @Description Replaces any active grant of the permission to the role. The body is optional.
// @Tags roles
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param permissionId path int true "Permission ID"
// @Param request body dto.GrantRolePermissionRequest false "Condition override"
// @Success 201 {object} utils.APIResponse{data=dto.RolePermissionDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /roles/{id}/permissions/{permissionId} [post]
func (h *RoleHandler) GrantRolePermission(c *gin.Context) {
	actorID, roleID, permissionID, ok := h.rolePermissionParams(c)
	if !ok {
		return
	}

	var req dto.GrantRolePermissionRequest
	if c.Request.ContentLength > 0 {
		if err := bindJSON(c, &req); err != nil {
			h.logger.Warnw("invalid request body for grant role permission", "role_id", roleID, "error", err)
			utils.ErrorResponseWithError(c, err)
			return
		}
	}

	grant, err := h.roles.GrantRolePermission(c.Request.Context(), roleID, permissionID, req.Conditions, actorID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, grant, "Permission granted to role successfully")
}

// RevokeRolePermission godoc
// @Summary Revoke a permission from a role
// @Tags roles
// @Produce json
// @Security Bearer
// @Param id path int true "Role ID"
// @Param permissionId path int true "Permission ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /roles/{id}/permissions/{permissionId} [delete]
func (h *RoleHandler) RevokeRolePermission(c *gin.Context) {
	actorID, roleID, permissionID, ok := h.rolePermissionParams(c)
	if !ok {
		return
	}

	if err := h.roles.RevokeRolePermission(c.Request.Context(), roleID, permissionID, actorID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permission revoked from role successfully", nil)
}

func (h *RoleHandler) rolePermissionParams(c *gin.Context) (actorID, roleID, permissionID uint, ok bool) {
	var err error
	if actorID, err = currentUserID(c); err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, 0, 0, false
	}
	if roleID, err = utils.ParseUintParam(c, "id", "role"); err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, 0, 0, false
	}
	if permissionID, err = utils.ParseUintParam(c, "permissionId", "permission"); err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, 0, 0, false
	}
	return actorID, roleID, permissionID, true
}
