package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/application/permission/dto"
	"github.com/tillgate/tillgate/internal/shared/errors"
	"github.com/tillgate/tillgate/internal/shared/logger"
	"github.com/tillgate/tillgate/internal/shared/utils"
)

type PermissionHandler struct {
	permissions permissionService
	access      accessReader
	logger      logger.Interface
}

func NewPermissionHandler(permissions permissionService, access accessReader, logger logger.Interface) *PermissionHandler {
	return &PermissionHandler{
		permissions: permissions,
		access:      access,
		logger:      logger,
	}
}

// CheckPermissionResponse is the verdict of an ad-hoc permission check.
type CheckPermissionResponse struct {
	UserID   uint   `json:"user_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason"`
}

// ListPermissions godoc
// @Summary List the permission catalog
// @Description Returns every permission grouped by resource
// @Tags permissions
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=[]dto.PermissionGroupDTO}
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /permissions [get]
func (h *PermissionHandler) ListPermissions(c *gin.Context) {
	groups, err := h.permissions.ListPermissions(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list permissions", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", groups)
}

// CreatePermission godoc
// @Summary Create a permission
// @Description Adds a permission to the catalog
// @Tags permissions
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreatePermissionRequest true "Permission"
// @Success 201 {object} utils.APIResponse{data=dto.PermissionDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /permissions [post]
func (h *PermissionHandler) CreatePermission(c *gin.Context) {
	actorID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.CreatePermissionRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for create permission", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.permissions.CreatePermission(c.Request.Context(), req, actorID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Permission created successfully")
}

// DeactivatePermission godoc
// @Summary Deactivate a permission
// @Description Soft-deletes a permission; grants referencing it stop matching
// @Tags permissions
// @Produce json
// @Security Bearer
// @Param id path int true "Permission ID"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /permissions/{id} [delete]
func (h *PermissionHandler) DeactivatePermission(c *gin.Context) {
	actorID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	permissionID, err := utils.ParseUintParam(c, "id", "permission")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.permissions.DeactivatePermission(c.Request.Context(), permissionID, actorID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permission deactivated successfully", nil)
}

// CheckPermission godoc
// @Summary Check a permission
// @Description Evaluates whether a user may perform action on resource. Extra query parameters prefixed with ctx. are passed as decision context.
// @Tags permissions
// @Produce json
// @Security Bearer
// @Param user_id query int false "User ID (defaults to the caller)"
// @Param resource query string true "Resource"
// @Param action query string true "Action"
// @Success 200 {object} utils.APIResponse{data=CheckPermissionResponse}
// @Failure 400 {object} utils.APIResponse
// @Router /permissions/check [get]
func (h *PermissionHandler) CheckPermission(c *gin.Context) {
	callerID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID, err := utils.ParseUintQuery(c, "user_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if userID == nil {
		userID = &callerID
	}

	resource := strings.TrimSpace(c.Query("resource"))
	action := strings.TrimSpace(c.Query("action"))
	if resource == "" || action == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("resource and action are required"))
		return
	}

	decision := h.access.Decide(c.Request.Context(), *userID, resource, action, checkContext(c))
	utils.SuccessResponse(c, http.StatusOK, "", CheckPermissionResponse{
		UserID:   *userID,
		Resource: resource,
		Action:   action,
		Allowed:  decision.Allowed,
		Reason:   decision.Reason.String(),
	})
}

// GetUserPermissions godoc
// @Summary User permission detail
// @Description Lists a user's roles, role-derived permissions and direct entries with their source
// @Tags permissions
// @Produce json
// @Security Bearer
// @Param userId path int true "User ID"
// @Success 200 {object} utils.APIResponse{data=dto.UserAccessDetailDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /permissions/user/{userId} [get]
func (h *PermissionHandler) GetUserPermissions(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "userId", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	detail, err := h.permissions.GetUserAccessDetail(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", detail)
}

// GrantUserPermission godoc
// @Summary Grant or deny a permission directly
// @Description Creates a direct grant or deny entry for a user, replacing any active entry for the same permission
// @Tags permissions
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.GrantUserPermissionRequest true "Direct entry"
// @Success 201 {object} utils.APIResponse{data=dto.UserPermissionDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /permissions/grant [post]
func (h *PermissionHandler) GrantUserPermission(c *gin.Context) {
	actorID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.GrantUserPermissionRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for grant user permission", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.permissions.GrantUserPermission(c.Request.Context(), req, actorID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Permission entry saved successfully")
}

// RevokeUserPermission godoc
// @Summary Revoke a direct permission entry
// @Description Deactivates the active direct grant or deny entry of a user for a permission
// @Tags permissions
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.RevokeUserPermissionRequest true "Entry to revoke"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /permissions/revoke [post]
func (h *PermissionHandler) RevokeUserPermission(c *gin.Context) {
	actorID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.RevokeUserPermissionRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for revoke user permission", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.permissions.RevokeUserPermission(c.Request.Context(), req, actorID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permission entry revoked successfully", nil)
}

// checkContext collects ctx.<key> query parameters. Numeric values are passed
// as numbers and true/false as booleans so they compare equal to typed
// condition values.
func checkContext(c *gin.Context) map[string]any {
	reqCtx := map[string]any{}
	for key, values := range c.Request.URL.Query() {
		name, ok := strings.CutPrefix(key, "ctx.")
		if !ok || name == "" || len(values) == 0 {
			continue
		}
		reqCtx[name] = utils.ScalarValue(values[0])
	}
	if len(reqCtx) == 0 {
		return nil
	}
	return reqCtx
}
