package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/application/permission/dto"
	"github.com/tillgate/tillgate/internal/shared/logger"
	"github.com/tillgate/tillgate/internal/shared/utils"
)

type UserHandler struct {
	users  userAccessService
	logger logger.Interface
}

func NewUserHandler(users userAccessService, logger logger.Interface) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// AssignRole godoc
// @Summary Assign a role to a user
// @Description Replaces any active assignment of the role to the user. The body is optional.
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "User ID"
// @Param roleId path int true "Role ID"
// @Param request body dto.AssignRoleRequest false "Optional expiry"
// @Success 201 {object} utils.APIResponse{data=dto.UserRoleDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /users/{id}/roles/{roleId} [post]
func (h *UserHandler) AssignRole(c *gin.Context) {
	actorID, userID, roleID, ok := h.userRoleParams(c)
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if c.Request.ContentLength > 0 {
		if err := bindJSON(c, &req); err != nil {
			h.logger.Warnw("invalid request body for assign role", "user_id", userID, "role_id", roleID, "error", err)
			utils.ErrorResponseWithError(c, err)
			return
		}
	}

	assignment, err := h.users.AssignRole(c.Request.Context(), userID, roleID, req.ExpiresAt, actorID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, assignment, "Role assigned successfully")
}

// RevokeRole godoc
// @Summary Revoke a role from a user
// @Tags users
// @Produce json
// @Security Bearer
// @Param id path int true "User ID"
// @Param roleId path int true "Role ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /users/{id}/roles/{roleId} [delete]
func (h *UserHandler) RevokeRole(c *gin.Context) {
	actorID, userID, roleID, ok := h.userRoleParams(c)
	if !ok {
		return
	}

	if err := h.users.RevokeRole(c.Request.Context(), userID, roleID, actorID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role revoked successfully", nil)
}

// SetStatus godoc
// @Summary Activate or deactivate a user
// @Description An inactive user is denied every permission
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "User ID"
// @Param request body dto.SetUserStatusRequest true "Status"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /users/{id}/status [patch]
func (h *UserHandler) SetStatus(c *gin.Context) {
	actorID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID, err := utils.ParseUintParam(c, "id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.SetUserStatusRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for set user status", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.users.SetUserActive(c.Request.Context(), userID, *req.Active, actorID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	message := "User deactivated successfully"
	if *req.Active {
		message = "User activated successfully"
	}
	utils.SuccessResponse(c, http.StatusOK, message, nil)
}

func (h *UserHandler) userRoleParams(c *gin.Context) (actorID, userID, roleID uint, ok bool) {
	var err error
	if actorID, err = currentUserID(c); err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, 0, 0, false
	}
	if userID, err = utils.ParseUintParam(c, "id", "user"); err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, 0, 0, false
	}
	if roleID, err = utils.ParseUintParam(c, "roleId", "role"); err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, 0, 0, false
	}
	return actorID, userID, roleID, true
}
