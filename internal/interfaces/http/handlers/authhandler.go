package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/application/auth"
	"github.com/tillgate/tillgate/internal/shared/logger"
	"github.com/tillgate/tillgate/internal/shared/utils"
)

type AuthHandler struct {
	login  loginService
	access accessReader
	logger logger.Interface
}

func NewAuthHandler(login loginService, access accessReader, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		login:  login,
		access: access,
		logger: logger,
	}
}

// MyPermissionsResponse describes what the caller may currently do.
type MyPermissionsResponse struct {
	UserID      uint     `json:"user_id"`
	RoleLevel   int      `json:"role_level"`
	Permissions []string `json:"permissions"`
}

// Login godoc
// @Summary Log in with email and password
// @Description Authenticates a back-office user and returns an access token together with the current permission set
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.LoginRequest true "Credentials"
// @Success 200 {object} utils.APIResponse{data=auth.LoginResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid login request", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.login.Login(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", result)
}

// MyPermissions godoc
// @Summary Current user's permissions
// @Description Lists the "resource:action" codes the caller currently holds and their role level
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=MyPermissionsResponse}
// @Failure 401 {object} utils.APIResponse
// @Router /me/permissions [get]
func (h *AuthHandler) MyPermissions(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	utils.SuccessResponse(c, http.StatusOK, "", MyPermissionsResponse{
		UserID:      userID,
		RoleLevel:   h.access.GetUserRoleLevel(ctx, userID),
		Permissions: h.access.GetUserPermissions(ctx, userID),
	})
}
