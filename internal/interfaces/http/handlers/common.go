// Package handlers holds the gin handlers of the administration API.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/shared/constants"
	"github.com/tillgate/tillgate/internal/shared/errors"
	"github.com/tillgate/tillgate/internal/shared/utils"
)

// currentUserID returns the principal established by the auth middleware.
func currentUserID(c *gin.Context) (uint, error) {
	v, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return 0, errors.NewUnauthorizedError(constants.ErrMsgAuthRequired)
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return 0, errors.NewUnauthorizedError(constants.ErrMsgAuthRequired)
	}
	return id, nil
}

// bindJSON decodes and validates the request body. Binding failures are
// reported as validation errors so they map to 400.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errors.NewValidationError("Invalid request body", err.Error())
	}
	return utils.ValidateStruct(req)
}
