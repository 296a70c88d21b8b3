package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/shared/errors"
)

// ParseUintParam reads a positive numeric path parameter. entity names the
// thing being addressed and ends up in the validation message.
func ParseUintParam(c *gin.Context, name, entity string) (uint, error) {
	raw := c.Param(name)
	if raw == "" {
		return 0, errors.NewValidationError(fmt.Sprintf("%s ID is required", entity))
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError(fmt.Sprintf("invalid %s ID", entity), raw)
	}

	return uint(id), nil
}

// ParseUintQuery reads an optional numeric query parameter. A missing value
// returns nil; a malformed one is a validation error.
func ParseUintQuery(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid %s", name), raw)
	}

	id := uint(v)
	return &id, nil
}

// ScalarValue types a raw string for condition matching: numbers become
// float64, "true" and "false" become bool, anything else stays a string.
func ScalarValue(raw string) any {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	return raw
}
