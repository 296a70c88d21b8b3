package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tillgate/tillgate/internal/interfaces/http/handlers/testutil"
)

func TestHealthHandler(t *testing.T) {
	handler := NewHealthHandler(&mockPinger{}, testutil.NewMockLogger())
	c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)
	handler.HealthCheck(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)

	handler = NewHealthHandler(&mockPinger{err: errors.New("connection refused")}, testutil.NewMockLogger())
	c, w = testutil.NewTestContext(http.MethodGet, "/health", nil)
	handler.HealthCheck(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"unhealthy"`)
}
