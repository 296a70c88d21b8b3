package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tillgate/tillgate/internal/infrastructure/auth"
	"github.com/tillgate/tillgate/internal/infrastructure/config"
	"github.com/tillgate/tillgate/internal/infrastructure/persistence/seeds"
	"github.com/tillgate/tillgate/internal/infrastructure/persistence/testdb"
	"github.com/tillgate/tillgate/internal/infrastructure/repository"
	sharedConfig "github.com/tillgate/tillgate/internal/shared/config"
	"github.com/tillgate/tillgate/internal/shared/constants"
	"github.com/tillgate/tillgate/internal/shared/db"
	"github.com/tillgate/tillgate/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type     string `json:"type"`
		Message  string `json:"message"`
		Required string `json:"required"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		Server: sharedConfig.ServerConfig{Mode: gin.TestMode},
		Auth: sharedConfig.AuthConfig{
			Password: sharedConfig.PasswordConfig{BcryptCost: 4},
			JWT:      sharedConfig.JWTConfig{Secret: "router-test-secret", AccessExpMinutes: 60},
		},
		RateLimit: sharedConfig.RateLimitConfig{LoginPerMinute: 100, MutationPerMinute: 100},
		Authz:     sharedConfig.AuthzConfig{RoleAdminLevel: 80, AuditBodyLimit: 4096},
		Metrics:   sharedConfig.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	gdb := testdb.New(t)
	repos := repository.NewSet(gdb)
	seeder := seeds.NewSeeder(seeds.Repositories{
		Users:           repos.Users,
		Roles:           repos.Roles,
		Permissions:     repos.Permissions,
		RolePermissions: repos.RolePermissions,
		UserRoles:       repos.UserRoles,
	}, db.NewTransactionManager(gdb), auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost), logger.NewDiscard())

	catalog, err := seeds.LoadCatalog("")
	require.NoError(t, err)
	_, err = seeder.Run(context.Background(), catalog)
	require.NoError(t, err)

	container := NewContainer(gdb, cfg, logger.NewDiscard())
	container.SetupRoutes()
	t.Cleanup(func() { container.Shutdown(context.Background()) })

	return &testServer{t: t, db: gdb, engine: container.Engine()}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, apiResponse) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()

	w, resp := s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(s.t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(s.t, data.AccessToken)
	return data.AccessToken
}

func (s *testServer) userID(email string) uint {
	s.t.Helper()
	u, err := repository.NewUserRepository(s.db).GetByEmail(context.Background(), email)
	require.NoError(s.t, err)
	require.NotNil(s.t, u)
	return u.ID()
}

func (s *testServer) permissionID(name string) uint {
	s.t.Helper()
	p, err := repository.NewPermissionRepository(s.db).GetByName(context.Background(), name)
	require.NoError(s.t, err)
	require.NotNil(s.t, p)
	return p.ID()
}

func (s *testServer) auditCount(where string, args ...any) int64 {
	s.t.Helper()
	var n int64
	require.NoError(s.t, s.db.Table(constants.TableAuditLogs).Where(where, args...).Count(&n).Error)
	return n
}

func TestRouter_DeniedRequestWritesOneAuditEntry(t *testing.T) {
	s := newTestServer(t, testConfig())
	token := s.login("cashier@tillgate.local", "cashier123")

	w, resp := s.do(http.MethodGet, "/permissions", token, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "users:permissions", resp.Error.Required)
	assert.Equal(t, int64(1), s.auditCount("action LIKE ?", "unauthorized_%"))

	// A denied mutation is audited once, by the guard only.
	w, _ = s.do(http.MethodPost, "/roles", token, map[string]any{"name": "night_shift", "level": 10})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(2), s.auditCount("action LIKE ?", "unauthorized_%"))
	assert.Equal(t, int64(0), s.auditCount("action = ?", "post"))
}

func TestRouter_AdminManagesAccess(t *testing.T) {
	s := newTestServer(t, testConfig())
	admin := s.login("admin@tillgate.local", "admin123")

	w, _ := s.do(http.MethodGet, "/permissions", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	cashierID := s.userID("cashier@tillgate.local")
	refundID := s.permissionID("payments.refund")

	w, _ = s.do(http.MethodGet, fmt.Sprintf("/permissions/check?user_id=%d&resource=payments&action=refund", cashierID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"allowed":false`)

	w, _ = s.do(http.MethodPost, "/permissions/grant", admin, map[string]any{
		"user_id":       cashierID,
		"permission_id": refundID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = s.do(http.MethodGet, fmt.Sprintf("/permissions/check?user_id=%d&resource=payments&action=refund", cashierID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"allowed":true`)
	assert.Contains(t, w.Body.String(), `"reason":"direct_grant"`)

	// Both the service and the HTTP layer leave a trail.
	assert.Equal(t, int64(1), s.auditCount("action = ?", "grant_user_permission"))
	assert.Equal(t, int64(1), s.auditCount("action = ? AND resource = ?", "post", "/permissions/grant"))

	cashier := s.login("cashier@tillgate.local", "cashier123")
	w, resp := s.do(http.MethodGet, "/me/permissions", cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), "payments:refund")
}

func TestRouter_RoleChangesRequireAdminLevel(t *testing.T) {
	s := newTestServer(t, testConfig())
	admin := s.login("admin@tillgate.local", "admin123")

	managerID := s.userID("manager@tillgate.local")
	w, _ := s.do(http.MethodPost, "/permissions/grant", admin, map[string]any{
		"user_id":       managerID,
		"permission_id": s.permissionID("users.permissions"),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	manager := s.login("manager@tillgate.local", "manager123")
	w, resp := s.do(http.MethodPost, "/roles", manager, map[string]any{"name": "night_shift", "level": 10})
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "role_level:80", resp.Error.Required)

	w, _ = s.do(http.MethodPost, "/roles", admin, map[string]any{"name": "night_shift", "level": 10})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRouter_Unauthenticated(t *testing.T) {
	s := newTestServer(t, testConfig())

	w, _ := s.do(http.MethodGet, "/roles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/roles", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_LoginIsRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.LoginPerMinute = 2
	s := newTestServer(t, cfg)

	body := map[string]string{"email": "cashier@tillgate.local", "password": "wrong-password"}
	for i := 0; i < 2; i++ {
		w, _ := s.do(http.MethodPost, "/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w, _ := s.do(http.MethodPost, "/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRouter_SystemRoutes(t *testing.T) {
	s := newTestServer(t, testConfig())

	w, _ := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tillgate_http_in_flight_requests")

	w, _ = s.do(http.MethodGet, "/no-such-route", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
