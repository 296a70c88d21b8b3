package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainUser "github.com/tillgate/tillgate/internal/domain/user"
	vo "github.com/tillgate/tillgate/internal/domain/user/value_objects"
	apperrors "github.com/tillgate/tillgate/internal/shared/errors"
	"github.com/tillgate/tillgate/internal/shared/logger"
)

type mockUserRepository struct {
	domainUser.Repository
	GetByEmailFunc func(ctx context.Context, email string) (*domainUser.User, error)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

type mockHasher struct {
	VerifyFunc func(password, hash string) error
}

func (m *mockHasher) Verify(password, hash string) error {
	return m.VerifyFunc(password, hash)
}

type mockIssuer struct {
	calls int
}

func (m *mockIssuer) Issue(userID uint, sessionID string) (string, time.Time, error) {
	m.calls++
	return "signed-token", time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC), nil
}

type stubAccess struct{}

func (stubAccess) GetUserPermissions(context.Context, uint) []string {
	return []string{"orders:create", "orders:view"}
}

func (stubAccess) GetUserRoleLevel(context.Context, uint) int {
	return 20
}

type recordedFailure struct {
	action     string
	resourceID *string
}

type mockFailures struct {
	recorded []recordedFailure
}

func (m *mockFailures) RecordError(_ context.Context, action, _ string, resourceID *string, _ error) {
	m.recorded = append(m.recorded, recordedFailure{action: action, resourceID: resourceID})
}

func testUser(t *testing.T, active bool) *domainUser.User {
	t.Helper()
	email, err := vo.NewEmail("cashier@till.example")
	require.NoError(t, err)
	name, err := vo.NewName("ana lópez")
	require.NoError(t, err)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	u, err := domainUser.ReconstructUser(7, email, name, "$2a$hash", active, now, now)
	require.NoError(t, err)
	return u
}

func newLoginService(u *domainUser.User, verifyErr error) (*LoginService, *mockIssuer, *mockFailures) {
	issuer := &mockIssuer{}
	failures := &mockFailures{}
	repo := &mockUserRepository{GetByEmailFunc: func(_ context.Context, email string) (*domainUser.User, error) {
		if u != nil && email == u.Email().String() {
			return u, nil
		}
		return nil, nil
	}}
	hasher := &mockHasher{VerifyFunc: func(string, string) error { return verifyErr }}
	return NewLoginService(repo, hasher, issuer, stubAccess{}, failures, logger.NewDiscard()), issuer, failures
}

func TestLogin_Success(t *testing.T) {
	svc, issuer, failures := newLoginService(testUser(t, true), nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "  Cashier@Till.example ", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "signed-token", resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, uint(7), resp.User.ID)
	assert.Equal(t, "Ana López", resp.User.Name)
	assert.Equal(t, 20, resp.User.RoleLevel)
	assert.Equal(t, []string{"orders:create", "orders:view"}, resp.User.Permissions)
	assert.Equal(t, 1, issuer.calls)
	assert.Empty(t, failures.recorded)
}

func TestLogin_Rejections(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		svc, issuer, failures := newLoginService(testUser(t, true), nil)
		_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@till.example", Password: "pw"})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.GetAppError(err).Type)
		assert.Zero(t, issuer.calls)
		require.Len(t, failures.recorded, 1)
		assert.Nil(t, failures.recorded[0].resourceID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, issuer, failures := newLoginService(testUser(t, true), errors.New("mismatch"))
		_, err := svc.Login(context.Background(), LoginRequest{Email: "cashier@till.example", Password: "bad"})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.GetAppError(err).Type)
		assert.Zero(t, issuer.calls)
		require.Len(t, failures.recorded, 1)
		require.NotNil(t, failures.recorded[0].resourceID)
		assert.Equal(t, "7", *failures.recorded[0].resourceID)
	})

	t.Run("deactivated account", func(t *testing.T) {
		svc, issuer, _ := newLoginService(testUser(t, false), nil)
		_, err := svc.Login(context.Background(), LoginRequest{Email: "cashier@till.example", Password: "pw"})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeForbidden, apperrors.GetAppError(err).Type)
		assert.Zero(t, issuer.calls)
	})

	t.Run("invalid payload", func(t *testing.T) {
		svc, _, _ := newLoginService(nil, nil)
		_, err := svc.Login(context.Background(), LoginRequest{Email: "not-an-email", Password: "pw"})
		assert.True(t, apperrors.IsValidationError(err))
	})
}
