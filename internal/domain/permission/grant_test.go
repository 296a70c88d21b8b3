package permission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/tillgate/tillgate/internal/domain/permission/value_objects"
)

func TestLifecycle_DeactivateOnce(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rp, err := NewRolePermission(1, 2, nil, 9, now)
	require.NoError(t, err)
	assert.True(t, rp.IsActive())

	require.NoError(t, rp.Deactivate(10, now.Add(time.Minute)))
	assert.False(t, rp.IsActive())
	require.NotNil(t, rp.DeactivatedBy())
	assert.Equal(t, uint(10), *rp.DeactivatedBy())
	assert.Equal(t, now.Add(time.Minute), *rp.DeactivatedAt())

	err = rp.Deactivate(11, now.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrGrantInactive)
	assert.Equal(t, uint(10), *rp.DeactivatedBy())
}

func TestNewUserPermission_Validation(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	_, err := NewUserPermission(0, 1, vo.GrantTypeGrant, nil, nil, 1, now)
	assert.Error(t, err)

	_, err = NewUserPermission(1, 0, vo.GrantTypeGrant, nil, nil, 1, now)
	assert.Error(t, err)

	_, err = NewUserPermission(1, 1, vo.GrantType("maybe"), nil, nil, 1, now)
	assert.Error(t, err)

	_, err = NewUserPermission(1, 1, vo.GrantTypeDeny, &past, nil, 1, now)
	assert.Error(t, err)

	up, err := NewUserPermission(1, 1, vo.GrantTypeDeny, nil, Conditions{"store": 1}, 1, now)
	require.NoError(t, err)
	assert.True(t, up.IsActive())
	assert.True(t, up.GrantType().IsDeny())
	assert.False(t, up.IsExpiredAt(now.Add(24*time.Hour)))
}

func TestUserRole_IsEffectiveAt(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(time.Hour)

	ur, err := NewUserRole(1, 2, &expires, 9, now)
	require.NoError(t, err)

	assert.True(t, ur.IsEffectiveAt(now))
	assert.True(t, ur.IsEffectiveAt(expires))
	assert.False(t, ur.IsEffectiveAt(expires.Add(time.Second)))

	require.NoError(t, ur.Deactivate(9, now))
	assert.False(t, ur.IsEffectiveAt(now))
}

func TestUserAccess_SortDirectNewestFirst(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mk := func(id uint, at time.Time) DirectEntry {
		up := ReconstructUserPermission(id, 1, 1, vo.GrantTypeGrant, nil, 1, at, nil, ReconstructLifecycle(true, nil, nil))
		return DirectEntry{Grant: up}
	}

	access := &UserAccess{Direct: []DirectEntry{
		mk(1, base),
		mk(2, base.Add(time.Hour)),
		mk(3, base),
	}}
	access.SortDirectNewestFirst()

	ids := []uint{}
	for _, d := range access.Direct {
		ids = append(ids, d.Grant.ID())
	}
	assert.Equal(t, []uint{2, 3, 1}, ids)
}
