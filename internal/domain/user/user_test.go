package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/tillgate/tillgate/internal/domain/user/value_objects"
)

func newTestUser(t *testing.T) *User {
	t.Helper()
	email, err := vo.NewEmail("cashier@example.com")
	require.NoError(t, err)
	name, err := vo.NewName("Front Till")
	require.NoError(t, err)
	u, err := NewUser(email, name, "hash")
	require.NoError(t, err)
	return u
}

func TestNewUser_ActiveByDefault(t *testing.T) {
	u := newTestUser(t)
	assert.True(t, u.IsActive())
	assert.True(t, u.HasPassword())
	assert.Equal(t, uint(0), u.ID())
}

func TestNewUser_RequiresEmailAndName(t *testing.T) {
	name, _ := vo.NewName("Front Till")
	_, err := NewUser(nil, name, "")
	assert.Error(t, err)

	email, _ := vo.NewEmail("a@example.com")
	_, err = NewUser(email, nil, "")
	assert.Error(t, err)
}

func TestUser_SetActive(t *testing.T) {
	u := newTestUser(t)

	assert.False(t, u.SetActive(true))
	assert.True(t, u.SetActive(false))
	assert.False(t, u.IsActive())
	assert.True(t, u.SetActive(true))
}
