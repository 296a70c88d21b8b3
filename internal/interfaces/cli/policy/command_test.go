package policy

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEnforcer struct {
	allowed bool
	err     error
	calls   []string
}

func (e *stubEnforcer) Enforce(userID uint, resource, action string) (bool, error) {
	e.calls = append(e.calls, fmt.Sprintf("%d %s %s", userID, resource, action))
	return e.allowed, e.err
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteLines(t *testing.T) {
	var buf bytes.Buffer
	err := writeLines(&buf, []string{"p, manager, orders, create", "g, 3, manager"})

	assert.NoError(t, err)
	assert.Equal(t, "p, manager, orders, create\ng, 3, manager\n", buf.String())
}

func TestWriteLines_PropagatesWriteError(t *testing.T) {
	err := writeLines(failingWriter{}, []string{"p, owner, *, *"})

	assert.ErrorContains(t, err, "disk full")
}

func TestCheckPolicy(t *testing.T) {
	var buf bytes.Buffer
	enforcer := &stubEnforcer{allowed: true}

	require.NoError(t, checkPolicy(&buf, enforcer, 3, "orders", "create"))
	assert.Equal(t, "ALLOW orders:create for user 3 (casbin projection)\n", buf.String())
	assert.Equal(t, []string{"3 orders create"}, enforcer.calls)

	buf.Reset()
	require.NoError(t, checkPolicy(&buf, &stubEnforcer{}, 4, "payments", "refund"))
	assert.Equal(t, "DENY payments:refund for user 4 (casbin projection)\n", buf.String())
}

func TestCheckPolicy_PropagatesEnforceError(t *testing.T) {
	var buf bytes.Buffer
	err := checkPolicy(&buf, &stubEnforcer{err: errors.New("policy check failed")}, 1, "orders", "view")

	assert.ErrorContains(t, err, "policy check failed")
	assert.Empty(t, buf.String())
}
