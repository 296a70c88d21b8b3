package value_objects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
		expected  string
	}{
		{name: "valid email", input: "cashier@example.com", expected: "cashier@example.com"},
		{name: "normalized to lowercase", input: "  Admin@Example.COM ", expected: "admin@example.com"},
		{name: "empty", input: "", wantError: true},
		{name: "missing domain", input: "cashier@", wantError: true},
		{name: "too long", input: strings.Repeat("a", 250) + "@example.com", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := NewEmail(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, email.String())
		})
	}
}

func TestNewName(t *testing.T) {
	n, err := NewName("  ana   maria ")
	require.NoError(t, err)
	assert.Equal(t, "ana maria", n.String())
	assert.Equal(t, "Ana Maria", n.DisplayName())

	_, err = NewName("a")
	assert.Error(t, err)

	_, err = NewName("   ")
	assert.Error(t, err)
}
