package value_objects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResource(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{name: "seeded resource", input: "orders"},
		{name: "with underscore", input: "gift_cards"},
		{name: "empty", input: "", wantError: true},
		{name: "uppercase", input: "Orders", wantError: true},
		{name: "contains colon", input: "orders:create", wantError: true},
		{name: "too long", input: strings.Repeat("a", 51), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResource(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, r.String())
		})
	}
}

func TestNewAction_OpenSet(t *testing.T) {
	a, err := NewAction("reprint_receipt")
	require.NoError(t, err)
	assert.Equal(t, "reprint_receipt", a.String())

	_, err = NewAction("")
	assert.Error(t, err)

	_, err = NewAction("two words")
	assert.Error(t, err)
}

func TestNewGrantType(t *testing.T) {
	g, err := NewGrantType("grant")
	require.NoError(t, err)
	assert.True(t, g.IsGrant())

	d, err := NewGrantType("deny")
	require.NoError(t, err)
	assert.True(t, d.IsDeny())

	_, err = NewGrantType("allow")
	assert.Error(t, err)

	_, err = NewGrantType("")
	assert.Error(t, err)
}
