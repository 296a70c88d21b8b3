package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntry_Validate(t *testing.T) {
	e := &Entry{Action: "create", Resource: "roles", Timestamp: time.Now()}
	assert.NoError(t, e.Validate())

	e.Action = " "
	assert.Error(t, e.Validate())

	e = &Entry{Action: "create", Resource: "roles"}
	assert.Error(t, e.Validate())
}

func TestDenialAction(t *testing.T) {
	assert.Equal(t, "unauthorized_create", DenialAction("create"))

	e := &Entry{Action: DenialAction("delete")}
	assert.True(t, e.IsDenial())

	e.Action = "delete"
	assert.False(t, e.IsDenial())
}
