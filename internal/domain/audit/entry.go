// Package audit holds the append-only security and mutation log.
package audit

import (
	"fmt"
	"strings"
	"time"
)

const unauthorizedPrefix = "unauthorized_"

// Entry is an immutable audit record. Once appended it is never updated or
// deleted by the application.
type Entry struct {
	ID           uint
	UserID       *uint
	Action       string
	Resource     string
	ResourceID   *string
	OldValues    map[string]any
	NewValues    map[string]any
	IPAddress    string
	UserAgent    string
	SessionID    string
	RequestID    string
	Timestamp    time.Time
	Success      bool
	ErrorMessage string
	Metadata     map[string]any
}

func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Action) == "" {
		return fmt.Errorf("audit action is required")
	}
	if strings.TrimSpace(e.Resource) == "" {
		return fmt.Errorf("audit resource is required")
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("audit timestamp is required")
	}
	return nil
}

// IsDenial reports whether the entry records a guard rejection.
func (e *Entry) IsDenial() bool {
	return strings.HasPrefix(e.Action, unauthorizedPrefix)
}

// DenialAction returns the audit action tag for a rejected action.
func DenialAction(action string) string {
	return unauthorizedPrefix + action
}
