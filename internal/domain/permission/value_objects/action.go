package value_objects

import "fmt"

// Action is an operation on a resource. The set is open: the constants below
// cover the seeded catalog, custom actions only need to be well-formed.
type Action string

const (
	ActionView        Action = "view"
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionCancel      Action = "cancel"
	ActionPermissions Action = "permissions"
	ActionProcess     Action = "process"
	ActionRefund      Action = "refund"
	ActionExport      Action = "export"
	ActionSettings    Action = "settings"
	ActionAudit       Action = "audit"
)

func NewAction(action string) (Action, error) {
	if action == "" {
		return "", fmt.Errorf("action cannot be empty")
	}
	if len(action) > 50 {
		return "", fmt.Errorf("action too long (max 50 characters)")
	}
	if !tagPattern.MatchString(action) {
		return "", fmt.Errorf("invalid action: %s", action)
	}
	return Action(action), nil
}

func (a Action) String() string {
	return string(a)
}

func (a Action) Equals(other Action) bool {
	return a == other
}
