package authorization

// Reason explains a decision for logs, metrics and the denial audit.
type Reason string

const (
	ReasonUserNotFound         Reason = "user_not_found"
	ReasonUserInactive         Reason = "user_inactive"
	ReasonSuperAdmin           Reason = "super_admin"
	ReasonDirectGrant          Reason = "direct_grant"
	ReasonDirectDeny           Reason = "direct_deny"
	ReasonRoleGrant            Reason = "role_grant"
	ReasonNoMatchingPermission Reason = "no_matching_permission"
	ReasonLookupFailed         Reason = "lookup_failed"
)

func (r Reason) String() string {
	return string(r)
}

type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow(reason Reason) Decision {
	return Decision{Allowed: true, Reason: reason}
}

func deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// PermissionRef names one (resource, action) pair to check.
type PermissionRef struct {
	Resource string
	Action   string
}

func (p PermissionRef) String() string {
	return p.Resource + ":" + p.Action
}
