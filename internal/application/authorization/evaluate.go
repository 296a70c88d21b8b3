package authorization

import (
	"sort"
	"time"

	"github.com/tillgate/tillgate/internal/domain/permission"
	vo "github.com/tillgate/tillgate/internal/domain/permission/value_objects"
)

// evaluate decides one (resource, action) against a loaded snapshot. Direct
// entries must already be ordered newest first.
func evaluate(access *permission.UserAccess, resource, action string, reqCtx map[string]any, now time.Time) Decision {
	if access == nil {
		return deny(ReasonUserNotFound)
	}
	if !access.UserActive {
		return deny(ReasonUserInactive)
	}
	if hasSuperAdminRole(access, now) {
		return allow(ReasonSuperAdmin)
	}

	for _, entry := range access.Direct {
		grant, perm := entry.Grant, entry.Permission
		if grant == nil || perm == nil {
			continue
		}
		if !grant.IsActive() || !perm.IsActive() || !perm.Matches(resource, action) {
			continue
		}
		if grant.IsExpiredAt(now) {
			continue
		}
		if !permission.EffectiveConditions(grant.Conditions(), perm.Conditions()).Matches(reqCtx) {
			continue
		}
		if grant.GrantType() == vo.GrantTypeGrant {
			return allow(ReasonDirectGrant)
		}
		return deny(ReasonDirectDeny)
	}

	for _, assignment := range effectiveRoles(access, now) {
		for _, rg := range assignment.Grants {
			grant, perm := rg.Grant, rg.Permission
			if grant == nil || perm == nil {
				continue
			}
			if !grant.IsActive() || !perm.IsActive() || !perm.Matches(resource, action) {
				continue
			}
			if permission.EffectiveConditions(grant.Conditions(), perm.Conditions()).Matches(reqCtx) {
				return allow(ReasonRoleGrant)
			}
		}
	}

	return deny(ReasonNoMatchingPermission)
}

// effectiveRoles filters assignments down to active, unexpired assignments
// of active roles.
func effectiveRoles(access *permission.UserAccess, now time.Time) []permission.RoleAssignment {
	out := make([]permission.RoleAssignment, 0, len(access.Roles))
	for _, ra := range access.Roles {
		if ra.Assignment == nil || ra.Role == nil {
			continue
		}
		if !ra.Assignment.IsEffectiveAt(now) || !ra.Role.IsActive() {
			continue
		}
		out = append(out, ra)
	}
	return out
}

func hasSuperAdminRole(access *permission.UserAccess, now time.Time) bool {
	for _, ra := range effectiveRoles(access, now) {
		if ra.Role.IsSuperAdmin() {
			return true
		}
	}
	return false
}

// permissionCodes is the coarse "resource:action" summary: role-derived
// permissions plus active, unexpired direct grants. Conditions are ignored.
func permissionCodes(access *permission.UserAccess, now time.Time) []string {
	if access == nil || !access.UserActive {
		return []string{}
	}

	set := make(map[string]struct{})
	for _, ra := range effectiveRoles(access, now) {
		for _, rg := range ra.Grants {
			if rg.Grant == nil || rg.Permission == nil {
				continue
			}
			if rg.Grant.IsActive() && rg.Permission.IsActive() {
				set[rg.Permission.Code()] = struct{}{}
			}
		}
	}
	for _, entry := range access.Direct {
		if entry.Grant == nil || entry.Permission == nil {
			continue
		}
		if !entry.Grant.IsActive() || !entry.Permission.IsActive() || entry.Grant.IsExpiredAt(now) {
			continue
		}
		if entry.Grant.GrantType() == vo.GrantTypeGrant {
			set[entry.Permission.Code()] = struct{}{}
		}
	}

	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func maxRoleLevel(access *permission.UserAccess, now time.Time) int {
	if access == nil || !access.UserActive {
		return 0
	}
	level := 0
	for _, ra := range effectiveRoles(access, now) {
		if ra.Role.Level() > level {
			level = ra.Role.Level()
		}
	}
	return level
}
