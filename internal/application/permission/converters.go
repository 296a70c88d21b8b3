package permission

import (
	"strconv"
	"time"

	"github.com/tillgate/tillgate/internal/application/permission/dto"
	"github.com/tillgate/tillgate/internal/domain/permission"
)

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func toRoleDTO(r *permission.Role) *dto.RoleDTO {
	return &dto.RoleDTO{
		ID:           r.ID(),
		Name:         r.Name(),
		Description:  r.Description(),
		Level:        r.Level(),
		IsSuperAdmin: r.IsSuperAdmin(),
		IsActive:     r.IsActive(),
		CreatedAt:    r.CreatedAt(),
		UpdatedAt:    r.UpdatedAt(),
	}
}

func toPermissionDTO(p *permission.Permission) *dto.PermissionDTO {
	return &dto.PermissionDTO{
		ID:          p.ID(),
		Name:        p.Name(),
		Resource:    p.Resource().String(),
		Action:      p.Action().String(),
		Code:        p.Code(),
		Scope:       p.Scope(),
		Conditions:  p.Conditions().Clone(),
		Description: p.Description(),
		IsActive:    p.IsActive(),
	}
}

func toRolePermissionDTO(g *permission.RolePermission) *dto.RolePermissionDTO {
	return &dto.RolePermissionDTO{
		ID:           g.ID(),
		RoleID:       g.RoleID(),
		PermissionID: g.PermissionID(),
		Conditions:   g.Conditions().Clone(),
		GrantedBy:    g.GrantedBy(),
		GrantedAt:    g.GrantedAt(),
	}
}

func toUserRoleDTO(a *permission.UserRole, role *permission.Role, now time.Time) *dto.UserRoleDTO {
	out := &dto.UserRoleDTO{
		ID:         a.ID(),
		UserID:     a.UserID(),
		RoleID:     a.RoleID(),
		AssignedBy: a.AssignedBy(),
		AssignedAt: a.AssignedAt(),
		ExpiresAt:  a.ExpiresAt(),
		Expired:    a.IsExpiredAt(now),
	}
	if role != nil {
		out.RoleName = role.Name()
		out.RoleLevel = role.Level()
	}
	return out
}

func toUserPermissionDTO(e *permission.UserPermission, p *permission.Permission, now time.Time) *dto.UserPermissionDTO {
	out := &dto.UserPermissionDTO{
		ID:           e.ID(),
		UserID:       e.UserID(),
		PermissionID: e.PermissionID(),
		Source:       "direct",
		GrantType:    e.GrantType().String(),
		Conditions:   e.Conditions().Clone(),
		GrantedBy:    e.GrantedBy(),
		GrantedAt:    e.GrantedAt(),
		ExpiresAt:    e.ExpiresAt(),
		Expired:      e.IsExpiredAt(now),
	}
	if p != nil {
		out.Name = p.Name()
		out.Resource = p.Resource().String()
		out.Action = p.Action().String()
	}
	return out
}

// Snapshots stored as audit old/new values.

func roleSnapshot(r *permission.Role) map[string]any {
	return map[string]any{
		"id":             r.ID(),
		"name":           r.Name(),
		"description":    r.Description(),
		"level":          r.Level(),
		"is_super_admin": r.IsSuperAdmin(),
		"is_active":      r.IsActive(),
	}
}

func permissionSnapshot(p *permission.Permission) map[string]any {
	snap := map[string]any{
		"id":          p.ID(),
		"name":        p.Name(),
		"code":        p.Code(),
		"description": p.Description(),
		"is_active":   p.IsActive(),
	}
	if p.Scope() != "" {
		snap["scope"] = p.Scope()
	}
	if !p.Conditions().IsEmpty() {
		snap["conditions"] = map[string]any(p.Conditions().Clone())
	}
	return snap
}

func rolePermissionSnapshot(g *permission.RolePermission) map[string]any {
	snap := map[string]any{
		"id":            g.ID(),
		"role_id":       g.RoleID(),
		"permission_id": g.PermissionID(),
		"granted_by":    g.GrantedBy(),
		"granted_at":    g.GrantedAt(),
		"is_active":     g.IsActive(),
	}
	if !g.Conditions().IsEmpty() {
		snap["conditions"] = map[string]any(g.Conditions().Clone())
	}
	return snap
}

func userRoleSnapshot(a *permission.UserRole) map[string]any {
	snap := map[string]any{
		"id":          a.ID(),
		"user_id":     a.UserID(),
		"role_id":     a.RoleID(),
		"assigned_by": a.AssignedBy(),
		"assigned_at": a.AssignedAt(),
		"is_active":   a.IsActive(),
	}
	if a.ExpiresAt() != nil {
		snap["expires_at"] = *a.ExpiresAt()
	}
	return snap
}

func userPermissionSnapshot(e *permission.UserPermission) map[string]any {
	snap := map[string]any{
		"id":            e.ID(),
		"user_id":       e.UserID(),
		"permission_id": e.PermissionID(),
		"grant_type":    e.GrantType().String(),
		"granted_by":    e.GrantedBy(),
		"granted_at":    e.GrantedAt(),
		"is_active":     e.IsActive(),
	}
	if e.ExpiresAt() != nil {
		snap["expires_at"] = *e.ExpiresAt()
	}
	if !e.Conditions().IsEmpty() {
		snap["conditions"] = map[string]any(e.Conditions().Clone())
	}
	return snap
}
