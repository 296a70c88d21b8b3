package permission

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/casbin/casbin/v2"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/tillgate/tillgate/internal/domain/permission"
	"github.com/tillgate/tillgate/internal/shared/logger"
	"github.com/tillgate/tillgate/internal/shared/utils/setutil"
)

var _ permission.PolicyProjector = (*Projector)(nil)

type Sources struct {
	Roles           permission.RoleRepository
	Permissions     permission.PermissionRepository
	RolePermissions permission.RolePermissionRepository
	UserRoles       permission.UserRoleRepository
}

// Projector rewrites the casbin_rule table from the live grant tables:
// one p line per active grant of an active permission to an active role and
// one g line per effective assignment of a user to an active role.
type Projector struct {
	enforcer *casbin.Enforcer
	sources  Sources
	mu       sync.Mutex
	now      func() time.Time
	logger   logger.Interface
}

func NewProjector(db *gorm.DB, tableName string, sources Sources, log logger.Interface) (*Projector, error) {
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := newModel()
	if err != nil {
		return nil, fmt.Errorf("failed to build casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	enforcer.EnableAutoSave(false)

	return &Projector{
		enforcer: enforcer,
		sources:  sources,
		now:      time.Now,
		logger:   log,
	}, nil
}

// Sync replaces the stored policy with the current projection.
func (p *Projector) Sync(ctx context.Context) (permission.PolicyStats, error) {
	policies, groupings, err := p.project(ctx)
	if err != nil {
		return permission.PolicyStats{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.enforcer.ClearPolicy()
	if len(policies) > 0 {
		if _, err := p.enforcer.AddPolicies(policies); err != nil {
			return permission.PolicyStats{}, fmt.Errorf("failed to add policies: %w", err)
		}
	}
	if len(groupings) > 0 {
		if _, err := p.enforcer.AddGroupingPolicies(groupings); err != nil {
			return permission.PolicyStats{}, fmt.Errorf("failed to add grouping policies: %w", err)
		}
	}
	if err := p.enforcer.SavePolicy(); err != nil {
		return permission.PolicyStats{}, fmt.Errorf("failed to save policy: %w", err)
	}

	stats := permission.PolicyStats{Policies: len(policies), Groupings: len(groupings)}
	p.logger.Infow("casbin policy synced", "policies", stats.Policies, "groupings", stats.Groupings)
	return stats, nil
}

// Export reloads the stored policy and renders it in casbin CSV form.
func (p *Projector) Export() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	policies, err := p.enforcer.GetPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to read policies: %w", err)
	}
	groupings, err := p.enforcer.GetGroupingPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to read grouping policies: %w", err)
	}

	lines := make([]string, 0, len(policies)+len(groupings))
	lines = append(lines, csvLines("p", policies)...)
	lines = append(lines, csvLines("g", groupings)...)
	return lines, nil
}

// Enforce evaluates the stored projection. Conditions and direct entries are
// not part of the projection, so this is a coarse view of role access only.
func (p *Projector) Enforce(userID uint, resource, action string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	allowed, err := p.enforcer.Enforce(strconv.FormatUint(uint64(userID), 10), resource, action)
	if err != nil {
		return false, fmt.Errorf("policy check failed: %w", err)
	}
	return allowed, nil
}

func (p *Projector) project(ctx context.Context) (policies, groupings [][]string, err error) {
	grants, err := p.sources.RolePermissions.ListActive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list role grants: %w", err)
	}
	assignments, err := p.sources.UserRoles.ListActive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list role assignments: %w", err)
	}

	roleIDs := setutil.NewUintSet()
	permIDs := setutil.NewUintSetWithCap(len(grants))
	for _, g := range grants {
		roleIDs.Add(g.RoleID())
		permIDs.Add(g.PermissionID())
	}
	for _, a := range assignments {
		roleIDs.Add(a.RoleID())
	}

	roles, err := p.sources.Roles.ListByIDs(ctx, roleIDs.ToSlice())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load roles: %w", err)
	}
	perms, err := p.sources.Permissions.ListByIDs(ctx, permIDs.ToSlice())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load permissions: %w", err)
	}

	activeRoles := make(map[uint]*permission.Role, len(roles))
	for _, r := range roles {
		if r.IsActive() {
			activeRoles[r.ID()] = r
		}
	}
	activePerms := make(map[uint]*permission.Permission, len(perms))
	for _, pm := range perms {
		if pm.IsActive() {
			activePerms[pm.ID()] = pm
		}
	}

	seen := make(map[string]struct{})
	add := func(dst *[][]string, rule []string) {
		k := strings.Join(rule, "\x00")
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		*dst = append(*dst, rule)
	}

	for _, r := range activeRoles {
		if r.IsSuperAdmin() {
			add(&policies, []string{r.Name(), SuperAdminWildcard, SuperAdminWildcard})
		}
	}
	for _, g := range grants {
		role, ok := activeRoles[g.RoleID()]
		if !ok {
			continue
		}
		perm, ok := activePerms[g.PermissionID()]
		if !ok {
			continue
		}
		add(&policies, []string{role.Name(), perm.Resource().String(), perm.Action().String()})
	}

	now := p.now()
	for _, a := range assignments {
		role, ok := activeRoles[a.RoleID()]
		if !ok || !a.IsEffectiveAt(now) {
			continue
		}
		add(&groupings, []string{strconv.FormatUint(uint64(a.UserID()), 10), role.Name()})
	}

	sortRules(policies)
	sortRules(groupings)
	return policies, groupings, nil
}

func sortRules(rules [][]string) {
	sort.Slice(rules, func(i, j int) bool {
		return strings.Join(rules[i], ",") < strings.Join(rules[j], ",")
	})
}

func csvLines(ptype string, rules [][]string) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, ptype+", "+strings.Join(r, ", "))
	}
	sort.Strings(out)
	return out
}
