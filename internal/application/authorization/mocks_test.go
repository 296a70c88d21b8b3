package authorization

import (
	"context"
	"sync"
	"time"

	"github.com/tillgate/tillgate/internal/domain/permission"
	vo "github.com/tillgate/tillgate/internal/domain/permission/value_objects"
)

type mockAccessLoader struct {
	LoadUserAccessFunc func(ctx context.Context, userID uint) (*permission.UserAccess, error)
	calls              int
}

func (m *mockAccessLoader) LoadUserAccess(ctx context.Context, userID uint) (*permission.UserAccess, error) {
	m.calls++
	if m.LoadUserAccessFunc != nil {
		return m.LoadUserAccessFunc(ctx, userID)
	}
	return nil, nil
}

type observed struct {
	allowed bool
	reason  string
}

type mockObserver struct {
	mu        sync.Mutex
	decisions []observed
}

func (m *mockObserver) ObserveDecision(allowed bool, reason string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, observed{allowed: allowed, reason: reason})
}

var (
	testNow   = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	testClock = func() time.Time { return testNow }
)

type catalog struct {
	nextID uint
	perms  map[string]*permission.Permission
}

func newCatalog() *catalog {
	return &catalog{perms: map[string]*permission.Permission{}}
}

func (c *catalog) id() uint {
	c.nextID++
	return c.nextID
}

// perm returns the catalog permission for resource:action, creating it on
// first use.
func (c *catalog) perm(resource, action string) *permission.Permission {
	code := permission.Code(resource, action)
	if p, ok := c.perms[code]; ok {
		return p
	}
	p, err := permission.ReconstructPermission(c.id(), resource+"."+action, vo.Resource(resource), vo.Action(action), "", nil, "", true, testNow, testNow)
	if err != nil {
		panic(err)
	}
	c.perms[code] = p
	return p
}

func (c *catalog) conditionalPerm(resource, action string, conditions permission.Conditions) *permission.Permission {
	p, err := permission.ReconstructPermission(c.id(), resource+"."+action, vo.Resource(resource), vo.Action(action), "", conditions, "", true, testNow, testNow)
	if err != nil {
		panic(err)
	}
	return p
}

func (c *catalog) inactivePerm(resource, action string) *permission.Permission {
	p, err := permission.ReconstructPermission(c.id(), resource+"."+action, vo.Resource(resource), vo.Action(action), "", nil, "", false, testNow, testNow)
	if err != nil {
		panic(err)
	}
	return p
}

type roleFixture struct {
	name       string
	level      int
	superAdmin bool
	inactive   bool
	expiresAt  *time.Time
	grants     []permission.RoleGrant
}

func (c *catalog) role(userID uint, fx roleFixture) permission.RoleAssignment {
	role, err := permission.ReconstructRole(c.id(), fx.name, "", fx.level, fx.superAdmin, !fx.inactive, testNow, testNow)
	if err != nil {
		panic(err)
	}
	ur := permission.ReconstructUserRole(c.id(), userID, role.ID(), 1, testNow.Add(-24*time.Hour), fx.expiresAt, permission.ReconstructLifecycle(true, nil, nil))
	for i := range fx.grants {
		fx.grants[i].Grant = permission.ReconstructRolePermission(c.id(), role.ID(), fx.grants[i].Permission.ID(), fx.grants[i].Grant.Conditions(), 1, testNow, permission.ReconstructLifecycle(true, nil, nil))
	}
	return permission.RoleAssignment{Assignment: ur, Role: role, Grants: fx.grants}
}

// grant builds a role grant template; role() fills in ids.
func grant(p *permission.Permission) permission.RoleGrant {
	return conditionalGrant(p, nil)
}

func conditionalGrant(p *permission.Permission, conditions permission.Conditions) permission.RoleGrant {
	rp := permission.ReconstructRolePermission(0, 0, p.ID(), conditions, 0, testNow, permission.ReconstructLifecycle(true, nil, nil))
	return permission.RoleGrant{Grant: rp, Permission: p}
}

type directFixture struct {
	grantType  vo.GrantType
	grantedAt  time.Time
	expiresAt  *time.Time
	conditions permission.Conditions
}

func (c *catalog) direct(userID uint, p *permission.Permission, fx directFixture) permission.DirectEntry {
	if fx.grantedAt.IsZero() {
		fx.grantedAt = testNow.Add(-time.Hour)
	}
	up := permission.ReconstructUserPermission(c.id(), userID, p.ID(), fx.grantType, fx.conditions, 1, fx.grantedAt, fx.expiresAt, permission.ReconstructLifecycle(true, nil, nil))
	return permission.DirectEntry{Grant: up, Permission: p}
}

func loaderFor(access *permission.UserAccess) *mockAccessLoader {
	return &mockAccessLoader{
		LoadUserAccessFunc: func(_ context.Context, userID uint) (*permission.UserAccess, error) {
			if access == nil || access.UserID != userID {
				return nil, nil
			}
			return access, nil
		},
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
