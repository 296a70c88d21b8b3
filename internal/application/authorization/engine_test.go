package authorization

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillgate/tillgate/internal/domain/permission"
	vo "github.com/tillgate/tillgate/internal/domain/permission/value_objects"
	"github.com/tillgate/tillgate/internal/domain/user"
	"github.com/tillgate/tillgate/internal/shared/logger"
)

func newTestEngine(loader permission.AccessLoader, opts ...Option) *Engine {
	opts = append([]Option{WithClock(testClock)}, opts...)
	return NewEngine(loader, logger.NewDiscard(), opts...)
}

func cashierRole(c *catalog, userID uint) permission.RoleAssignment {
	return c.role(userID, roleFixture{
		name:  "cashier",
		level: 20,
		grants: []permission.RoleGrant{
			grant(c.perm("orders", "create")),
			grant(c.perm("orders", "view")),
		},
	})
}

func TestEngine_ScenarioU1_CashierRoleOnly(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{UserID: 1, UserActive: true, Roles: []permission.RoleAssignment{cashierRole(c, 1)}}
	engine := newTestEngine(loaderFor(access))
	ctx := context.Background()

	decision := engine.Decide(ctx, 1, "orders", "create", nil)
	assert.True(t, decision.Allowed)
	assert.Equal(t, ReasonRoleGrant, decision.Reason)

	decision = engine.Decide(ctx, 1, "orders", "delete", nil)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNoMatchingPermission, decision.Reason)
}

func TestEngine_ScenarioU2_DirectDenyBeatsRole(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{
		UserID:     2,
		UserActive: true,
		Roles:      []permission.RoleAssignment{cashierRole(c, 2)},
		Direct: []permission.DirectEntry{
			c.direct(2, c.perm("orders", "create"), directFixture{grantType: vo.GrantTypeDeny}),
		},
	}
	engine := newTestEngine(loaderFor(access))

	decision := engine.Decide(context.Background(), 2, "orders", "create", nil)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonDirectDeny, decision.Reason)

	assert.True(t, engine.HasPermission(context.Background(), 2, "orders", "view", nil))
}

func TestEngine_ScenarioU3_ExpiredDirectGrantIsIgnored(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{
		UserID:     3,
		UserActive: true,
		Direct: []permission.DirectEntry{
			c.direct(3, c.perm("comments", "create"), directFixture{
				grantType: vo.GrantTypeGrant,
				grantedAt: testNow.Add(-48 * time.Hour),
				expiresAt: timePtr(testNow.Add(-time.Hour)),
			}),
		},
	}
	engine := newTestEngine(loaderFor(access))

	decision := engine.Decide(context.Background(), 3, "comments", "create", nil)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNoMatchingPermission, decision.Reason)
	assert.Empty(t, engine.GetUserPermissions(context.Background(), 3))
}

func TestEngine_ExpiredDirectDenyFallsThroughToRole(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{
		UserID:     4,
		UserActive: true,
		Roles:      []permission.RoleAssignment{cashierRole(c, 4)},
		Direct: []permission.DirectEntry{
			c.direct(4, c.perm("orders", "create"), directFixture{
				grantType: vo.GrantTypeDeny,
				grantedAt: testNow.Add(-48 * time.Hour),
				expiresAt: timePtr(testNow.Add(-time.Minute)),
			}),
		},
	}
	engine := newTestEngine(loaderFor(access))

	decision := engine.Decide(context.Background(), 4, "orders", "create", nil)
	assert.True(t, decision.Allowed)
	assert.Equal(t, ReasonRoleGrant, decision.Reason)
}

func TestEngine_DirectGrantWithoutRole(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{
		UserID:     5,
		UserActive: true,
		Direct: []permission.DirectEntry{
			c.direct(5, c.perm("reports", "export"), directFixture{
				grantType: vo.GrantTypeGrant,
				expiresAt: timePtr(testNow.Add(time.Hour)),
			}),
		},
	}
	engine := newTestEngine(loaderFor(access))

	decision := engine.Decide(context.Background(), 5, "reports", "export", nil)
	assert.True(t, decision.Allowed)
	assert.Equal(t, ReasonDirectGrant, decision.Reason)
}

func TestEngine_InactiveUserIsDeniedEverything(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{
		UserID:     6,
		UserActive: false,
		Roles: []permission.RoleAssignment{
			c.role(6, roleFixture{name: "root", level: 100, superAdmin: true}),
			cashierRole(c, 6),
		},
		Direct: []permission.DirectEntry{
			c.direct(6, c.perm("orders", "delete"), directFixture{grantType: vo.GrantTypeGrant}),
		},
	}
	engine := newTestEngine(loaderFor(access))
	ctx := context.Background()

	for _, ref := range []PermissionRef{{"orders", "create"}, {"orders", "delete"}, {"system", "settings"}} {
		decision := engine.Decide(ctx, 6, ref.Resource, ref.Action, nil)
		assert.False(t, decision.Allowed, ref.String())
		assert.Equal(t, ReasonUserInactive, decision.Reason)
	}
	assert.Empty(t, engine.GetUserPermissions(ctx, 6))
	assert.Equal(t, 0, engine.GetUserRoleLevel(ctx, 6))
}

func TestEngine_UnknownUser(t *testing.T) {
	engine := newTestEngine(loaderFor(nil))

	decision := engine.Decide(context.Background(), 99, "orders", "view", nil)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonUserNotFound, decision.Reason)

	decision = engine.Decide(context.Background(), 0, "orders", "view", nil)
	assert.Equal(t, ReasonUserNotFound, decision.Reason)
}

func TestEngine_LoaderReturnsNotFoundSentinel(t *testing.T) {
	loader := &mockAccessLoader{
		LoadUserAccessFunc: func(context.Context, uint) (*permission.UserAccess, error) {
			return nil, user.ErrUserNotFound
		},
	}
	engine := newTestEngine(loader)

	decision := engine.Decide(context.Background(), 7, "orders", "view", nil)
	assert.Equal(t, ReasonUserNotFound, decision.Reason)
}

func TestEngine_StorageFailureFailsClosed(t *testing.T) {
	loader := &mockAccessLoader{
		LoadUserAccessFunc: func(context.Context, uint) (*permission.UserAccess, error) {
			return nil, errors.New("connection refused")
		},
	}
	observer := &mockObserver{}
	engine := newTestEngine(loader, WithObserver(observer))
	ctx := context.Background()

	decision := engine.Decide(ctx, 8, "orders", "view", nil)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonLookupFailed, decision.Reason)

	assert.False(t, engine.HasAnyPermission(ctx, 8, []PermissionRef{{"orders", "view"}}, nil))
	assert.False(t, engine.HasAllPermissions(ctx, 8, []PermissionRef{{"orders", "view"}}, nil))
	assert.Equal(t, []string{}, engine.GetUserPermissions(ctx, 8))
	assert.Equal(t, 0, engine.GetUserRoleLevel(ctx, 8))

	require.Len(t, observer.decisions, 3)
	for _, d := range observer.decisions {
		assert.Equal(t, string(ReasonLookupFailed), d.reason)
	}
}

func TestEngine_SuperAdminFlagBypasses(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{
		UserID:     9,
		UserActive: true,
		Roles:      []permission.RoleAssignment{c.role(9, roleFixture{name: "owner", level: 100, superAdmin: true})},
		Direct: []permission.DirectEntry{
			c.direct(9, c.perm("orders", "delete"), directFixture{grantType: vo.GrantTypeDeny}),
		},
	}
	engine := newTestEngine(loaderFor(access))

	decision := engine.Decide(context.Background(), 9, "orders", "delete", nil)
	assert.True(t, decision.Allowed)
	assert.Equal(t, ReasonSuperAdmin, decision.Reason)
}

func TestEngine_SuperAdminNameWithoutFlagIsOrdinary(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{
		UserID:     10,
		UserActive: true,
		Roles:      []permission.RoleAssignment{c.role(10, roleFixture{name: "super_admin", level: 100})},
	}
	engine := newTestEngine(loaderFor(access))

	assert.False(t, engine.HasPermission(context.Background(), 10, "system", "settings", nil))
}

func TestEngine_ExpiredOrInactiveSuperAdminRoleDoesNotBypass(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{
		UserID:     11,
		UserActive: true,
		Roles: []permission.RoleAssignment{
			c.role(11, roleFixture{name: "owner", level: 100, superAdmin: true, expiresAt: timePtr(testNow.Add(-time.Second))}),
			c.role(11, roleFixture{name: "root", level: 100, superAdmin: true, inactive: true}),
		},
	}
	engine := newTestEngine(loaderFor(access))

	decision := engine.Decide(context.Background(), 11, "system", "settings", nil)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNoMatchingPermission, decision.Reason)
	assert.Equal(t, 0, engine.GetUserRoleLevel(context.Background(), 11))
}

func TestEngine_UnionAcrossRoles(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{
		UserID:     12,
		UserActive: true,
		Roles: []permission.RoleAssignment{
			c.role(12, roleFixture{name: "supervisor", level: 40, grants: []permission.RoleGrant{grant(c.perm("products", "view"))}}),
			c.role(12, roleFixture{name: "cashier", level: 20, grants: []permission.RoleGrant{grant(c.perm("payments", "process"))}}),
		},
	}
	engine := newTestEngine(loaderFor(access))
	ctx := context.Background()

	assert.True(t, engine.HasPermission(ctx, 12, "products", "view", nil))
	assert.True(t, engine.HasPermission(ctx, 12, "payments", "process", nil))
	assert.Equal(t, 40, engine.GetUserRoleLevel(ctx, 12))
	assert.Equal(t, []string{"payments:process", "products:view"}, engine.GetUserPermissions(ctx, 12))
}

func TestEngine_InactiveRoleAndPermissionAreIgnored(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{
		UserID:     13,
		UserActive: true,
		Roles: []permission.RoleAssignment{
			c.role(13, roleFixture{name: "manager", level: 60, inactive: true, grants: []permission.RoleGrant{grant(c.perm("orders", "update"))}}),
			c.role(13, roleFixture{name: "cashier", level: 20, grants: []permission.RoleGrant{grant(c.inactivePerm("orders", "cancel"))}}),
		},
		Direct: []permission.DirectEntry{
			c.direct(13, c.inactivePerm("reports", "view"), directFixture{grantType: vo.GrantTypeGrant}),
		},
	}
	engine := newTestEngine(loaderFor(access))
	ctx := context.Background()

	assert.False(t, engine.HasPermission(ctx, 13, "orders", "update", nil))
	assert.False(t, engine.HasPermission(ctx, 13, "orders", "cancel", nil))
	assert.False(t, engine.HasPermission(ctx, 13, "reports", "view", nil))
	assert.Equal(t, 20, engine.GetUserRoleLevel(ctx, 13))
	assert.Empty(t, engine.GetUserPermissions(ctx, 13))
}

func TestEngine_RoleAssignmentExpiry(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{
		UserID:     14,
		UserActive: true,
		Roles: []permission.RoleAssignment{
			c.role(14, roleFixture{
				name:      "manager",
				level:     60,
				expiresAt: timePtr(testNow.Add(-time.Hour)),
				grants:    []permission.RoleGrant{grant(c.perm("orders", "update"))},
			}),
		},
	}
	engine := newTestEngine(loaderFor(access))

	assert.False(t, engine.HasPermission(context.Background(), 14, "orders", "update", nil))
	assert.Equal(t, 0, engine.GetUserRoleLevel(context.Background(), 14))
}

func TestEngine_Conditions(t *testing.T) {
	c := newCatalog()
	storeOne := permission.Conditions{"store_id": 1}
	access := &permission.UserAccess{
		UserID:     15,
		UserActive: true,
		Roles: []permission.RoleAssignment{
			c.role(15, roleFixture{
				name:  "supervisor",
				level: 40,
				grants: []permission.RoleGrant{
					conditionalGrant(c.perm("orders", "cancel"), storeOne),
					grant(c.conditionalPerm("clients", "update", permission.Conditions{"own": true})),
				},
			}),
		},
		Direct: []permission.DirectEntry{
			c.direct(15, c.perm("payments", "refund"), directFixture{grantType: vo.GrantTypeGrant, conditions: storeOne}),
		},
	}
	engine := newTestEngine(loaderFor(access))
	ctx := context.Background()

	t.Run("role grant condition match", func(t *testing.T) {
		assert.True(t, engine.HasPermission(ctx, 15, "orders", "cancel", map[string]any{"store_id": float64(1)}))
	})
	t.Run("role grant condition mismatch", func(t *testing.T) {
		assert.False(t, engine.HasPermission(ctx, 15, "orders", "cancel", map[string]any{"store_id": 2}))
	})
	t.Run("nil context with conditions denies", func(t *testing.T) {
		assert.False(t, engine.HasPermission(ctx, 15, "orders", "cancel", nil))
		assert.False(t, engine.HasPermission(ctx, 15, "payments", "refund", nil))
	})
	t.Run("permission level conditions apply without grant override", func(t *testing.T) {
		assert.True(t, engine.HasPermission(ctx, 15, "clients", "update", map[string]any{"own": true}))
		assert.False(t, engine.HasPermission(ctx, 15, "clients", "update", map[string]any{"own": false}))
	})
	t.Run("direct grant condition mismatch is skipped", func(t *testing.T) {
		decision := engine.Decide(ctx, 15, "payments", "refund", map[string]any{"store_id": 3})
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonNoMatchingPermission, decision.Reason)
	})
	t.Run("direct grant condition match", func(t *testing.T) {
		decision := engine.Decide(ctx, 15, "payments", "refund", map[string]any{"store_id": 1})
		assert.Equal(t, ReasonDirectGrant, decision.Reason)
	})
	t.Run("summary ignores conditions", func(t *testing.T) {
		assert.Equal(t, []string{"clients:update", "orders:cancel", "payments:refund"}, engine.GetUserPermissions(ctx, 15))
	})
}

func TestEngine_GrantConditionsOverridePermissionConditions(t *testing.T) {
	c := newCatalog()
	p := c.conditionalPerm("orders", "cancel", permission.Conditions{"store_id": 1})
	access := &permission.UserAccess{
		UserID:     16,
		UserActive: true,
		Roles: []permission.RoleAssignment{
			c.role(16, roleFixture{name: "manager", level: 60, grants: []permission.RoleGrant{
				conditionalGrant(p, permission.Conditions{"store_id": 2}),
			}}),
		},
	}
	engine := newTestEngine(loaderFor(access))
	ctx := context.Background()

	assert.True(t, engine.HasPermission(ctx, 16, "orders", "cancel", map[string]any{"store_id": 2}))
	assert.False(t, engine.HasPermission(ctx, 16, "orders", "cancel", map[string]any{"store_id": 1}))
}

func TestEngine_NewestDirectEntryWins(t *testing.T) {
	c := newCatalog()
	p := c.perm("orders", "cancel")
	access := &permission.UserAccess{
		UserID:     17,
		UserActive: true,
		Direct: []permission.DirectEntry{
			c.direct(17, p, directFixture{grantType: vo.GrantTypeGrant, grantedAt: testNow.Add(-2 * time.Hour)}),
			c.direct(17, p, directFixture{grantType: vo.GrantTypeDeny, grantedAt: testNow.Add(-time.Hour)}),
		},
	}
	engine := newTestEngine(loaderFor(access))

	decision := engine.Decide(context.Background(), 17, "orders", "cancel", nil)
	assert.Equal(t, ReasonDirectDeny, decision.Reason)
}

func TestEngine_DirectDenyWithConditionMismatchFallsThrough(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{
		UserID:     18,
		UserActive: true,
		Roles:      []permission.RoleAssignment{cashierRole(c, 18)},
		Direct: []permission.DirectEntry{
			c.direct(18, c.perm("orders", "create"), directFixture{grantType: vo.GrantTypeDeny, conditions: permission.Conditions{"store_id": 9}}),
		},
	}
	engine := newTestEngine(loaderFor(access))
	ctx := context.Background()

	assert.True(t, engine.HasPermission(ctx, 18, "orders", "create", map[string]any{"store_id": 1}))
	assert.False(t, engine.HasPermission(ctx, 18, "orders", "create", map[string]any{"store_id": 9}))
}

func TestEngine_DirectDenyIsNotListed(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{
		UserID:     19,
		UserActive: true,
		Roles:      []permission.RoleAssignment{cashierRole(c, 19)},
		Direct: []permission.DirectEntry{
			c.direct(19, c.perm("comments", "view"), directFixture{grantType: vo.GrantTypeDeny}),
			c.direct(19, c.perm("orders", "view"), directFixture{grantType: vo.GrantTypeGrant}),
		},
	}
	engine := newTestEngine(loaderFor(access))

	assert.Equal(t, []string{"orders:create", "orders:view"}, engine.GetUserPermissions(context.Background(), 19))
}

func TestEngine_HasAnyAndAll(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{UserID: 20, UserActive: true, Roles: []permission.RoleAssignment{cashierRole(c, 20)}}
	loader := loaderFor(access)
	engine := newTestEngine(loader)
	ctx := context.Background()

	held := PermissionRef{"orders", "view"}
	missing := PermissionRef{"orders", "delete"}

	assert.True(t, engine.HasAnyPermission(ctx, 20, []PermissionRef{missing, held}, nil))
	assert.False(t, engine.HasAnyPermission(ctx, 20, []PermissionRef{missing}, nil))
	assert.False(t, engine.HasAnyPermission(ctx, 20, nil, nil))

	assert.True(t, engine.HasAllPermissions(ctx, 20, []PermissionRef{held, {"orders", "create"}}, nil))
	assert.False(t, engine.HasAllPermissions(ctx, 20, []PermissionRef{held, missing}, nil))
	assert.True(t, engine.HasAllPermissions(ctx, 20, []PermissionRef{}, nil))

	// empty lists never hit storage; the four non-empty calls load once each
	assert.Equal(t, 4, loader.calls)
}

func TestEngine_DecisionsAreRepeatable(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{
		UserID:     21,
		UserActive: true,
		Roles:      []permission.RoleAssignment{cashierRole(c, 21)},
		Direct: []permission.DirectEntry{
			c.direct(21, c.perm("orders", "create"), directFixture{grantType: vo.GrantTypeDeny}),
		},
	}
	engine := newTestEngine(loaderFor(access))
	ctx := context.Background()

	first := engine.Decide(ctx, 21, "orders", "create", nil)
	second := engine.Decide(ctx, 21, "orders", "create", nil)
	assert.Equal(t, first, second)
	assert.Len(t, access.Direct, 1)
	assert.True(t, access.Direct[0].Grant.IsActive())
}

func TestEngine_ObserverSeesEveryDecision(t *testing.T) {
	c := newCatalog()
	access := &permission.UserAccess{UserID: 22, UserActive: true, Roles: []permission.RoleAssignment{cashierRole(c, 22)}}
	observer := &mockObserver{}
	engine := newTestEngine(loaderFor(access), WithObserver(observer))
	ctx := context.Background()

	engine.Decide(ctx, 22, "orders", "view", nil)
	engine.Decide(ctx, 22, "orders", "delete", nil)

	require.Len(t, observer.decisions, 2)
	assert.Equal(t, observed{allowed: true, reason: "role_grant"}, observer.decisions[0])
	assert.Equal(t, observed{allowed: false, reason: "no_matching_permission"}, observer.decisions[1])
}
