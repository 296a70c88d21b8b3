// Package permission projects role grants and assignments into a casbin
// policy table for external tooling that speaks casbin.
package permission

import (
	"github.com/casbin/casbin/v2/model"
)

// SuperAdminWildcard is the object and action written for super-admin roles.
const SuperAdminWildcard = "*"

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && keyMatch(r.act, p.act)
`

func newModel() (model.Model, error) {
	return model.NewModelFromString(rbacModel)
}
