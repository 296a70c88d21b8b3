package permission

import (
	"reflect"
)

// Condition is a predicate over the request context that narrows when a
// grant applies.
type Condition interface {
	Matches(reqCtx map[string]any) bool
}

// Conditions is the flat equality predicate: every key must be present in
// the request context with an equal value. An empty set always matches.
//
// A nil context never satisfies a non-empty set. Callers that evaluate
// without a request context (GetUserPermissions, the CLI without --context)
// therefore do not get conditional grants; a missing context is not treated
// as "no constraint".
type Conditions map[string]any

var _ Condition = Conditions(nil)

func (c Conditions) IsEmpty() bool {
	return len(c) == 0
}

func (c Conditions) Matches(reqCtx map[string]any) bool {
	if len(c) == 0 {
		return true
	}
	if reqCtx == nil {
		return false
	}
	for key, expected := range c {
		actual, ok := reqCtx[key]
		if !ok {
			return false
		}
		if !valuesEqual(expected, actual) {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy, nil for an empty set.
func (c Conditions) Clone() Conditions {
	if len(c) == 0 {
		return nil
	}
	out := make(Conditions, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// EffectiveConditions picks the grant's own conditions over the permission's.
func EffectiveConditions(grant, permission Conditions) Conditions {
	if !grant.IsEmpty() {
		return grant
	}
	return permission
}

func valuesEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
