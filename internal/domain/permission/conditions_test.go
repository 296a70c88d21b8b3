package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditions_Matches(t *testing.T) {
	tests := []struct {
		name       string
		conditions Conditions
		reqCtx     map[string]any
		want       bool
	}{
		{name: "nil conditions always match", conditions: nil, reqCtx: nil, want: true},
		{name: "empty conditions match any context", conditions: Conditions{}, reqCtx: map[string]any{"store": 1}, want: true},
		{name: "nil context with conditions", conditions: Conditions{"store": 1}, reqCtx: nil, want: false},
		{name: "missing key", conditions: Conditions{"store": 1}, reqCtx: map[string]any{"terminal": 1}, want: false},
		{name: "equal string", conditions: Conditions{"shift": "day"}, reqCtx: map[string]any{"shift": "day"}, want: true},
		{name: "different string", conditions: Conditions{"shift": "day"}, reqCtx: map[string]any{"shift": "night"}, want: false},
		{name: "int against float64", conditions: Conditions{"store": 7}, reqCtx: map[string]any{"store": float64(7)}, want: true},
		{name: "uint against int64", conditions: Conditions{"store": uint(7)}, reqCtx: map[string]any{"store": int64(7)}, want: true},
		{name: "number against numeric string", conditions: Conditions{"store": 7}, reqCtx: map[string]any{"store": "7"}, want: false},
		{name: "bool", conditions: Conditions{"own": true}, reqCtx: map[string]any{"own": true}, want: true},
		{name: "every key must match", conditions: Conditions{"store": 7, "shift": "day"}, reqCtx: map[string]any{"store": 7, "shift": "night"}, want: false},
		{name: "extra context keys ignored", conditions: Conditions{"store": 7}, reqCtx: map[string]any{"store": 7, "path": "/orders"}, want: true},
		{name: "nil expected value", conditions: Conditions{"parent": nil}, reqCtx: map[string]any{"parent": nil}, want: true},
		{name: "slice values compared deeply", conditions: Conditions{"tags": []any{"a"}}, reqCtx: map[string]any{"tags": []any{"a"}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.conditions.Matches(tt.reqCtx))
		})
	}
}

func TestEffectiveConditions(t *testing.T) {
	own := Conditions{"store": 1}
	inherited := Conditions{"store": 2}

	assert.Equal(t, own, EffectiveConditions(own, inherited))
	assert.Equal(t, inherited, EffectiveConditions(nil, inherited))
	assert.True(t, EffectiveConditions(nil, nil).IsEmpty())
}

func TestConditions_CloneIsIndependent(t *testing.T) {
	orig := Conditions{"store": 1}
	clone := orig.Clone()
	clone["store"] = 2

	assert.Equal(t, 1, orig["store"])
	assert.Nil(t, Conditions{}.Clone())
}
