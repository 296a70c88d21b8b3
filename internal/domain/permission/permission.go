package permission

import (
	"fmt"
	"time"

	vo "github.com/tillgate/tillgate/internal/domain/permission/value_objects"
	"github.com/tillgate/tillgate/internal/shared/biztime"
)

// Permission is a catalog entry naming one (resource, action) pair.
type Permission struct {
	id          uint
	name        string
	resource    vo.Resource
	action      vo.Action
	scope       string
	conditions  Conditions
	description string
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewPermission creates an active permission. An empty name defaults to
// "resource.action".
func NewPermission(name string, resource vo.Resource, action vo.Action, scope string, conditions Conditions, description string) (*Permission, error) {
	if resource == "" {
		return nil, fmt.Errorf("resource is required")
	}
	if action == "" {
		return nil, fmt.Errorf("action is required")
	}
	if name == "" {
		name = fmt.Sprintf("%s.%s", resource, action)
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("permission name too long (max 100 characters)")
	}

	now := biztime.NowUTC()
	return &Permission{
		name:        name,
		resource:    resource,
		action:      action,
		scope:       scope,
		conditions:  conditions.Clone(),
		description: description,
		active:      true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructPermission(id uint, name string, resource vo.Resource, action vo.Action, scope string, conditions Conditions, description string, active bool, createdAt, updatedAt time.Time) (*Permission, error) {
	if id == 0 {
		return nil, fmt.Errorf("permission ID cannot be zero")
	}

	return &Permission{
		id:          id,
		name:        name,
		resource:    resource,
		action:      action,
		scope:       scope,
		conditions:  conditions.Clone(),
		description: description,
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (p *Permission) ID() uint {
	return p.id
}

func (p *Permission) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("permission ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("permission ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *Permission) Name() string {
	return p.name
}

func (p *Permission) Resource() vo.Resource {
	return p.resource
}

func (p *Permission) Action() vo.Action {
	return p.action
}

func (p *Permission) Scope() string {
	return p.scope
}

func (p *Permission) Conditions() Conditions {
	return p.conditions
}

func (p *Permission) Description() string {
	return p.description
}

func (p *Permission) IsActive() bool {
	return p.active
}

func (p *Permission) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Permission) UpdatedAt() time.Time {
	return p.updatedAt
}

// Code returns the "resource:action" form used by guards and permission listings.
func (p *Permission) Code() string {
	return Code(p.resource.String(), p.action.String())
}

func (p *Permission) Matches(resource, action string) bool {
	return p.resource.String() == resource && p.action.String() == action
}

func (p *Permission) UpdateDescription(description string) {
	p.description = description
	p.updatedAt = biztime.NowUTC()
}

// Deactivate soft-deletes the permission; it stays in the catalog for history.
func (p *Permission) Deactivate() error {
	if !p.active {
		return fmt.Errorf("permission %s is already inactive", p.name)
	}
	p.active = false
	p.updatedAt = biztime.NowUTC()
	return nil
}

func (p *Permission) Activate() error {
	if p.active {
		return fmt.Errorf("permission %s is already active", p.name)
	}
	p.active = true
	p.updatedAt = biztime.NowUTC()
	return nil
}

// Code joins a resource and an action into "resource:action".
func Code(resource, action string) string {
	return resource + ":" + action
}
