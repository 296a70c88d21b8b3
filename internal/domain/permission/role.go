package permission

import (
	"fmt"
	"time"

	"github.com/tillgate/tillgate/internal/shared/biztime"
)

const (
	MaxRoleLevel = 1000
)

type Role struct {
	id           uint
	name         string
	description  string
	level        int
	isSuperAdmin bool
	active       bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewRole(name, description string, level int, isSuperAdmin bool) (*Role, error) {
	if err := validateRoleName(name); err != nil {
		return nil, err
	}
	if err := validateRoleLevel(level); err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &Role{
		name:         name,
		description:  description,
		level:        level,
		isSuperAdmin: isSuperAdmin,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructRole(id uint, name, description string, level int, isSuperAdmin, active bool, createdAt, updatedAt time.Time) (*Role, error) {
	if id == 0 {
		return nil, fmt.Errorf("role ID cannot be zero")
	}

	return &Role{
		id:           id,
		name:         name,
		description:  description,
		level:        level,
		isSuperAdmin: isSuperAdmin,
		active:       active,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (r *Role) ID() uint {
	return r.id
}

func (r *Role) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("role ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("role ID cannot be zero")
	}
	r.id = id
	return nil
}

func (r *Role) Name() string {
	return r.name
}

func (r *Role) Description() string {
	return r.description
}

func (r *Role) Level() int {
	return r.level
}

// IsSuperAdmin reports the explicit bypass capability. The role name plays no part in it.
func (r *Role) IsSuperAdmin() bool {
	return r.isSuperAdmin
}

func (r *Role) IsActive() bool {
	return r.active
}

func (r *Role) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Role) UpdatedAt() time.Time {
	return r.updatedAt
}

func (r *Role) UpdateName(name string) error {
	if err := validateRoleName(name); err != nil {
		return err
	}
	r.name = name
	r.updatedAt = biztime.NowUTC()
	return nil
}

func (r *Role) UpdateDescription(description string) {
	r.description = description
	r.updatedAt = biztime.NowUTC()
}

func (r *Role) UpdateLevel(level int) error {
	if err := validateRoleLevel(level); err != nil {
		return err
	}
	r.level = level
	r.updatedAt = biztime.NowUTC()
	return nil
}

func (r *Role) Activate() error {
	if r.active {
		return fmt.Errorf("role %s is already active", r.name)
	}
	r.active = true
	r.updatedAt = biztime.NowUTC()
	return nil
}

func (r *Role) Deactivate() error {
	if !r.active {
		return fmt.Errorf("role %s is already inactive", r.name)
	}
	r.active = false
	r.updatedAt = biztime.NowUTC()
	return nil
}

func validateRoleName(name string) error {
	if name == "" {
		return fmt.Errorf("role name is required")
	}
	if len(name) > 50 {
		return fmt.Errorf("role name too long (max 50 characters)")
	}
	return nil
}

func validateRoleLevel(level int) error {
	if level < 0 || level > MaxRoleLevel {
		return fmt.Errorf("role level must be between 0 and %d", MaxRoleLevel)
	}
	return nil
}
