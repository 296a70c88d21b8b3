package user

import (
	"fmt"
	"time"

	vo "github.com/tillgate/tillgate/internal/domain/user/value_objects"
	"github.com/tillgate/tillgate/internal/shared/biztime"
)

// User is a back-office staff account. Its role level is derived from role
// assignments and never stored here.
type User struct {
	id           uint
	email        *vo.Email
	name         *vo.Name
	passwordHash string
	active       bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(email *vo.Email, name *vo.Name, passwordHash string) (*User, error) {
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if name == nil {
		return nil, fmt.Errorf("name is required")
	}

	now := biztime.NowUTC()
	return &User{
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructUser reconstructs a user from persistence
func ReconstructUser(id uint, email *vo.Email, name *vo.Name, passwordHash string, active bool, createdAt, updatedAt time.Time) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if name == nil {
		return nil, fmt.Errorf("name is required")
	}

	return &User{
		id:           id,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		active:       active,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

func (u *User) Email() *vo.Email {
	return u.email
}

func (u *User) Name() *vo.Name {
	return u.name
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) HasPassword() bool {
	return u.passwordHash != ""
}

func (u *User) IsActive() bool {
	return u.active
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// SetActive toggles the account. It reports whether anything changed.
func (u *User) SetActive(active bool) bool {
	if u.active == active {
		return false
	}
	u.active = active
	u.updatedAt = biztime.NowUTC()
	return true
}

func (u *User) SetPasswordHash(hash string) {
	u.passwordHash = hash
	u.updatedAt = biztime.NowUTC()
}
