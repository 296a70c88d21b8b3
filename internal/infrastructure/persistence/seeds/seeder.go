package seeds

import (
	"context"
	"fmt"
	"time"

	"github.com/tillgate/tillgate/internal/domain/permission"
	vo "github.com/tillgate/tillgate/internal/domain/permission/value_objects"
	"github.com/tillgate/tillgate/internal/domain/user"
	uvo "github.com/tillgate/tillgate/internal/domain/user/value_objects"
	"github.com/tillgate/tillgate/internal/shared/logger"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Repositories struct {
	Users           user.Repository
	Roles           permission.RoleRepository
	Permissions     permission.PermissionRepository
	RolePermissions permission.RolePermissionRepository
	UserRoles       permission.UserRoleRepository
}

// Stats counts rows created by a run; rows that already exist are left as
// they are and not counted.
type Stats struct {
	Roles       int
	Permissions int
	Grants      int
	Users       int
	Assignments int
}

type Seeder struct {
	repos  Repositories
	tx     TxRunner
	hasher PasswordHasher
	now    func() time.Time
	logger logger.Interface
}

func NewSeeder(repos Repositories, tx TxRunner, hasher PasswordHasher, log logger.Interface) *Seeder {
	return &Seeder{
		repos:  repos,
		tx:     tx,
		hasher: hasher,
		now:    time.Now,
		logger: log,
	}
}

// Run writes the catalog in one transaction. Running it twice is a no-op.
func (s *Seeder) Run(ctx context.Context, c *Catalog) (Stats, error) {
	var stats Stats
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		stats = Stats{}
		now := s.now()

		perms := make(map[string]*permission.Permission)
		for _, ps := range c.PermissionList() {
			p, created, err := s.ensurePermission(ctx, ps)
			if err != nil {
				return err
			}
			if created {
				stats.Permissions++
			}
			perms[p.Name()] = p
		}

		roles := make(map[string]*permission.Role)
		for _, rs := range c.Roles {
			r, created, err := s.ensureRole(ctx, rs)
			if err != nil {
				return err
			}
			if created {
				stats.Roles++
			}
			roles[r.Name()] = r
		}

		var grantor uint
		for _, us := range c.Users {
			u, created, err := s.ensureUser(ctx, us)
			if err != nil {
				return err
			}
			if created {
				stats.Users++
			}
			if grantor == 0 {
				grantor = u.ID()
			}
			if us.Role == "" {
				continue
			}
			assigned, err := s.ensureAssignment(ctx, u.ID(), roles[us.Role].ID(), grantor, now)
			if err != nil {
				return err
			}
			if assigned {
				stats.Assignments++
			}
		}

		for _, rs := range c.Roles {
			role := roles[rs.Name]
			for _, name := range c.RolePermissions(rs) {
				granted, err := s.ensureGrant(ctx, role.ID(), perms[name].ID(), grantor, now)
				if err != nil {
					return err
				}
				if granted {
					stats.Grants++
				}
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	s.logger.Infow("seed catalog applied",
		"roles", stats.Roles,
		"permissions", stats.Permissions,
		"grants", stats.Grants,
		"users", stats.Users,
		"assignments", stats.Assignments)
	return stats, nil
}

func (s *Seeder) ensurePermission(ctx context.Context, ps PermissionSeed) (*permission.Permission, bool, error) {
	existing, err := s.repos.Permissions.GetByName(ctx, ps.Name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up permission %s: %w", ps.Name, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	resource, err := vo.NewResource(ps.Resource)
	if err != nil {
		return nil, false, fmt.Errorf("permission %s: %w", ps.Name, err)
	}
	action, err := vo.NewAction(ps.Action)
	if err != nil {
		return nil, false, fmt.Errorf("permission %s: %w", ps.Name, err)
	}
	p, err := permission.NewPermission(ps.Name, resource, action, "", nil, ps.Description)
	if err != nil {
		return nil, false, fmt.Errorf("permission %s: %w", ps.Name, err)
	}
	if err := s.repos.Permissions.Create(ctx, p); err != nil {
		return nil, false, fmt.Errorf("failed to create permission %s: %w", ps.Name, err)
	}
	return p, true, nil
}

func (s *Seeder) ensureRole(ctx context.Context, rs RoleSeed) (*permission.Role, bool, error) {
	existing, err := s.repos.Roles.GetByName(ctx, rs.Name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up role %s: %w", rs.Name, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	r, err := permission.NewRole(rs.Name, rs.Description, rs.Level, rs.IsSuperAdmin)
	if err != nil {
		return nil, false, fmt.Errorf("role %s: %w", rs.Name, err)
	}
	if err := s.repos.Roles.Create(ctx, r); err != nil {
		return nil, false, fmt.Errorf("failed to create role %s: %w", rs.Name, err)
	}
	return r, true, nil
}

func (s *Seeder) ensureUser(ctx context.Context, us UserSeed) (*user.User, bool, error) {
	email, err := uvo.NewEmail(us.Email)
	if err != nil {
		return nil, false, fmt.Errorf("seed user: %w", err)
	}
	existing, err := s.repos.Users.GetByEmail(ctx, email.String())
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up user %s: %w", email.String(), err)
	}
	if existing != nil {
		return existing, false, nil
	}

	name, err := uvo.NewName(us.Name)
	if err != nil {
		return nil, false, fmt.Errorf("seed user %s: %w", email.String(), err)
	}
	hash, err := s.hasher.Hash(us.Password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password for %s: %w", email.String(), err)
	}
	u, err := user.NewUser(email, name, hash)
	if err != nil {
		return nil, false, fmt.Errorf("seed user %s: %w", email.String(), err)
	}
	if err := s.repos.Users.Create(ctx, u); err != nil {
		return nil, false, fmt.Errorf("failed to create user %s: %w", email.String(), err)
	}
	return u, true, nil
}

func (s *Seeder) ensureAssignment(ctx context.Context, userID, roleID, by uint, now time.Time) (bool, error) {
	active, err := s.repos.UserRoles.FindActive(ctx, userID, roleID)
	if err != nil {
		return false, fmt.Errorf("failed to look up role assignment: %w", err)
	}
	if active != nil {
		return false, nil
	}

	a, err := permission.NewUserRole(userID, roleID, nil, by, now)
	if err != nil {
		return false, err
	}
	if err := s.repos.UserRoles.Create(ctx, a); err != nil {
		return false, fmt.Errorf("failed to assign role: %w", err)
	}
	return true, nil
}

func (s *Seeder) ensureGrant(ctx context.Context, roleID, permissionID, by uint, now time.Time) (bool, error) {
	active, err := s.repos.RolePermissions.FindActive(ctx, roleID, permissionID)
	if err != nil {
		return false, fmt.Errorf("failed to look up role grant: %w", err)
	}
	if active != nil {
		return false, nil
	}

	g, err := permission.NewRolePermission(roleID, permissionID, nil, by, now)
	if err != nil {
		return false, err
	}
	if err := s.repos.RolePermissions.Create(ctx, g); err != nil {
		return false, fmt.Errorf("failed to grant permission: %w", err)
	}
	return true, nil
}
