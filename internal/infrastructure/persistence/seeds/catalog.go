// Package seeds loads the default catalog of roles, permissions and staff
// accounts and writes it to the database.
package seeds

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// AllPermissions in a role's permission list expands to the whole catalog.
const AllPermissions = "*"

type Catalog struct {
	Roles []RoleSeed `yaml:"roles"`
	// Permissions maps resource -> action -> description.
	Permissions map[string]map[string]string `yaml:"permissions"`
	Users       []UserSeed                   `yaml:"users"`
}

type RoleSeed struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Level        int      `yaml:"level"`
	IsSuperAdmin bool     `yaml:"is_super_admin"`
	Permissions  []string `yaml:"permissions"`
	Exclude      []string `yaml:"exclude"`
}

type UserSeed struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type PermissionSeed struct {
	Name        string
	Resource    string
	Action      string
	Description string
}

// LoadCatalog reads the catalog at path, or the embedded default when path
// is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := embeddedCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
		data = b
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// PermissionList flattens the catalog into "resource.action" named
// permissions sorted by resource then action.
func (c *Catalog) PermissionList() []PermissionSeed {
	var out []PermissionSeed
	for resource, actions := range c.Permissions {
		for action, desc := range actions {
			out = append(out, PermissionSeed{
				Name:        resource + "." + action,
				Resource:    resource,
				Action:      action,
				Description: desc,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Resource != out[j].Resource {
			return out[i].Resource < out[j].Resource
		}
		return out[i].Action < out[j].Action
	})
	return out
}

// RolePermissions resolves the permission names granted to a role.
func (c *Catalog) RolePermissions(role RoleSeed) []string {
	excluded := make(map[string]bool, len(role.Exclude))
	for _, name := range role.Exclude {
		excluded[name] = true
	}

	var names []string
	for _, name := range role.Permissions {
		if name == AllPermissions {
			names = names[:0]
			for _, p := range c.PermissionList() {
				names = append(names, p.Name)
			}
			break
		}
		names = append(names, name)
	}

	out := names[:0]
	for _, name := range names {
		if !excluded[name] {
			out = append(out, name)
		}
	}
	return out
}

func (c *Catalog) validate() error {
	known := make(map[string]bool)
	for _, p := range c.PermissionList() {
		known[p.Name] = true
	}

	roles := make(map[string]bool, len(c.Roles))
	for _, r := range c.Roles {
		if r.Name == "" {
			return fmt.Errorf("catalog role without a name")
		}
		if roles[r.Name] {
			return fmt.Errorf("catalog role %q declared twice", r.Name)
		}
		roles[r.Name] = true
		for _, name := range append(append([]string{}, r.Permissions...), r.Exclude...) {
			if name != AllPermissions && !known[name] {
				return fmt.Errorf("role %q references unknown permission %q", r.Name, name)
			}
		}
	}

	for _, u := range c.Users {
		if u.Role != "" && !roles[u.Role] {
			return fmt.Errorf("user %q references unknown role %q", u.Email, u.Role)
		}
	}
	return nil
}
