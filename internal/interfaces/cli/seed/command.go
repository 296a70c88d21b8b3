package seed

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tillgate/tillgate/internal/infrastructure/auth"
	"github.com/tillgate/tillgate/internal/infrastructure/migration"
	"github.com/tillgate/tillgate/internal/infrastructure/persistence/seeds"
	"github.com/tillgate/tillgate/internal/infrastructure/repository"
	"github.com/tillgate/tillgate/internal/interfaces/cli/bootstrap"
	"github.com/tillgate/tillgate/internal/shared/db"
)

var (
	catalogPath  string
	migrateFirst bool
)

func NewCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the default roles, permissions and users",
		Long: `Create the roles, permissions, role grants and users described by the seed catalog.
Rows that already exist are left untouched, so the command can be re-run safely.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a YAML seed catalog (default: configured path or the built-in catalog)")
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "Run migrations before seeding")

	return cmd
}

func run(cmd *cobra.Command, flags *bootstrap.Flags) error {
	rt, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	if migrateFirst {
		if err := migration.NewManager(rt.Config.Database, rt.Logger).Migrate(rt.DB); err != nil {
			return err
		}
	}

	path := catalogPath
	if path == "" {
		path = rt.Config.Authz.CatalogPath
	}
	catalog, err := seeds.LoadCatalog(path)
	if err != nil {
		return err
	}

	repos := repository.NewSet(rt.DB)
	seeder := seeds.NewSeeder(seeds.Repositories{
		Users:           repos.Users,
		Roles:           repos.Roles,
		Permissions:     repos.Permissions,
		RolePermissions: repos.RolePermissions,
		UserRoles:       repos.UserRoles,
	}, db.NewTransactionManager(rt.DB), auth.NewBcryptPasswordHasher(rt.Config.Auth.Password.BcryptCost), rt.Logger.Named("seed"))

	stats, err := seeder.Run(context.Background(), catalog)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"Seed complete: %d permissions, %d roles, %d grants, %d users, %d assignments created\n",
		stats.Permissions, stats.Roles, stats.Grants, stats.Users, stats.Assignments)
	return nil
}
