package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tillgate/tillgate/internal/infrastructure/migration"
	"github.com/tillgate/tillgate/internal/interfaces/cli/bootstrap"
)

var (
	name       string
	steps      int
	scriptsDir string
)

func NewCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.AddCommand(
		newUpCommand(flags),
		newDownCommand(flags),
		newStatusCommand(flags),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand(flags *bootstrap.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(flags)
		},
	}
}

func newDownCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDown(flags)
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand(flags *bootstrap.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, flags)
		},
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a new empty SQL migration file with the specified name.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVar(&scriptsDir, "dir", migration.DefaultScriptsDir, "Directory to write the migration into")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runUp(flags *bootstrap.Flags) error {
	rt, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Logger.Infow("running up migrations", "environment", rt.Env)

	if err := migration.NewManager(rt.Config.Database, rt.Logger).Migrate(rt.DB); err != nil {
		return err
	}

	rt.Logger.Infow("migrations completed successfully")
	return nil
}

func runDown(flags *bootstrap.Flags) error {
	rt, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Logger.Infow("running down migrations", "environment", rt.Env, "steps", steps)

	if err := migration.NewManager(rt.Config.Database, rt.Logger).Down(rt.DB, steps); err != nil {
		rt.Logger.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	rt.Logger.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, flags *bootstrap.Flags) error {
	rt, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	manager := migration.NewManager(rt.Config.Database, rt.Logger)

	current, err := manager.Version(rt.DB)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", rt.Env)
	fmt.Fprintf(out, "  Current Version: %d\n", current)

	if err := manager.Status(rt.DB); err != nil {
		return fmt.Errorf("failed to get detailed status: %w", err)
	}
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	if err := migration.CreateScript(scriptsDir, name); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created in %s\n", name, scriptsDir)
	return nil
}
