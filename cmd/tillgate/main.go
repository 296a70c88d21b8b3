package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tillgate/tillgate/internal/interfaces/cli/authz"
	"github.com/tillgate/tillgate/internal/interfaces/cli/bootstrap"
	"github.com/tillgate/tillgate/internal/interfaces/cli/migrate"
	"github.com/tillgate/tillgate/internal/interfaces/cli/policy"
	"github.com/tillgate/tillgate/internal/interfaces/cli/seed"
	"github.com/tillgate/tillgate/internal/interfaces/cli/server"
	"github.com/tillgate/tillgate/internal/interfaces/cli/version"
)

// @title						Tillgate API
// @version					1.0
// @description				Authorization and administration API for the point-of-sale back office.
// @BasePath					/
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and the access token.
func main() {
	flags := &bootstrap.Flags{}

	rootCmd := &cobra.Command{
		Use:          "tillgate",
		Short:        "Tillgate - point-of-sale authorization service",
		Long:         `Tillgate serves role and permission management for the back office, with migration, seeding and policy tools.`,
		SilenceUsage: true,
	}
	flags.Register(rootCmd)

	rootCmd.AddCommand(
		server.NewCommand(flags),
		migrate.NewCommand(flags),
		seed.NewCommand(flags),
		authz.NewCommand(flags),
		policy.NewCommand(flags),
		version.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
