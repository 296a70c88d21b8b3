// Package policy projects role grants and assignments into the casbin rule
// table for systems that consume casbin policies.
package policy

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tillgate/tillgate/internal/infrastructure/permission"
	"github.com/tillgate/tillgate/internal/infrastructure/repository"
	"github.com/tillgate/tillgate/internal/interfaces/cli/bootstrap"
)

var (
	outputPath string
	syncFirst  bool
	userID     uint
	resource   string
	action     string
)

func NewCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Manage the casbin policy projection",
	}

	cmd.AddCommand(
		newSyncCommand(flags),
		newExportCommand(flags),
		newCheckCommand(flags),
	)

	return cmd
}

func newSyncCommand(flags *bootstrap.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Rewrite the casbin rule table from the current grants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, flags)
		},
	}
}

func newExportCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the stored casbin policy in CSV form",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&syncFirst, "sync", false, "Sync the projection before exporting")

	return cmd
}

func newCheckCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate the stored casbin projection for a user",
		Long: `Evaluate the stored projection only. Conditions and direct grants are not
projected, so use "authz check" for the authoritative decision.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, flags)
		},
	}

	cmd.Flags().UintVarP(&userID, "user", "u", 0, "User ID (required)")
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "Resource name (required)")
	cmd.Flags().StringVarP(&action, "action", "a", "", "Action name (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("resource")
	_ = cmd.MarkFlagRequired("action")

	return cmd
}

func openProjector(rt *bootstrap.Runtime) (*permission.Projector, error) {
	repos := repository.NewSet(rt.DB)
	return permission.NewProjector(rt.DB, rt.Config.Casbin.TableName, permission.Sources{
		Roles:           repos.Roles,
		Permissions:     repos.Permissions,
		RolePermissions: repos.RolePermissions,
		UserRoles:       repos.UserRoles,
	}, rt.Logger.Named("policy"))
}

func runSync(cmd *cobra.Command, flags *bootstrap.Flags) error {
	rt, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	projector, err := openProjector(rt)
	if err != nil {
		return err
	}

	stats, err := projector.Sync(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Policy synced: %d policies, %d groupings\n", stats.Policies, stats.Groupings)
	return nil
}

func runExport(cmd *cobra.Command, flags *bootstrap.Flags) error {
	rt, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	projector, err := openProjector(rt)
	if err != nil {
		return err
	}

	if syncFirst {
		if _, err := projector.Sync(context.Background()); err != nil {
			return err
		}
	}

	lines, err := projector.Export()
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return writeLines(out, lines)
}

func runCheck(cmd *cobra.Command, flags *bootstrap.Flags) error {
	rt, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	projector, err := openProjector(rt)
	if err != nil {
		return err
	}

	return checkPolicy(cmd.OutOrStdout(), projector, userID, resource, action)
}

type policyEnforcer interface {
	Enforce(userID uint, resource, action string) (bool, error)
}

func checkPolicy(w io.Writer, enforcer policyEnforcer, userID uint, resource, action string) error {
	allowed, err := enforcer.Enforce(userID, resource, action)
	if err != nil {
		return err
	}
	verdict := "DENY"
	if allowed {
		verdict = "ALLOW"
	}
	_, err = fmt.Fprintf(w, "%s %s:%s for user %d (casbin projection)\n", verdict, resource, action, userID)
	return err
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write policy: %w", err)
		}
	}
	return nil
}
