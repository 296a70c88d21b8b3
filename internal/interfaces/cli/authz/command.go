// Package authz evaluates authorization decisions from the command line
// against the live database.
package authz

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tillgate/tillgate/internal/application/authorization"
	"github.com/tillgate/tillgate/internal/domain/user"
	"github.com/tillgate/tillgate/internal/infrastructure/repository"
	"github.com/tillgate/tillgate/internal/interfaces/cli/bootstrap"
	"github.com/tillgate/tillgate/internal/shared/utils"
)

var (
	userRef     string
	resource    string
	action      string
	contextArgs []string
)

func NewCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authz",
		Short: "Inspect authorization decisions",
	}

	cmd.AddCommand(
		newCheckCommand(flags),
		newPermissionsCommand(flags),
	)

	return cmd
}

func newCheckCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Decide whether a user may perform an action",
		Example: `  tillgate authz check --user cashier@tillgate.local --resource payments --action refund
  tillgate authz check --user 4 --resource orders --action edit --context store_id=7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&userRef, "user", "u", "", "User ID or email (required)")
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "Resource name (required)")
	cmd.Flags().StringVarP(&action, "action", "a", "", "Action name (required)")
	cmd.Flags().StringArrayVar(&contextArgs, "context", nil, "Request context as key=value; repeatable")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("resource")
	_ = cmd.MarkFlagRequired("action")

	return cmd
}

func newPermissionsCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "List a user's effective permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPermissions(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&userRef, "user", "u", "", "User ID or email (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runCheck(cmd *cobra.Command, flags *bootstrap.Flags) error {
	reqCtx, err := parseContext(contextArgs)
	if err != nil {
		return err
	}

	rt, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	repos := repository.NewSet(rt.DB)

	u, err := resolveUser(ctx, repos.Users, userRef)
	if err != nil {
		return err
	}

	engine := authorization.NewEngine(repos.Access, rt.Logger.Named("authz"))
	decision := engine.Decide(ctx, u.ID(), resource, action, reqCtx)

	writeDecision(cmd.OutOrStdout(), u, resource, action, decision)
	return nil
}

func runPermissions(cmd *cobra.Command, flags *bootstrap.Flags) error {
	rt, err := bootstrap.Open(flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	repos := repository.NewSet(rt.DB)

	u, err := resolveUser(ctx, repos.Users, userRef)
	if err != nil {
		return err
	}

	engine := authorization.NewEngine(repos.Access, rt.Logger.Named("authz"))
	perms := engine.GetUserPermissions(ctx, u.ID())

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "User:       %d (%s)\n", u.ID(), u.Email().String())
	fmt.Fprintf(out, "Role level: %d\n", engine.GetUserRoleLevel(ctx, u.ID()))
	fmt.Fprintf(out, "Permissions (%d):\n", len(perms))
	for _, p := range perms {
		fmt.Fprintf(out, "  %s\n", p)
	}
	return nil
}

type userLookup interface {
	GetByID(ctx context.Context, id uint) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// resolveUser accepts either a numeric ID or an email address.
func resolveUser(ctx context.Context, users userLookup, ref string) (*user.User, error) {
	var (
		u   *user.User
		err error
	)
	if id, convErr := strconv.ParseUint(ref, 10, 64); convErr == nil {
		u, err = users.GetByID(ctx, uint(id))
	} else {
		u, err = users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(ref)))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %q: %w", ref, err)
	}
	if u == nil {
		return nil, fmt.Errorf("user %q not found", ref)
	}
	return u, nil
}

// parseContext turns repeated key=value flags into a request context.
func parseContext(args []string) (map[string]any, error) {
	if len(args) == 0 {
		return nil, nil
	}

	reqCtx := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid context %q, expected key=value", arg)
		}
		reqCtx[key] = utils.ScalarValue(value)
	}
	return reqCtx, nil
}

func writeDecision(w io.Writer, u *user.User, resource, action string, d authorization.Decision) {
	verdict := "DENY"
	if d.Allowed {
		verdict = "ALLOW"
	}
	fmt.Fprintf(w, "%s %s:%s for user %d (%s): %s\n",
		verdict, resource, action, u.ID(), u.Email().String(), d.Reason)
}
