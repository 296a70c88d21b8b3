package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tillgate/tillgate/internal/shared/version"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			channel := "development"
			if version.IsRelease() {
				channel = "release"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tillgate %s (%s, %s %s/%s)\n",
				version.String(), channel, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
