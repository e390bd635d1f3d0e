package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and backend in use",
	Args:  cobra.NoArgs,
	Run:   runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	if versionShort {
		fmt.Fprintln(out, version)
		return
	}
	fmt.Fprintf(out, "vfw version %s (%s, %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if settingsService == nil {
		return
	}
	if settings, err := settingsService.Get(); err == nil {
		fmt.Fprintf(out, "backend: %s\n", settings.APIURL)
	}
}
