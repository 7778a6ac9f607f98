package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Print the pvm release version. With --verbose, also print the commit
it was built from, the build date, and the Go runtime and platform.

This reports pvm's own version; use 'pvm which <product>' for the
version of a managed product.`,
	Run: func(cmd *cobra.Command, args []string) {
		showVersion()
	},
}

func showVersion() {
	fmt.Printf("pvm version %s\n", version)

	if verbose {
		fmt.Printf("Commit:      %s\n", commit)
		fmt.Printf("Built:       %s\n", date)
		fmt.Printf("Go version:  %s\n", runtime.Version())
		fmt.Printf("OS/Arch:     %s/%s\n", runtime.GOOS, runtime.GOARCH)
	}
}
