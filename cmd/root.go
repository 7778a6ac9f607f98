package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/praxis-tools/pvm/pkg/active"
	"github.com/praxis-tools/pvm/pkg/config"
)

var (
	// Version information set from main
	version = "dev"
	commit  = "unknown"
	date    = "unknown"

	// Global flags
	verbose bool
	quiet   bool
)

var (
	successPrint = color.New(color.FgGreen).PrintfFunc()
	warnPrint    = color.New(color.FgYellow).PrintfFunc()
	errorPrint   = color.New(color.FgRed).FprintfFunc()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pvm",
	Short: "Praxis Version Manager - install and switch Praxis Platform CLI versions",
	Long: `pvm manages side-by-side installations of the Praxis Platform command-line
tools (studio, runner, datakit). It discovers published releases, downloads
and unpacks them under a per-version directory, and switches the active
version through a stable directory that only ever needs one PATH entry.

Examples:
  pvm list studio              # Show published and installed versions
  pvm install studio 8.1       # Install the newest 8.1.x release
  pvm use studio 8.1.23        # Make 8.1.23 the active version
  pvm purge studio --keep 2    # Drop all but the two newest installs`,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			os.Setenv(config.EnvVerbose, "true")
		}
	},

	// Show help if no command is provided
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information from main
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (errors only)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(whichCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(purgeCmd)
}

// Helper functions for output
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	}
}

func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func printSuccess(format string, args ...interface{}) {
	if !quiet {
		successPrint(format+"\n", args...)
	}
}

func printWarning(format string, args ...interface{}) {
	if !quiet {
		warnPrint("⚠️  "+format+"\n", args...)
	}
}

func printError(format string, args ...interface{}) {
	errorPrint(os.Stderr, "Error: "+format+"\n", args...)
}

// resolveProduct maps the first positional argument to a product.
func resolveProduct(args []string) (config.Product, error) {
	if len(args) == 0 {
		return config.Product{}, fmt.Errorf("missing product argument (supported: %v)", config.ProductNames())
	}
	return config.LookupProduct(args[0])
}

// detectActive probes the product binary for the version answering on
// PATH. Absent is normal: nothing installed, or PATH not set up yet.
func detectActive(provider *config.Provider, p config.Product) (string, bool) {
	resolver := active.NewResolver(provider.ProbeTimeout())
	v, ok := resolver.Detect(p)
	if ok {
		printVerbose("%s reports active version %s", p.Binary, v)
	} else {
		printVerbose("%s has no detectable active version", p.Binary)
	}
	return v, ok
}
