package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/praxis-tools/pvm/pkg/catalog"
	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/install"
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:   "install <product> [version]",
	Short: "Download and unpack a product version",
	Long: `Download a published release and unpack it into its own version
directory. The version argument may be exact (8.1.23), a prefix (8.1,
resolving to the newest matching release), "latest", or omitted (same
as latest).

Installing is safe to repeat: a version that is already on disk is
left untouched. Installing does not switch the active version; run
'pvm use' afterwards.

Examples:
  pvm install studio             # newest published studio release
  pvm install studio 8.1         # newest 8.1.x release
  pvm install runner 2.4.1 --use # install and activate in one step`,
	Args: cobra.RangeArgs(1, 2),

	Run: func(cmd *cobra.Command, args []string) {
		if err := runInstall(args); err != nil {
			printError("%v", err)
			os.Exit(1)
		}
	},
}

var installAndUse bool

func init() {
	installCmd.Flags().BoolVar(&installAndUse, "use", false, "activate the version after installing it")
}

func runInstall(args []string) error {
	p, err := resolveProduct(args)
	if err != nil {
		return err
	}
	spec := ""
	if len(args) > 1 {
		spec = args[1]
	}

	provider := config.NewProvider()
	root := provider.InstallRoot()

	engine := install.NewEngine(root,
		catalog.NewClient(provider.DownloadTimeout()),
		&install.Downloader{
			Timeout:    provider.DownloadTimeout(),
			MaxRetries: provider.MaxRetries(),
			RetryDelay: provider.RetryDelay(),
		})

	printInfo("📦 Installing %s %s...", p.DisplayName, orLatest(spec))
	result, err := engine.Install(p, spec)
	if err != nil {
		return err
	}

	if result.AlreadyInstalled {
		printInfo("  ✅ %s %s is already installed (%s)", p.DisplayName, result.Version, result.Dir)
	} else {
		printSuccess("  ✅ %s %s installed (%s)", p.DisplayName, result.Version, result.Dir)
	}

	if installAndUse {
		return activateVersion(provider, root, p, result.Version)
	}
	printInfo("")
	printInfo("Run 'pvm use %s %s' to make it the active version.", p.Name, result.Version)
	return nil
}

func orLatest(spec string) string {
	if spec == "" {
		return "latest"
	}
	return spec
}
