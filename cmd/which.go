package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/inventory"
	"github.com/praxis-tools/pvm/pkg/pathenv"
)

// whichCmd represents the which command
var whichCmd = &cobra.Command{
	Use:   "which <product>",
	Short: "Show the version currently answering on PATH",
	Long: `Probe the product binary the way a shell would run it and report which
version answers, together with the launch directory that should be on
PATH.

Examples:
  pvm which studio`,
	Args: cobra.ExactArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		if err := runWhich(args); err != nil {
			printError("%v", err)
			os.Exit(1)
		}
	},
}

func runWhich(args []string) error {
	p, err := resolveProduct(args)
	if err != nil {
		return err
	}

	provider := config.NewProvider()
	root := provider.InstallRoot()

	activeVersion, ok := detectActive(provider, p)
	if !ok {
		printInfo("%s: no active version detected", p.DisplayName)
		if installed := inventory.Versions(root, p); len(installed) > 0 {
			printInfo("Installed versions: %v", installed)
			printInfo("Run 'pvm use %s' to activate one.", p.Name)
		} else {
			printInfo("Nothing installed; run 'pvm install %s' first.", p.Name)
		}
		return nil
	}

	printInfo("%s: %s", p.DisplayName, activeVersion)
	printVerbose("launch directory: %s", pathenv.LaunchDir(root, p))
	if !inventory.IsInstalled(root, p, activeVersion) {
		printWarning("the answering %s is not one managed here; check PATH ordering", p.Binary)
	}
	if hint, needed := pathenv.NewBinder().Hint(root, p); needed {
		printInfo("Note: %s", hint)
	}
	return nil
}
