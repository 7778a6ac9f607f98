package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/praxis-tools/pvm/pkg/active"
	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/lifecycle"
	"github.com/praxis-tools/pvm/pkg/pathenv"
)

// useCmd represents the use command
var useCmd = &cobra.Command{
	Use:   "use <product> [version]",
	Short: "Make an installed version the active one",
	Long: `Switch the active version by copying the selected install into the
product's stable directory. The version argument may be exact, a prefix
(newest match wins), or omitted for the newest installed version.

The stable directory never moves, so PATH needs to be set up only once
per product; 'use' prints the line to add when it is missing.

Examples:
  pvm use studio          # newest installed studio version
  pvm use studio 8.1.23   # a specific version`,
	Args: cobra.RangeArgs(1, 2),

	Run: func(cmd *cobra.Command, args []string) {
		if err := runUse(args); err != nil {
			printError("%v", err)
			os.Exit(1)
		}
	},
}

func runUse(args []string) error {
	p, err := resolveProduct(args)
	if err != nil {
		return err
	}
	selector := ""
	if len(args) > 1 {
		selector = args[1]
	}

	provider := config.NewProvider()
	root := provider.InstallRoot()
	return activateVersion(provider, root, p, selector)
}

// activateVersion switches the active version and reports PATH and
// verification guidance. Shared with 'install --use'.
func activateVersion(provider *config.Provider, root string, p config.Product, selector string) error {
	engine := lifecycle.NewEngineWithVerifier(root, active.NewResolver(provider.ProbeTimeout()))

	act, err := engine.Activate(p, selector)
	if err != nil {
		return err
	}
	printSuccess("✅ %s %s is now active (%s)", p.DisplayName, act.Version, act.Dir)

	for _, w := range act.Warnings {
		printWarning("%s", w)
	}
	if hint, needed := pathenv.NewBinder().Hint(root, p); needed {
		printInfo("")
		printInfo("One-time setup: %s", hint)
	}
	return nil
}
