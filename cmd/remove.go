package cmd

import (
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/lifecycle"
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:   "remove <product> <version|all>",
	Short: "Delete installed versions",
	Long: `Delete an installed version's directory, or every version with "all".
The version may be exact or a prefix, but a prefix matching more than
one installed version is refused: removal never guesses.

The active version is protected; pass --force to delete it anyway,
which also clears its stable active copy.

Examples:
  pvm remove studio 8.1.21
  pvm remove studio all
  pvm remove studio 8.1.23 --force`,
	Args: cobra.ExactArgs(2),

	Run: func(cmd *cobra.Command, args []string) {
		if err := runRemove(args); err != nil {
			printError("%v", err)
			os.Exit(1)
		}
	},
}

var removeForce bool

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "remove even the active version")
}

func runRemove(args []string) error {
	p, err := resolveProduct(args)
	if err != nil {
		return err
	}
	selector := args[1]

	provider := config.NewProvider()
	root := provider.InstallRoot()

	activeVersion, _ := detectActive(provider, p)
	engine := lifecycle.NewEngine(root)

	out, err := engine.Remove(p, selector, activeVersion, removeForce)
	if err != nil {
		return err
	}
	reportOutcome(p, out)
	return nil
}

// reportOutcome prints a removal or purge result. Shared with purge.
func reportOutcome(p config.Product, out *lifecycle.Outcome) {
	for _, v := range out.Removed {
		printSuccess("  🗑️  %s %s removed", p.DisplayName, v)
	}
	failed := make([]string, 0, len(out.Failed))
	for v := range out.Failed {
		failed = append(failed, v)
	}
	sort.Strings(failed)
	for _, v := range failed {
		printWarning("%s %s not removed: %v", p.DisplayName, v, out.Failed[v])
	}
	for _, w := range out.Warnings {
		printWarning("%s", w)
	}
	if out.ActiveRemoved {
		printInfo("")
		printInfo("The active version was removed; run 'pvm use %s' to pick another.", p.Name)
	}
	if len(out.Removed) == 0 && len(out.Failed) == 0 {
		printInfo("Nothing to remove.")
	}
}
