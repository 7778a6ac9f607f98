package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/lifecycle"
)

// purgeCmd represents the purge command
var purgeCmd = &cobra.Command{
	Use:   "purge <product>",
	Short: "Remove all but the newest installed versions",
	Long: `Keep the newest --keep installed versions and delete the rest. When
the active version falls outside that window the purge is refused;
with --force the active version is kept in place of the oldest version
the window would have retained, so the retention count still holds.

Examples:
  pvm purge studio               # keep the default number of versions
  pvm purge studio --keep 1
  pvm purge studio --keep 1 --force`,
	Args: cobra.ExactArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		if err := runPurge(args); err != nil {
			printError("%v", err)
			os.Exit(1)
		}
	},
}

var (
	purgeKeep  int
	purgeForce bool
)

func init() {
	purgeCmd.Flags().IntVarP(&purgeKeep, "keep", "k", 0, "how many newest versions to keep")
	purgeCmd.Flags().BoolVarP(&purgeForce, "force", "f", false, "purge past the active version, keeping it in the window")
}

func runPurge(args []string) error {
	p, err := resolveProduct(args)
	if err != nil {
		return err
	}

	provider := config.NewProvider()
	root := provider.InstallRoot()

	keep := purgeKeep
	if keep == 0 {
		keep = provider.DefaultKeep()
	}

	activeVersion, _ := detectActive(provider, p)
	engine := lifecycle.NewEngine(root)

	out, err := engine.Purge(p, keep, activeVersion, purgeForce)
	if err != nil {
		return err
	}
	reportOutcome(p, out)
	if len(out.Kept) > 0 {
		printInfo("Kept: %v", out.Kept)
	}
	return nil
}
