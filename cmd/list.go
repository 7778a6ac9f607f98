package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/praxis-tools/pvm/pkg/catalog"
	"github.com/praxis-tools/pvm/pkg/config"
	"github.com/praxis-tools/pvm/pkg/inventory"
	"github.com/praxis-tools/pvm/pkg/reconcile"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <product>",
	Short: "Show published and installed versions",
	Long: `Fetch the product's release catalog, scan the local install tree, and
show both side by side: which versions exist upstream, which are on
disk, and which one currently answers on PATH.

Versions installed locally but absent from the catalog are shown too,
marked local-only. When the catalog cannot be reached, the local view
is still shown so offline machines stay usable.

Examples:
  pvm list studio                # newest releases, installed state marked
  pvm list studio --all          # every known version
  pvm list runner --output json  # machine-readable output`,
	Args: cobra.ExactArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		if err := runList(args); err != nil {
			printError("%v", err)
			os.Exit(1)
		}
	},
}

var (
	listLimit  int
	listAll    bool
	listOutput string
)

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 10, "maximum versions to show")
	listCmd.Flags().BoolVar(&listAll, "all", false, "show every known version")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "console", "output format: console, json, or yaml")
}

func runList(args []string) error {
	p, err := resolveProduct(args)
	if err != nil {
		return err
	}

	provider := config.NewProvider()
	root := provider.InstallRoot()

	client := catalog.NewClient(provider.DownloadTimeout())
	remote, err := client.Fetch(p, config.CurrentPlatform())
	if err != nil {
		// Degrade to the local view rather than failing: the install
		// tree is still useful without the catalog.
		printWarning("release catalog unavailable: %v", err)
		remote = nil
	}

	local := inventory.List(root, p)
	activeVersion, _ := detectActive(provider, p)

	views := reconcile.Reconcile(remote, local, activeVersion)
	limit := listLimit
	if listAll {
		limit = 0
	}
	shown, truncated := reconcile.Window(views, limit)
	summary := reconcile.Summarize(views, shown, activeVersion, truncated)

	switch listOutput {
	case "console":
		renderConsole(p, shown, summary)
		return nil
	case "json":
		return renderJSON(shown, summary)
	case "yaml":
		return renderYAML(shown, summary)
	default:
		return fmt.Errorf("unknown output format %q (supported: console, json, yaml)", listOutput)
	}
}

func renderConsole(p config.Product, views []reconcile.View, summary reconcile.Summary) {
	if len(views) == 0 {
		printInfo("No %s versions found.", p.DisplayName)
		return
	}

	printInfo("%s versions:", p.DisplayName)
	for _, v := range views {
		marker := "  "
		switch {
		case v.Active:
			marker = "▶ "
		case v.Installed:
			marker = "✓ "
		}
		line := fmt.Sprintf("%s%-16s %-12s %10s  %s",
			marker, v.Version, statusLabel(v), sizeLabel(v.SizeBytes), dateLabel(v.LastModified))
		printInfo("%s", line)
	}
	if summary.Truncated {
		printInfo("")
		printInfo("Showing %d of %d versions; use --all to see every one.", summary.Shown, summary.Total)
	}
	if summary.ActiveVersion == "" {
		printInfo("")
		printInfo("No active version detected; run 'pvm use %s' after installing.", p.Name)
	}
}

func statusLabel(v reconcile.View) string {
	switch {
	case v.Active:
		return "active"
	case v.LocalOnly:
		return "local-only"
	case v.Installed:
		return "installed"
	default:
		return "available"
	}
}

func sizeLabel(bytes int64) string {
	if bytes <= 0 {
		return "-"
	}
	mb := float64(bytes) / (1024 * 1024)
	if mb < 1 {
		return fmt.Sprintf("%d KB", bytes/1024)
	}
	return fmt.Sprintf("%.1f MB", mb)
}

func dateLabel(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

type listDocument struct {
	Summary  reconcile.Summary `json:"summary" yaml:"summary"`
	Versions []reconcile.View  `json:"versions" yaml:"versions"`
}

func renderJSON(views []reconcile.View, summary reconcile.Summary) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(listDocument{Summary: summary, Versions: views})
}

func renderYAML(views []reconcile.View, summary reconcile.Summary) error {
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(listDocument{Summary: summary, Versions: views})
}
