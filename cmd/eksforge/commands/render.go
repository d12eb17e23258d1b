package commands

import (
	"github.com/spf13/cobra"

	"github.com/eksforge/eksforge/cmd/eksforge/handlers"
)

// Render returns the render command.
func Render() *cobra.Command {
	var configPath string
	var outputDir string
	var only string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render addon manifests without applying them",
		Long: `Render the Kubernetes manifests of enabled manifest-delivered addons.

Rendering happens entirely offline. Manifests go to stdout by default;
use --output-dir to write one file per addon, and --only to render a
single addon (for example: storage-classes).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Render(cmd.Context(), configPath, outputDir, only)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the cluster descriptor (default: eksforge.yaml)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "directory to write manifests to (default: stdout)")
	cmd.Flags().StringVar(&only, "only", "", "render a single addon by name")

	return cmd
}
