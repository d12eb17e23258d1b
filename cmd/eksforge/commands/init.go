package commands

import (
	"github.com/spf13/cobra"

	"github.com/eksforge/eksforge/cmd/eksforge/handlers"
)

// Init returns the init command.
func Init() *cobra.Command {
	var outputPath string
	var useDefaults bool
	var fullOutput bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a cluster descriptor interactively",
		Long: `Create a new cluster descriptor through an interactive wizard.

The wizard asks about cluster identity, worker sizing, access settings
and optional addons, then writes a ready-to-apply YAML descriptor. Use
--defaults to skip the wizard and write a sensible default
configuration, and --full to write every field instead of the minimal
subset the wizard asked about.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, useDefaults, fullOutput)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path for the descriptor (default: eksforge.yaml)")
	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "skip the wizard and use default answers")
	cmd.Flags().BoolVar(&fullOutput, "full", false, "write the full configuration instead of the minimal subset")

	return cmd
}
