package commands

import (
	"github.com/spf13/cobra"

	"github.com/eksforge/eksforge/cmd/eksforge/handlers"
)

// Destroy returns the destroy command.
func Destroy() *cobra.Command {
	var configPath string
	var noTUI bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Tear down a cluster and all of its resources",
		Long: `Tear down the cluster described by the descriptor.

Removes addons, node groups, imported SSH key pairs, the control plane,
the OIDC provider and the IAM roles created by apply. Externally
supplied service roles are left untouched.

This operation is irreversible. Destroy prompts for confirmation unless
--yes is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, noTUI, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the cluster descriptor (default: eksforge.yaml)")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "disable the interactive progress dashboard")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
