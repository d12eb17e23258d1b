package commands

import (
	"github.com/spf13/cobra"

	"github.com/eksforge/eksforge/cmd/eksforge/handlers"
)

// Validate returns the validate command.
func Validate() *cobra.Command {
	var configPath string
	var refreshInstances bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the cluster descriptor",
		Long: `Validate the cluster descriptor without provisioning anything.

Checks the schema, version and sizing constraints, and resolves every
node group selector against the instance type catalog so an
unsatisfiable selector fails here instead of mid-apply. The built-in
catalog is used by default; --refresh-instances fetches a live one from
the EC2 API.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), configPath, refreshInstances)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the cluster descriptor (default: eksforge.yaml)")
	cmd.Flags().BoolVar(&refreshInstances, "refresh-instances", false, "refresh the instance type catalog from the EC2 API")

	return cmd
}
