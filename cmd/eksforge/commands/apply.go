package commands

import (
	"github.com/spf13/cobra"

	"github.com/eksforge/eksforge/cmd/eksforge/handlers"
)

// Apply returns the apply command.
func Apply() *cobra.Command {
	var configPath string
	var noTUI bool
	var refreshInstances bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Provision or update a cluster from the descriptor",
		Long: `Provision a Kubernetes cluster on Amazon EKS from the descriptor.

Apply is idempotent: resources that already exist and match the
descriptor are left alone, missing resources are created, and drifted
settings (control-plane logging, node group sizing) are updated in
place. Re-running apply after a failure resumes where it left off.

Node group selectors resolve against the built-in instance type
catalog; --refresh-instances fetches a live one from the EC2 API first.

Credentials come from the default AWS chain (environment variables,
shared config, or an assumed role).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath, noTUI, refreshInstances)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the cluster descriptor (default: eksforge.yaml)")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "disable the interactive progress dashboard")
	cmd.Flags().BoolVar(&refreshInstances, "refresh-instances", false, "refresh the instance type catalog from the EC2 API")

	return cmd
}
