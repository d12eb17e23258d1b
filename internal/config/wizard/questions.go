package wizard

import (
	"context"
	"regexp"

	"github.com/charmbracelet/huh"
)

// clusterNameRegex validates DNS-safe names: lowercase alphanumeric and
// hyphens, starting with a letter.
var clusterNameRegex = regexp.MustCompile(`^[a-z](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

func validateClusterName(name string) error {
	if name == "" {
		return errClusterNameRequired
	}
	if !clusterNameRegex.MatchString(name) {
		return errClusterNameInvalid
	}
	return nil
}

// runClusterIdentityGroup prompts for name, region and version.
func runClusterIdentityGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster Name").
				Description("Lowercase alphanumeric characters or hyphens, starting with a letter").
				Placeholder("my-cluster").
				Value(&result.ClusterName).
				Validate(validateClusterName),
			huh.NewSelect[string]().
				Title("Region").
				Description("AWS region the cluster lives in").
				Options(RegionsToOptions()...).
				Value(&result.Region),
			huh.NewSelect[string]().
				Title("Kubernetes Version").
				Options(VersionsToOptions()...).
				Value(&result.KubernetesVersion),
		).Title("Cluster Identity"),
	).RunWithContext(ctx)
}

// runWorkersGroup prompts for worker pool sizing.
func runWorkersGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Node Architecture").
				Options(ArchitectureOptions...).
				Value(&result.Architecture),
			huh.NewSelect[string]().
				Title("Node Size").
				Description("Resolved to concrete instance types at apply time").
				Options(SizesToOptions()...).
				Value(&result.NodeSize),
			huh.NewSelect[int]().
				Title("Worker Count").
				Description("Desired nodes; the group can scale two above this").
				Options(WorkerCountOptions...).
				Value(&result.WorkerCount),
			huh.NewConfirm().
				Title("Use Spot Capacity?").
				Description("Cheaper, but nodes can be reclaimed by AWS").
				Value(&result.Spot),
		).Title("Workers"),
	).RunWithContext(ctx)
}

// runAccessGroup prompts for identity and access toggles.
func runAccessGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable IAM Roles for Service Accounts?").
				Description("Registers an OIDC provider so addons get scoped IAM roles").
				Value(&result.WithOIDC),
			huh.NewConfirm().
				Title("Allow SSH to Nodes?").
				Description("Generates a key pair at apply time when none is configured").
				Value(&result.AllowSSH),
			huh.NewConfirm().
				Title("Ship Control-Plane Logs to CloudWatch?").
				Value(&result.EnableLogging),
		).Title("Access"),
	).RunWithContext(ctx)
}

// runAddonsGroup prompts for optional addons and snapshots.
func runAddonsGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Optional Addons").
				Description("vpc-cni, coredns, kube-proxy and the EBS CSI driver are always managed").
				Options(AddonsToOptions()...).
				Value(&result.EnabledAddons),
			huh.NewConfirm().
				Title("Snapshot Descriptors to S3?").
				Description("Keeps a timestamped copy of the effective configuration on every apply").
				Value(&result.SnapshotsEnabled),
		).Title("Extras"),
	).RunWithContext(ctx)
}
