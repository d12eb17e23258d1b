package wizard

import (
	"github.com/charmbracelet/huh"

	"github.com/eksforge/eksforge/internal/config"
)

// RegionOption represents an AWS region EKS runs in.
type RegionOption struct {
	Value       string
	Description string
}

// Regions contains the selectable AWS regions, grouped roughly by
// geography. Every entry must be present in config.ValidRegions.
var Regions = []RegionOption{
	{Value: "us-east-1", Description: "N. Virginia"},
	{Value: "us-east-2", Description: "Ohio"},
	{Value: "us-west-2", Description: "Oregon"},
	{Value: "ca-central-1", Description: "Canada"},
	{Value: "sa-east-1", Description: "Sao Paulo"},
	{Value: "eu-west-1", Description: "Ireland"},
	{Value: "eu-central-1", Description: "Frankfurt"},
	{Value: "eu-north-1", Description: "Stockholm"},
	{Value: "ap-south-1", Description: "Mumbai"},
	{Value: "ap-southeast-1", Description: "Singapore"},
	{Value: "ap-southeast-2", Description: "Sydney"},
	{Value: "ap-northeast-1", Description: "Tokyo"},
}

// ArchitectureOptions selects the node CPU architecture.
var ArchitectureOptions = []huh.Option[string]{
	huh.NewOption("x86_64 - widest instance selection", string(config.ArchAMD64)),
	huh.NewOption("arm64 - Graviton, better price/performance", string(config.ArchARM64)),
}

// WorkerCountOptions contains common worker node counts.
var WorkerCountOptions = []huh.Option[int]{
	huh.NewOption("1", 1),
	huh.NewOption("2", 2),
	huh.NewOption("3", 3),
	huh.NewOption("5", 5),
	huh.NewOption("10", 10),
}

// AddonOption represents an optional addon the wizard can enable.
type AddonOption struct {
	Key         string
	Label       string
	Description string
	Default     bool
}

// OptionalAddons contains the Helm-installed extras. The native EKS
// addons are always on and not asked about.
var OptionalAddons = []AddonOption{
	{Key: "metrics_server", Label: "Metrics Server", Description: "Resource metrics for HPA and kubectl top", Default: true},
	{Key: "cluster_autoscaler", Label: "Cluster Autoscaler", Description: "Scales node groups with pod demand", Default: false},
	{Key: "aws_load_balancer_controller", Label: "AWS Load Balancer Controller", Description: "ALB/NLB ingress and service load balancers", Default: false},
}

// RegionsToOptions converts the region list to huh options.
func RegionsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Regions))
	for i, r := range Regions {
		opts[i] = huh.NewOption(r.Value+" - "+r.Description, r.Value)
	}
	return opts
}

// VersionsToOptions converts the supported Kubernetes versions to huh
// options, newest first.
func VersionsToOptions() []huh.Option[string] {
	versions := config.SupportedVersions
	opts := make([]huh.Option[string], 0, len(versions))
	for i := len(versions) - 1; i >= 0; i-- {
		label := versions[i]
		if versions[i] == config.DefaultVersion {
			label += " (default)"
		}
		opts = append(opts, huh.NewOption(label, versions[i]))
	}
	return opts
}

// SizesToOptions converts the node sizing tiers to huh options.
func SizesToOptions() []huh.Option[string] {
	sizes := config.ValidNodeSizes()
	opts := make([]huh.Option[string], len(sizes))
	for i, s := range sizes {
		opts[i] = huh.NewOption(s.String(), string(s))
	}
	return opts
}

// AddonsToOptions converts the optional addons to huh multi-select
// options with defaults preselected.
func AddonsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(OptionalAddons))
	for i, a := range OptionalAddons {
		opts[i] = huh.NewOption(a.Label+" - "+a.Description, a.Key).Selected(a.Default)
	}
	return opts
}
