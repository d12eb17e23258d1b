package config

// Config is the full cluster descriptor.
type Config struct {
	// ClusterName is used for resource naming and tagging.
	// Must be DNS-safe: lowercase alphanumeric and hyphens, must start with letter.
	ClusterName string `yaml:"cluster_name"`

	// Region is the AWS region the cluster lives in, e.g. us-east-1.
	Region string `yaml:"region"`

	// Version is the Kubernetes minor version, e.g. "1.31".
	Version string `yaml:"version"`

	// Tags are applied to every AWS resource eksforge creates.
	Tags map[string]string `yaml:"tags"`

	// Logging configures EKS control-plane log shipping to CloudWatch.
	Logging LoggingConfig `yaml:"logging"`

	// IAM configures identity federation and the cluster service role.
	IAM IAMConfig `yaml:"iam"`

	// NodeGroups defines the managed node groups.
	NodeGroups []NodeGroup `yaml:"node_groups"`

	// Addons configures native EKS add-ons and Helm-installed extras.
	Addons AddonsConfig `yaml:"addons"`

	// Storage configures the storage-class catalog.
	Storage StorageConfig `yaml:"storage"`

	// Snapshots configures descriptor snapshots to S3 on apply.
	Snapshots SnapshotConfig `yaml:"snapshots"`
}

// LoggingConfig selects which control-plane log types are shipped.
//
// When Enabled is true and no per-type toggle is set, all five types are
// shipped. A per-type toggle set to false opts that type out.
type LoggingConfig struct {
	Enabled bool `yaml:"enabled"`

	API               *bool `yaml:"api"`
	Audit             *bool `yaml:"audit"`
	Authenticator     *bool `yaml:"authenticator"`
	ControllerManager *bool `yaml:"controller_manager"`
	Scheduler         *bool `yaml:"scheduler"`
}

// ControlPlaneLogTypes lists the log types the EKS control plane can ship,
// in the order the EKS API reports them.
var ControlPlaneLogTypes = []string{"api", "audit", "authenticator", "controllerManager", "scheduler"}

// Types returns the effective list of enabled log types.
func (l LoggingConfig) Types() []string {
	if !l.Enabled {
		return nil
	}
	toggles := map[string]*bool{
		"api":               l.API,
		"audit":             l.Audit,
		"authenticator":     l.Authenticator,
		"controllerManager": l.ControllerManager,
		"scheduler":         l.Scheduler,
	}
	types := make([]string, 0, len(ControlPlaneLogTypes))
	for _, t := range ControlPlaneLogTypes {
		if v := toggles[t]; v == nil || *v {
			types = append(types, t)
		}
	}
	return types
}

// IAMConfig defines identity-related configuration.
type IAMConfig struct {
	// WithOIDC associates an IAM OIDC provider with the cluster issuer,
	// enabling IAM roles for service accounts.
	WithOIDC bool `yaml:"with_oidc"`

	// ServiceRoleARN overrides the cluster service role. When empty,
	// eksforge expects a role named {cluster}-cluster-role to exist.
	ServiceRoleARN string `yaml:"service_role_arn"`
}

// Arch is a node CPU architecture.
type Arch string

const (
	// ArchAMD64 selects x86_64 instance types.
	ArchAMD64 Arch = "amd64"
	// ArchARM64 selects Graviton instance types.
	ArchARM64 Arch = "arm64"
)

// ValidArchs returns all valid architectures.
func ValidArchs() []Arch {
	return []Arch{ArchAMD64, ArchARM64}
}

// IsValid returns true if the architecture is supported.
func (a Arch) IsValid() bool {
	switch a {
	case ArchAMD64, ArchARM64:
		return true
	default:
		return false
	}
}

// AMIType returns the EKS managed-nodegroup AMI type for this architecture.
func (a Arch) AMIType() string {
	if a == ArchARM64 {
		return "AL2023_ARM_64_STANDARD"
	}
	return "AL2023_x86_64_STANDARD"
}

// InstanceSelector constrains instance-type resolution for a node group.
// It is mutually exclusive with an explicit InstanceTypes list.
type InstanceSelector struct {
	// MemoryGiB is the required memory per node.
	MemoryGiB int `yaml:"memory_gib"`
	// VCPUs is the required vCPU count per node.
	VCPUs int `yaml:"vcpus"`
}

// Taint is a Kubernetes node taint applied to a node group.
type Taint struct {
	Key    string `yaml:"key"`
	Value  string `yaml:"value"`
	Effect string `yaml:"effect"` // NoSchedule, PreferNoSchedule, NoExecute
}

// SSHAccess configures remote access to node-group instances.
type SSHAccess struct {
	// Allow enables SSH access. When no public key is given, a key pair
	// is generated at apply time and the private key written next to the
	// kubeconfig.
	Allow bool `yaml:"allow"`

	// PublicKey is OpenSSH authorized_keys material imported as an EC2
	// key pair.
	PublicKey string `yaml:"public_key"`
}

// NodeGroup defines a managed node group.
type NodeGroup struct {
	Name string `yaml:"name"`

	// Arch selects the CPU architecture. Default: amd64.
	Arch Arch `yaml:"arch"`

	MinSize int `yaml:"min_size"`
	MaxSize int `yaml:"max_size"`
	Desired int `yaml:"desired"`

	// InstanceTypes is the explicit candidate list, in preference order.
	// Leave empty to resolve types from Selector instead.
	InstanceTypes []string `yaml:"instance_types"`

	// Selector resolves candidate instance types from sizing constraints.
	Selector *InstanceSelector `yaml:"selector"`

	// Spot requests spot capacity instead of on-demand.
	Spot bool `yaml:"spot"`

	// VolumeSizeGiB is the root volume size. Default: 80.
	VolumeSizeGiB int `yaml:"volume_size_gib"`

	Labels map[string]string `yaml:"labels"`
	Taints []Taint           `yaml:"taints"`

	SSH SSHAccess `yaml:"ssh"`
}

// NativeAddon configures an EKS-native add-on installed through the EKS API.
type NativeAddon struct {
	// Enabled defaults to true for vpc-cni, coredns and kube-proxy.
	Enabled *bool `yaml:"enabled"`

	// Version pins the add-on version, e.g. "v1.19.0-eksbuild.1".
	// Empty means the default version for the cluster's Kubernetes version.
	Version string `yaml:"version"`

	// ServiceAccountRoleARN grants the add-on an existing IRSA role.
	ServiceAccountRoleARN string `yaml:"service_account_role_arn"`

	// PolicyARNs are attached to a generated IRSA role when no explicit
	// ServiceAccountRoleARN is given. Requires iam.with_oidc.
	PolicyARNs []string `yaml:"policy_arns"`

	// ResolveConflicts controls how the EKS API treats config drift
	// (NONE, OVERWRITE, PRESERVE). Default: OVERWRITE.
	ResolveConflicts string `yaml:"resolve_conflicts"`
}

// On reports whether the add-on is enabled, falling back to def when the
// field was not set.
func (n NativeAddon) On(def bool) bool {
	if n.Enabled == nil {
		return def
	}
	return *n.Enabled
}

// HelmChartConfig overrides the chart source for a Helm-installed add-on.
type HelmChartConfig struct {
	// Repository specifies a custom Helm repository URL.
	Repository string `yaml:"repository"`

	// Chart specifies a custom chart name.
	Chart string `yaml:"chart"`

	// Version specifies a custom chart version.
	Version string `yaml:"version"`

	// Path renders the chart from a local directory or archive instead of
	// downloading it. Useful for air-gapped environments and chart
	// development.
	Path string `yaml:"path"`

	// Values specifies custom Helm values to merge with defaults.
	Values map[string]any `yaml:"values"`
}

// HelmAddon configures an add-on rendered from a Helm chart.
type HelmAddon struct {
	Enabled bool `yaml:"enabled"`

	// Helm allows customizing the chart repository, version, and values.
	Helm HelmChartConfig `yaml:"helm"`
}

// AddonsConfig groups all add-on configuration.
type AddonsConfig struct {
	// Native EKS add-ons.
	VPCCNI    NativeAddon `yaml:"vpc_cni"`
	CoreDNS   NativeAddon `yaml:"coredns"`
	KubeProxy NativeAddon `yaml:"kube_proxy"`
	EBSCSI    NativeAddon `yaml:"ebs_csi"`

	// Helm-installed extras.
	MetricsServer     HelmAddon `yaml:"metrics_server"`
	ClusterAutoscaler HelmAddon `yaml:"cluster_autoscaler"`
	AWSLoadBalancer   HelmAddon `yaml:"aws_load_balancer_controller"`
}

// StorageConfig defines the storage-class catalog.
type StorageConfig struct {
	// Provider selects the volume provisioner branch (aws, aws-efs, local).
	Provider string `yaml:"provider"`

	Classes []StorageClassConfig `yaml:"classes"`
}

// StorageClassConfig defines a single storage class.
type StorageClassConfig struct {
	Name string `yaml:"name"`

	// Default marks this class as the cluster default.
	Default bool `yaml:"default"`

	// VolumeType is the backend volume type (gp3, gp2, io1, io2, st1, sc1
	// on the aws provider).
	VolumeType string `yaml:"volume_type"`

	// FSType is the filesystem the volume is formatted with. Default: ext4.
	FSType string `yaml:"fs_type"`

	// Encrypted enables at-rest encryption on the backend.
	Encrypted bool `yaml:"encrypted"`

	// ReclaimPolicy is Delete or Retain. Default: Delete.
	ReclaimPolicy string `yaml:"reclaim_policy"`

	// AllowExpansion permits online volume growth. Default: true.
	AllowExpansion *bool `yaml:"allow_expansion"`

	// BindingMode is WaitForFirstConsumer or Immediate.
	// Default: WaitForFirstConsumer.
	BindingMode string `yaml:"binding_mode"`

	// ExtraParameters are passed to the provisioner verbatim.
	ExtraParameters map[string]string `yaml:"extra_parameters"`
}

// SnapshotConfig enables descriptor snapshots to S3 on every apply.
type SnapshotConfig struct {
	Enabled bool `yaml:"enabled"`

	// Bucket receives the snapshots. Default: {cluster-name}-eksforge-state.
	Bucket string `yaml:"bucket"`

	// Prefix is prepended to snapshot object keys.
	Prefix string `yaml:"prefix"`
}

// DefaultSnapshotBucket returns the bucket snapshots go to when none is
// configured.
func (c *Config) DefaultSnapshotBucket() string {
	return c.ClusterName + "-eksforge-state"
}
