package aws

// ClusterSpec holds the parameters for creating or updating a cluster.
type ClusterSpec struct {
	Name    string
	Version string
	// RoleARN is the cluster service role. Empty means EnsureClusterRole
	// result is used.
	RoleARN string
	// SubnetIDs are the subnets the control plane attaches to.
	SubnetIDs []string
	// LogTypes are the control-plane log types to ship to CloudWatch.
	LogTypes []string
	Tags     map[string]string
}

// Cluster is the subset of cluster state callers need.
type Cluster struct {
	Name       string
	ARN        string
	Endpoint   string
	CAData     []byte
	OIDCIssuer string
	Version    string
	Status     string
}

// NodeGroupSpec holds the parameters for a managed node group.
type NodeGroupSpec struct {
	ClusterName   string
	Name          string
	NodeRoleARN   string
	SubnetIDs     []string
	InstanceTypes []string
	AMIType       string
	CapacitySpot  bool
	MinSize       int
	MaxSize       int
	DesiredSize   int
	DiskSizeGiB   int
	Labels        map[string]string
	Taints        []NodeTaint
	// SSHKeyName enables remote access with the named EC2 key pair.
	SSHKeyName string
	Tags       map[string]string
}

// NodeTaint is a Kubernetes taint applied to a node group's nodes.
type NodeTaint struct {
	Key    string
	Value  string
	Effect string
}

// AddonSpec holds the parameters for an EKS-native add-on.
type AddonSpec struct {
	ClusterName           string
	AddonName             string
	Version               string
	ServiceAccountRoleARN string
	ResolveConflicts      string
}

// ServiceAccountRoleSpec describes an IRSA role to ensure.
type ServiceAccountRoleSpec struct {
	ClusterName string
	// RoleName is the IAM role name to create or adopt.
	RoleName string
	// Namespace and ServiceAccount scope the trust policy.
	Namespace      string
	ServiceAccount string
	// PolicyARNs are attached to the role.
	PolicyARNs []string
	// OIDCIssuer and OIDCProviderARN come from the cluster.
	OIDCIssuer      string
	OIDCProviderARN string
	Tags            map[string]string
}
