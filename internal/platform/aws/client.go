package aws

import (
	"context"
)

// ClusterProvisioner manages the EKS control plane.
type ClusterProvisioner interface {
	// EnsureCluster creates the cluster if missing and waits until it is
	// active. An existing cluster is adopted as-is.
	EnsureCluster(ctx context.Context, spec ClusterSpec) (*Cluster, error)

	// EnsureLogging reconciles the control-plane log types with the
	// desired set.
	EnsureLogging(ctx context.Context, clusterName string, logTypes []string) error

	// GetCluster returns the cluster, or ErrNotFound.
	GetCluster(ctx context.Context, name string) (*Cluster, error)

	// DeleteCluster deletes the cluster and waits for it to disappear.
	// Deleting a missing cluster is not an error.
	DeleteCluster(ctx context.Context, name string) error
}

// NodeGroupManager manages EKS managed node groups.
type NodeGroupManager interface {
	// EnsureNodeGroup creates the node group if missing, or reconciles the
	// scaling config if it exists, and waits until it is active.
	EnsureNodeGroup(ctx context.Context, spec NodeGroupSpec) error

	// DeleteNodeGroup deletes the node group and waits. Missing is fine.
	DeleteNodeGroup(ctx context.Context, clusterName, name string) error

	// ListNodeGroups lists node group names for a cluster.
	ListNodeGroups(ctx context.Context, clusterName string) ([]string, error)
}

// AddonInstaller manages EKS-native add-ons.
type AddonInstaller interface {
	// EnsureAddon installs or updates the add-on and waits until active.
	EnsureAddon(ctx context.Context, spec AddonSpec) error

	// DeleteAddon removes the add-on. Missing is fine.
	DeleteAddon(ctx context.Context, clusterName, addonName string) error
}

// IAMManager manages the IAM side: roles and the OIDC provider.
type IAMManager interface {
	// EnsureClusterRole ensures the EKS service role and returns its ARN.
	EnsureClusterRole(ctx context.Context, clusterName string, tags map[string]string) (string, error)

	// EnsureNodeRole ensures the node instance role and returns its ARN.
	EnsureNodeRole(ctx context.Context, clusterName string, tags map[string]string) (string, error)

	// EnsureOIDCProvider registers the cluster's OIDC issuer with IAM and
	// returns the provider ARN.
	EnsureOIDCProvider(ctx context.Context, issuerURL string, tags map[string]string) (string, error)

	// EnsureServiceAccountRole ensures an IRSA role and returns its ARN.
	EnsureServiceAccountRole(ctx context.Context, spec ServiceAccountRoleSpec) (string, error)

	// DeleteRole detaches all managed policies and deletes the role.
	// Missing is fine.
	DeleteRole(ctx context.Context, roleName string) error

	// DeleteOIDCProvider removes the provider registration. Missing is fine.
	DeleteOIDCProvider(ctx context.Context, issuerURL string) error
}

// KeyPairManager manages EC2 key pairs for node SSH access.
type KeyPairManager interface {
	// ImportKeyPair imports the public key under the given name, replacing
	// nothing: an existing key with the same name is kept.
	ImportKeyPair(ctx context.Context, name string, publicKey []byte, tags map[string]string) error

	// DeleteKeyPair removes the key pair. Missing is fine.
	DeleteKeyPair(ctx context.Context, name string) error
}

// NetworkResolver answers where the cluster lives.
type NetworkResolver interface {
	// DefaultSubnets returns subnet IDs of the region's default VPC,
	// at most one per availability zone.
	DefaultSubnets(ctx context.Context) ([]string, error)
}

// ClusterManager combines everything apply and destroy need.
type ClusterManager interface {
	ClusterProvisioner
	NodeGroupManager
	AddonInstaller
	IAMManager
	KeyPairManager
	NetworkResolver

	// AccountID returns the caller's AWS account ID.
	AccountID(ctx context.Context) (string, error)
}
