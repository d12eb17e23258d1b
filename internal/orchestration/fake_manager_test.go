package orchestration

import (
	"context"
	"fmt"
	"sync"

	"github.com/eksforge/eksforge/internal/config"
	"github.com/eksforge/eksforge/internal/platform/aws"
)

// fakeManager implements aws.ClusterManager in memory and records calls.
type fakeManager struct {
	mu    sync.Mutex
	calls []string

	cluster       *aws.Cluster
	clusterErr    error
	nodeGroups    map[string]aws.NodeGroupSpec
	addonSpecs    []aws.AddonSpec
	irsaSpecs     []aws.ServiceAccountRoleSpec
	importedKeys  map[string][]byte
	deletedRoles  []string
	deletedAddons []string
	deletedGroups []string
	deletedKeys   []string
	loggingTypes  []string
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		nodeGroups:   map[string]aws.NodeGroupSpec{},
		importedKeys: map[string][]byte{},
	}
}

func (f *fakeManager) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeManager) EnsureCluster(_ context.Context, spec aws.ClusterSpec) (*aws.Cluster, error) {
	f.record("EnsureCluster")
	if f.clusterErr != nil {
		return nil, f.clusterErr
	}
	f.cluster = &aws.Cluster{
		Name:       spec.Name,
		ARN:        fmt.Sprintf("arn:aws:eks:eu-central-1:123456789012:cluster/%s", spec.Name),
		Endpoint:   "https://ABCDEF.gr7.eu-central-1.eks.amazonaws.com",
		CAData:     []byte("ca-data"),
		OIDCIssuer: "https://oidc.eks.eu-central-1.amazonaws.com/id/EXAMPLE",
		Version:    spec.Version,
		Status:     "ACTIVE",
	}
	return f.cluster, nil
}

func (f *fakeManager) EnsureLogging(_ context.Context, _ string, logTypes []string) error {
	f.record("EnsureLogging")
	f.loggingTypes = logTypes
	return nil
}

func (f *fakeManager) GetCluster(_ context.Context, name string) (*aws.Cluster, error) {
	f.record("GetCluster")
	if f.cluster == nil {
		return nil, fmt.Errorf("cluster %s: %w", name, aws.ErrNotFound)
	}
	return f.cluster, nil
}

func (f *fakeManager) DeleteCluster(_ context.Context, _ string) error {
	f.record("DeleteCluster")
	f.cluster = nil
	return nil
}

func (f *fakeManager) EnsureNodeGroup(_ context.Context, spec aws.NodeGroupSpec) error {
	f.record("EnsureNodeGroup:" + spec.Name)
	f.nodeGroups[spec.Name] = spec
	return nil
}

func (f *fakeManager) DeleteNodeGroup(_ context.Context, _, name string) error {
	f.record("DeleteNodeGroup:" + name)
	f.deletedGroups = append(f.deletedGroups, name)
	delete(f.nodeGroups, name)
	return nil
}

func (f *fakeManager) ListNodeGroups(_ context.Context, _ string) ([]string, error) {
	f.record("ListNodeGroups")
	var names []string
	for name := range f.nodeGroups {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeManager) EnsureAddon(_ context.Context, spec aws.AddonSpec) error {
	f.record("EnsureAddon:" + spec.AddonName)
	f.addonSpecs = append(f.addonSpecs, spec)
	return nil
}

func (f *fakeManager) DeleteAddon(_ context.Context, _, addonName string) error {
	f.record("DeleteAddon:" + addonName)
	f.deletedAddons = append(f.deletedAddons, addonName)
	return nil
}

func (f *fakeManager) EnsureClusterRole(_ context.Context, clusterName string, _ map[string]string) (string, error) {
	f.record("EnsureClusterRole")
	return "arn:aws:iam::123456789012:role/" + aws.ClusterRoleName(clusterName), nil
}

func (f *fakeManager) EnsureNodeRole(_ context.Context, clusterName string, _ map[string]string) (string, error) {
	f.record("EnsureNodeRole")
	return "arn:aws:iam::123456789012:role/" + aws.NodeRoleName(clusterName), nil
}

func (f *fakeManager) EnsureOIDCProvider(_ context.Context, issuerURL string, _ map[string]string) (string, error) {
	f.record("EnsureOIDCProvider")
	return "arn:aws:iam::123456789012:oidc-provider/oidc.eks.eu-central-1.amazonaws.com/id/EXAMPLE", nil
}

func (f *fakeManager) EnsureServiceAccountRole(_ context.Context, spec aws.ServiceAccountRoleSpec) (string, error) {
	f.record("EnsureServiceAccountRole:" + spec.RoleName)
	f.irsaSpecs = append(f.irsaSpecs, spec)
	return "arn:aws:iam::123456789012:role/" + spec.RoleName, nil
}

func (f *fakeManager) DeleteRole(_ context.Context, roleName string) error {
	f.record("DeleteRole:" + roleName)
	f.deletedRoles = append(f.deletedRoles, roleName)
	return nil
}

func (f *fakeManager) DeleteOIDCProvider(_ context.Context, _ string) error {
	f.record("DeleteOIDCProvider")
	return nil
}

func (f *fakeManager) ImportKeyPair(_ context.Context, name string, publicKey []byte, _ map[string]string) error {
	f.record("ImportKeyPair:" + name)
	f.importedKeys[name] = publicKey
	return nil
}

func (f *fakeManager) DeleteKeyPair(_ context.Context, name string) error {
	f.record("DeleteKeyPair:" + name)
	f.deletedKeys = append(f.deletedKeys, name)
	return nil
}

func (f *fakeManager) DefaultSubnets(_ context.Context) ([]string, error) {
	f.record("DefaultSubnets")
	return []string{"subnet-1a", "subnet-1b"}, nil
}

func (f *fakeManager) AccountID(_ context.Context) (string, error) {
	return "123456789012", nil
}

// fakeK8s records applied manifests.
type fakeK8s struct {
	applied [][]byte
}

func (f *fakeK8s) ApplyManifests(_ context.Context, manifests []byte, _ string) error {
	f.applied = append(f.applied, manifests)
	return nil
}

func (f *fakeK8s) HasReadyEndpoints(_ context.Context, _, _ string) (bool, error) {
	return true, nil
}

// fakeSnapshots records snapshot writes.
type fakeSnapshots struct {
	puts int
}

func (f *fakeSnapshots) PutSnapshot(_ context.Context, cfg *config.Config) (string, error) {
	f.puts++
	return fmt.Sprintf("snapshots/%s/00%d.yaml", cfg.ClusterName, f.puts), nil
}
