package addons

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eksforge/eksforge/internal/config"
)

type fakeInstaller struct {
	installed []NativeSpec
	failOn    string
}

func (f *fakeInstaller) EnsureAddon(_ context.Context, spec NativeSpec) error {
	if spec.AddonName == f.failOn {
		return errors.New("boom")
	}
	f.installed = append(f.installed, spec)
	return nil
}

type fakeK8s struct {
	applied        [][]byte
	endpointChecks []string
	notReady       bool
}

func (f *fakeK8s) ApplyManifests(_ context.Context, manifests []byte, _ string) error {
	f.applied = append(f.applied, manifests)
	return nil
}

func (f *fakeK8s) HasReadyEndpoints(_ context.Context, namespace, name string) (bool, error) {
	f.endpointChecks = append(f.endpointChecks, namespace+"/"+name)
	return !f.notReady, nil
}

func testConfig() *config.Config {
	return &config.Config{
		ClusterName: "demo",
		Region:      "eu-central-1",
		Version:     "1.31",
		Storage: config.StorageConfig{
			Provider: "aws",
			Classes: []config.StorageClassConfig{
				{Name: "gp3", Default: true, VolumeType: "gp3", FSType: "ext4", Encrypted: true, ReclaimPolicy: "Delete", BindingMode: "WaitForFirstConsumer"},
			},
		},
	}
}

func TestEnsureAddons_OrderAndInstall(t *testing.T) {
	installer := &fakeInstaller{}
	k8s := &fakeK8s{}
	m := NewManager(testConfig(), k8s, installer, DefaultInstallOptions(), nil)

	err := m.EnsureAddons(context.Background())
	require.NoError(t, err)

	names := make([]string, len(installer.installed))
	for i, s := range installer.installed {
		names[i] = s.AddonName
	}
	// vpc-cni precedes its dependents.
	require.Contains(t, names, NameVPCCNI)
	require.Contains(t, names, NameEBSCSI)
	assert.Less(t, indexOf(names, NameVPCCNI), indexOf(names, NameCoreDNS))
	assert.Less(t, indexOf(names, NameVPCCNI), indexOf(names, NameEBSCSI))

	// Storage classes applied once the CSI driver is in.
	require.Len(t, k8s.applied, 1)
	assert.Contains(t, string(k8s.applied[0]), "kind: StorageClass")
}

func TestEnsureAddons_DisabledDependency(t *testing.T) {
	cfg := testConfig()
	off := false
	cfg.Addons.VPCCNI.Enabled = &off

	m := NewManager(cfg, &fakeK8s{}, &fakeInstaller{}, DefaultInstallOptions(), nil)
	err := m.EnsureAddons(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires vpc-cni")
}

func TestEnsureAddons_FailFast(t *testing.T) {
	installer := &fakeInstaller{failOn: NameVPCCNI}
	m := NewManager(testConfig(), &fakeK8s{}, installer, DefaultInstallOptions(), nil)

	err := m.EnsureAddons(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), NameVPCCNI)
	assert.Empty(t, installer.installed)
}

func TestEnsureAddons_ContinueOnError(t *testing.T) {
	installer := &fakeInstaller{failOn: NameKubeProxy}
	opts := DefaultInstallOptions()
	opts.ContinueOnError = true

	k8s := &fakeK8s{}
	m := NewManager(testConfig(), k8s, installer, opts, nil)

	err := m.EnsureAddons(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), NameKubeProxy)

	// The rest still went in.
	names := make([]string, len(installer.installed))
	for i, s := range installer.installed {
		names[i] = s.AddonName
	}
	assert.Contains(t, names, NameCoreDNS)
	assert.Len(t, k8s.applied, 1)
}

func TestOrderAddons_Cycle(t *testing.T) {
	a := &stubAddon{name: "a", deps: []string{"b"}}
	b := &stubAddon{name: "b", deps: []string{"a"}}

	_, err := orderAddons([]Addon{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestOrderAddons_UnknownDependency(t *testing.T) {
	a := &stubAddon{name: "a", deps: []string{"ghost"}}
	_, err := orderAddons([]Addon{a})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

type stubAddon struct {
	name string
	deps []string
}

func (s *stubAddon) Name() string           { return s.name }
func (s *stubAddon) Enabled() bool          { return true }
func (s *stubAddon) Dependencies() []string { return s.deps }

func indexOf(names []string, want string) int {
	for i, n := range names {
		if n == want {
			return i
		}
	}
	return -1
}
