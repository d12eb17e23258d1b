package orchestration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eksforge/eksforge/internal/addons"
	"github.com/eksforge/eksforge/internal/addons/k8sclient"
	"github.com/eksforge/eksforge/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFromBytes([]byte(`
cluster_name: demo
region: eu-central-1
version: "1.31"
logging:
  enabled: true
iam:
  with_oidc: true
node_groups:
  - name: workers
    min_size: 1
    max_size: 3
    desired: 2
    selector:
      memory_gib: 8
      vcpus: 2
    ssh:
      allow: true
snapshots:
  enabled: true
`))
	require.NoError(t, err)
	return cfg
}

func testReconciler(t *testing.T, cfg *config.Config, infra *fakeManager) (*Reconciler, *fakeK8s, *fakeSnapshots, *[]Event) {
	t.Helper()
	k8s := &fakeK8s{}
	snaps := &fakeSnapshots{}
	var events []Event

	r := NewReconciler(infra, cfg,
		WithReporter(func(ev Event) { events = append(events, ev) }),
		WithSnapshotWriter(snaps),
		WithKubernetesFactory(func([]byte) (k8sclient.Client, error) { return k8s, nil }),
	)
	return r, k8s, snaps, &events
}

func startedPhases(events []Event) []string {
	var phases []string
	for _, ev := range events {
		if ev.Status == StatusStarted {
			phases = append(phases, ev.Phase)
		}
	}
	return phases
}

func TestApply_FullFlow(t *testing.T) {
	cfg := testConfig(t)
	infra := newFakeManager()
	r, k8s, snaps, events := testReconciler(t, cfg, infra)

	result, err := r.Apply(context.Background())
	require.NoError(t, err)

	// Phases ran in declared order.
	assert.Equal(t, ApplyPhases(), startedPhases(*events))

	// Control plane and outputs.
	require.NotNil(t, result.Cluster)
	assert.Equal(t, "demo", result.Cluster.Name)
	assert.Contains(t, string(result.Kubeconfig), "eksforge@demo.eu-central-1")
	assert.ElementsMatch(t, []string{"api", "audit", "authenticator", "controllerManager", "scheduler"}, infra.loggingTypes)

	// The selector resolved to real instance types.
	ng := infra.nodeGroups["workers"]
	assert.Contains(t, ng.InstanceTypes, "m7i.large")
	assert.LessOrEqual(t, len(ng.InstanceTypes), 4)
	assert.Equal(t, "AL2023_x86_64_STANDARD", ng.AMIType)
	assert.Equal(t, 2, ng.DesiredSize)

	// SSH access without a public key generated one.
	require.NotEmpty(t, result.GeneratedPrivateKey)
	assert.Equal(t, "demo-workers", ng.SSHKeyName)
	assert.Contains(t, string(infra.importedKeys["demo-workers"]), "ssh-rsa")

	// IRSA: with_oidc defaults the EBS CSI policy, so one role appears
	// and flows into the native addon spec.
	require.Len(t, infra.irsaSpecs, 1)
	assert.Equal(t, "demo-aws-ebs-csi-driver-irsa", infra.irsaSpecs[0].RoleName)
	assert.Equal(t, "ebs-csi-controller-sa", infra.irsaSpecs[0].ServiceAccount)

	var csiSpec string
	for _, spec := range infra.addonSpecs {
		if spec.AddonName == addons.NameEBSCSI {
			csiSpec = spec.ServiceAccountRoleARN
		}
	}
	assert.Equal(t, "arn:aws:iam::123456789012:role/demo-aws-ebs-csi-driver-irsa", csiSpec)

	// Storage classes were applied as manifests.
	require.NotEmpty(t, k8s.applied)
	assert.Contains(t, string(k8s.applied[0]), "StorageClass")

	// Snapshot written.
	assert.Equal(t, 1, snaps.puts)
	assert.Contains(t, result.SnapshotKey, "snapshots/demo/")
}

func TestApply_WithoutOIDC(t *testing.T) {
	cfg := testConfig(t)
	cfg.IAM.WithOIDC = false
	// Re-run defaulting: without OIDC the CSI driver gets no policy set.
	cfg.Addons.EBSCSI.PolicyARNs = nil

	infra := newFakeManager()
	r, _, _, events := testReconciler(t, cfg, infra)

	_, err := r.Apply(context.Background())
	require.NoError(t, err)

	assert.Empty(t, infra.irsaSpecs)
	for _, call := range infra.calls {
		assert.NotEqual(t, "EnsureOIDCProvider", call)
	}

	var skipped []string
	for _, ev := range *events {
		if ev.Status == StatusSkipped {
			skipped = append(skipped, ev.Phase)
		}
	}
	assert.Contains(t, skipped, PhaseIdentity)
}

func TestApply_ExplicitServiceRole(t *testing.T) {
	cfg := testConfig(t)
	cfg.IAM.ServiceRoleARN = "arn:aws:iam::123456789012:role/byo-cluster-role"

	infra := newFakeManager()
	r, _, _, _ := testReconciler(t, cfg, infra)

	_, err := r.Apply(context.Background())
	require.NoError(t, err)

	for _, call := range infra.calls {
		assert.NotEqual(t, "EnsureClusterRole", call)
	}
}

func TestApply_ClusterFailure(t *testing.T) {
	cfg := testConfig(t)
	infra := newFakeManager()
	infra.clusterErr = errors.New("limit exceeded")
	r, _, _, events := testReconciler(t, cfg, infra)

	_, err := r.Apply(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phase cluster failed")

	var failed []string
	for _, ev := range *events {
		if ev.Status == StatusFailed {
			failed = append(failed, ev.Phase)
		}
	}
	assert.Equal(t, []string{PhaseCluster}, failed)
}

func TestApply_UnresolvableSelector(t *testing.T) {
	cfg := testConfig(t)
	cfg.NodeGroups[0].Selector = &config.InstanceSelector{MemoryGiB: 3, VCPUs: 7}

	infra := newFakeManager()
	r, _, _, _ := testReconciler(t, cfg, infra)

	_, err := r.Apply(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no amd64 instance type")
}

func TestIRSATargets(t *testing.T) {
	cfg := testConfig(t)
	cfg.Addons.ClusterAutoscaler.Enabled = true

	targets := irsaTargets(cfg)
	var names []string
	for _, target := range targets {
		names = append(names, target.addon)
	}
	assert.Equal(t, []string{addons.NameEBSCSI, addons.NameClusterAutoscaler}, names)

	last := targets[len(targets)-1]
	assert.Equal(t, "cluster-autoscaler", last.serviceAccount)
	assert.Equal(t, []string{autoscalerPolicyARN}, last.policyARNs)
}

func TestIRSATargets_ExplicitRoleWins(t *testing.T) {
	cfg := testConfig(t)
	cfg.Addons.EBSCSI.ServiceAccountRoleARN = "arn:aws:iam::123456789012:role/byo"

	for _, target := range irsaTargets(cfg) {
		assert.NotEqual(t, addons.NameEBSCSI, target.addon)
	}
}

func TestManifestBundle(t *testing.T) {
	cfg := testConfig(t)

	bundle, err := ManifestBundle(context.Background(), cfg)
	require.NoError(t, err)

	require.Contains(t, bundle, addons.NameStorageClasses)
	manifests := string(bundle[addons.NameStorageClasses])
	assert.Contains(t, manifests, "kind: StorageClass")
	assert.Contains(t, manifests, "ebs.csi.aws.com")
	assert.False(t, strings.Contains(manifests, "metrics-server"))
}
