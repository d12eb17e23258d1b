package orchestration

import (
	"context"
	"fmt"
	"log"

	"github.com/eksforge/eksforge/internal/addons"
	"github.com/eksforge/eksforge/internal/addons/k8sclient"
	"github.com/eksforge/eksforge/internal/config"
	"github.com/eksforge/eksforge/internal/instances"
	"github.com/eksforge/eksforge/internal/platform/aws"
)

// SnapshotWriter persists the effective descriptor after a successful
// apply. *s3.SnapshotStore implements it.
type SnapshotWriter interface {
	PutSnapshot(ctx context.Context, cfg *config.Config) (string, error)
}

// Reconciler orchestrates the cluster provisioning workflow.
type Reconciler struct {
	infra    aws.ClusterManager
	cfg      *config.Config
	catalog  *instances.Catalog
	report   Reporter
	snapshot SnapshotWriter

	// newK8sClient is replaceable in tests.
	newK8sClient func(kubeconfig []byte) (k8sclient.Client, error)
}

// Option adjusts reconciler behavior.
type Option func(*Reconciler)

// WithCatalog supplies the instance-type catalog used to resolve node
// group selectors. Defaults to the built-in catalog.
func WithCatalog(c *instances.Catalog) Option {
	return func(r *Reconciler) { r.catalog = c }
}

// WithReporter installs a phase event consumer.
func WithReporter(rep Reporter) Option {
	return func(r *Reconciler) { r.report = rep }
}

// WithSnapshotWriter enables descriptor snapshots after apply.
func WithSnapshotWriter(w SnapshotWriter) Option {
	return func(r *Reconciler) { r.snapshot = w }
}

// WithKubernetesFactory replaces how the in-cluster client is built.
func WithKubernetesFactory(f func(kubeconfig []byte) (k8sclient.Client, error)) Option {
	return func(r *Reconciler) { r.newK8sClient = f }
}

// NewReconciler creates a reconciler for the given descriptor.
func NewReconciler(infra aws.ClusterManager, cfg *config.Config, opts ...Option) *Reconciler {
	r := &Reconciler{
		infra:        infra,
		cfg:          cfg,
		catalog:      instances.Default(),
		newK8sClient: k8sclient.NewFromKubeconfig,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result carries the outputs of a successful apply.
type Result struct {
	Cluster    *aws.Cluster
	Kubeconfig []byte

	// GeneratedPrivateKey is set when SSH access was requested without a
	// public key and a key pair was generated during this apply.
	GeneratedPrivateKey []byte

	// SnapshotKey is the S3 object key of the descriptor snapshot, when
	// snapshots are enabled.
	SnapshotKey string
}

// applyState is the mutable state threaded through apply phases.
type applyState struct {
	clusterRoleARN string
	nodeRoleARN    string
	subnetIDs      []string
	cluster        *aws.Cluster
	providerARN    string
	// irsaRoleARNs maps addon names to generated IRSA role ARNs.
	irsaRoleARNs map[string]string
	// sshKeyNames maps node group names to imported EC2 key pair names.
	sshKeyNames map[string]string

	result Result
}

// Apply reconciles the descriptor against AWS. It is idempotent.
func (r *Reconciler) Apply(ctx context.Context) (*Result, error) {
	state := &applyState{
		irsaRoleARNs: map[string]string{},
		sshKeyNames:  map[string]string{},
	}

	phases := []struct {
		name string
		run  func(context.Context, *applyState) error
	}{
		{PhaseIAMRoles, r.ensureRoles},
		{PhaseNetwork, r.resolveNetwork},
		{PhaseCluster, r.ensureCluster},
		{PhaseLogging, r.ensureLogging},
		{PhaseIdentity, r.ensureIdentity},
		{PhaseSSHKeys, r.ensureSSHKeys},
		{PhaseNodeGroups, r.ensureNodeGroups},
		{PhaseKubeconfig, r.buildKubeconfig},
		{PhaseAddons, r.ensureAddons},
		{PhaseSnapshot, r.writeSnapshot},
	}

	for _, p := range phases {
		log.Printf("Starting phase: %s", p.name)
		r.emit(Event{Phase: p.name, Status: StatusStarted})
		if err := p.run(ctx, state); err != nil {
			r.emit(Event{Phase: p.name, Status: StatusFailed, Err: err})
			return nil, fmt.Errorf("phase %s failed: %w", p.name, err)
		}
		r.emit(Event{Phase: p.name, Status: StatusDone})
	}

	state.result.Cluster = state.cluster
	return &state.result, nil
}

func (r *Reconciler) emit(ev Event) {
	if r.report != nil {
		r.report(ev)
	}
}

// skip marks the current phase as a no-op. The surrounding loop still
// emits StatusDone, so skips surface as a message, not a distinct state.
func (r *Reconciler) skip(phase, reason string) {
	log.Printf("Skipping %s: %s", phase, reason)
	r.emit(Event{Phase: phase, Status: StatusSkipped, Message: reason})
}

// ManifestBundle renders every enabled manifest-delivered addon without
// touching AWS or a live cluster, keyed by addon name. Used by render-only
// flows.
func ManifestBundle(ctx context.Context, cfg *config.Config) (map[string][]byte, error) {
	mgr := addons.NewManager(cfg, nil, nil, addons.DefaultInstallOptions(), nil)
	out := map[string][]byte{}
	for _, addon := range mgr.Registry() {
		renderable, ok := addon.(addons.Renderable)
		if !ok || !addon.Enabled() {
			continue
		}
		manifests, err := renderable.Manifests(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", addon.Name(), err)
		}
		out[addon.Name()] = manifests
	}
	return out, nil
}
