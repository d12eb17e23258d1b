package orchestration

import (
	"context"
	"fmt"
	"log"

	"github.com/eksforge/eksforge/internal/addons"
	"github.com/eksforge/eksforge/internal/platform/aws"
)

// destroyState carries lookups taken before resources disappear.
type destroyState struct {
	// cluster is nil when the control plane is already gone.
	cluster *aws.Cluster
}

// Destroy tears the cluster down in reverse order of Apply. Resources
// that are already gone are skipped, so a partially failed destroy can be
// rerun.
func (r *Reconciler) Destroy(ctx context.Context) error {
	state := &destroyState{}

	// Capture the OIDC issuer while the control plane still exists; the
	// provider registration outlives the cluster otherwise.
	cluster, err := r.infra.GetCluster(ctx, r.cfg.ClusterName)
	switch {
	case err == nil:
		state.cluster = cluster
	case aws.IsNotFound(err):
		log.Printf("Cluster %s not found, cleaning up remaining resources", r.cfg.ClusterName)
	default:
		return fmt.Errorf("failed to look up cluster %s: %w", r.cfg.ClusterName, err)
	}

	phases := []struct {
		name string
		run  func(context.Context, *destroyState) error
	}{
		{PhaseAddons, r.destroyAddons},
		{PhaseNodeGroups, r.destroyNodeGroups},
		{PhaseSSHKeys, r.destroySSHKeys},
		{PhaseCluster, r.destroyCluster},
		{PhaseIdentity, r.destroyIdentity},
		{PhaseIAMRoles, r.destroyRoles},
	}

	for _, p := range phases {
		log.Printf("Starting teardown phase: %s", p.name)
		r.emit(Event{Phase: p.name, Status: StatusStarted})
		if err := p.run(ctx, state); err != nil {
			r.emit(Event{Phase: p.name, Status: StatusFailed, Err: err})
			return fmt.Errorf("teardown phase %s failed: %w", p.name, err)
		}
		r.emit(Event{Phase: p.name, Status: StatusDone})
	}
	return nil
}

func (r *Reconciler) destroyAddons(ctx context.Context, state *destroyState) error {
	if state.cluster == nil {
		r.skip(PhaseAddons, "cluster is gone")
		return nil
	}
	// Only the EBS CSI driver blocks cluster deletion on attached volumes;
	// the networking addons die with the control plane.
	if err := r.infra.DeleteAddon(ctx, r.cfg.ClusterName, addons.NameEBSCSI); err != nil {
		return fmt.Errorf("failed to delete addon %s: %w", addons.NameEBSCSI, err)
	}
	return nil
}

func (r *Reconciler) destroyNodeGroups(ctx context.Context, state *destroyState) error {
	if state.cluster == nil {
		r.skip(PhaseNodeGroups, "cluster is gone")
		return nil
	}
	names, err := r.infra.ListNodeGroups(ctx, r.cfg.ClusterName)
	if err != nil {
		return fmt.Errorf("failed to list node groups: %w", err)
	}
	for _, name := range names {
		log.Printf("Deleting node group %s", name)
		if err := r.infra.DeleteNodeGroup(ctx, r.cfg.ClusterName, name); err != nil {
			return fmt.Errorf("failed to delete node group %s: %w", name, err)
		}
	}
	return nil
}

func (r *Reconciler) destroySSHKeys(ctx context.Context, state *destroyState) error {
	for _, ng := range r.cfg.NodeGroups {
		if !ng.SSH.Allow {
			continue
		}
		if err := r.infra.DeleteKeyPair(ctx, sshKeyName(r.cfg.ClusterName, ng.Name)); err != nil {
			return fmt.Errorf("failed to delete key pair for node group %s: %w", ng.Name, err)
		}
	}
	return nil
}

func (r *Reconciler) destroyCluster(ctx context.Context, state *destroyState) error {
	if state.cluster == nil {
		r.skip(PhaseCluster, "cluster is gone")
		return nil
	}
	return r.infra.DeleteCluster(ctx, r.cfg.ClusterName)
}

func (r *Reconciler) destroyIdentity(ctx context.Context, state *destroyState) error {
	for _, target := range irsaTargets(r.cfg) {
		if err := r.infra.DeleteRole(ctx, irsaRoleName(r.cfg.ClusterName, target.addon)); err != nil {
			return fmt.Errorf("failed to delete IRSA role for %s: %w", target.addon, err)
		}
	}

	if state.cluster == nil || state.cluster.OIDCIssuer == "" {
		return nil
	}
	if err := r.infra.DeleteOIDCProvider(ctx, state.cluster.OIDCIssuer); err != nil {
		return fmt.Errorf("failed to delete OIDC provider: %w", err)
	}
	return nil
}

func (r *Reconciler) destroyRoles(ctx context.Context, state *destroyState) error {
	// An externally supplied service role is not ours to delete.
	if r.cfg.IAM.ServiceRoleARN == "" {
		if err := r.infra.DeleteRole(ctx, aws.ClusterRoleName(r.cfg.ClusterName)); err != nil {
			return fmt.Errorf("failed to delete cluster role: %w", err)
		}
	}
	if err := r.infra.DeleteRole(ctx, aws.NodeRoleName(r.cfg.ClusterName)); err != nil {
		return fmt.Errorf("failed to delete node role: %w", err)
	}
	return nil
}
