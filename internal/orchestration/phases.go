package orchestration

import (
	"context"
	"fmt"
	"log"

	"github.com/eksforge/eksforge/internal/addons"
	"github.com/eksforge/eksforge/internal/config"
	"github.com/eksforge/eksforge/internal/kubeconfig"
	"github.com/eksforge/eksforge/internal/platform/aws"
	"github.com/eksforge/eksforge/internal/util/keygen"
	"github.com/eksforge/eksforge/internal/util/retry"
)

// autoscalerPolicyARN grants the cluster autoscaler scaling permissions
// when an IRSA role is generated for it.
const autoscalerPolicyARN = "arn:aws:iam::aws:policy/AutoScalingFullAccess"

// sshKeyBits sizes generated node SSH keys.
const sshKeyBits = 4096

func (r *Reconciler) ensureRoles(ctx context.Context, state *applyState) error {
	if r.cfg.IAM.ServiceRoleARN != "" {
		state.clusterRoleARN = r.cfg.IAM.ServiceRoleARN
	} else {
		arn, err := r.infra.EnsureClusterRole(ctx, r.cfg.ClusterName, r.cfg.Tags)
		if err != nil {
			return fmt.Errorf("failed to ensure cluster role: %w", err)
		}
		state.clusterRoleARN = arn
	}

	arn, err := r.infra.EnsureNodeRole(ctx, r.cfg.ClusterName, r.cfg.Tags)
	if err != nil {
		return fmt.Errorf("failed to ensure node role: %w", err)
	}
	state.nodeRoleARN = arn
	return nil
}

func (r *Reconciler) resolveNetwork(ctx context.Context, state *applyState) error {
	subnets, err := r.infra.DefaultSubnets(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve subnets: %w", err)
	}
	state.subnetIDs = subnets
	return nil
}

func (r *Reconciler) ensureCluster(ctx context.Context, state *applyState) error {
	spec := aws.ClusterSpec{
		Name:      r.cfg.ClusterName,
		Version:   r.cfg.Version,
		RoleARN:   state.clusterRoleARN,
		SubnetIDs: state.subnetIDs,
		LogTypes:  r.cfg.Logging.Types(),
		Tags:      r.cfg.Tags,
	}

	return retry.WithExponentialBackoff(ctx, func() error {
		cluster, err := r.infra.EnsureCluster(ctx, spec)
		if err != nil {
			return err
		}
		state.cluster = cluster
		return nil
	}, retry.WithRetryIf(aws.IsThrottled))
}

func (r *Reconciler) ensureLogging(ctx context.Context, state *applyState) error {
	return r.infra.EnsureLogging(ctx, r.cfg.ClusterName, r.cfg.Logging.Types())
}

func (r *Reconciler) ensureIdentity(ctx context.Context, state *applyState) error {
	if !r.cfg.IAM.WithOIDC {
		r.skip(PhaseIdentity, "iam.with_oidc is disabled")
		return nil
	}
	if state.cluster.OIDCIssuer == "" {
		return fmt.Errorf("cluster %s reports no OIDC issuer", r.cfg.ClusterName)
	}

	providerARN, err := r.infra.EnsureOIDCProvider(ctx, state.cluster.OIDCIssuer, r.cfg.Tags)
	if err != nil {
		return fmt.Errorf("failed to ensure OIDC provider: %w", err)
	}
	state.providerARN = providerARN

	for _, target := range irsaTargets(r.cfg) {
		arn, err := r.infra.EnsureServiceAccountRole(ctx, aws.ServiceAccountRoleSpec{
			ClusterName:     r.cfg.ClusterName,
			RoleName:        irsaRoleName(r.cfg.ClusterName, target.addon),
			Namespace:       "kube-system",
			ServiceAccount:  target.serviceAccount,
			PolicyARNs:      target.policyARNs,
			OIDCIssuer:      state.cluster.OIDCIssuer,
			OIDCProviderARN: providerARN,
			Tags:            r.cfg.Tags,
		})
		if err != nil {
			return fmt.Errorf("failed to ensure IRSA role for %s: %w", target.addon, err)
		}
		state.irsaRoleARNs[target.addon] = arn
	}
	return nil
}

func (r *Reconciler) ensureSSHKeys(ctx context.Context, state *applyState) error {
	var generated *keygen.KeyPair

	for _, ng := range r.cfg.NodeGroups {
		if !ng.SSH.Allow {
			continue
		}

		publicKey := []byte(ng.SSH.PublicKey)
		if len(publicKey) == 0 {
			if generated == nil {
				kp, err := keygen.GenerateRSAKeyPair(sshKeyBits)
				if err != nil {
					return fmt.Errorf("failed to generate SSH key pair: %w", err)
				}
				generated = kp
				state.result.GeneratedPrivateKey = kp.PrivateKey
			}
			publicKey = generated.PublicKey
		}

		name := sshKeyName(r.cfg.ClusterName, ng.Name)
		if err := r.infra.ImportKeyPair(ctx, name, publicKey, r.cfg.Tags); err != nil {
			return fmt.Errorf("failed to import key pair for node group %s: %w", ng.Name, err)
		}
		state.sshKeyNames[ng.Name] = name
	}

	if len(state.sshKeyNames) == 0 {
		r.skip(PhaseSSHKeys, "no node group allows SSH")
	}
	return nil
}

func (r *Reconciler) ensureNodeGroups(ctx context.Context, state *applyState) error {
	for _, ng := range r.cfg.NodeGroups {
		types, err := r.catalog.Resolve(ng)
		if err != nil {
			return err
		}
		log.Printf("Node group %s resolved to instance types %v", ng.Name, types)

		spec := aws.NodeGroupSpec{
			ClusterName:   r.cfg.ClusterName,
			Name:          ng.Name,
			NodeRoleARN:   state.nodeRoleARN,
			SubnetIDs:     state.subnetIDs,
			InstanceTypes: types,
			AMIType:       ng.Arch.AMIType(),
			CapacitySpot:  ng.Spot,
			MinSize:       ng.MinSize,
			MaxSize:       ng.MaxSize,
			DesiredSize:   ng.Desired,
			DiskSizeGiB:   ng.VolumeSizeGiB,
			Labels:        ng.Labels,
			Taints:        nodeTaints(ng.Taints),
			SSHKeyName:    state.sshKeyNames[ng.Name],
			Tags:          r.cfg.Tags,
		}

		err = retry.WithExponentialBackoff(ctx, func() error {
			return r.infra.EnsureNodeGroup(ctx, spec)
		}, retry.WithRetryIf(aws.IsThrottled))
		if err != nil {
			return fmt.Errorf("failed to ensure node group %s: %w", ng.Name, err)
		}
	}
	return nil
}

func (r *Reconciler) buildKubeconfig(ctx context.Context, state *applyState) error {
	data, err := kubeconfig.Build(state.cluster, r.cfg.Region)
	if err != nil {
		return err
	}
	state.result.Kubeconfig = data
	return nil
}

func (r *Reconciler) ensureAddons(ctx context.Context, state *applyState) error {
	k8s, err := r.newK8sClient(state.result.Kubeconfig)
	if err != nil {
		return fmt.Errorf("failed to build cluster client: %w", err)
	}

	installer := &nativeInstaller{infra: r.infra, clusterName: r.cfg.ClusterName}
	mgr := addons.NewManager(r.cfg, k8s, installer, addons.DefaultInstallOptions(), state.irsaRoleARNs)
	return mgr.EnsureAddons(ctx)
}

func (r *Reconciler) writeSnapshot(ctx context.Context, state *applyState) error {
	if r.snapshot == nil || !r.cfg.Snapshots.Enabled {
		r.skip(PhaseSnapshot, "snapshots are disabled")
		return nil
	}
	key, err := r.snapshot.PutSnapshot(ctx, r.cfg)
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	state.result.SnapshotKey = key
	return nil
}

// irsaTarget describes an addon that gets a generated IRSA role.
type irsaTarget struct {
	addon          string
	serviceAccount string
	policyARNs     []string
}

// irsaTargets returns the addons needing generated IRSA roles: native
// addons with a configured policy set and no explicit role, plus the
// cluster autoscaler.
func irsaTargets(cfg *config.Config) []irsaTarget {
	natives := []struct {
		name       string
		sa         string
		cfg        config.NativeAddon
		enabledDef bool
	}{
		{addons.NameVPCCNI, "aws-node", cfg.Addons.VPCCNI, true},
		{addons.NameCoreDNS, "coredns", cfg.Addons.CoreDNS, true},
		{addons.NameKubeProxy, "kube-proxy", cfg.Addons.KubeProxy, true},
		{addons.NameEBSCSI, "ebs-csi-controller-sa", cfg.Addons.EBSCSI, cfg.Storage.Provider == "aws"},
	}

	var targets []irsaTarget
	for _, n := range natives {
		if !n.cfg.On(n.enabledDef) || n.cfg.ServiceAccountRoleARN != "" || len(n.cfg.PolicyARNs) == 0 {
			continue
		}
		targets = append(targets, irsaTarget{
			addon:          n.name,
			serviceAccount: n.sa,
			policyARNs:     n.cfg.PolicyARNs,
		})
	}

	if cfg.Addons.ClusterAutoscaler.Enabled {
		targets = append(targets, irsaTarget{
			addon:          addons.NameClusterAutoscaler,
			serviceAccount: "cluster-autoscaler",
			policyARNs:     []string{autoscalerPolicyARN},
		})
	}
	return targets
}

func irsaRoleName(clusterName, addonName string) string {
	return fmt.Sprintf("%s-%s-irsa", clusterName, addonName)
}

func sshKeyName(clusterName, nodeGroupName string) string {
	return fmt.Sprintf("%s-%s", clusterName, nodeGroupName)
}

func nodeTaints(taints []config.Taint) []aws.NodeTaint {
	if len(taints) == 0 {
		return nil
	}
	out := make([]aws.NodeTaint, len(taints))
	for i, t := range taints {
		out[i] = aws.NodeTaint{Key: t.Key, Value: t.Value, Effect: t.Effect}
	}
	return out
}
