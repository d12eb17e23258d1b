package addons

import (
	"context"
	"fmt"

	"github.com/eksforge/eksforge/internal/addons/helm"
	"github.com/eksforge/eksforge/internal/addons/k8sclient"
	"github.com/eksforge/eksforge/internal/config"
)

// NameClusterAutoscaler is the cluster-autoscaler add-on name.
const NameClusterAutoscaler = "cluster-autoscaler"

type clusterAutoscaler struct {
	cfg *config.Config

	// roleARN is the IRSA role the autoscaler uses to call the EC2 and
	// Auto Scaling APIs, when the reconciler created one.
	roleARN string
}

func (c *clusterAutoscaler) Name() string { return NameClusterAutoscaler }

func (c *clusterAutoscaler) Enabled() bool { return c.cfg.Addons.ClusterAutoscaler.Enabled }

func (c *clusterAutoscaler) Dependencies() []string { return []string{NameCoreDNS} }

func (c *clusterAutoscaler) Manifests(ctx context.Context) ([]byte, error) {
	spec := helm.GetChartSpec(NameClusterAutoscaler, c.cfg.Addons.ClusterAutoscaler.Helm)

	out, err := helm.RenderFromSpec(ctx, spec, "kube-system", c.cfg.Version, buildClusterAutoscalerValues(c.cfg, c.roleARN))
	if err != nil {
		return nil, fmt.Errorf("failed to render cluster-autoscaler: %w", err)
	}
	return out, nil
}

// Verify waits for the autoscaler's metrics service, which only gets
// endpoints once the controller pod is up.
func (c *clusterAutoscaler) Verify(ctx context.Context, k8s k8sclient.Client) error {
	return waitForService(ctx, k8s, "kube-system", NameClusterAutoscaler)
}

// buildClusterAutoscalerValues creates helm values for the add-on. Node
// groups are found through tag-based auto-discovery, so scaling limits stay
// with the managed node groups themselves.
func buildClusterAutoscalerValues(cfg *config.Config, roleARN string) helm.Values {
	values := helm.Merge(
		helm.AutoDiscoveryValues(cfg.ClusterName, cfg.Region),
		helm.ServiceAccountValues("cluster-autoscaler", roleARN),
	)

	values["extraArgs"] = helm.Values{
		"balance-similar-node-groups":   true,
		"skip-nodes-with-system-pods":   false,
		"skip-nodes-with-local-storage": false,
	}

	// The autoscaler has to land even while the cluster is still coming up.
	values["tolerations"] = helm.CriticalAddonTolerations()

	return helm.DeepMerge(values, cfg.Addons.ClusterAutoscaler.Helm.Values)
}
