package addons

import (
	"context"
	"fmt"

	"github.com/eksforge/eksforge/internal/addons/helm"
	"github.com/eksforge/eksforge/internal/addons/k8sclient"
	"github.com/eksforge/eksforge/internal/config"
)

// NameMetricsServer is the metrics-server add-on name.
const NameMetricsServer = "metrics-server"

type metricsServer struct {
	cfg *config.Config
}

func (m *metricsServer) Name() string { return NameMetricsServer }

func (m *metricsServer) Enabled() bool { return m.cfg.Addons.MetricsServer.Enabled }

func (m *metricsServer) Dependencies() []string { return []string{NameCoreDNS} }

func (m *metricsServer) Manifests(ctx context.Context) ([]byte, error) {
	spec := helm.GetChartSpec(NameMetricsServer, m.cfg.Addons.MetricsServer.Helm)

	out, err := helm.RenderFromSpec(ctx, spec, "kube-system", m.cfg.Version, buildMetricsServerValues(m.cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to render metrics-server: %w", err)
	}
	return out, nil
}

// Verify waits until the metrics API service answers, i.e. kubectl top
// would work.
func (m *metricsServer) Verify(ctx context.Context, k8s k8sclient.Client) error {
	return waitForService(ctx, k8s, "kube-system", "metrics-server")
}

// buildMetricsServerValues creates helm values for the add-on.
func buildMetricsServerValues(cfg *config.Config) helm.Values {
	// Two replicas once the cluster has more than one node to land them on.
	replicas := 1
	if desiredNodes(cfg) > 1 {
		replicas = 2
	}

	values := helm.Values{
		"replicas": replicas,
		"podDisruptionBudget": helm.Values{
			"enabled":        true,
			"maxUnavailable": 1,
		},
		"topologySpreadConstraints": helm.TopologySpread("metrics-server", "metrics-server", "ScheduleAnyway"),
	}

	return helm.DeepMerge(values, cfg.Addons.MetricsServer.Helm.Values)
}

// desiredNodes sums the desired size of all node groups.
func desiredNodes(cfg *config.Config) int {
	total := 0
	for _, ng := range cfg.NodeGroups {
		total += ng.Desired
	}
	return total
}
