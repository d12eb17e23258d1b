package wizard

import "github.com/eksforge/eksforge/internal/config"

// BuildConfig creates a full, defaulted Config from the wizard result.
func BuildConfig(result *WizardResult) *config.Config {
	size := config.NodeSize(result.NodeSize)
	sel := size.Selector()

	cfg := &config.Config{
		ClusterName: result.ClusterName,
		Region:      result.Region,
		Version:     result.KubernetesVersion,
		Logging:     config.LoggingConfig{Enabled: result.EnableLogging},
		IAM:         config.IAMConfig{WithOIDC: result.WithOIDC},
		NodeGroups: []config.NodeGroup{{
			Name:     "workers",
			Arch:     config.Arch(result.Architecture),
			MinSize:  1,
			MaxSize:  result.WorkerCount + 2,
			Desired:  result.WorkerCount,
			Selector: &sel,
			Spot:     result.Spot,
			SSH:      config.SSHAccess{Allow: result.AllowSSH},
		}},
		Snapshots: config.SnapshotConfig{Enabled: result.SnapshotsEnabled},
	}

	cfg.Addons.MetricsServer.Enabled = containsAddon(result.EnabledAddons, "metrics_server")
	cfg.Addons.ClusterAutoscaler.Enabled = containsAddon(result.EnabledAddons, "cluster_autoscaler")
	cfg.Addons.AWSLoadBalancer.Enabled = containsAddon(result.EnabledAddons, "aws_load_balancer_controller")

	cfg.ApplyDefaults()
	return cfg
}
