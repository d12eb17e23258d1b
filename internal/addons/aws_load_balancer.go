package addons

import (
	"context"
	"fmt"

	"github.com/eksforge/eksforge/internal/addons/helm"
	"github.com/eksforge/eksforge/internal/addons/k8sclient"
	"github.com/eksforge/eksforge/internal/config"
)

// NameAWSLoadBalancer is the AWS Load Balancer Controller add-on name.
const NameAWSLoadBalancer = "aws-load-balancer-controller"

type awsLoadBalancer struct {
	cfg     *config.Config
	roleARN string
}

func (a *awsLoadBalancer) Name() string { return NameAWSLoadBalancer }

func (a *awsLoadBalancer) Enabled() bool { return a.cfg.Addons.AWSLoadBalancer.Enabled }

func (a *awsLoadBalancer) Dependencies() []string { return []string{NameCoreDNS} }

func (a *awsLoadBalancer) Manifests(ctx context.Context) ([]byte, error) {
	spec := helm.GetChartSpec(NameAWSLoadBalancer, a.cfg.Addons.AWSLoadBalancer.Helm)

	out, err := helm.RenderFromSpec(ctx, spec, "kube-system", a.cfg.Version, buildAWSLoadBalancerValues(a.cfg, a.roleARN))
	if err != nil {
		return nil, fmt.Errorf("failed to render aws-load-balancer-controller: %w", err)
	}
	return out, nil
}

// Verify waits for the controller's webhook service. Ingress and Service
// objects created before the webhook answers would be rejected.
func (a *awsLoadBalancer) Verify(ctx context.Context, k8s k8sclient.Client) error {
	return waitForService(ctx, k8s, "kube-system", "aws-load-balancer-webhook-service")
}

// buildAWSLoadBalancerValues creates helm values for the controller. The
// VPC is discovered from the cluster, so only cluster identity is wired in.
func buildAWSLoadBalancerValues(cfg *config.Config, roleARN string) helm.Values {
	values := helm.Merge(
		helm.Values{
			"clusterName": cfg.ClusterName,
			"region":      cfg.Region,
		},
		helm.ServiceAccountValues("aws-load-balancer-controller", roleARN),
	)

	return helm.DeepMerge(values, cfg.Addons.AWSLoadBalancer.Helm.Values)
}
