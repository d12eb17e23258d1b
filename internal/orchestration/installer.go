package orchestration

import (
	"context"

	"github.com/eksforge/eksforge/internal/addons"
	"github.com/eksforge/eksforge/internal/platform/aws"
	"github.com/eksforge/eksforge/internal/util/retry"
)

// nativeInstaller adapts the platform addon API to the addon layer,
// pinning the cluster name and retrying on API throttling.
type nativeInstaller struct {
	infra       aws.AddonInstaller
	clusterName string
}

func (n *nativeInstaller) EnsureAddon(ctx context.Context, spec addons.NativeSpec) error {
	return retry.WithExponentialBackoff(ctx, func() error {
		return n.infra.EnsureAddon(ctx, aws.AddonSpec{
			ClusterName:           n.clusterName,
			AddonName:             spec.AddonName,
			Version:               spec.Version,
			ServiceAccountRoleARN: spec.ServiceAccountRoleARN,
			ResolveConflicts:      spec.ResolveConflicts,
		})
	}, retry.WithRetryIf(aws.IsThrottled))
}
