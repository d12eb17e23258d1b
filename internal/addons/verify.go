package addons

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/eksforge/eksforge/internal/addons/k8sclient"
)

// Endpoint polling cadence during post-install verification. The overall
// installation timeout still bounds the whole pass.
const (
	serviceReadyInterval = 10 * time.Second
	serviceReadyTimeout  = 5 * time.Minute
)

// waitForService blocks until the named service has at least one ready
// endpoint, or the deadline expires.
func waitForService(ctx context.Context, k8s k8sclient.Client, namespace, name string) error {
	err := wait.PollUntilContextTimeout(ctx, serviceReadyInterval, serviceReadyTimeout, true,
		func(ctx context.Context) (bool, error) {
			return k8s.HasReadyEndpoints(ctx, namespace, name)
		})
	if err != nil {
		return fmt.Errorf("service %s/%s has no ready endpoints: %w", namespace, name, err)
	}
	return nil
}
