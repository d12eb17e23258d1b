package wizard

import (
	"context"
	"fmt"

	"github.com/eksforge/eksforge/internal/config"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Cluster identity
	ClusterName       string
	Region            string
	KubernetesVersion string

	// Workers
	Architecture string
	NodeSize     string
	WorkerCount  int
	Spot         bool

	// Access
	WithOIDC      bool
	AllowSSH      bool
	EnableLogging bool

	// Extras
	EnabledAddons    []string
	SnapshotsEnabled bool
}

// DefaultResult returns the answers `eksforge init --defaults` assumes
// without prompting.
func DefaultResult() *WizardResult {
	return &WizardResult{
		ClusterName:       "my-cluster",
		Region:            "us-east-1",
		KubernetesVersion: config.DefaultVersion,
		Architecture:      string(config.ArchAMD64),
		NodeSize:          string(config.SizeMedium),
		WorkerCount:       2,
		WithOIDC:          true,
		EnableLogging:     true,
		EnabledAddons:     []string{"metrics_server"},
	}
}

// RunWizard runs the interactive configuration wizard. The context is
// used for cancellation (Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := DefaultResult()
	result.ClusterName = ""

	if err := runClusterIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("cluster identity: %w", err)
	}
	if err := runWorkersGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("workers: %w", err)
	}
	if err := runAccessGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("access: %w", err)
	}
	if err := runAddonsGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("addons: %w", err)
	}

	return result, nil
}

// containsAddon checks if an addon key is in the enabled list.
func containsAddon(addons []string, addon string) bool {
	for _, a := range addons {
		if a == addon {
			return true
		}
	}
	return false
}
